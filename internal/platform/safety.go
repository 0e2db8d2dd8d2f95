package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath returns the directory a vault actually uses. With forceTemp
// the path is re-rooted under <tmp>/mvault-dev unless it already lives in
// the temp directory.
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if filepath.IsAbs(clean) {
		if rel, err := filepath.Rel(tempRoot, clean); err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(tempRoot, "mvault-dev", sub)
}
