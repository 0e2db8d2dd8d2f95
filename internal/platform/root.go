package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the CLI configuration file looked up by FindRoot.
const ConfigFileName = "matrixvault.yaml"

// ErrRootNotFound is returned when no ancestor holds a config file.
var ErrRootNotFound = errors.New("matrixvault.yaml not found")

// FindRoot walks upwards from startDir and returns the first directory
// containing ConfigFileName.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, ConfigFileName) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
