package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	inTemp := filepath.Join(os.TempDir(), "already", "here")
	devRoot := filepath.Join(os.TempDir(), "mvault-dev")

	tests := []struct {
		name      string
		path      string
		forceTemp bool
		want      string
	}{
		{"Passthrough", "data/matrices", false, "data/matrices"},
		{"Empty Means Cwd", "", false, "."},
		{"Re-rooted", "data/matrices", true, filepath.Join(devRoot, "matrices")},
		{"Dot Becomes Default", ".", true, filepath.Join(devRoot, "default")},
		{"Temp Path Trusted", inTemp, true, inTemp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.path, tt.forceTemp); got != tt.want {
				t.Errorf("ResolvePath(%q, %v) = %q, want %q", tt.path, tt.forceTemp, got, tt.want)
			}
		})
	}
}
