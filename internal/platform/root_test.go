package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   project/ (matrixvault.yaml)
	//     data/
	//       nested/
	//   empty/
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	nestedDir := filepath.Join(projectDir, "data", "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte("format: json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory with the config name is not a marker.
	if err := os.Mkdir(filepath.Join(emptyDir, ConfigFileName), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{"Start at Root", projectDir, projectDir, false},
		{"Start Nested Deeply", nestedDir, projectDir, false},
		{"No Root Found", emptyDir, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrRootNotFound) {
					t.Errorf("FindRoot() error = %v, want ErrRootNotFound", err)
				}
				return
			}
			if filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
