package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// CreateTestFilesystem creates source and destination filesystems for testing
func CreateTestFilesystem() (afero.Fs, afero.Fs) {
	return afero.NewMemMapFs(), afero.NewMemMapFs()
}

// CreateTestFilesystemWithContent creates filesystems with initial content
func CreateTestFilesystemWithContent(files map[string]string) (afero.Fs, afero.Fs) {
	sourceFs, destFs := CreateTestFilesystem()
	for path, content := range files {
		dir := filepath.Dir(path)
		if err := sourceFs.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
		if err := afero.WriteFile(sourceFs, path, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	return sourceFs, destFs
}

// AssertFileExists checks if a file exists in the filesystem
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
