package server

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// validatePath ensures that the user-provided path is within the base directory
// and prevents path traversal attacks.
func validatePath(baseDir, userPath string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}

	cleanPath := filepath.Clean(filepath.FromSlash(userPath))

	absUserPath, err := filepath.Abs(filepath.Join(absBase, cleanPath))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absUserPath, absBase) {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	relPath, err := filepath.Rel(absBase, absUserPath)
	if err != nil {
		return "", fmt.Errorf("path validation error: %w", err)
	}
	if strings.Contains(relPath, "..") {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	return absUserPath, nil
}

// normalizeRequestPath cleans the request path and guarantees a leading slash.
func normalizeRequestPath(rawPath string) string {
	if rawPath == "" {
		return "/"
	}
	if !strings.HasPrefix(rawPath, "/") {
		rawPath = "/" + rawPath
	}
	return path.Clean(rawPath)
}
