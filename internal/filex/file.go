// Package filex contains filesystem helpers for the gallery client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the working directory (or uses it as
// is when absolute) and returns its path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SaveInDir writes data to dir under the base name of name, so keys such as
// "uploads/cat.png" land as dir/cat.png. It returns the written path.
func SaveInDir(dir, name string, data []byte) (string, error) {
	base := filepath.Base(filepath.FromSlash(name))
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
