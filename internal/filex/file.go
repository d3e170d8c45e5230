// Package filex resolves and prepares the on-disk location of client state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// userConfigDir is a test seam for os.UserConfigDir.
var userConfigDir = os.UserConfigDir

// EnsureDir creates dir (and parents) with owner-only permissions.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureParentDir makes sure the directory holding path exists.
func EnsureParentDir(path string) error {
	_, err := EnsureDir(filepath.Dir(path))
	return err
}

// DefaultStatePath returns <user config dir>/<appName>/<fileName>, creating
// the application directory on the way.
func DefaultStatePath(appName, fileName string) (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	dir, err := EnsureDir(filepath.Join(base, appName))
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, fileName), nil
}
