// Package appdir locates the per-user state directory (~/.rotcat).
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".rotcat"

var (
	appDirOnce  sync.Once
	appDirCache string
	appDirErr   error
)

// AppDir returns the state directory path without creating it.
func AppDir() (string, error) {
	appDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			appDirErr = fmt.Errorf("appdir: cannot resolve home directory: %w", err)
			return
		}
		appDirCache = filepath.Join(home, dirName)
	})
	return appDirCache, appDirErr
}

// Ensure creates the state directory when missing and returns its path.
func Ensure() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("appdir: cannot create %s: %w", dir, err)
	}
	return dir, nil
}

// Path joins name onto the state directory, creating the directory first.
func Path(name string) (string, error) {
	dir, err := Ensure()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
