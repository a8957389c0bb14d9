//go:build darwin

package powerfulcases

import (
	"os"
	"path/filepath"
)

// getDefaultCacheDir returns the default cache directory for macOS:
// ~/Library/Caches/powerfulcases/
func getDefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Caches", "powerfulcases"), nil
}
