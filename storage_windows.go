//go:build windows

package powerfulcases

import (
	"os"
	"path/filepath"
)

// getDefaultCacheDir returns the default cache directory for Windows:
// %LOCALAPPDATA%\powerfulcases\ with a home-directory fallback.
func getDefaultCacheDir() (string, error) {
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, "powerfulcases"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".powerfulcases"), nil
}
