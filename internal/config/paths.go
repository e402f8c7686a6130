package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the chatrelay data directory.
// - Windows: %APPDATA%\chatrelay
// - Other OS: ~/.chatrelay
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chatrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatrelay"
	}
	return filepath.Join(home, ".chatrelay")
}

// PreferencesPath returns the path to the client preferences database.
func PreferencesPath() string {
	return filepath.Join(DataDir(), "preferences.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
