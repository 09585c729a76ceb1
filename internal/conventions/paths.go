package conventions

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// DefaultDataDir is the default pulse data directory name (relative to home).
	DefaultDataDir = ".pypulse"
	// WindowsDataDir is the data directory name under %APPDATA% on Windows.
	WindowsDataDir = "pypulse"

	// State documents shared with the observer widget.

	// ProgressFile is the filename of the current-progress document.
	ProgressFile = "progress.json"
	// HistoryFile is the filename of the completed-tasks document.
	HistoryFile = "history.json"
	// WidgetPositionFile is the filename of the widget position document.
	WidgetPositionFile = "widget_position.json"

	// SettingsFile is the optional user settings file inside the data dir.
	SettingsFile = "config.yaml"
)

// DataDir returns the platform-appropriate pulse data directory for the
// given home directory: %APPDATA%\pypulse on Windows, ~/.pypulse elsewhere.
func DataDir(home string) string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, WindowsDataDir)
		}
	}
	return filepath.Join(home, DefaultDataDir)
}

// ProgressPath returns the full path of the progress document.
func ProgressPath(dataDir string) string {
	return filepath.Join(dataDir, ProgressFile)
}

// HistoryPath returns the full path of the history document.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, HistoryFile)
}

// WidgetPositionPath returns the full path of the widget position document.
func WidgetPositionPath(dataDir string) string {
	return filepath.Join(dataDir, WidgetPositionFile)
}

// SettingsPath returns the full path of the user settings file.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, SettingsFile)
}
