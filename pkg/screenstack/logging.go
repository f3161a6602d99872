package screenstack

import (
	"log/slog"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/internal"
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before New() to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging. It shares
// its output with the navigator's own lifecycle log.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// SetEngineLogLevel sets the level of the navigator's lifecycle log, which
// is quiet (error only) unless raised.
func SetEngineLogLevel(level slog.Level) {
	internal.SetInternalLogLevel(level)
}

// CloseLogger closes the log file shared by every navigator. Call it once at
// application shutdown, after the last navigator is closed.
func CloseLogger() {
	internal.CloseLogger()
}
