package simplelogger

import (
	"log/slog"
	"os"
)

// EnvVar names the file FromEnv logs to.
const EnvVar = "ARTIFACTVIEW_LOG_FILE"

// New returns a logger that appends text records at or above level to the file at path, and a func that closes the file.
//
// If path is empty or can't be opened as a file, the logger discards everything. close is never nil.
func New(path string, level slog.Level) (logger *slog.Logger, close func() error) {
	noop := func() error { return nil }
	if path == "" {
		return slog.New(slog.DiscardHandler), noop
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler), noop
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close
}

// FromEnv returns New(os.Getenv(EnvVar), slog.LevelDebug).
func FromEnv() (*slog.Logger, func() error) {
	return New(os.Getenv(EnvVar), slog.LevelDebug)
}
