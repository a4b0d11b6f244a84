package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SetupLogger opens the configured log file and returns a JSON slog logger
// writing to it. The returned closer releases the file.
func SetupLogger(cfg *LoggingConfig) (*slog.Logger, io.Closer, error) {
	logPath := ExpandPath(cfg.File)
	if logPath == "" {
		return NullLogger(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: ParseLogLevel(cfg.Level),
	})
	return slog.New(handler).With("app", "kinostat"), logFile, nil
}

// ParseLogLevel converts a string log level to slog.Level, defaulting to INFO
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
