package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogToStderr as logging.file sends readable text logs to stderr instead of
// a JSON file. Only useful with the headless commands; the TUI owns the screen.
const LogToStderr = "stderr"

var logLevels = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARN":    slog.LevelWarn,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// SetupLogger builds the logger described by cfg. An empty file disables logging.
func SetupLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	switch cfg.File {
	case "":
		return NullLogger(), nil
	case LogToStderr:
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}

	logPath := expandHome(cfg.File)
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return slog.New(slog.NewJSONHandler(logFile, opts)), nil
}

// parseLogLevel maps a level name to slog.Level, defaulting to info
func parseLogLevel(level string) slog.Level {
	if l, ok := logLevels[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
