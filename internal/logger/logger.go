// Package logger holds the process logger of the treemodel tools.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// L is the process logger. It discards everything until Init is called.
var L *slog.Logger = slog.New(slog.DiscardHandler)

// Options configures Init.
type Options struct {
	Level slog.Level // Minimum level
	File  string     // Log file, appended to as JSON. Empty logs text to stderr
}

var logFile *os.File

// Init replaces L according to opts. A previously opened log file is closed.
func Init(opts Options) error {
	if opts.File == "" {
		setOutput(nil)
		L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Level}))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	setOutput(f)
	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	return nil
}

func setOutput(f *os.File) {
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
}

// Close closes the log file, if any, and goes back to discarding.
func Close() error {
	L = slog.New(slog.DiscardHandler)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ParseLevel accepts debug, info, warn/warning and error. Empty is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
