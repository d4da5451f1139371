package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

func init() {
	Logger = New(os.Stdout, "info")
}

// New builds a JSON logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Configure replaces the package logger.
func Configure(w io.Writer, level string) {
	Logger = New(w, level)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// BadgerLogger satisfies badger.Logger and forwards to the package logger.
type BadgerLogger struct{}

func (BadgerLogger) Errorf(format string, args ...interface{}) {
	Logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (BadgerLogger) Warningf(format string, args ...interface{}) {
	Logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (BadgerLogger) Infof(format string, args ...interface{}) {
	Logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (BadgerLogger) Debugf(format string, args ...interface{}) {
	Logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
