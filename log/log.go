package log

import (
	"io"
	"os"

	"github.com/paularlott/logger"
	logslog "github.com/paularlott/logger/slog"
)

var defaultLogger logger.Logger

func init() {
	defaultLogger = newLogger("info", "console", os.Stdout)
}

func newLogger(level, format string, w io.Writer) logger.Logger {
	return logslog.New(logslog.Config{
		Level:  level,
		Format: format,
		Writer: w,
	})
}

// Configure sets up the logger
func Configure(level, format string) {
	defaultLogger = newLogger(level, format, os.Stdout)
}

// ConfigureWriter sends log output to w, used by commands whose stdout carries data.
func ConfigureWriter(level, format string, w io.Writer) {
	defaultLogger = newLogger(level, format, w)
}

// Package-level functions for convenience
func Info(msg string, keysAndValues ...any) {
	defaultLogger.Info(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	defaultLogger.Debug(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	defaultLogger.Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	defaultLogger.Error(msg, keysAndValues...)
}

func With(key string, value any) logger.Logger {
	return defaultLogger.With(key, value)
}

func WithError(err error) logger.Logger {
	return defaultLogger.WithError(err)
}

// Component returns a logger tagged with the component name.
func Component(name string) logger.Logger {
	return defaultLogger.With("component", name)
}

func GetLogger() logger.Logger {
	return defaultLogger
}
