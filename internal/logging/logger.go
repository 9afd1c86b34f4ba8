// Package logging provides the flight computer's shared structured
// logger: one JSON-formatted logrus instance, level-controlled by the
// MFC_LOG_LEVEL environment variable.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger instance. Every package logs
// through this rather than constructing its own.
var Logger *logrus.Logger

func init() {
	level := os.Getenv("MFC_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	Logger = NewLogger(level, "stdout")
}

// NewLogger creates a new configured logger
func NewLogger(level, output string) *logrus.Logger {
	logger := logrus.New()

	// Set log level
	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	// Set output
	if output == "stdout" {
		logger.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.SetOutput(file)
		} else {
			logger.SetOutput(os.Stdout)
			logger.Warnf("Failed to open log file %s, using stdout", output)
		}
	}

	// JSON format for structured logging
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	return logger
}

// SetLogLevel changes the log level at runtime
func SetLogLevel(level string) {
	switch level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "info":
		Logger.SetLevel(logrus.InfoLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	}
}
