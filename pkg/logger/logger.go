package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/rs/zerolog"
)

// AppLogger implements the domain.Logger interface on top of zerolog
type AppLogger struct {
	logger zerolog.Logger
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger(levelStr string) domain.Logger {
	return NewLoggerWithWriter(levelStr, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing to w
func NewLoggerWithWriter(levelStr string, w io.Writer) domain.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(w).
		Level(parseLogLevel(levelStr)).
		With().
		Timestamp().
		Logger()

	return &AppLogger{logger: zl}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info().Fields(pairs(fields)).Msg(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.logger.Error().Err(err).Fields(pairs(fields)).Msg(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug().Fields(pairs(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn().Fields(pairs(fields)).Msg(msg)
}

// pairs turns alternating key/value arguments into a field map. A trailing key
// without a value is dropped.
func pairs(fields []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, isErr := fields[i+1].(error); isErr {
			out[key] = err.Error()
			continue
		}
		out[key] = fields[i+1]
	}
	return out
}

// parseLogLevel converts string log level to a zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
