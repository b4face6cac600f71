// Package obslog provides the leveled Trace/Debug/Info/Warn/Error calls
// the original implementation's Logger.hpp offers, as a thin wrapper over
// the standard library logger rather than a separate logging dependency —
// the teacher codebase never imports one either.
package obslog

import (
	"log"
	"os"
)

// Level is a logging verbosity threshold, ordered from most to least
// chatty.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger gates log.Printf calls by level.
type Logger struct {
	min    Level
	logger *log.Logger
}

// Default is the package-level logger used by the package-level helper
// functions, writing to stderr at Info level by default.
var Default = New(LevelInfo)

// New creates a Logger writing to stderr with the given minimum level.
func New(min Level) *Logger {
	return &Logger{min: min, logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetLevel changes the minimum level that will be emitted.
func (l *Logger) SetLevel(min Level) { l.min = min }

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if level < l.min {
		return
	}
	l.logger.Printf("[%s] "+format, append([]interface{}{level}, args...)...)
}

// Trace logs at LevelTrace.
func (l *Logger) Trace(format string, args ...interface{}) { l.logf(LevelTrace, format, args...) }

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// Trace logs at LevelTrace on the default logger.
func Trace(format string, args ...interface{}) { Default.Trace(format, args...) }

// Debug logs at LevelDebug on the default logger.
func Debug(format string, args ...interface{}) { Default.Debug(format, args...) }

// Info logs at LevelInfo on the default logger.
func Info(format string, args ...interface{}) { Default.Info(format, args...) }

// Warn logs at LevelWarn on the default logger.
func Warn(format string, args ...interface{}) { Default.Warn(format, args...) }

// Error logs at LevelError on the default logger.
func Error(format string, args ...interface{}) { Default.Error(format, args...) }
