package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// logger is the process-wide logger, replaced in main once the log level is known
var logger = NewLogger(LogLevelNormal)

// LogLevel represents the logging verbosity level
type LogLevel int

const (
	LogLevelSilent  LogLevel = iota // Only errors
	LogLevelNormal                  // Basic progress info and warnings (default)
	LogLevelVerbose                 // Detailed operational info
	LogLevelDebug                   // Full diagnostic info
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelNormal:
		return "normal"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// zerologLevel maps our verbosity onto zerolog's threshold
func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LogLevelSilent:
		return zerolog.ErrorLevel
	case LogLevelVerbose:
		return zerolog.DebugLevel
	case LogLevelDebug:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "silent":
		return LogLevelSilent, nil
	case "normal":
		return LogLevelNormal, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelNormal, fmt.Errorf("invalid log level: %s (valid: silent, normal, verbose, debug)", s)
	}
}

// Logger provides leveled logging on top of zerolog
type Logger struct {
	level LogLevel
	out   io.Writer
	zl    zerolog.Logger
	mu    sync.RWMutex
}

// NewLogger creates a new logger with the specified level writing to stderr
func NewLogger(level LogLevel) *Logger {
	return newLoggerTo(os.Stderr, level)
}

func newLoggerTo(out io.Writer, level LogLevel) *Logger {
	l := &Logger{out: out}
	l.SetLevel(level)
	return l
}

func buildZerolog(out io.Writer, level LogLevel) zerolog.Logger {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	console := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(out),
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}
	return zerolog.New(console).With().Timestamp().Logger().Level(level.zerologLevel())
}

// Error logs error messages (visible at every level)
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.zl.Error().Msgf(format, args...)
}

// Warn logs skipped operations (visible in normal, verbose, debug)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.zl.Warn().Msgf(format, args...)
}

// Info logs informational messages (visible in normal, verbose, debug)
func (l *Logger) Info(format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.zl.Info().Msgf(format, args...)
}

// Verbose logs detailed operational messages (visible in verbose, debug)
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.zl.Debug().Msgf(format, args...)
}

// Debug logs debug messages (visible only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.zl.Trace().Msgf(format, args...)
}

// SetLevel updates the logging level dynamically
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = buildZerolog(l.out, level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}
