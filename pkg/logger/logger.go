// Package logger provides the leveled logger used by the library and the
// fhirlint command, backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// ParseLevel parses a level name such as "debug" or "warn". "none" and
// "disabled" turn logging off.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LevelNone, nil
	}
	zl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return LevelNone, fmt.Errorf("unknown log level %q", s)
	}
	switch {
	case zl == zerolog.Disabled || zl == zerolog.NoLevel:
		return LevelNone, nil
	case zl <= zerolog.DebugLevel:
		return LevelDebug, nil
	case zl == zerolog.InfoLevel:
		return LevelInfo, nil
	case zl == zerolog.WarnLevel:
		return LevelWarn, nil
	default:
		return LevelError, nil
	}
}

// Logger provides logging functionality.
type Logger struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
	prefix string
	json   bool
	zl     zerolog.Logger
}

var defaultLogger = New(os.Stderr, LevelWarn)

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// New creates a logger writing human-readable lines to output.
func New(output io.Writer, level Level) *Logger {
	l := &Logger{level: level, output: output, prefix: "fhirmodel"}
	l.rebuild()
	return l
}

// NewJSON creates a logger writing one JSON object per line.
func NewJSON(output io.Writer, level Level) *Logger {
	l := &Logger{level: level, output: output, prefix: "fhirmodel", json: true}
	l.rebuild()
	return l
}

// rebuild must be called with mu held or before l is shared.
func (l *Logger) rebuild() {
	w := l.output
	if !l.json {
		w = zerolog.ConsoleWriter{Out: l.output, TimeFormat: "15:04:05", NoColor: true}
	}
	l.zl = zerolog.New(w).Level(l.level.zerolog()).With().Timestamp().Str("component", l.prefix).Logger()
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.rebuild()
}

// Level returns the current level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetPrefix sets the component name attached to every line.
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
	l.rebuild()
}

// Disable discards all output.
func (l *Logger) Disable() {
	l.SetLevel(LevelNone)
}

// Zerolog returns the underlying logger for structured fields.
func (l *Logger) Zerolog() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

func (l *Logger) log(level Level, format string, args ...any) {
	zl := l.Zerolog()
	zl.WithLevel(level.zerolog()).Msgf(format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Package-level convenience functions.

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Info logs an info message using the default logger.
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Disable turns off the default logger.
func Disable() {
	defaultLogger.Disable()
}
