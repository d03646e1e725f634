package cliq

import (
	"fmt"
	"io"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the tag printed in front of messages at this level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the small leveled logger the dispatcher uses for the things the
// contract says are logged rather than fatal: unreadable or unparsable
// config files and deprecated-option notices. No global state; a CLI carries
// its own instance and tests can swap in a silent one.
type Logger struct {
	w   io.Writer
	min LogLevel
}

// NewLogger creates a logger writing tagged lines to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, min: LevelInfo}
}

// Level sets the minimum level emitted and returns the logger for chaining.
func (l *Logger) Level(min LogLevel) *Logger {
	l.min = min
	return l
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warning level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarning, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level LogLevel, format string, args ...any) {
	if l == nil || l.w == nil || level < l.min {
		return
	}
	fmt.Fprintf(l.w, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}
