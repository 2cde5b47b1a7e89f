// Package logging contains the levelled logging facade used throughout the
// grid forest. Loggers write pre-formatted messages to one or more appenders
// (stdout, a file, or a test harness) and filter below a minimum severity.
package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a logger will emit.
type Level int8

// The three severities of the facade.
const (
	DEBUG Level = iota
	INFO
	WARN
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	default:
		return "Unknown"
	}
}

// AsZap converts the level to its zapcore equivalent.
func (l Level) AsZap() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromString parses a severity name, case-insensitively.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn":
		return WARN, nil
	default:
		return DEBUG, errors.Errorf("unknown log level %q", s)
	}
}

// Logger is the interface the forest logs through.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	SetLevel(level Level)
	GetLevel() Level
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	Sync() error
}

// Appender is an output for log entries.
type Appender interface {
	Write(entry zapcore.Entry, fields []zapcore.Field) error
	Sync() error
}

// NewLogger returns a logger emitting Info and above to stdout.
func NewLogger(name string) Logger {
	return &impl{
		name:      name,
		level:     newAtomicLevel(INFO),
		appenders: []Appender{NewStdoutAppender()},
	}
}

// NewDebugLogger returns a logger emitting Debug and above to stdout.
func NewDebugLogger(name string) Logger {
	return &impl{
		name:      name,
		level:     newAtomicLevel(DEBUG),
		appenders: []Appender{NewStdoutAppender()},
	}
}

// NewFileLogger returns a logger emitting the given level and above to the
// file at path, appending if it exists.
func NewFileLogger(name, path string, level Level) (Logger, error) {
	appender, err := NewFileAppender(path)
	if err != nil {
		return nil, err
	}
	return &impl{
		name:      name,
		level:     newAtomicLevel(level),
		appenders: []Appender{appender},
	}, nil
}

// NewBlankLogger returns a Debug-level logger with no appenders.
func NewBlankLogger(name string) Logger {
	return &impl{
		name:      name,
		level:     newAtomicLevel(DEBUG),
		appenders: []Appender{},
	}
}
