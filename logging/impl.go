package logging

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

type atomicLevel struct {
	val atomic.Int32
}

func newAtomicLevel(level Level) *atomicLevel {
	al := &atomicLevel{}
	al.val.Store(int32(level))
	return al
}

func (al *atomicLevel) get() Level {
	return Level(al.val.Load())
}

func (al *atomicLevel) set(level Level) {
	al.val.Store(int32(level))
}

type impl struct {
	name      string
	level     *atomicLevel
	appenders []Appender
}

func (imp *impl) SetLevel(level Level) {
	imp.level.set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.get()
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

// Sublogger returns a logger named parent.subname sharing this logger's
// appenders but with an independent level.
func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return &impl{
		name:      newName,
		level:     newAtomicLevel(imp.level.get()),
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var errs []error
	for _, appender := range imp.appenders {
		if err := appender.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

func (imp *impl) shouldLog(level Level) bool {
	return level >= imp.level.get()
}

func (imp *impl) write(level Level, msg string) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func (imp *impl) Debug(args ...interface{}) {
	if imp.shouldLog(DEBUG) {
		imp.write(DEBUG, fmt.Sprint(args...))
	}
}

func (imp *impl) Debugf(format string, args ...interface{}) {
	if imp.shouldLog(DEBUG) {
		imp.write(DEBUG, fmt.Sprintf(format, args...))
	}
}

func (imp *impl) Info(args ...interface{}) {
	if imp.shouldLog(INFO) {
		imp.write(INFO, fmt.Sprint(args...))
	}
}

func (imp *impl) Infof(format string, args ...interface{}) {
	if imp.shouldLog(INFO) {
		imp.write(INFO, fmt.Sprintf(format, args...))
	}
}

func (imp *impl) Warn(args ...interface{}) {
	if imp.shouldLog(WARN) {
		imp.write(WARN, fmt.Sprint(args...))
	}
}

func (imp *impl) Warnf(format string, args ...interface{}) {
	if imp.shouldLog(WARN) {
		imp.write(WARN, fmt.Sprintf(format, args...))
	}
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

type writerAppender struct {
	encoder zapcore.Encoder
	out     zapcore.WriteSyncer
}

func (wa *writerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := wa.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	if _, err := wa.out.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}

func (wa *writerAppender) Sync() error {
	return wa.out.Sync()
}

// NewStdoutAppender returns an appender writing console-encoded entries to
// stdout.
func NewStdoutAppender() Appender {
	return &writerAppender{
		encoder: zapcore.NewConsoleEncoder(newEncoderConfig()),
		out:     zapcore.Lock(os.Stdout),
	}
}

// NewFileAppender returns an appender writing console-encoded entries to the
// file at path, creating or appending as needed.
func NewFileAppender(path string) (Appender, error) {
	//nolint:gosec
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open log file %q", path)
	}
	return &writerAppender{
		encoder: zapcore.NewConsoleEncoder(newEncoderConfig()),
		out:     zapcore.Lock(f),
	}, nil
}
