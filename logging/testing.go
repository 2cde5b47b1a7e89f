package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that logs through the test object, so
// entries are associated with the "Test*" function that produced them.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb}
}

func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	parts := []string{
		entry.Time.Format("2006-01-02T15:04:05.000Z0700"),
		strings.ToUpper(entry.Level.String()),
		entry.LoggerName,
		entry.Message,
	}
	tapp.tb.Log(strings.Join(parts, "\t"))
	return nil
}

func (tapp *testAppender) Sync() error {
	return nil
}

type observerAppender struct {
	core zapcore.Core
}

func (oapp *observerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return oapp.core.Write(entry, fields)
}

func (oapp *observerAppender) Sync() error {
	return oapp.core.Sync()
}

// NewTestLogger returns a Debug-level logger writing through the test
// object.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is NewTestLogger with an additional observer whose
// recorded entries can be asserted on.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &impl{
		name:      "",
		level:     newAtomicLevel(DEBUG),
		appenders: []Appender{NewTestAppender(tb), &observerAppender{core}},
	}
	return logger, logs
}
