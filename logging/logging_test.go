package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	goutils "go.viam.com/utils"
)

func TestLevel(t *testing.T) {
	test.That(t, DEBUG.String(), test.ShouldEqual, "Debug")
	test.That(t, INFO.String(), test.ShouldEqual, "Info")
	test.That(t, WARN.String(), test.ShouldEqual, "Warn")

	for _, name := range []string{"debug", "Debug", "DEBUG"} {
		level, err := LevelFromString(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, DEBUG)
	}
	level, err := LevelFromString("warn")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)

	_, err = LevelFromString("fatal")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLevelFiltering(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)

	logger.SetLevel(INFO)
	logger.Debug("hidden")
	logger.Debugf("hidden %d", 1)
	logger.Info("shown")
	logger.Warnf("shown %s", "too")
	test.That(t, observed.Len(), test.ShouldEqual, 2)
	test.That(t, observed.All()[0].Message, test.ShouldEqual, "shown")
	test.That(t, observed.All()[1].Message, test.ShouldEqual, "shown too")

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debug("now visible")
	test.That(t, observed.Len(), test.ShouldEqual, 3)

	logger.SetLevel(WARN)
	logger.Info("hidden again")
	logger.Warn("still shown")
	test.That(t, observed.Len(), test.ShouldEqual, 4)
}

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("linearise")

	sub.Info("from the sublogger")
	test.That(t, observed.Len(), test.ShouldEqual, 1)
	test.That(t, observed.All()[0].LoggerName, test.ShouldEqual, "linearise")

	// the sublogger level is independent of the parent's
	sub.SetLevel(WARN)
	sub.Info("hidden")
	logger.Info("shown")
	test.That(t, observed.Len(), test.ShouldEqual, 2)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.log")
	logger, err := NewFileLogger("grid", path, INFO)
	test.That(t, err, test.ShouldBeNil)

	logger.Debug("below the minimum severity")
	logger.Infof("refined %d nodes", 12)
	logger.Warn("mixed parent skipped")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer goutils.UncheckedErrorFunc(f.Close)
	contents := make([]byte, 4096)
	n, err := f.Read(contents)
	test.That(t, err, test.ShouldBeNil)

	logged := string(contents[:n])
	test.That(t, logged, test.ShouldContainSubstring, "refined 12 nodes")
	test.That(t, logged, test.ShouldContainSubstring, "mixed parent skipped")
	test.That(t, logged, test.ShouldContainSubstring, "grid")
	test.That(t, logged, test.ShouldNotContainSubstring, "below the minimum severity")

	_, err = NewFileLogger("grid", filepath.Join(path, "not-a-dir", "x.log"), INFO)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBlankLogger(t *testing.T) {
	logger := NewBlankLogger("quiet")
	// no appenders, nothing to sync, nothing to write
	logger.Debug("goes nowhere")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	logger.AddAppender(NewTestAppender(t))
	logger.Info("now appended")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}
