// Package logging provides structured logging for uiprobe components.
//
// Every entry is tagged with the component that produced it and a run ID
// shared by all components of one process, so logs from concurrent
// sessions can be correlated afterwards.
package logging

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger

	// Run ID for the current execution, created lazily
	runID     string
	runIDOnce sync.Once

	initOnce sync.Once
)

// RunID returns the identifier shared by all log entries of this
// process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func root() *logrus.Logger {
	initOnce.Do(func() {
		if logger == nil {
			logger = logrus.New()
			logger.SetLevel(logrus.InfoLevel)
		}
	})
	return logger
}

// Setup configures the log level and destination. It applies to all
// subsequently created entries and should be called once at startup;
// components created before Setup keep writing through the same root
// logger, so their output is redirected too.
func Setup(level string, out io.Writer) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l := root()
	l.SetLevel(parsed)
	if out != nil {
		l.SetOutput(out)
	}
	return nil
}

// New returns an entry tagged with the given component name and the
// process run ID.
func New(component string) *logrus.Entry {
	return root().WithFields(logrus.Fields{
		"component": component,
		"run":       RunID(),
	})
}
