// Package logging holds the process-wide logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

// Logger returns the shared logger, creating it on first use.
func Logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			ReportCaller:    true,
			TimeFormat:      time.Kitchen,
			Prefix:          "marching",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// Debug, Info, Warn and Error log msg with alternating key-value pairs.
func Debug(msg string, keyvals ...interface{}) {
	l := Logger()
	l.Helper()
	l.Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	l := Logger()
	l.Helper()
	l.Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	l := Logger()
	l.Helper()
	l.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	l := Logger()
	l.Helper()
	l.Error(msg, keyvals...)
}
