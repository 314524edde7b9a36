// Package logger provides prefixed charmbracelet/log loggers that follow the global log level.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	loggers []*log.Logger
)

// New creates a prefixed charm log writing to stderr. Its level tracks SetLevel,
// so package-level loggers created at init still honour the -d flag.
func New(prefix string) *log.Logger {
	l := NewWithConfig(prefix, log.GetLevel(), false, false, log.TextFormatter)

	mu.Lock()
	loggers = append(loggers, l)
	mu.Unlock()
	return l
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// SetLevel changes the level of the default logger and of every logger made by New.
func SetLevel(level log.Level) {
	log.SetLevel(level)

	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		l.SetLevel(level)
	}
}

// SetReportTimestamp toggles timestamps on the default logger and every logger made by New.
func SetReportTimestamp(report bool) {
	log.SetReportTimestamp(report)

	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		l.SetReportTimestamp(report)
	}
}
