package sazito

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger receives debug output and storage failures. keysAndValues are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// DebugConfig selects which debug events are logged.
type DebugConfig struct {
	Enabled         bool
	LogRequests     bool
	LogRetries      bool
	LogCache        bool
	LogInvalidation bool
	RequestIDGen    func() string
}

// DefaultDebugConfig logs every event category once Enabled is set.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		LogRequests:     true,
		LogRetries:      true,
		LogCache:        true,
		LogInvalidation: true,
		RequestIDGen:    uuid.NewString,
	}
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger adapts a logrus logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l).WithField("component", "sazito")}
}

// NewDefaultLogger writes JSON lines to w (stderr when nil). Only warnings
// and errors are written unless debug is set.
func NewDefaultLogger(w io.Writer, debug bool) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return NewLogrusLogger(l)
}

func (l *logrusLogger) with(keysAndValues []any) *logrus.Entry {
	if len(keysAndValues) == 0 {
		return l.entry
	}
	fields := make(logrus.Fields, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = "arg"
		}
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = nil
		}
	}
	return l.entry.WithFields(fields)
}

func (l *logrusLogger) Debug(msg string, keysAndValues ...any) {
	l.with(keysAndValues).Debug(msg)
}

func (l *logrusLogger) Info(msg string, keysAndValues ...any) {
	l.with(keysAndValues).Info(msg)
}

func (l *logrusLogger) Warn(msg string, keysAndValues ...any) {
	l.with(keysAndValues).Warn(msg)
}

func (l *logrusLogger) Error(msg string, keysAndValues ...any) {
	l.with(keysAndValues).Error(msg)
}

type nopLogger struct{}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
