package realtime

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a user-facing message raised by a real-time event.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
	// Persistent notifications stay until dismissed.
	Persistent bool
	// Duration is how long a transient notification is shown.
	Duration time.Duration
	Event    string
}

// Notifier displays notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithFields(logrus.Fields{
		"severity":   n.Severity,
		"event":      n.Event,
		"persistent": n.Persistent,
	})
	msg := n.Title
	if n.Message != "" {
		msg += ": " + n.Message
	}
	switch n.Severity {
	case SeverityError:
		entry.Error(msg)
	case SeverityWarning:
		entry.Warn(msg)
	default:
		entry.Info(msg)
	}
}
