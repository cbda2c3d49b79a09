package services

import (
	"YouthHealth/events"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
)

// Deps carries what every service needs besides its repositories.
type Deps struct {
	Publisher events.Publisher
	Logger    *logrus.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = events.Nop{}
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return d
}

// publish emits an event after a committed write. A failed publish never
// fails the request; dashboards catch up on their next resync.
func (d Deps) publish(ctx context.Context, event string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.Publisher.Publish(ctx, event, payload); err != nil {
		d.Logger.WithFields(logrus.Fields{"event": event, "error": err}).Warn("failed to publish realtime event")
	}
}
