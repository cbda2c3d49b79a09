// Package events fans domain changes out to connected dashboards.
package events

import (
	"context"
	"errors"
)

// Publisher emits a named real-time event.
type Publisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// MultiPublisher publishes to every wrapped publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }
