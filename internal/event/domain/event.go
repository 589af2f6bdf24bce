package domain

import (
	"context"
	"time"
)

// Event is an immutable record of a business fact produced by a
// completed operation. OccurredOn is fixed at construction time so
// ordering reflects business causality even when persistence lags.
type Event struct {
	AggregateID string
	Name        string
	Payload     map[string]any
	OccurredOn  time.Time
}

// New builds an event stamped with the current UTC time.
func New(aggregateID, name string, payload map[string]any) Event {
	return Event{
		AggregateID: aggregateID,
		Name:        name,
		Payload:     payload,
		OccurredOn:  time.Now().UTC(),
	}
}

// Handler consumes one published event. Returning an error aborts the
// publish call; handlers whose failures must not affect the business
// write swallow errors themselves.
type Handler func(ctx context.Context, event Event) error

// Bus delivers published events to every subscriber. Delivery is
// at-least-once per subscriber and preserves per-aggregate order.
type Bus interface {
	Publish(ctx context.Context, events ...Event) error
	Subscribe(handler Handler)
}
