// Package events provides the in-process event bus modules use to announce
// what happened (an address was picked in a widget) without knowing who listens.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event, e.g. AddressSelected.
type Event interface {
	// EventName returns a unique identifier for the event type.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all events; embed it.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current wall-clock time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is an adapter to allow ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to handlers inside this process. Nothing is persisted:
// events published before a handler subscribes, or while the process shuts
// down, are not replayed.
type Bus interface {
	// Publish hands the event to every subscriber of its name, each in its own
	// goroutine. The caller's cancellation does not reach the handlers and
	// handler errors are only logged.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the subscribers in registration order on the calling
	// goroutine and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events whose EventName equals eventName.
	Subscribe(eventName string, handler Handler)
}
