// Package pubsub provides the fan-out primitives used to report state to
// observers: Broker for named event streams and Watch for latest-value cells.
package pubsub

import (
	"context"
	"time"
)

// EventType names a published event. Packages define their own values.
type EventType string

// MessageEvent is the generic event type for free-form payloads such as log lines.
const MessageEvent EventType = "message"

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
