// Package bus provides the message transport used to forward domain
// events to out-of-process consumers (dashboards, recorders). The
// default implementation uses NATS, with an in-memory option for
// testing. Forwarding is one-way publish/subscribe; the execution core
// never blocks on consumers.
package bus

import (
	"context"
	"errors"
	"time"

	"github.com/odvcencio/stagehand/pkg/events"
)

var (
	// ErrClosed is returned when operating on a closed bus or subscription.
	ErrClosed = errors.New("bus or subscription closed")
)

// SubjectPrefix is the root of the event subject hierarchy.
const SubjectPrefix = "stagehand.events"

// EventSubject returns the subject an event kind is published on, e.g.
// "stagehand.events.task.starts".
func EventSubject(kind events.Kind) string {
	return SubjectPrefix + "." + string(kind)
}

// AllEventsSubject matches every published event kind.
const AllEventsSubject = SubjectPrefix + ".>"

// MessageBus is the transport interface for event forwarding.
// Implementations must be safe for concurrent use.
type MessageBus interface {
	// Publish sends a message to all subscribers of the given subject.
	// Returns immediately; does not wait for message delivery.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// The handler is called in a separate goroutine for each message.
	// Supports wildcards: "stagehand.events.*" and "stagehand.events.>".
	Subscribe(ctx context.Context, subject string, handler MessageHandler) (Subscription, error)

	// Close shuts down the bus and all subscriptions.
	Close() error
}

// MessageHandler processes incoming messages.
type MessageHandler func(msg *Message)

// Message represents an incoming message from the bus.
type Message struct {
	Subject string
	Data    []byte
}

// Subscription represents an active subscription that can be cancelled.
type Subscription interface {
	// Unsubscribe stops receiving messages and cleans up resources.
	Unsubscribe() error

	// Subject returns the subject pattern this subscription is for.
	Subject() string
}

// Config holds configuration for creating a MessageBus.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	// Ignored for in-memory bus.
	URL string

	// Name is a client identifier for debugging/monitoring.
	Name string

	// Timeout is the default timeout for operations.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:     "nats://localhost:4222",
		Name:    "stagehand",
		Timeout: 30 * time.Second,
	}
}
