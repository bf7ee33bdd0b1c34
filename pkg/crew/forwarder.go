package crew

import (
	"context"
	"sync"

	"github.com/odvcencio/stagehand/pkg/bus"
	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Forwarder publishes every announced event onto a message bus, one
// subject per kind, so out-of-process consumers can follow the run.
// Publish failures degrade observability only.
type Forwarder struct {
	bus bus.MessageBus

	mu      sync.Mutex
	lastErr error
}

// NewForwarder creates a forwarder publishing through b.
func NewForwarder(b bus.MessageBus) *Forwarder {
	return &Forwarder{bus: b}
}

// AssignedTo implements screenplay.CrewMember.
func (f *Forwarder) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (f *Forwarder) NotifyOf(event events.DomainEvent) {
	data, err := events.Marshal(event)
	if err != nil {
		f.recordErr(errors.Wrap(err, errors.ErrCodeBusPublish, "failed to encode event"))
		return
	}

	if err := f.bus.Publish(context.Background(), bus.EventSubject(event.Kind()), data); err != nil {
		f.recordErr(errors.Wrap(err, errors.ErrCodeBusPublish, "failed to publish event").
			WithContext("kind", string(event.Kind())))
	}
}

// Err returns the most recent publish failure, if any.
func (f *Forwarder) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Forwarder) recordErr(err error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}
