// Package crew ships the stage crew members: reporters and recorders
// that reconstruct a consistent view of the execution from the domain
// event stream without the core ever blocking on them.
package crew

import (
	"sync"

	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Recorder keeps every announced event in memory, in emission order.
// Useful in tests and for embedding frameworks that post-process a run.
type Recorder struct {
	mu       sync.Mutex
	recorded []events.DomainEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AssignedTo implements screenplay.CrewMember.
func (r *Recorder) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (r *Recorder) NotifyOf(event events.DomainEvent) {
	r.mu.Lock()
	r.recorded = append(r.recorded, event)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.DomainEvent, len(r.recorded))
	copy(out, r.recorded)
	return out
}

// OfKind returns recorded events of the given kind, in order.
func (r *Recorder) OfKind(kind events.Kind) []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.DomainEvent
	for _, e := range r.recorded {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Clear discards everything recorded so far.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.recorded = nil
	r.mu.Unlock()
}
