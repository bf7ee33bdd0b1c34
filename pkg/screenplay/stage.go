// Package screenplay implements the actor/ability/activity object model
// and the Stage, the broadcast hub that fans every domain event out to
// the registered crew members. The Stage is an explicit context object
// scoped to one test run; there is no process-wide singleton.
package screenplay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
)

// CrewMember observes the domain-event stream. Implementations must not
// mutate event payloads and must not assume they are the only subscriber.
// NotifyOf may be called from the main flow and, for events emitted by a
// crew member's own async side work, from other goroutines; crew members
// guard their own derived state.
type CrewMember interface {
	// NotifyOf reacts to a domain event. The Stage does not await any
	// asynchronous follow-up work this triggers.
	NotifyOf(event events.DomainEvent)

	// AssignedTo injects the Stage reference, called once at registration.
	AssignedTo(stage *Stage)
}

// Stage is the broadcast hub: it holds the current time source, the
// actor in the spotlight, and the ordered list of crew members. The crew
// list is sealed by the first Announce; broadcast itself is lock-free
// over the sealed list.
type Stage struct {
	clock   Clock
	sceneID string
	crew    []CrewMember
	sealed  atomic.Bool

	mu        sync.RWMutex
	spotlight *Actor
	sceneName string
}

// StageOption configures stage construction.
type StageOption func(*Stage)

// WithClock substitutes the stage's time source.
func WithClock(clock Clock) StageOption {
	return func(s *Stage) { s.clock = clock }
}

// NewStage creates a stage for one test run.
func NewStage(opts ...StageOption) *Stage {
	s := &Stage{
		clock:   SystemClock(),
		sceneID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engage registers crew members, in order. Registration is only allowed
// during setup, before the first event is announced.
func (s *Stage) Engage(members ...CrewMember) error {
	if s.sealed.Load() {
		return errors.New(errors.ErrCodeStageSealed, "cannot engage crew members after events have been announced")
	}
	for _, m := range members {
		m.AssignedTo(s)
		s.crew = append(s.crew, m)
	}
	return nil
}

// Announce delivers the event to every crew member in registration order.
// It returns once every NotifyOf has been invoked; async follow-up work a
// crew member starts is not awaited.
func (s *Stage) Announce(event events.DomainEvent) {
	s.sealed.Store(true)
	for _, m := range s.crew {
		m.NotifyOf(event)
	}
}

// CurrentTime returns the stage's notion of now.
func (s *Stage) CurrentTime() time.Time {
	return s.clock.Now()
}

// SceneID identifies the current scenario.
func (s *Stage) SceneID() string {
	return s.sceneID
}

// ShineSpotlightOn makes the given actor the current actor context.
func (s *Stage) ShineSpotlightOn(actor *Actor) {
	s.mu.Lock()
	s.spotlight = actor
	s.mu.Unlock()
}

// ActorInTheSpotlight returns the actor currently performing, or nil
// before any actor has taken the stage.
func (s *Stage) ActorInTheSpotlight() *Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spotlight
}

// EnterScene announces the beginning of a named scenario.
func (s *Stage) EnterScene(name string) {
	s.mu.Lock()
	s.sceneName = name
	s.mu.Unlock()
	s.Announce(events.SceneStarts{
		SceneID:   s.sceneID,
		Name:      name,
		Timestamp: s.CurrentTime(),
	})
}

// ExitScene announces the end of the current scenario with its outcome.
func (s *Stage) ExitScene(outcome events.Outcome) {
	s.mu.RLock()
	name := s.sceneName
	s.mu.RUnlock()
	s.Announce(events.SceneFinished{
		SceneID:   s.sceneID,
		Name:      name,
		Outcome:   outcome,
		Timestamp: s.CurrentTime(),
	})
}

// TagScene attaches a tag to the current scenario.
func (s *Stage) TagScene(tag events.Tag) {
	s.Announce(events.SceneTagged{
		SceneID:   s.sceneID,
		Tag:       tag,
		Timestamp: s.CurrentTime(),
	})
}

// Dismiss tears the stage down at run end, giving crew members a chance
// to flush async work and release resources. Members that implement
// Drain are drained first, in registration order; members that implement
// Close are then closed. Errors degrade observability only and are
// collected, not raised mid-teardown.
func (s *Stage) Dismiss() []error {
	var errs []error
	for _, m := range s.crew {
		if d, ok := m.(interface{ Drain() }); ok {
			d.Drain()
		}
	}
	for _, m := range s.crew {
		if c, ok := m.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}
