package abilities

import (
	"sync"

	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// CapabilityTakeNotes is the capability token for note taking.
const CapabilityTakeNotes screenplay.Capability = "take notes"

// TakeNotes lets an actor remember values across activities within a
// scenario. Safe for use from crew-member goroutines.
type TakeNotes struct {
	mu    sync.RWMutex
	notes map[string]any
}

// UseAnEmptyNotepad creates a fresh TakeNotes ability.
func UseAnEmptyNotepad() *TakeNotes {
	return &TakeNotes{notes: make(map[string]any)}
}

// Capability implements screenplay.Ability.
func (n *TakeNotes) Capability() screenplay.Capability {
	return CapabilityTakeNotes
}

// WriteDown records a note under the given subject.
func (n *TakeNotes) WriteDown(subject string, value any) {
	n.mu.Lock()
	n.notes[subject] = value
	n.mu.Unlock()
}

// ReadFrom returns the note recorded under the subject.
func (n *TakeNotes) ReadFrom(subject string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	value, ok := n.notes[subject]
	return value, ok
}

// NotepadOf resolves the actor's note-taking ability.
func NotepadOf(actor *screenplay.Actor) (*TakeNotes, error) {
	return screenplay.AbilityOf[*TakeNotes](actor, CapabilityTakeNotes)
}
