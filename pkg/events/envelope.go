package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownKind is returned when decoding an envelope whose kind is not
// part of the event set.
var ErrUnknownKind = errors.New("unknown event kind")

// Envelope is the wire form of a domain event, used when events cross a
// process boundary (bus forwarding, journaling).
type Envelope struct {
	Kind      Kind            `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type asyncFailedJSON struct {
	CorrelationID CorrelationID `json:"correlation_id"`
	Error         string        `json:"error,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// MarshalJSON flattens the cause to its message.
func (e AsyncOperationFailed) MarshalJSON() ([]byte, error) {
	wire := asyncFailedJSON{CorrelationID: e.CorrelationID, Timestamp: e.Timestamp}
	if e.Err != nil {
		wire.Error = e.Err.Error()
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores the cause as an opaque error.
func (e *AsyncOperationFailed) UnmarshalJSON(data []byte) error {
	var wire asyncFailedJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.CorrelationID = wire.CorrelationID
	e.Timestamp = wire.Timestamp
	e.Err = nil
	if wire.Error != "" {
		e.Err = errors.New(wire.Error)
	}
	return nil
}

// Marshal encodes a domain event into its envelope wire form.
func Marshal(event DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.Kind(), err)
	}
	return json.Marshal(Envelope{
		Kind:      event.Kind(),
		Timestamp: event.OccurredAt(),
		Payload:   payload,
	})
}

// Unmarshal decodes an envelope back into its concrete event variant.
func Unmarshal(data []byte) (DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return env.Event()
}

// Event decodes the envelope payload into its concrete event variant.
func (env Envelope) Event() (DomainEvent, error) {
	var target DomainEvent
	switch env.Kind {
	case KindSceneStarts:
		target = &SceneStarts{}
	case KindSceneFinished:
		target = &SceneFinished{}
	case KindSceneTagged:
		target = &SceneTagged{}
	case KindTaskStarts:
		target = &TaskStarts{}
	case KindTaskFinished:
		target = &TaskFinished{}
	case KindInteractionStarts:
		target = &InteractionStarts{}
	case KindInteractionFinished:
		target = &InteractionFinished{}
	case KindAsyncOperationAttempted:
		target = &AsyncOperationAttempted{}
	case KindAsyncOperationCompleted:
		target = &AsyncOperationCompleted{}
	case KindAsyncOperationFailed:
		target = &AsyncOperationFailed{}
	case KindAsyncOperationAborted:
		target = &AsyncOperationAborted{}
	case KindActivityArtifactGenerated:
		target = &ActivityRelatedArtifactGenerated{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}

	if err := json.Unmarshal(env.Payload, target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
	}

	// Events are announced by value; return the same shape after decoding.
	switch e := target.(type) {
	case *SceneStarts:
		return *e, nil
	case *SceneFinished:
		return *e, nil
	case *SceneTagged:
		return *e, nil
	case *TaskStarts:
		return *e, nil
	case *TaskFinished:
		return *e, nil
	case *InteractionStarts:
		return *e, nil
	case *InteractionFinished:
		return *e, nil
	case *AsyncOperationAttempted:
		return *e, nil
	case *AsyncOperationCompleted:
		return *e, nil
	case *AsyncOperationFailed:
		return *e, nil
	case *AsyncOperationAborted:
		return *e, nil
	case *ActivityRelatedArtifactGenerated:
		return *e, nil
	}
	return target, nil
}
