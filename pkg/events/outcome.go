package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// OutcomeKind classifies how an activity ended.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeError   OutcomeKind = "error"
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome is the result classification of an activity. An Error outcome
// carries the cause; the other kinds carry none.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	Err  error       `json:"-"`
}

// Success returns a successful outcome.
func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// Failed returns an error outcome carrying the cause.
func Failed(cause error) Outcome {
	return Outcome{Kind: OutcomeError, Err: cause}
}

// Skipped returns an execution-skipped outcome.
func Skipped() Outcome {
	return Outcome{Kind: OutcomeSkipped}
}

// IsError reports whether the outcome is an error.
func (o Outcome) IsError() bool {
	return o.Kind == OutcomeError
}

// String renders the outcome for reporters.
func (o Outcome) String() string {
	if o.Kind == OutcomeError && o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Kind, o.Err)
	}
	return string(o.Kind)
}

type outcomeJSON struct {
	Kind  OutcomeKind `json:"kind"`
	Error string      `json:"error,omitempty"`
}

// MarshalJSON encodes the outcome with the cause flattened to its message.
func (o Outcome) MarshalJSON() ([]byte, error) {
	wire := outcomeJSON{Kind: o.Kind}
	if o.Err != nil {
		wire.Error = o.Err.Error()
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes an outcome; a decoded cause is an opaque error
// carrying only the original message.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var wire outcomeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	o.Kind = wire.Kind
	o.Err = nil
	if wire.Error != "" {
		o.Err = errors.New(wire.Error)
	}
	return nil
}
