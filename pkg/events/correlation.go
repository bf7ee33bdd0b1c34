package events

import "github.com/oklog/ulid/v2"

// CorrelationID links a start event to its matching terminal event.
// It is an opaque value: equality by value, never reused, fresh per
// activity or async-operation invocation.
type CorrelationID string

// NewCorrelationID generates a fresh correlation id.
func NewCorrelationID() CorrelationID {
	return CorrelationID(ulid.Make().String())
}

// String returns the raw id value.
func (c CorrelationID) String() string {
	return string(c)
}

// IsZero reports whether the id is unset.
func (c CorrelationID) IsZero() bool {
	return c == ""
}
