package events

import (
	"fmt"
	"runtime"
)

// ActivityDetails describes an activity at the moment it was described:
// a human-readable name plus an optional source reference.
type ActivityDetails struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// DetailsOf builds ActivityDetails for the given name, recording the
// caller's source position. skip counts stack frames above the caller,
// the same convention as runtime.Caller.
func DetailsOf(name string, skip int) ActivityDetails {
	d := ActivityDetails{Name: name}
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		d.Location = fmt.Sprintf("%s:%d", file, line)
	}
	return d
}
