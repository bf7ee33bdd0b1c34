package crew

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// RunLog appends every announced event to a JSONL file, one envelope per
// line. Write failures degrade observability only: they are counted, not
// raised into the test run.
type RunLog struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	dropped atomic.Int64
}

// NewRunLog opens (or creates) the run log at path.
func NewRunLog(path string) (*RunLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create run log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	return &RunLog{file: file, path: path}, nil
}

// AssignedTo implements screenplay.CrewMember.
func (l *RunLog) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (l *RunLog) NotifyOf(event events.DomainEvent) {
	data, err := events.Marshal(event)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		l.dropped.Add(1)
		return
	}
	if _, err := l.file.Write(data); err != nil {
		l.dropped.Add(1)
	}
}

// Dropped reports how many events could not be written.
func (l *RunLog) Dropped() int64 {
	return l.dropped.Load()
}

// Path returns the log file location.
func (l *RunLog) Path() string {
	return l.path
}

// Close closes the log file.
func (l *RunLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadRunLog reads all events back from a run log file.
func ReadRunLog(path string) ([]events.DomainEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}

	var out []events.DomainEvent
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1
			if len(line) == 0 {
				continue
			}
			event, err := events.Unmarshal(line)
			if err != nil {
				return nil, err
			}
			out = append(out, event)
		}
	}
	return out, nil
}
