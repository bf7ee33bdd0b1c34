package crew

import (
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS events (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	scene_id       TEXT NOT NULL,
	kind           TEXT NOT NULL,
	correlation_id TEXT,
	occurred_at    TEXT NOT NULL,
	envelope       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_scene ON events(scene_id);
CREATE INDEX IF NOT EXISTS idx_events_correlation ON events(correlation_id);
`

// Journal persists every announced event to a sqlite database, one row
// per event, scoped by scene id. Insert failures degrade observability
// only; the most recent failure is kept for inspection.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	sceneID string
	lastErr error
}

// OpenJournal opens (or creates) the journal database at path. Use
// ":memory:" for an ephemeral journal.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeJournalOpen, "failed to open journal database").
			WithContext("path", path)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeJournalOpen, "failed to initialize journal schema").
			WithContext("path", path)
	}
	return &Journal{db: db}, nil
}

// AssignedTo captures the stage's scene id for row scoping.
func (j *Journal) AssignedTo(stage *screenplay.Stage) {
	j.mu.Lock()
	j.sceneID = stage.SceneID()
	j.mu.Unlock()
}

// NotifyOf implements screenplay.CrewMember.
func (j *Journal) NotifyOf(event events.DomainEvent) {
	envelope, err := events.Marshal(event)
	if err != nil {
		j.recordErr(errors.Wrap(err, errors.ErrCodeJournalWrite, "failed to encode event"))
		return
	}

	correlation := ""
	if id, ok := events.CorrelationOf(event); ok {
		correlation = id.String()
	}

	j.mu.Lock()
	sceneID := j.sceneID
	j.mu.Unlock()

	_, err = j.db.Exec(
		`INSERT INTO events (scene_id, kind, correlation_id, occurred_at, envelope) VALUES (?, ?, ?, ?, ?)`,
		sceneID,
		string(event.Kind()),
		correlation,
		event.OccurredAt().UTC().Format(time.RFC3339Nano),
		string(envelope),
	)
	if err != nil {
		j.recordErr(errors.Wrap(err, errors.ErrCodeJournalWrite, "failed to insert event").
			WithContext("kind", string(event.Kind())))
	}
}

// Err returns the most recent journal failure, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}

// Events reads back all events journaled for a scene, in insertion
// order.
func (j *Journal) Events(sceneID string) ([]events.DomainEvent, error) {
	rows, err := j.db.Query(
		`SELECT envelope FROM events WHERE scene_id = ? ORDER BY id`,
		sceneID,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeJournalWrite, "failed to query journal").
			WithContext("scene_id", sceneID)
	}
	defer rows.Close()

	var out []events.DomainEvent
	for rows.Next() {
		var envelope string
		if err := rows.Scan(&envelope); err != nil {
			return nil, err
		}
		event, err := events.Unmarshal([]byte(envelope))
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) recordErr(err error) {
	j.mu.Lock()
	j.lastErr = err
	j.mu.Unlock()
}
