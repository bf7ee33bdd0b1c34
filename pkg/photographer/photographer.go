// Package photographer captures screenshots through an actor's browsing
// ability and persists them through an externally supplied outlet.
// Captures are content-addressed: identical screenshots are stored once.
package photographer

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/odvcencio/stagehand/pkg/abilities"
	"github.com/odvcencio/stagehand/pkg/artifact"
	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Outlet is the artifact persistence collaborator. It returns a path or
// reference for the stored picture.
type Outlet interface {
	SendPicture(ctx context.Context, filename string, data []byte) (string, error)
}

// Capture associates an activity with a stored screenshot.
type Capture struct {
	ActivityID events.CorrelationID
	Artifact   events.Artifact
	Reference  string
}

// Photographer captures and stores screenshots. Safe for concurrent use;
// concurrent captures of identical content collapse into a single store
// and repeated captures reuse the stored reference.
type Photographer struct {
	outlet Outlet
	group  singleflight.Group

	mu     sync.Mutex
	stored map[string]string // content hash -> outlet reference
}

// New creates a photographer writing through the given outlet.
func New(outlet Outlet) *Photographer {
	return &Photographer{
		outlet: outlet,
		stored: make(map[string]string),
	}
}

// TakePhotoOf obtains a screenshot through the actor's browsing ability,
// derives a content-addressed filename, persists it, and returns the
// capture associated with the given activity id. The capture may run out
// of band from the event that triggered it; the activity id keeps the
// association intact.
func (p *Photographer) TakePhotoOf(ctx context.Context, actor *screenplay.Actor, activityID events.CorrelationID, name string) (Capture, error) {
	browser, err := abilities.BrowserOf(actor)
	if err != nil {
		return Capture{}, err
	}

	raw, err := browser.TakeScreenshot(ctx)
	if err != nil {
		return Capture{}, errors.Wrap(err, errors.ErrCodeArtifactCapture, "screenshot failed").
			WithContext("actor", actor.Name()).
			WithContext("activity_id", activityID.String())
	}

	reference, err := p.store(ctx, raw)
	if err != nil {
		return Capture{}, errors.Wrap(err, errors.ErrCodeArtifactCapture, "artifact persistence failed").
			WithContext("actor", actor.Name()).
			WithContext("activity_id", activityID.String())
	}

	return Capture{
		ActivityID: activityID,
		Artifact:   artifact.Photo(name, raw),
		Reference:  reference,
	}, nil
}

func (p *Photographer) store(ctx context.Context, raw []byte) (string, error) {
	hash := artifact.ContentHash(raw)

	p.mu.Lock()
	if ref, ok := p.stored[hash]; ok {
		p.mu.Unlock()
		return ref, nil
	}
	p.mu.Unlock()

	ref, err, _ := p.group.Do(hash, func() (any, error) {
		// Recheck under the flight: a previous flight may have stored
		// this content after our cache miss.
		p.mu.Lock()
		if ref, ok := p.stored[hash]; ok {
			p.mu.Unlock()
			return ref, nil
		}
		p.mu.Unlock()

		reference, err := p.outlet.SendPicture(ctx, hash+".png", raw)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.stored[hash] = reference
		p.mu.Unlock()
		return reference, nil
	})
	if err != nil {
		return "", err
	}
	return ref.(string), nil
}
