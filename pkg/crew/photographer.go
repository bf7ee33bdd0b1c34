package crew

import (
	"context"
	"fmt"
	"sync"

	"github.com/odvcencio/stagehand/pkg/abilities"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/photographer"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// PhotoStrategy selects which interactions trigger a capture.
type PhotoStrategy string

const (
	// PhotosOnFailure captures only when an interaction fails.
	PhotosOnFailure PhotoStrategy = "on_failure"

	// PhotosOnEveryInteraction captures after every interaction.
	PhotosOnEveryInteraction PhotoStrategy = "on_every_interaction"
)

// PhotoOnEvent is the crew member driving a Photographer from the event
// stream. The capture runs out of band from the triggering event: the
// crew member announces AsyncOperationAttempted synchronously, then
// performs the capture in its own goroutine and announces the artifact
// and the matching terminal event itself. A capture failure is
// observational only and never aborts the triggering activity.
type PhotoOnEvent struct {
	photographer *photographer.Photographer
	strategy     PhotoStrategy

	stage *screenplay.Stage
	wg    sync.WaitGroup
}

// TakePhotos creates the photographer crew member.
func TakePhotos(p *photographer.Photographer, strategy PhotoStrategy) *PhotoOnEvent {
	return &PhotoOnEvent{
		photographer: p,
		strategy:     strategy,
	}
}

// AssignedTo implements screenplay.CrewMember.
func (p *PhotoOnEvent) AssignedTo(stage *screenplay.Stage) {
	p.stage = stage
}

// NotifyOf implements screenplay.CrewMember.
func (p *PhotoOnEvent) NotifyOf(event events.DomainEvent) {
	finished, ok := event.(events.InteractionFinished)
	if !ok {
		return
	}
	if p.strategy == PhotosOnFailure && !finished.Outcome.IsError() {
		return
	}

	actor := p.stage.ActorInTheSpotlight()
	if actor == nil {
		return
	}
	if _, err := abilities.BrowserOf(actor); err != nil {
		// The actor cannot browse; nothing to photograph.
		return
	}

	opID := events.NewCorrelationID()
	p.stage.Announce(events.AsyncOperationAttempted{
		CorrelationID: opID,
		Name:          "photographer",
		Description:   fmt.Sprintf("taking photo of %q", finished.Details.Name),
		Timestamp:     p.stage.CurrentTime(),
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		capture, err := p.photographer.TakePhotoOf(context.Background(), actor, finished.ActivityID, finished.Details.Name)
		if err != nil {
			p.stage.Announce(events.AsyncOperationFailed{
				CorrelationID: opID,
				Err:           err,
				Timestamp:     p.stage.CurrentTime(),
			})
			return
		}

		p.stage.Announce(events.ActivityRelatedArtifactGenerated{
			ActivityID: capture.ActivityID,
			Name:       capture.Artifact.Name,
			Artifact:   capture.Artifact,
			Timestamp:  p.stage.CurrentTime(),
		})
		p.stage.Announce(events.AsyncOperationCompleted{
			CorrelationID: opID,
			Timestamp:     p.stage.CurrentTime(),
		})
	}()
}

// Drain blocks until all in-flight captures have announced their
// terminal events. Called by Stage.Dismiss at run end.
func (p *PhotoOnEvent) Drain() {
	p.wg.Wait()
}
