// Package events defines the immutable domain events emitted while actors
// perform activities, together with the correlation and outcome value
// objects that link and classify them. The event set is a closed tagged
// union: crew members switch on Kind (or on the concrete type) and must
// consciously handle or default-ignore every variant.
package events

import "time"

// Kind identifies the variant of a domain event.
type Kind string

const (
	KindSceneStarts               Kind = "scene.starts"
	KindSceneFinished             Kind = "scene.finished"
	KindSceneTagged               Kind = "scene.tagged"
	KindTaskStarts                Kind = "task.starts"
	KindTaskFinished              Kind = "task.finished"
	KindInteractionStarts         Kind = "interaction.starts"
	KindInteractionFinished       Kind = "interaction.finished"
	KindAsyncOperationAttempted   Kind = "async.attempted"
	KindAsyncOperationCompleted   Kind = "async.completed"
	KindAsyncOperationFailed      Kind = "async.failed"
	KindAsyncOperationAborted     Kind = "async.aborted"
	KindActivityArtifactGenerated Kind = "activity.artifact"
)

// DomainEvent is an immutable, timestamped fact describing something that
// happened during execution. Implementations live in this package only.
type DomainEvent interface {
	Kind() Kind
	OccurredAt() time.Time
	isDomainEvent()
}

// Tag is an arbitrary label attached to the current scenario.
type Tag struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// SceneStarts marks the beginning of a scenario.
type SceneStarts struct {
	SceneID   string    `json:"scene_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// SceneFinished marks the end of a scenario, carrying its overall outcome.
type SceneFinished struct {
	SceneID   string    `json:"scene_id"`
	Name      string    `json:"name"`
	Outcome   Outcome   `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// SceneTagged attaches a tag to the current scenario.
type SceneTagged struct {
	SceneID   string    `json:"scene_id"`
	Tag       Tag       `json:"tag"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskStarts marks the start of a composite activity.
type TaskStarts struct {
	ActivityID CorrelationID   `json:"activity_id"`
	Details    ActivityDetails `json:"details"`
	Timestamp  time.Time       `json:"timestamp"`
}

// TaskFinished marks the end of a composite activity.
type TaskFinished struct {
	ActivityID CorrelationID   `json:"activity_id"`
	Details    ActivityDetails `json:"details"`
	Outcome    Outcome         `json:"outcome"`
	Timestamp  time.Time       `json:"timestamp"`
}

// InteractionStarts marks the start of an atomic activity.
type InteractionStarts struct {
	ActivityID CorrelationID   `json:"activity_id"`
	Details    ActivityDetails `json:"details"`
	Timestamp  time.Time       `json:"timestamp"`
}

// InteractionFinished marks the end of an atomic activity.
type InteractionFinished struct {
	ActivityID CorrelationID   `json:"activity_id"`
	Details    ActivityDetails `json:"details"`
	Outcome    Outcome         `json:"outcome"`
	Timestamp  time.Time       `json:"timestamp"`
}

// AsyncOperationAttempted records that a crew member started side work
// (e.g. fetching a screenshot) correlated to the main flow.
type AsyncOperationAttempted struct {
	CorrelationID CorrelationID `json:"correlation_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Timestamp     time.Time     `json:"timestamp"`
}

// AsyncOperationCompleted records successful completion of side work.
type AsyncOperationCompleted struct {
	CorrelationID CorrelationID `json:"correlation_id"`
	Timestamp     time.Time     `json:"timestamp"`
}

// AsyncOperationFailed records failed side work. The failure is
// observational only: it never aborts the triggering activity.
type AsyncOperationFailed struct {
	CorrelationID CorrelationID `json:"correlation_id"`
	Err           error         `json:"-"`
	Timestamp     time.Time     `json:"timestamp"`
}

// AsyncOperationAborted records side work that was given up on. There is
// no cancellation protocol; aborting is modeled purely as this terminal
// event.
type AsyncOperationAborted struct {
	CorrelationID CorrelationID `json:"correlation_id"`
	Reason        string        `json:"reason,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// ActivityRelatedArtifactGenerated associates an artifact (e.g. a Photo)
// with the activity it was captured for, even when the capture completed
// out of band from the triggering event.
type ActivityRelatedArtifactGenerated struct {
	ActivityID CorrelationID `json:"activity_id"`
	Name       string        `json:"name"`
	Artifact   Artifact      `json:"artifact"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Artifact is the persisted/reported artifact shape: a name, a
// base64-encoded binary payload, and an implied mime type. Crew members
// decide final encoding.
type Artifact struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Base64    string `json:"base64"`
}

func (e SceneStarts) Kind() Kind                      { return KindSceneStarts }
func (e SceneFinished) Kind() Kind                    { return KindSceneFinished }
func (e SceneTagged) Kind() Kind                      { return KindSceneTagged }
func (e TaskStarts) Kind() Kind                       { return KindTaskStarts }
func (e TaskFinished) Kind() Kind                     { return KindTaskFinished }
func (e InteractionStarts) Kind() Kind                { return KindInteractionStarts }
func (e InteractionFinished) Kind() Kind              { return KindInteractionFinished }
func (e AsyncOperationAttempted) Kind() Kind          { return KindAsyncOperationAttempted }
func (e AsyncOperationCompleted) Kind() Kind          { return KindAsyncOperationCompleted }
func (e AsyncOperationFailed) Kind() Kind             { return KindAsyncOperationFailed }
func (e AsyncOperationAborted) Kind() Kind            { return KindAsyncOperationAborted }
func (e ActivityRelatedArtifactGenerated) Kind() Kind { return KindActivityArtifactGenerated }

func (e SceneStarts) OccurredAt() time.Time                      { return e.Timestamp }
func (e SceneFinished) OccurredAt() time.Time                    { return e.Timestamp }
func (e SceneTagged) OccurredAt() time.Time                      { return e.Timestamp }
func (e TaskStarts) OccurredAt() time.Time                       { return e.Timestamp }
func (e TaskFinished) OccurredAt() time.Time                     { return e.Timestamp }
func (e InteractionStarts) OccurredAt() time.Time                { return e.Timestamp }
func (e InteractionFinished) OccurredAt() time.Time              { return e.Timestamp }
func (e AsyncOperationAttempted) OccurredAt() time.Time          { return e.Timestamp }
func (e AsyncOperationCompleted) OccurredAt() time.Time          { return e.Timestamp }
func (e AsyncOperationFailed) OccurredAt() time.Time             { return e.Timestamp }
func (e AsyncOperationAborted) OccurredAt() time.Time            { return e.Timestamp }
func (e ActivityRelatedArtifactGenerated) OccurredAt() time.Time { return e.Timestamp }

func (SceneStarts) isDomainEvent()                      {}
func (SceneFinished) isDomainEvent()                    {}
func (SceneTagged) isDomainEvent()                      {}
func (TaskStarts) isDomainEvent()                       {}
func (TaskFinished) isDomainEvent()                     {}
func (InteractionStarts) isDomainEvent()                {}
func (InteractionFinished) isDomainEvent()              {}
func (AsyncOperationAttempted) isDomainEvent()          {}
func (AsyncOperationCompleted) isDomainEvent()          {}
func (AsyncOperationFailed) isDomainEvent()             {}
func (AsyncOperationAborted) isDomainEvent()            {}
func (ActivityRelatedArtifactGenerated) isDomainEvent() {}
