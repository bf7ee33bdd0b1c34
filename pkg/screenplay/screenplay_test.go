package screenplay_test

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/stagehand/pkg/crew"
	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

func newRecordedStage(t *testing.T) (*screenplay.Stage, *crew.Recorder) {
	t.Helper()
	stage := screenplay.NewStage()
	recorder := crew.NewRecorder()
	require.NoError(t, stage.Engage(recorder))
	return stage, recorder
}

func kindsOf(recorded []events.DomainEvent) []events.Kind {
	kinds := make([]events.Kind, len(recorded))
	for i, e := range recorded {
		kinds[i] = e.Kind()
	}
	return kinds
}

func TestActor_InteractionEmitsPairedEvents(t *testing.T) {
	stage, recorder := newRecordedStage(t)
	actor := screenplay.ActorCalled(stage, "Alice")

	err := actor.AttemptsTo(context.Background(),
		screenplay.InteractionWhere("adds an item to the basket", func(ctx context.Context, a *screenplay.Actor) error {
			return nil
		}),
	)
	require.NoError(t, err)

	recorded := recorder.Events()
	require.Len(t, recorded, 2)

	starts, ok := recorded[0].(events.InteractionStarts)
	require.True(t, ok, "first event is %T, want InteractionStarts", recorded[0])
	finished, ok := recorded[1].(events.InteractionFinished)
	require.True(t, ok, "second event is %T, want InteractionFinished", recorded[1])

	assert.Equal(t, "adds an item to the basket", starts.Details.Name)
	assert.Equal(t, starts.ActivityID, finished.ActivityID)
	assert.Equal(t, events.OutcomeSuccess, finished.Outcome.Kind)
	assert.Contains(t, starts.Details.Location, "screenplay_test.go")
}

func TestActor_TaskNestsChildEvents(t *testing.T) {
	stage, recorder := newRecordedStage(t)
	actor := screenplay.ActorCalled(stage, "Alice")

	noop := func(ctx context.Context, a *screenplay.Actor) error { return nil }

	err := actor.AttemptsTo(context.Background(),
		screenplay.TaskWhere("checks out",
			screenplay.InteractionWhere("opens the basket", noop),
			screenplay.InteractionWhere("pays", noop),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, []events.Kind{
		events.KindTaskStarts,
		events.KindInteractionStarts,
		events.KindInteractionFinished,
		events.KindInteractionStarts,
		events.KindInteractionFinished,
		events.KindTaskFinished,
	}, kindsOf(recorder.Events()))

	taskStarts := recorder.Events()[0].(events.TaskStarts)
	taskFinished := recorder.Events()[5].(events.TaskFinished)
	assert.Equal(t, taskStarts.ActivityID, taskFinished.ActivityID)

	childStarts := recorder.Events()[1].(events.InteractionStarts)
	assert.NotEqual(t, taskStarts.ActivityID, childStarts.ActivityID)
}

func TestActor_FailureSkipsLaterSiblings(t *testing.T) {
	stage, recorder := newRecordedStage(t)
	actor := screenplay.ActorCalled(stage, "Alice")

	boom := stderrors.New("card declined")
	var thirdRan bool

	err := actor.AttemptsTo(context.Background(),
		screenplay.TaskWhere("checks out",
			screenplay.InteractionWhere("opens the basket", func(ctx context.Context, a *screenplay.Actor) error {
				return nil
			}),
			screenplay.InteractionWhere("pays", func(ctx context.Context, a *screenplay.Actor) error {
				return boom
			}),
			screenplay.InteractionWhere("sees the confirmation", func(ctx context.Context, a *screenplay.Actor) error {
				thirdRan = true
				return nil
			}),
		),
	)
	require.ErrorIs(t, err, boom)
	assert.False(t, thirdRan, "sibling after the failure must not run")

	// The skipped sibling emits no events at all.
	assert.Equal(t, []events.Kind{
		events.KindTaskStarts,
		events.KindInteractionStarts,
		events.KindInteractionFinished,
		events.KindInteractionStarts,
		events.KindInteractionFinished,
		events.KindTaskFinished,
	}, kindsOf(recorder.Events()))

	failed := recorder.Events()[4].(events.InteractionFinished)
	require.True(t, failed.Outcome.IsError())
	assert.ErrorIs(t, failed.Outcome.Err, boom)

	taskFinished := recorder.Events()[5].(events.TaskFinished)
	require.True(t, taskFinished.Outcome.IsError(), "task outcome carries the child failure")
	assert.ErrorIs(t, taskFinished.Outcome.Err, boom)
}

func TestActor_MissingAbilityReportedAndRaised(t *testing.T) {
	stage, recorder := newRecordedStage(t)
	actor := screenplay.ActorCalled(stage, "Bob")

	err := actor.AttemptsTo(context.Background(),
		screenplay.InteractionWhere("browses", func(ctx context.Context, a *screenplay.Actor) error {
			_, err := a.AbilityTo("browse the web")
			return err
		}),
	)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAbilityNotFound))
	assert.Contains(t, err.Error(), "Bob")
	assert.Contains(t, err.Error(), "browse the web")

	finished := recorder.Events()[1].(events.InteractionFinished)
	require.True(t, finished.Outcome.IsError())
	assert.True(t, errors.IsCode(finished.Outcome.Err, errors.ErrCodeAbilityNotFound))
}

type stubAbility struct {
	capability screenplay.Capability
}

func (s stubAbility) Capability() screenplay.Capability { return s.capability }

func TestActor_WhoCanLastWriteWins(t *testing.T) {
	stage := screenplay.NewStage()
	actor := screenplay.ActorCalled(stage, "Alice")

	first := stubAbility{capability: "take notes"}
	second := stubAbility{capability: "take notes"}
	actor.WhoCan(first).WhoCan(second)

	got, err := actor.AbilityTo("take notes")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestAbilityOf_WrongType(t *testing.T) {
	stage := screenplay.NewStage()
	actor := screenplay.ActorCalled(stage, "Alice").WhoCan(stubAbility{capability: "take notes"})

	type otherAbility interface {
		screenplay.Ability
		Flush() error
	}

	_, err := screenplay.AbilityOf[otherAbility](actor, "take notes")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAbilityInvalid))
}

type orderedCrew struct {
	name  string
	calls *[]string
}

func (o orderedCrew) AssignedTo(*screenplay.Stage) {}

func (o orderedCrew) NotifyOf(events.DomainEvent) {
	*o.calls = append(*o.calls, o.name)
}

func TestStage_AnnounceNotifiesInRegistrationOrder(t *testing.T) {
	stage := screenplay.NewStage()

	var calls []string
	require.NoError(t, stage.Engage(
		orderedCrew{name: "first", calls: &calls},
		orderedCrew{name: "second", calls: &calls},
		orderedCrew{name: "third", calls: &calls},
	))

	stage.Announce(events.SceneStarts{SceneID: stage.SceneID(), Timestamp: stage.CurrentTime()})

	// Announce returned, so every member has already been notified.
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestStage_EngageAfterAnnounceFails(t *testing.T) {
	stage, _ := newRecordedStage(t)

	stage.Announce(events.SceneStarts{SceneID: stage.SceneID()})

	err := stage.Engage(crew.NewRecorder())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStageSealed))
}

func TestStage_SceneLifecycle(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := screenplay.NewManualClock(start)

	stage := screenplay.NewStage(screenplay.WithClock(clock))
	recorder := crew.NewRecorder()
	require.NoError(t, stage.Engage(recorder))

	stage.EnterScene("customer checks out")
	stage.TagScene(events.Tag{Type: "feature", Name: "checkout"})
	clock.Advance(3 * time.Second)
	stage.ExitScene(events.Success())

	recorded := recorder.Events()
	require.Len(t, recorded, 3)

	starts := recorded[0].(events.SceneStarts)
	assert.Equal(t, "customer checks out", starts.Name)
	assert.Equal(t, stage.SceneID(), starts.SceneID)
	assert.True(t, starts.Timestamp.Equal(start))

	tagged := recorded[1].(events.SceneTagged)
	assert.Equal(t, events.Tag{Type: "feature", Name: "checkout"}, tagged.Tag)

	finished := recorded[2].(events.SceneFinished)
	assert.Equal(t, "customer checks out", finished.Name)
	assert.Equal(t, events.OutcomeSuccess, finished.Outcome.Kind)
	assert.True(t, finished.Timestamp.Equal(start.Add(3*time.Second)))
}

func TestStage_SpotlightFollowsPerformingActor(t *testing.T) {
	stage := screenplay.NewStage()
	require.Nil(t, stage.ActorInTheSpotlight())

	alice := screenplay.ActorCalled(stage, "Alice")
	assert.Same(t, alice, stage.ActorInTheSpotlight())

	bob := screenplay.ActorCalled(stage, "Bob")
	assert.Same(t, bob, stage.ActorInTheSpotlight())

	err := alice.AttemptsTo(context.Background(),
		screenplay.InteractionWhere("waves", func(ctx context.Context, a *screenplay.Actor) error {
			return nil
		}),
	)
	require.NoError(t, err)
	assert.Same(t, alice, stage.ActorInTheSpotlight())
}

type closableCrew struct {
	drained *bool
	closed  *bool
	err     error
}

func (c closableCrew) AssignedTo(*screenplay.Stage) {}
func (c closableCrew) NotifyOf(events.DomainEvent)  {}
func (c closableCrew) Drain()                       { *c.drained = true }
func (c closableCrew) Close() error                 { *c.closed = true; return c.err }

func TestStage_DismissDrainsThenCloses(t *testing.T) {
	stage := screenplay.NewStage()

	var drained, closed bool
	var drained2, closed2 bool
	closeErr := stderrors.New("flush failed")
	require.NoError(t, stage.Engage(
		closableCrew{drained: &drained, closed: &closed},
		closableCrew{drained: &drained2, closed: &closed2, err: closeErr},
	))

	errs := stage.Dismiss()

	assert.True(t, drained)
	assert.True(t, closed)
	assert.True(t, drained2)
	assert.True(t, closed2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], closeErr)
}

func TestTaskWhere_CapturesCallSite(t *testing.T) {
	task := screenplay.TaskWhere("checks out")
	located, ok := task.(screenplay.Located)
	require.True(t, ok)
	if !strings.Contains(located.Details().Location, "screenplay_test.go") {
		t.Errorf("location %q does not reference the call site", located.Details().Location)
	}
}
