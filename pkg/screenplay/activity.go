package screenplay

import (
	"context"

	"github.com/odvcencio/stagehand/pkg/events"
)

// Activity is a stateless unit of behavior. Execution is always
// triggered by an actor; an activity never schedules itself.
type Activity interface {
	// Name is the human-readable description used in reports.
	Name() string

	// PerformAs executes the activity's effect on behalf of the actor.
	PerformAs(ctx context.Context, actor *Actor) error
}

// Task is a composite Activity that expands into an ordered sequence of
// sub-activities at execution time. Implementing Steps tells the actor
// to report it with the task event pair instead of the interaction pair.
type Task interface {
	Activity
	Steps() []Activity
}

// Located is an optional interface activities implement to attach a
// source reference to their reported details.
type Located interface {
	Details() events.ActivityDetails
}

type task struct {
	details events.ActivityDetails
	steps   []Activity
}

// TaskWhere composes sub-activities into a named Task. Steps run
// strictly in order through the performing actor's own AttemptsTo, so a
// child's event pair nests between the task's Starts and Finished.
func TaskWhere(name string, steps ...Activity) Task {
	return &task{
		details: events.DetailsOf(name, 1),
		steps:   steps,
	}
}

func (t *task) Name() string { return t.details.Name }

func (t *task) Details() events.ActivityDetails { return t.details }

func (t *task) Steps() []Activity { return t.steps }

func (t *task) PerformAs(ctx context.Context, actor *Actor) error {
	return actor.AttemptsTo(ctx, t.steps...)
}

type interaction struct {
	details events.ActivityDetails
	fn      func(ctx context.Context, actor *Actor) error
}

// InteractionWhere wraps a function as a named atomic Activity.
func InteractionWhere(name string, fn func(ctx context.Context, actor *Actor) error) Activity {
	return &interaction{
		details: events.DetailsOf(name, 1),
		fn:      fn,
	}
}

func (i *interaction) Name() string { return i.details.Name }

func (i *interaction) Details() events.ActivityDetails { return i.details }

func (i *interaction) PerformAs(ctx context.Context, actor *Actor) error {
	return i.fn(ctx, actor)
}
