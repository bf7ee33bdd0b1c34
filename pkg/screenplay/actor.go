package screenplay

import (
	"context"

	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
)

// Actor is a named agent holding a set of abilities, capable of
// performing activities and answering questions. Activity execution
// within one actor is strictly sequential.
type Actor struct {
	name      string
	stage     *Stage
	abilities map[Capability]Ability
}

// ActorCalled returns an actor bound to the stage and puts it in the
// spotlight.
func ActorCalled(stage *Stage, name string) *Actor {
	actor := &Actor{
		name:      name,
		stage:     stage,
		abilities: make(map[Capability]Ability),
	}
	stage.ShineSpotlightOn(actor)
	return actor
}

// Name returns the actor's name.
func (x *Actor) Name() string { return x.name }

// Stage returns the stage the actor is bound to.
func (x *Actor) Stage() *Stage { return x.stage }

// WhoCan registers abilities, one per capability. Registering a second
// ability for the same capability overwrites the first; last write wins.
func (x *Actor) WhoCan(abilities ...Ability) *Actor {
	for _, ability := range abilities {
		x.abilities[ability.Capability()] = ability
	}
	return x
}

// AbilityTo returns the registered ability for the capability, or a
// coded ABILITY_NOT_FOUND error naming the actor and the missing
// capability. This is the standard failure an Interaction should expect
// on a misconfigured actor.
func (x *Actor) AbilityTo(capability Capability) (Ability, error) {
	ability, ok := x.abilities[capability]
	if !ok {
		return nil, errors.New(errors.ErrCodeAbilityNotFound, "actor does not have the required ability").
			WithContext("actor", x.name).
			WithContext("capability", string(capability))
	}
	return ability, nil
}

// AttemptsTo performs activities strictly in order. Each activity emits
// a Starts event, runs its effect, and emits a matching Finished event
// carrying the outcome. Failures are reported then propagated; once an
// activity fails, later siblings are never started and emit no events.
func (x *Actor) AttemptsTo(ctx context.Context, activities ...Activity) error {
	for _, activity := range activities {
		if err := x.perform(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}

func (x *Actor) perform(ctx context.Context, activity Activity) error {
	id := events.NewCorrelationID()
	details := detailsOf(activity)
	_, composite := activity.(Task)

	x.stage.ShineSpotlightOn(x)

	if composite {
		x.stage.Announce(events.TaskStarts{
			ActivityID: id,
			Details:    details,
			Timestamp:  x.stage.CurrentTime(),
		})
	} else {
		x.stage.Announce(events.InteractionStarts{
			ActivityID: id,
			Details:    details,
			Timestamp:  x.stage.CurrentTime(),
		})
	}

	err := activity.PerformAs(ctx, x)

	outcome := events.Success()
	if err != nil {
		outcome = events.Failed(err)
	}

	if composite {
		x.stage.Announce(events.TaskFinished{
			ActivityID: id,
			Details:    details,
			Outcome:    outcome,
			Timestamp:  x.stage.CurrentTime(),
		})
	} else {
		x.stage.Announce(events.InteractionFinished{
			ActivityID: id,
			Details:    details,
			Outcome:    outcome,
			Timestamp:  x.stage.CurrentTime(),
		})
	}

	return err
}

func detailsOf(activity Activity) events.ActivityDetails {
	if located, ok := activity.(Located); ok {
		return located.Details()
	}
	return events.ActivityDetails{Name: activity.Name()}
}
