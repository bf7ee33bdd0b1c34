package screenplay

import (
	"github.com/odvcencio/stagehand/pkg/errors"
)

// Capability identifies a kind of ability (e.g. "browse the web").
// Abilities are looked up by capability, not by name: an actor holds at
// most one ability instance per capability.
type Capability string

// Ability is a capability an actor holds. Instances are supplied by
// external collaborators and are opaque to the core; the core never
// inspects them beyond their Capability token.
type Ability interface {
	Capability() Capability
}

// AbilityOf resolves an actor's ability for the given capability and
// asserts its concrete type. It is the accessor Interaction
// implementations are expected to use.
func AbilityOf[T Ability](actor *Actor, capability Capability) (T, error) {
	var zero T

	ability, err := actor.AbilityTo(capability)
	if err != nil {
		return zero, err
	}

	typed, ok := ability.(T)
	if !ok {
		return zero, errors.New(errors.ErrCodeAbilityInvalid, "ability has unexpected type").
			WithContext("actor", actor.Name()).
			WithContext("capability", string(capability))
	}
	return typed, nil
}
