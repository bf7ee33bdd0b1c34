// Package question provides deferred, describable computations: a
// Question is a pure, possibly asynchronous function of an actor to a
// value, tagged with a human-readable subject. Questions compose into
// descriptions whose text is computed at format time, not construction
// time, so formatting options can differ per use site.
package question

import (
	"context"

	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Answerable yields a value given an actor.
type Answerable[T any] interface {
	AnsweredBy(ctx context.Context, actor *screenplay.Actor) (T, error)
}

// Describable is the self-description capability. Values that implement
// it control their own rendering in descriptions.
type Describable interface {
	DescribedBy(ctx context.Context, actor *screenplay.Actor) (string, error)
}

// Resolvable is the untyped face of an Answerable, used when resolving
// description placeholders of mixed types.
type Resolvable interface {
	ResolvedBy(ctx context.Context, actor *screenplay.Actor) (any, error)
}

// Question is a deferred computation of a value from an actor, tagged
// with a subject used in reports.
type Question[T any] struct {
	subject  string
	resolver func(ctx context.Context, actor *screenplay.Actor) (T, error)
}

// About builds a Question with the given subject and resolver.
func About[T any](subject string, resolver func(ctx context.Context, actor *screenplay.Actor) (T, error)) Question[T] {
	return Question[T]{subject: subject, resolver: resolver}
}

// ValueOf adapts a plain value into a Question answered by that value.
func ValueOf[T any](value T) Question[T] {
	return Question[T]{
		resolver: func(context.Context, *screenplay.Actor) (T, error) {
			return value, nil
		},
	}
}

// Subject returns the question's static subject, which may be empty for
// adapted plain values.
func (q Question[T]) Subject() string { return q.subject }

// AnsweredBy resolves the question's value for the actor.
func (q Question[T]) AnsweredBy(ctx context.Context, actor *screenplay.Actor) (T, error) {
	return q.resolver(ctx, actor)
}

// DescribedBy returns the subject when one was given; otherwise the
// resolved value rendered with default formatting.
func (q Question[T]) DescribedBy(ctx context.Context, actor *screenplay.Actor) (string, error) {
	if q.subject != "" {
		return q.subject, nil
	}
	value, err := q.resolver(ctx, actor)
	if err != nil {
		return "", err
	}
	return FormatValue(value, DefaultFormat()), nil
}

// ResolvedBy resolves the question's value as an untyped placeholder.
func (q Question[T]) ResolvedBy(ctx context.Context, actor *screenplay.Actor) (any, error) {
	return q.resolver(ctx, actor)
}
