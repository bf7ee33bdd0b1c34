package question

import (
	"context"

	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Masked wraps an answerable so that its value can be used by
// interactions but never revealed in descriptions.
type Masked[T any] struct {
	value Answerable[T]
}

// Mask flags an answerable value as sensitive.
func Mask[T any](value Answerable[T]) Masked[T] {
	return Masked[T]{value: value}
}

// MaskValue flags a plain value as sensitive.
func MaskValue[T any](value T) Masked[T] {
	return Masked[T]{value: ValueOf(value)}
}

// AnsweredBy resolves the real value for use by interactions.
func (m Masked[T]) AnsweredBy(ctx context.Context, actor *screenplay.Actor) (T, error) {
	return m.value.AnsweredBy(ctx, actor)
}

// DescribedBy always renders the redaction marker.
func (m Masked[T]) DescribedBy(context.Context, *screenplay.Actor) (string, error) {
	return MaskedMarker, nil
}

func (Masked[T]) isMasked() {}
