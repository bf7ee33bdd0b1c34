package question

import (
	"context"
	"strings"

	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// Description is an explicit builder for interpolated descriptions: an
// ordered list of literal and placeholder segments. Segment boundaries
// are preserved exactly when substituting resolved text; placeholders
// are never reordered and interstitial literals are never dropped.
type Description struct {
	segments []segment
	opts     FormatOptions
}

type segment struct {
	literal     string
	placeholder any
	resolved    bool
}

// Describe starts a description with a literal segment.
func Describe(literal string) *Description {
	d := &Description{opts: DefaultFormat()}
	return d.Text(literal)
}

// Text appends a literal segment.
func (d *Description) Text(literal string) *Description {
	d.segments = append(d.segments, segment{literal: literal})
	return d
}

// Value appends a placeholder segment. At format time the placeholder is
// rendered by its self-description if it has one, otherwise resolved as
// an answerable and passed through the value-formatting strategy.
func (d *Description) Value(placeholder any) *Description {
	d.segments = append(d.segments, segment{placeholder: placeholder, resolved: true})
	return d
}

// WithOptions returns a copy of the description using the given
// formatting options. The original is untouched, so two use sites can
// format the same description differently.
func (d *Description) WithOptions(opts FormatOptions) *Description {
	segments := make([]segment, len(d.segments))
	copy(segments, d.segments)
	return &Description{segments: segments, opts: opts}
}

// DescribedBy formats the description for the given actor context.
// Formatting the same description twice with the same options yields
// identical strings.
func (d *Description) DescribedBy(ctx context.Context, actor *screenplay.Actor) (string, error) {
	var sb strings.Builder
	for _, seg := range d.segments {
		if !seg.resolved {
			sb.WriteString(seg.literal)
			continue
		}
		text, err := d.formatPlaceholder(ctx, actor, seg.placeholder)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func (d *Description) formatPlaceholder(ctx context.Context, actor *screenplay.Actor, placeholder any) (string, error) {
	if describable, ok := placeholder.(Describable); ok {
		text, err := describable.DescribedBy(ctx, actor)
		if err != nil {
			return "", err
		}
		return d.opts.truncate(text), nil
	}
	if resolvable, ok := placeholder.(Resolvable); ok {
		value, err := resolvable.ResolvedBy(ctx, actor)
		if err != nil {
			return "", err
		}
		return FormatValue(value, d.opts), nil
	}
	return FormatValue(placeholder, d.opts), nil
}
