package question

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MaskedMarker is the fixed redaction marker substituted for values
// flagged as sensitive. The underlying value never appears in any
// produced description.
const MaskedMarker = "[MASKED]"

// FormatOptions control how resolved placeholder values are rendered.
// Options apply at format time, so the same description can be rendered
// differently per use site.
type FormatOptions struct {
	// MaxLength truncates each rendered value to this many characters,
	// appending an ellipsis. Zero means no limit. Literal segments are
	// never truncated.
	MaxLength int
}

// DefaultFormat returns the default value-formatting strategy.
func DefaultFormat() FormatOptions {
	return FormatOptions{}
}

// WithMaxLength returns options with the given truncation limit.
func (o FormatOptions) WithMaxLength(n int) FormatOptions {
	o.MaxLength = n
	return o
}

type maskedValue interface {
	isMasked()
}

// FormatValue renders a resolved value: masked values become the
// redaction marker, strings are quoted, errors and Stringers render
// themselves, and plain objects are JSON-rendered.
func FormatValue(value any, opts FormatOptions) string {
	return opts.truncate(formatBare(value))
}

func formatBare(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case maskedValue:
		return MaskedMarker
	case string:
		return strconv.Quote(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v)
	default:
		rendered, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(rendered)
	}
}

func (o FormatOptions) truncate(s string) string {
	if o.MaxLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= o.MaxLength {
		return s
	}
	return string(runes[:o.MaxLength]) + "..."
}
