package typewise

import (
	"fmt"
	"strings"
)

// Category is one of the eleven type buckets that define cross-type sort precedence.
// The numeric value of a Category is its position in the precedence sequence: any value
// of a lower Category sorts before any value of a higher one, regardless of content.
//
// The order of these constants is part of the on-disk ordering of anything built on top
// of this package. Never reorder them.
type Category int

const (
	Absent Category = iota
	Null
	Boolean
	Numeric
	Temporal
	Binary
	Textual
	Sequence
	KeyedMap
	Pattern
	Callable

	numCategories = int(Callable) + 1
)

var categoryNames = [numCategories]string{ //nolint:gochecknoglobals
	Absent:   "absent",
	Null:     "null",
	Boolean:  "boolean",
	Numeric:  "numeric",
	Temporal: "temporal",
	Binary:   "binary",
	Textual:  "textual",
	Sequence: "sequence",
	KeyedMap: "keyed-map",
	Pattern:  "pattern",
	Callable: "callable",
}

// Categories returns every category in precedence order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}

	return out
}

// Valid reports whether c is one of the eleven known categories.
func (c Category) Valid() bool {
	return c >= Absent && c <= Callable
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}

	return categoryNames[c]
}

// ParseCategory is the inverse of Category.String. Matching is case-insensitive.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown category %q", ErrUnsupported, name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: category %d", ErrUnsupported, int(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
