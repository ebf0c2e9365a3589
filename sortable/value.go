package sortable

import (
	"errors"
	"fmt"

	typewiseerrors "github.com/amp-labs/typewise/errors"
	"github.com/amp-labs/typewise/typewise"
)

// ErrUnordered is returned for values that cannot take part in a total order: faults,
// NaN or invalid times at any depth, unsupported Go kinds and values nested deeper than
// the comparator's limit.
var ErrUnordered = errors.New("value has no ordering")

// Value is any typewise value that has been checked to be orderable. Two Values built
// with the same comparator always compare Less, Equal or Greater.
type Value struct {
	v any
	c *typewise.Comparator
}

// Compile-time check that Value implements Sortable[Value].
var _ Sortable[Value] = Value{}

// NewValue validates v against the default comparator.
func NewValue(v any) (Value, error) {
	return NewValueWith(nil, v)
}

// NewValueWith validates v against c. A nil comparator means typewise.Default().
func NewValueWith(c *typewise.Comparator, v any) (Value, error) {
	if c == nil {
		c = typewise.Default()
	}

	o, err := c.Compare(v, v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrUnordered, err)
	}

	if o != typewise.Equal {
		return Value{}, fmt.Errorf("%w: %T", ErrUnordered, v)
	}

	return Value{v: v, c: c}, nil
}

// MustValue is NewValue that panics on error. Use it for literals in tests and setup code.
func MustValue(v any) Value {
	x, err := NewValue(v)
	if err != nil {
		panic(err)
	}

	return x
}

// Values validates every input and reports all rejected positions in one error.
func Values(c *typewise.Comparator, vs ...any) ([]Value, error) {
	out := make([]Value, len(vs))

	var errs typewiseerrors.Collection

	for i, v := range vs {
		x, err := NewValueWith(c, v)
		errs.AddAt(i, err)

		out[i] = x
	}

	if errs.HasError() {
		return nil, errs.GetError()
	}

	return out, nil
}

// Any returns the wrapped value.
func (x Value) Any() any {
	return x.v
}

// Category returns the category of the wrapped value.
func (x Value) Category() typewise.Category {
	cat, _ := x.comparator().Classify(x.v)

	return cat
}

// Compare orders x against other with x's comparator. The zero Value wraps nil.
func (x Value) Compare(other Value) typewise.Ordering {
	o, err := x.comparator().Compare(x.v, other.v)
	if err != nil {
		return typewise.Unordered
	}

	return o
}

// Equals reports whether x and other compare Equal.
func (x Value) Equals(other Value) bool {
	return x.Compare(other) == typewise.Equal
}

// LessThan reports whether x sorts strictly before other.
func (x Value) LessThan(other Value) bool {
	return x.Compare(other) == typewise.Less
}

func (x Value) String() string {
	return fmt.Sprint(x.v)
}

func (x Value) comparator() *typewise.Comparator {
	if x.c == nil {
		return typewise.Default()
	}

	return x.c
}
