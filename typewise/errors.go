package typewise

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomparable is the sentinel behind every *IncomparableError.
	ErrIncomparable = errors.New("incomparable operands")

	// ErrMaxDepth is returned when elementwise comparison nests deeper than Options.MaxDepth.
	ErrMaxDepth = errors.New("maximum comparison depth exceeded")

	// ErrUnsupported is returned for values and names outside the category table.
	ErrUnsupported = errors.New("unsupported value")

	// ErrInvalidPattern is returned by ParsePattern for bad source text or flags.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoSerializer is returned by Registry.Serialize and Registry.Parse for categories
	// that define no external representation.
	ErrNoSerializer = errors.New("category has no serializer")
)

// IncomparableError is returned by Compare when either operand, after unboxing, is a
// self-inequal sentinel (NaN or an invalid time). It carries both original operands.
type IncomparableError struct {
	A any
	B any
}

func (e *IncomparableError) Error() string {
	return fmt.Sprintf("cannot compare: %v to %v", e.A, e.B)
}

func (e *IncomparableError) Unwrap() error {
	return ErrIncomparable
}

// Compile-time check that IncomparableError implements error.
var _ error = (*IncomparableError)(nil)
