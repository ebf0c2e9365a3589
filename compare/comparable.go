// Package compare defines the equality and three-way ordering contracts shared by sorted
// structures.
package compare

import "github.com/amp-labs/typewise/typewise"

// Comparable is a generic interface for types that can compare themselves for equality.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}

// Func is a three-way comparison that may refuse to order its operands, either by
// returning typewise.Unordered or an error.
type Func[T any] func(a, b T) (typewise.Ordering, error)

// Typewise returns the comparator's Compare as a Func. A nil comparator means
// typewise.Default().
func Typewise(c *typewise.Comparator) Func[any] {
	if c == nil {
		c = typewise.Default()
	}

	return c.Compare
}

// Reverse flips the order reported by f. Unordered results and errors pass through.
func Reverse[T any](f Func[T]) Func[T] {
	return func(a, b T) (typewise.Ordering, error) {
		o, err := f(a, b)

		return o.Reverse(), err
	}
}

// By compares values through a projection, e.g. a record field.
func By[T, K any](key func(T) K, f Func[K]) Func[T] {
	return func(a, b T) (typewise.Ordering, error) {
		return f(key(a), key(b))
	}
}
