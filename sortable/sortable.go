// Package sortable adapts typewise values to the Sortable contract used by sorted
// structures such as the red-black tree in package maps.
package sortable

import (
	"github.com/amp-labs/typewise/compare"
)

// Sortable is an element with both equality and a strict ordering.
type Sortable[T any] interface {
	compare.Comparable[T]

	LessThan(other T) bool
}
