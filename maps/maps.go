// Package maps provides sorted maps keyed by sortable values.
package maps

import (
	"iter"

	"github.com/amp-labs/typewise/sortable"
)

// KeyValuePair is one entry of a sorted map.
type KeyValuePair[K any, V any] struct {
	Key   K
	Value V
}

// SortedMap is a map whose keys are kept in ascending order. Bounds passed to the
// ordered queries do not have to be present in the map.
//
// Thread-safety: Tree is not safe for concurrent use. Wrap it with NewThreadSafe
// when several goroutines share one map.
//
//nolint:interfacebloat
type SortedMap[K sortable.Sortable[K], V any] interface {
	// Get returns the value stored under key.
	Get(key K) (value V, found bool)

	// Add inserts or replaces the value for key. It reports whether key was new.
	Add(key K, value V) bool

	// Remove deletes key and reports whether it was present.
	Remove(key K) bool

	// Contains reports whether key is present.
	Contains(key K) bool

	// Size returns the number of entries.
	Size() int

	// Clear removes every entry.
	Clear()

	// Min returns the smallest entry.
	Min() (key K, value V, found bool)

	// Max returns the largest entry.
	Max() (key K, value V, found bool)

	// Floor returns the largest entry whose key is less than or equal to key.
	Floor(key K) (K, V, bool)

	// Ceiling returns the smallest entry whose key is greater than or equal to key.
	Ceiling(key K) (K, V, bool)

	// Seq iterates over all entries in ascending key order.
	Seq() iter.Seq2[K, V]

	// Descend iterates over all entries in descending key order.
	Descend() iter.Seq2[K, V]

	// Ascend iterates in ascending order over the entries whose key is >= from.
	Ascend(from K) iter.Seq2[K, V]

	// Range iterates in ascending order over the entries with lo <= key < hi.
	Range(lo, hi K) iter.Seq2[K, V]

	// Keys returns all keys in ascending order.
	Keys() []K
}
