package maps

import (
	"iter"
	"sync"

	"github.com/amp-labs/typewise/sortable"
)

// NewThreadSafe wraps m with a sync.RWMutex. Writes take the exclusive lock and reads
// share the read lock. Iterators work on a snapshot taken under the read lock, so the
// loop body may write to the map without deadlocking.
func NewThreadSafe[K sortable.Sortable[K], V any](m SortedMap[K, V]) SortedMap[K, V] {
	if m == nil {
		return nil
	}

	if ts, ok := m.(*threadSafe[K, V]); ok {
		return ts
	}

	return &threadSafe[K, V]{internal: m}
}

type threadSafe[K sortable.Sortable[K], V any] struct {
	mutex    sync.RWMutex
	internal SortedMap[K, V]
}

func (t *threadSafe[K, V]) Get(key K) (V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Get(key)
}

func (t *threadSafe[K, V]) Add(key K, value V) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Add(key, value)
}

func (t *threadSafe[K, V]) Remove(key K) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Remove(key)
}

func (t *threadSafe[K, V]) Contains(key K) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Contains(key)
}

func (t *threadSafe[K, V]) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Size()
}

func (t *threadSafe[K, V]) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.internal.Clear()
}

func (t *threadSafe[K, V]) Min() (K, V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Min()
}

func (t *threadSafe[K, V]) Max() (K, V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Max()
}

func (t *threadSafe[K, V]) Floor(key K) (K, V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Floor(key)
}

func (t *threadSafe[K, V]) Ceiling(key K) (K, V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Ceiling(key)
}

func (t *threadSafe[K, V]) Seq() iter.Seq2[K, V] {
	return t.snapshot(t.internal.Seq)
}

func (t *threadSafe[K, V]) Descend() iter.Seq2[K, V] {
	return t.snapshot(t.internal.Descend)
}

func (t *threadSafe[K, V]) Ascend(from K) iter.Seq2[K, V] {
	return t.snapshot(func() iter.Seq2[K, V] { return t.internal.Ascend(from) })
}

func (t *threadSafe[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return t.snapshot(func() iter.Seq2[K, V] { return t.internal.Range(lo, hi) })
}

func (t *threadSafe[K, V]) Keys() []K {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Keys()
}

// snapshot copies the entries produced by seq under the read lock and returns an
// iterator over the copy.
func (t *threadSafe[K, V]) snapshot(seq func() iter.Seq2[K, V]) iter.Seq2[K, V] {
	t.mutex.RLock()

	accum := make([]KeyValuePair[K, V], 0, t.internal.Size())

	for key, val := range seq() {
		accum = append(accum, KeyValuePair[K, V]{Key: key, Value: val})
	}

	t.mutex.RUnlock()

	return func(yield func(K, V) bool) {
		for _, kv := range accum {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}
