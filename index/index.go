// Package index is an ordered in-memory index keyed by arbitrary typewise values. Keys
// of different types share one order, so an index can hold null, numbers, strings and
// composite keys side by side and answer range queries across them.
package index

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/maps"
	"github.com/amp-labs/typewise/sortable"
	"github.com/amp-labs/typewise/typewise"
	"go.uber.org/atomic"
)

// Options configures an Index.
type Options struct {
	Name       string
	Comparator *typewise.Comparator
	Logger     *slog.Logger
	ThreadSafe bool
}

// Option is a functional option for New.
type Option func(*Options)

// WithName labels the index in metrics and logs.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithComparator orders keys with c instead of typewise.Default().
func WithComparator(c *typewise.Comparator) Option {
	return func(o *Options) {
		o.Comparator = c
	}
}

// WithLogger sends rejected-key logs to l instead of logger.Get().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithThreadSafe guards the index with a read-write lock.
func WithThreadSafe() Option {
	return func(o *Options) {
		o.ThreadSafe = true
	}
}

// Stats is a point-in-time copy of an index's counters.
type Stats struct {
	Puts     uint64
	Gets     uint64
	Hits     uint64
	Deletes  uint64
	Rejected uint64
}

type counters struct {
	puts     atomic.Uint64
	gets     atomic.Uint64
	hits     atomic.Uint64
	deletes  atomic.Uint64
	rejected atomic.Uint64
}

// Index maps typewise keys to values of type V in key order. Keys that have no ordering
// (faults, NaN, invalid times, unsupported kinds) are rejected with sortable.ErrUnordered.
type Index[V any] struct {
	name       string
	comparator *typewise.Comparator
	log        *slog.Logger
	tree       maps.SortedMap[sortable.Value, V]
	counters   counters
}

// New creates an empty index.
func New[V any](opts ...Option) *Index[V] {
	o := Options{Name: "default"}

	for _, opt := range opts {
		opt(&o)
	}

	if o.Comparator == nil {
		o.Comparator = typewise.Default()
	}

	if o.Logger == nil {
		o.Logger = logger.Get()
	}

	var tree maps.SortedMap[sortable.Value, V] = maps.NewTree[sortable.Value, V]()
	if o.ThreadSafe {
		tree = maps.NewThreadSafe(tree)
	}

	return &Index[V]{
		name:       o.Name,
		comparator: o.Comparator,
		log:        o.Logger.With("index", o.Name),
		tree:       tree,
	}
}

func (ix *Index[V]) key(op string, k any) (sortable.Value, error) {
	v, err := sortable.NewValueWith(ix.comparator, k)
	if err != nil {
		ix.counters.rejected.Inc()
		operationsTotal.WithLabelValues(ix.name, op, "rejected").Inc()
		ix.log.Info("rejected key", "op", op, "type", fmt.Sprintf("%T", k), "error", err)

		return sortable.Value{}, err
	}

	return v, nil
}

func (ix *Index[V]) count(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "miss"
	}

	operationsTotal.WithLabelValues(ix.name, op, result).Inc()
}

// Put stores value under key, replacing any value stored under an equal key. It reports
// whether the key was new.
func (ix *Index[V]) Put(key any, value V) (bool, error) {
	k, err := ix.key("put", key)
	if err != nil {
		return false, err
	}

	ix.counters.puts.Inc()
	ix.count("put", true)

	return ix.tree.Add(k, value), nil
}

// Get returns the value stored under a key equal to key.
func (ix *Index[V]) Get(key any) (V, bool, error) {
	var zero V

	k, err := ix.key("get", key)
	if err != nil {
		return zero, false, err
	}

	ix.counters.gets.Inc()

	v, ok := ix.tree.Get(k)
	if ok {
		ix.counters.hits.Inc()
	}

	ix.count("get", ok)

	return v, ok, nil
}

// Delete removes key and reports whether it was present.
func (ix *Index[V]) Delete(key any) (bool, error) {
	k, err := ix.key("delete", key)
	if err != nil {
		return false, err
	}

	ok := ix.tree.Remove(k)
	if ok {
		ix.counters.deletes.Inc()
	}

	ix.count("delete", ok)

	return ok, nil
}

// Len returns the number of keys.
func (ix *Index[V]) Len() int {
	return ix.tree.Size()
}

// Min returns the entry with the smallest key.
func (ix *Index[V]) Min() (any, V, bool) {
	k, v, ok := ix.tree.Min()

	return k.Any(), v, ok
}

// Max returns the entry with the largest key.
func (ix *Index[V]) Max() (any, V, bool) {
	k, v, ok := ix.tree.Max()

	return k.Any(), v, ok
}

// Floor returns the entry with the largest key less than or equal to key.
func (ix *Index[V]) Floor(key any) (any, V, bool, error) {
	var zero V

	k, err := ix.key("floor", key)
	if err != nil {
		return nil, zero, false, err
	}

	fk, v, ok := ix.tree.Floor(k)

	return fk.Any(), v, ok, nil
}

// Ceiling returns the entry with the smallest key greater than or equal to key.
func (ix *Index[V]) Ceiling(key any) (any, V, bool, error) {
	var zero V

	k, err := ix.key("ceiling", key)
	if err != nil {
		return nil, zero, false, err
	}

	ck, v, ok := ix.tree.Ceiling(k)

	return ck.Any(), v, ok, nil
}

// Scan iterates over every entry in key order.
func (ix *Index[V]) Scan() iter.Seq2[any, V] {
	return unwrap(ix.tree.Seq())
}

// Reverse iterates over every entry in descending key order.
func (ix *Index[V]) Reverse() iter.Seq2[any, V] {
	return unwrap(ix.tree.Descend())
}

// From iterates in key order over the entries whose key is >= from.
func (ix *Index[V]) From(from any) (iter.Seq2[any, V], error) {
	k, err := ix.key("range", from)
	if err != nil {
		return nil, err
	}

	ix.count("range", true)

	return unwrap(ix.tree.Ascend(k)), nil
}

// Range iterates in key order over the entries with lo <= key < hi. Because every
// category has its place in the order, a range can span categories: Range(false, "")
// yields every boolean, number, time and byte-string key.
func (ix *Index[V]) Range(lo, hi any) (iter.Seq2[any, V], error) {
	l, err := ix.key("range", lo)
	if err != nil {
		return nil, err
	}

	h, err := ix.key("range", hi)
	if err != nil {
		return nil, err
	}

	ix.count("range", true)

	return unwrap(ix.tree.Range(l, h)), nil
}

// Keys returns all keys in order.
func (ix *Index[V]) Keys() []any {
	keys := ix.tree.Keys()
	out := make([]any, len(keys))

	for i, k := range keys {
		out[i] = k.Any()
	}

	return out
}

// Stats returns the index's operation counters.
func (ix *Index[V]) Stats() Stats {
	return Stats{
		Puts:     ix.counters.puts.Load(),
		Gets:     ix.counters.gets.Load(),
		Hits:     ix.counters.hits.Load(),
		Deletes:  ix.counters.deletes.Load(),
		Rejected: ix.counters.rejected.Load(),
	}
}

func unwrap[V any](seq iter.Seq2[sortable.Value, V]) iter.Seq2[any, V] {
	return func(yield func(any, V) bool) {
		for k, v := range seq {
			if !yield(k.Any(), v) {
				return
			}
		}
	}
}
