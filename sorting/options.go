package sorting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/typewise/typewise"
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy decides what happens to values that have no ordering.
type Policy int

const (
	// PolicyError rejects the whole batch and reports every value without an ordering.
	PolicyError Policy = iota
	// PolicyLast moves values without an ordering to the end, in their original order.
	PolicyLast
)

func (p Policy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicyLast:
		return "last"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "error" and "last", in any case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "error", "":
		return PolicyError, nil
	case "last":
		return PolicyLast, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

const defaultChunkSize = 4096

// Options configures Sort and ParallelSort.
type Options struct {
	// Comparator orders the values. Nil means typewise.Default().
	Comparator *typewise.Comparator
	// Policy handles values without an ordering.
	Policy Policy
	// Reverse sorts in descending order. Equal values keep their input order either way.
	Reverse bool
	// Workers bounds ParallelSort's concurrency with a dedicated pool. Zero uses a shared
	// pool sized to GOMAXPROCS.
	Workers int
	// Pool runs ParallelSort's chunk sorts. It takes precedence over Workers.
	Pool pond.Pool
	// ChunkSize is the number of values each ParallelSort task sorts.
	ChunkSize int
}

// Option is a functional option for Sort and ParallelSort.
type Option func(*Options)

func WithComparator(c *typewise.Comparator) Option {
	return func(o *Options) {
		o.Comparator = c
	}
}

func WithPolicy(p Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

func WithReverse(reverse bool) Option {
	return func(o *Options) {
		o.Reverse = reverse
	}
}

func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func WithPool(p pond.Pool) Option {
	return func(o *Options) {
		o.Pool = p
	}
}

func WithChunkSize(n int) Option {
	return func(o *Options) {
		o.ChunkSize = n
	}
}

func newOptions(opts []Option) Options {
	o := Options{ChunkSize: defaultChunkSize}

	for _, opt := range opts {
		opt(&o)
	}

	if o.Comparator == nil {
		o.Comparator = typewise.Default()
	}

	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}

	return o
}
