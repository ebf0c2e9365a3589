// Package typewise defines a total ordering over heterogeneous Go values so that values
// of different kinds can be compared and sorted together, for example as keys of an
// ordered index.
//
// # Precedence
//
// Every value falls into one of eleven categories, and categories sort in this fixed order:
//
//	absent < null < boolean < numeric < temporal < binary < textual
//	       < sequence < keyed-map < pattern < callable
//
// Values of the same category are compared by a category-specific rule: booleans and
// strings by inequality, numbers and times by difference, byte slices byte by byte,
// and composites (slices, maps, structs, patterns, funcs) elementwise with length as the
// final tiebreak.
//
// # Faults and sentinels
//
// Error values are faults: Compare returns Unordered for them, which is not Equal.
// NaN and the zero time.Time do not equal themselves and make Compare fail with an
// *IncomparableError.
//
// A Comparator holds no mutable state and is safe for concurrent use.
package typewise

import (
	"fmt"
	"sync"

	"github.com/stretchr/testify/assert"
)

// DefaultMaxDepth bounds the nesting depth of elementwise comparison.
const DefaultMaxDepth = 512

// EqualFunc reports whether two values are structurally equal.
type EqualFunc func(a, b any) bool

// Options configures a Comparator.
type Options struct {
	Collation Collation
	Locale    string
	MaxDepth  int
	Equal     EqualFunc
	Registry  *Registry
}

// Option is a functional option for New.
type Option func(*Options)

// WithCollation sets the ordering of textual values.
func WithCollation(c Collation) Option {
	return func(o *Options) {
		o.Collation = c
	}
}

// WithLocale selects the Locale collation for the given BCP 47 tag.
func WithLocale(tag string) Option {
	return func(o *Options) {
		o.Collation = Locale
		o.Locale = tag
	}
}

// WithMaxDepth bounds how deep elementwise comparison may recurse.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithEqualFunc replaces the structural equality used by DeepEqual.
func WithEqualFunc(f EqualFunc) Option {
	return func(o *Options) {
		o.Equal = f
	}
}

// WithRegistry sets the category table. The default is DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// Comparator compares values using a Registry and a textual collation.
type Comparator struct {
	registry *Registry
	collate  collateFunc
	equal    EqualFunc
	maxDepth int
	opts     Options
}

// New builds a Comparator. It fails only for an unknown collation or locale.
func New(opts ...Option) (*Comparator, error) {
	options := Options{
		Collation: CodeUnits,
		MaxDepth:  DefaultMaxDepth,
		Equal:     assert.ObjectsAreEqual,
	}

	for _, opt := range opts {
		opt(&options)
	}

	collate, err := newCollateFunc(options.Collation, options.Locale)
	if err != nil {
		return nil, err
	}

	if options.MaxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %d", ErrUnsupported, options.MaxDepth)
	}

	if options.Registry == nil {
		options.Registry = DefaultRegistry()
	}

	if options.Equal == nil {
		options.Equal = assert.ObjectsAreEqual
	}

	return &Comparator{
		registry: options.Registry,
		collate:  collate,
		equal:    options.Equal,
		maxDepth: options.MaxDepth,
		opts:     options,
	}, nil
}

var defaultComparator = sync.OnceValue(func() *Comparator { //nolint:gochecknoglobals
	c, err := New()
	if err != nil {
		panic(err)
	}

	return c
})

// Default returns the shared Comparator with default options.
func Default() *Comparator {
	return defaultComparator()
}

// Options returns the options the comparator was built with.
func (c *Comparator) Options() Options {
	return c.opts
}

// Registry returns the category table used by c.
func (c *Comparator) Registry() *Registry {
	return c.registry
}

// Classify returns the category of v. See Registry.Classify.
func (c *Comparator) Classify(v any) (Category, bool) {
	return c.registry.Classify(v)
}

// Compare orders a against b.
//
// It returns Unordered (and no error) when either operand is an error value, and an
// *IncomparableError when either operand unboxes to NaN or an invalid time. Otherwise,
// operands of different categories are ordered by category precedence, and operands
// of the same category by that category's rule. Values that match no category sort
// after all others; two such values are Unordered.
func (c *Comparator) Compare(a, b any) (Ordering, error) {
	return c.compare(a, b, 0)
}

// Less reports whether a sorts strictly before b.
func (c *Comparator) Less(a, b any) (bool, error) {
	o, err := c.Compare(a, b)
	if err != nil {
		return false, err
	}

	return o == Less, nil
}

// DeepEqual reports whether a and b are structurally equal. This is independent of the
// ordering: two fault values may be deep-equal even though they are Unordered.
func (c *Comparator) DeepEqual(a, b any) bool {
	return c.equal(a, b)
}

func (c *Comparator) compare(a, b any, depth int) (Ordering, error) {
	if depth > c.maxDepth {
		return Unordered, fmt.Errorf("%w: %d", ErrMaxDepth, c.maxDepth)
	}

	if isFault(a) || isFault(b) {
		return Unordered, nil
	}

	opA, opB := newOperand(a), newOperand(b)

	if isPointerCycle(opA.value) || isPointerCycle(opB.value) {
		return Unordered, fmt.Errorf("%w: pointer chain longer than %d", ErrMaxDepth, DefaultMaxDepth)
	}

	if selfInequal(opA.value) || selfInequal(opB.value) {
		return Unordered, &IncomparableError{A: a, B: b}
	}

	for i := range c.registry.descriptors {
		d := &c.registry.descriptors[i]

		if d.is(&opA) {
			if d.is(&opB) {
				return d.compare(c, &opA, &opB, depth)
			}

			return Less, nil
		}

		if d.is(&opB) {
			return Greater, nil
		}
	}

	return Unordered, nil
}

// Compare orders a against b with the default comparator.
func Compare(a, b any) (Ordering, error) {
	return Default().Compare(a, b)
}

// Classify returns the category of v using the default registry.
func Classify(v any) (Category, bool) {
	return DefaultRegistry().Classify(v)
}

// DeepEqual reports structural equality using the default comparator.
func DeepEqual(a, b any) bool {
	return Default().DeepEqual(a, b)
}
