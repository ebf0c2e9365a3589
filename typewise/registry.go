package typewise

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
	"time"
)

type (
	predicate  func(op *operand) bool
	comparator func(c *Comparator, a, b *operand, depth int) (Ordering, error)
)

// descriptor is one row of the category table.
type descriptor struct {
	category  Category
	is        predicate
	compare   comparator
	serialize func(v any) ([]string, error)
	parse     func(parts []string) (any, error)
}

// Registry is the category table: one predicate and one comparison function per
// category, in precedence order. It is built once and never mutated, so a single
// Registry can be shared by any number of comparators and goroutines.
type Registry struct {
	descriptors [numCategories]descriptor
}

var defaultRegistry = sync.OnceValue(newRegistry) //nolint:gochecknoglobals

// DefaultRegistry returns the process-wide category table.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func newRegistry() *Registry {
	r := &Registry{}

	r.descriptors = [numCategories]descriptor{
		Absent:   {is: isKind(kindUndefined), compare: inequality},
		Null:     {is: isKind(kindNull), compare: inequality},
		Boolean:  {is: isKind(kindBoolean), compare: inequality},
		Numeric:  {is: isKind(kindNumber), compare: difference},
		Temporal: {is: isTemporal, compare: difference},
		Binary:   {is: isBinary, compare: bytewise},
		Textual:  {is: isKind(kindString), compare: inequality},
		Sequence: {is: isSequence, compare: elementwise},
		KeyedMap: {is: isKeyedMap, compare: elementwise},
		Pattern: {
			is:        isPattern,
			compare:   elementwise,
			serialize: serializePattern,
			parse:     parsePattern,
		},
		Callable: {is: isKind(kindFunction), compare: elementwise},
	}

	for i := range r.descriptors {
		r.descriptors[i].category = Category(i)
	}

	return r
}

// Classify returns the category of v by walking the table in precedence order and
// returning the first match. It reports false for fault values and for values no
// category accepts (complex numbers, channels).
func (r *Registry) Classify(v any) (Category, bool) {
	if isFault(v) {
		return 0, false
	}

	op := newOperand(v)

	return r.classify(&op)
}

func (r *Registry) classify(op *operand) (Category, bool) {
	for i := range r.descriptors {
		if r.descriptors[i].is(op) {
			return Category(i), true
		}
	}

	return 0, false
}

// Serializable reports whether category c defines an external representation.
func (r *Registry) Serializable(c Category) bool {
	return c.Valid() && r.descriptors[c].serialize != nil
}

// Serialize decomposes v into the textual parts of its category's external
// representation. Only patterns have one; other categories return ErrNoSerializer.
func (r *Registry) Serialize(v any) (Category, []string, error) {
	c, ok := r.Classify(v)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}

	d := &r.descriptors[c]
	if d.serialize == nil {
		return c, nil, fmt.Errorf("%w: %s", ErrNoSerializer, c)
	}

	parts, err := d.serialize(v)

	return c, parts, err
}

// Parse rebuilds a value of category c from parts produced by Serialize.
func (r *Registry) Parse(c Category, parts []string) (any, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: category %d", ErrUnsupported, int(c))
	}

	d := &r.descriptors[c]
	if d.parse == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSerializer, c)
	}

	return d.parse(parts)
}

func isKind(k kind) predicate {
	return func(op *operand) bool {
		return op.kind == k
	}
}

func isTemporal(op *operand) bool {
	_, ok := op.value.(time.Time)

	return ok
}

func isBinary(op *operand) bool {
	_, ok := op.value.([]byte)

	return ok
}

func isSequence(op *operand) bool {
	if op.kind != kindObject {
		return false
	}

	switch op.rv.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array:
		return op.rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// isKeyedMap matches plain key/value structures by their reflect kind, never by the
// Go type name: ordered Maps, Go maps, and structs other than time.Time.
func isKeyedMap(op *operand) bool {
	if op.kind != kindObject {
		return false
	}

	if _, ok := op.value.(*Map); ok {
		return true
	}

	switch op.rv.Kind() { //nolint:exhaustive
	case reflect.Map:
		return true
	case reflect.Struct:
		return !isTemporal(op)
	default:
		return false
	}
}

func isPattern(op *operand) bool {
	_, ok := op.value.(*regexp.Regexp)

	return ok
}
