package typewise

import (
	"bytes"
	"cmp"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"slices"
	"time"
)

// ratPrecision is the mantissa size used when a *big.Rat meets another numeric kind.
const ratPrecision = 256

// inequality orders categories with no natural difference: absent, null, boolean, textual.
//
//nolint:exhaustive
func inequality(c *Comparator, a, b *operand, _ int) (Ordering, error) {
	switch a.kind {
	case kindBoolean:
		x, _ := a.value.(bool)
		y, _ := b.value.(bool)

		switch {
		case x == y:
			return Equal, nil
		case !x:
			return Less, nil
		default:
			return Greater, nil
		}
	case kindString:
		x, _ := a.value.(string)
		y, _ := b.value.(string)

		return sign(c.collate(x, y)), nil
	default:
		// absent and null each have a single member
		return Equal, nil
	}
}

// difference orders numeric and temporal values by their signed difference.
// NaN and invalid times have already been rejected by the caller.
func difference(_ *Comparator, a, b *operand, _ int) (Ordering, error) {
	if x, ok := a.value.(time.Time); ok {
		y, _ := b.value.(time.Time)

		return sign(x.Compare(y)), nil
	}

	return compareNumbers(a.value, b.value), nil
}

func compareNumbers(a, b any) Ordering {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return sign(cmp.Compare(x, y))
		case uint64:
			if x < 0 {
				return Less
			}

			return sign(cmp.Compare(uint64(x), y))
		}
	case uint64:
		switch y := b.(type) {
		case uint64:
			return sign(cmp.Compare(x, y))
		case int64:
			if y < 0 {
				return Greater
			}

			return sign(cmp.Compare(x, uint64(y)))
		}
	case float64:
		if y, ok := b.(float64); ok {
			return sign(cmp.Compare(x, y))
		}
	}

	return sign(toBigFloat(a).Cmp(toBigFloat(b)))
}

// toBigFloat widens any numeric kind without loss, except *big.Rat which is rounded
// to ratPrecision bits.
func toBigFloat(v any) *big.Float {
	switch x := v.(type) {
	case int64:
		return new(big.Float).SetInt64(x)
	case uint64:
		return new(big.Float).SetUint64(x)
	case float64:
		return new(big.Float).SetFloat64(x)
	case *big.Int:
		return new(big.Float).SetInt(x)
	case *big.Float:
		return x
	case *big.Rat:
		return new(big.Float).SetPrec(ratPrecision).SetRat(x)
	default:
		return new(big.Float)
	}
}

// bytewise compares byte sequences by unsigned byte value; a prefix sorts first.
func bytewise(_ *Comparator, a, b *operand, _ int) (Ordering, error) {
	x, _ := a.value.([]byte)
	y, _ := b.value.([]byte)

	return sign(bytes.Compare(x, y)), nil
}

// elementwise compares composites entry by entry using the full comparator, with
// length as the final tiebreak.
func elementwise(c *Comparator, a, b *operand, depth int) (Ordering, error) {
	if _, ok := a.value.(*regexp.Regexp); ok {
		pa, _ := serializePattern(a.value)
		pb, _ := serializePattern(b.value)

		return compareSlices(c, pa, pb, depth)
	}

	switch a.rv.Kind() { //nolint:exhaustive
	case reflect.Func:
		// A callable is indexed by its parameter slots, each of which holds nothing,
		// so only the arity can differ.
		return sign(cmp.Compare(a.rv.Type().NumIn(), b.rv.Type().NumIn())), nil
	case reflect.Slice, reflect.Array:
		return compareIndexed(c, a.rv, b.rv, depth)
	default:
		ea, err := c.entries(a, depth)
		if err != nil {
			return Unordered, err
		}

		eb, err := c.entries(b, depth)
		if err != nil {
			return Unordered, err
		}

		return compareEntries(c, ea, eb, depth)
	}
}

func compareSlices[T any](c *Comparator, a, b []T, depth int) (Ordering, error) {
	for i := range min(len(a), len(b)) {
		o, err := c.compare(a[i], b[i], depth+1)
		if err != nil || o != Equal {
			return o, err
		}
	}

	return sign(cmp.Compare(len(a), len(b))), nil
}

func compareIndexed(c *Comparator, a, b reflect.Value, depth int) (Ordering, error) {
	la, lb := a.Len(), b.Len()

	for i := range min(la, lb) {
		o, err := c.compare(a.Index(i).Interface(), b.Index(i).Interface(), depth+1)
		if err != nil || o != Equal {
			return o, err
		}
	}

	return sign(cmp.Compare(la, lb)), nil
}

// compareEntries compares the i-th entries of both maps, key first and then value.
func compareEntries(c *Comparator, a, b []KeyValue, depth int) (Ordering, error) {
	for i := range min(len(a), len(b)) {
		o, err := c.compare(a[i].Key, b[i].Key, depth+1)
		if err != nil || o != Equal {
			return o, err
		}

		o, err = c.compare(a[i].Value, b[i].Value, depth+1)
		if err != nil || o != Equal {
			return o, err
		}
	}

	return sign(cmp.Compare(len(a), len(b))), nil
}

// KeyValue is one entry of a keyed-map value, as seen by the comparator.
type KeyValue struct {
	Key   any
	Value any
}

// Entries lists the entries of a keyed-map value in the order Compare visits them.
func (c *Comparator) Entries(v any) ([]KeyValue, error) {
	op := newOperand(v)
	if !isKeyedMap(&op) {
		return nil, fmt.Errorf("%w: %T is not a keyed map", ErrUnsupported, v)
	}

	return c.entries(&op, 0)
}

// Number returns the numeric value of v widened to a *big.Float, or false if v does not
// unbox to a number.
func Number(v any) (*big.Float, bool) {
	u := Unbox(v)
	if k, _ := kindOf(u); k != kindNumber || selfInequal(u) {
		return nil, false
	}

	return toBigFloat(u), true
}

// entries lists a keyed map in iteration order. Ordered Maps use insertion order and
// structs use field declaration order (exported fields only). Go maps have no stable
// iteration order, so their keys are put in comparator order first, with equal keys
// ordered by their values.
func (c *Comparator) entries(op *operand, depth int) ([]KeyValue, error) {
	if m, ok := op.value.(*Map); ok {
		out := make([]KeyValue, 0, m.Len())
		for k, v := range m.All() {
			out = append(out, KeyValue{Key: k, Value: v})
		}

		return out, nil
	}

	rv := op.rv

	if rv.Kind() == reflect.Struct {
		t := rv.Type()
		out := make([]KeyValue, 0, t.NumField())

		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}

			out = append(out, KeyValue{Key: f.Name, Value: rv.Field(i).Interface()})
		}

		return out, nil
	}

	keys := rv.MapKeys()

	var sortErr error

	slices.SortFunc(keys, func(x, y reflect.Value) int {
		o, err := c.compare(x.Interface(), y.Interface(), depth+1)
		if err != nil && sortErr == nil {
			sortErr = err
		}

		if o != Equal {
			return o.Int()
		}

		// Distinct Go keys can be Equal (1 and 1.0). Break the tie on the values so the
		// order does not follow map iteration.
		o, _ = c.compare(rv.MapIndex(x).Interface(), rv.MapIndex(y).Interface(), depth+1)

		return o.Int()
	})

	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]KeyValue, len(keys))
	for i, k := range keys {
		out[i] = KeyValue{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}

	return out, nil
}
