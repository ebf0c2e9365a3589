package hashing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"reflect"
	"regexp"
	"time"

	"github.com/amp-labs/typewise/typewise"
	"golang.org/x/text/unicode/norm"
)

// ErrUnhashable is returned for values that have no ordering: faults, NaN, invalid
// times and values outside the category table.
var ErrUnhashable = errors.New("value is not hashable")

// Value adapts any typewise value to Hashable. The encoding follows the comparator:
// numbers are hashed by exact value regardless of Go kind, keyed maps in the order
// Compare visits their entries, and patterns by their serialized parts.
//
// Text, when set, is applied to every string before hashing. Use it to keep hashes
// consistent with a collation that equates distinct strings (norm.NFC.String for the
// NFC collation). Locale collations cannot be hashed consistently.
type Value struct {
	V          any
	Comparator *typewise.Comparator
	Text       func(string) string
}

// NewValue wraps v for hashing under c, choosing Text to match c's collation.
func NewValue(c *typewise.Comparator, v any) Value {
	out := Value{V: v, Comparator: c}

	if c != nil && c.Options().Collation == typewise.NFC {
		out.Text = norm.NFC.String
	}

	return out
}

// Compile-time check that Value implements Hashable.
var _ Hashable = Value{}

// UpdateHash writes the canonical encoding of v.V into h.
func (v Value) UpdateHash(h hash.Hash) error {
	w := &writer{h: h, c: v.comparator(), text: v.Text}

	return w.value(v.V, 0)
}

// Equals reports whether both values compare Equal under v's comparator.
func (v Value) Equals(other Value) bool {
	o, err := v.comparator().Compare(v.V, other.V)

	return err == nil && o == typewise.Equal
}

func (v Value) comparator() *typewise.Comparator {
	if v.Comparator != nil {
		return v.Comparator
	}

	return typewise.Default()
}

type writer struct {
	h    hash.Hash
	c    *typewise.Comparator
	text func(string) string
	buf  [binary.MaxVarintLen64]byte
}

//nolint:cyclop,funlen
func (w *writer) value(x any, depth int) error {
	if depth > w.c.Options().MaxDepth {
		return fmt.Errorf("%w: %w", ErrUnhashable, typewise.ErrMaxDepth)
	}

	cat, ok := w.c.Classify(x)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnhashable, x)
	}

	u := typewise.Unbox(x)

	w.uvarint(uint64(cat))

	switch cat {
	case typewise.Absent, typewise.Null:
		return nil
	case typewise.Boolean:
		if b, _ := u.(bool); b {
			w.uvarint(1)
		} else {
			w.uvarint(0)
		}
	case typewise.Numeric:
		f, ok := typewise.Number(x)
		if !ok {
			return fmt.Errorf("%w: %v", ErrUnhashable, x)
		}

		if f.Sign() == 0 {
			w.string("0")
		} else {
			w.string(f.Text('p', 0))
		}
	case typewise.Temporal:
		t, _ := u.(time.Time)
		if t.IsZero() {
			return fmt.Errorf("%w: invalid time", ErrUnhashable)
		}

		w.varint(t.Unix())
		w.varint(int64(t.Nanosecond()))
	case typewise.Binary:
		b, _ := u.([]byte)
		w.bytes(b)
	case typewise.Textual:
		s, _ := u.(string)
		if w.text != nil {
			s = w.text(s)
		}

		w.string(s)
	case typewise.Sequence:
		rv := reflect.ValueOf(u)
		w.uvarint(uint64(rv.Len()))

		for i := range rv.Len() {
			if err := w.value(rv.Index(i).Interface(), depth+1); err != nil {
				return err
			}
		}
	case typewise.KeyedMap:
		entries, err := w.c.Entries(x)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnhashable, err)
		}

		w.uvarint(uint64(len(entries)))

		for _, e := range entries {
			if err := w.value(e.Key, depth+1); err != nil {
				return err
			}

			if err := w.value(e.Value, depth+1); err != nil {
				return err
			}
		}
	case typewise.Pattern:
		p, _ := u.(*regexp.Regexp)
		source, flags := typewise.SerializePattern(p)

		w.string(source)
		w.string(flags)
	case typewise.Callable:
		w.uvarint(uint64(reflect.ValueOf(u).Type().NumIn()))
	}

	return nil
}

func (w *writer) uvarint(n uint64) {
	k := binary.PutUvarint(w.buf[:], n)
	_, _ = w.h.Write(w.buf[:k])
}

func (w *writer) varint(n int64) {
	k := binary.PutVarint(w.buf[:], n)
	_, _ = w.h.Write(w.buf[:k])
}

func (w *writer) bytes(b []byte) {
	w.uvarint(uint64(len(b)))
	_, _ = w.h.Write(b)
}

func (w *writer) string(s string) {
	w.bytes([]byte(s))
}
