package typewise

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"time"
)

type undefinedValue struct{}

// pointerCycle replaces a pointer chain too long to follow, such as x = &x.
type pointerCycle struct{}

func (undefinedValue) String() string {
	return "undefined"
}

// Undefined is the canonical "no value" sentinel. It is distinct from nil, which is null,
// and sorts before every other value.
var Undefined = undefinedValue{} //nolint:gochecknoglobals

// Valuer is implemented by wrapper types that box a primitive. Compare calls ValueOf
// once per operand and classifies the wrapper by what it holds.
type Valuer interface {
	ValueOf() any
}

// kind is the primitive-kind tag of an unboxed value, the analogue of a typeof check.
// Several categories share kindObject and are told apart by runtime shape.
type kind uint8

const (
	kindUnsupported kind = iota
	kindUndefined
	kindNull
	kindBoolean
	kindNumber
	kindString
	kindFunction
	kindObject
)

// operand is a value prepared for one comparison: the original, its unboxed form and
// the kind tag, computed once and reused by every predicate in the walk.
type operand struct {
	source any
	value  any
	rv     reflect.Value
	kind   kind
}

func newOperand(v any) operand {
	u := Unbox(v)
	k, rv := kindOf(u)

	return operand{source: v, value: u, rv: rv, kind: k}
}

// Unbox extracts the primitive underlying v. Valuer wrappers are opened one level,
// pointers are followed (a nil pointer is null), named basic types are converted to
// bool, int64, uint64, float64 or string, byte slices and byte arrays become []byte and
// json.Number becomes int64 or float64. Everything else is returned unchanged.
func Unbox(v any) any {
	if b, ok := v.(Valuer); ok {
		v = b.ValueOf()
	}

	return normalize(v)
}

//nolint:cyclop,exhaustive
func normalize(v any) any {
	switch x := v.(type) {
	case nil, undefinedValue, bool, int64, uint64, float64, string, time.Time:
		return v
	case []byte:
		return x
	case Map:
		return &x
	case json.Number:
		return parseNumber(string(x))
	}

	rv := reflect.ValueOf(v)

	for hops := 0; rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface; hops++ {
		if rv.IsNil() {
			return nil
		}

		if isOpaquePointer(rv) {
			return rv.Interface()
		}

		if hops > DefaultMaxDepth {
			return pointerCycle{}
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		if n, ok := rv.Interface().(json.Number); ok {
			return parseNumber(string(n))
		}

		return rv.String()
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes()
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			for i := range out {
				out[i] = byte(rv.Index(i).Uint())
			}

			return out
		}
	case reflect.Func:
		if rv.IsNil() {
			return nil
		}
	}

	return rv.Interface()
}

// isOpaquePointer reports pointer types that are values in their own right and must not
// be dereferenced into their struct internals.
func isOpaquePointer(rv reflect.Value) bool {
	switch rv.Interface().(type) {
	case *regexp.Regexp, *big.Int, *big.Float, *big.Rat, *Map:
		return true
	default:
		return false
	}
}

// parseNumber converts json.Number text. Unparseable text becomes NaN so the operand is
// rejected as incomparable instead of being silently ordered.
func parseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}

	return f
}

//nolint:exhaustive
func kindOf(u any) (kind, reflect.Value) {
	switch u.(type) {
	case nil:
		return kindNull, reflect.Value{}
	case undefinedValue:
		return kindUndefined, reflect.Value{}
	case pointerCycle:
		return kindUnsupported, reflect.Value{}
	case bool:
		return kindBoolean, reflect.ValueOf(u)
	case int64, uint64, float64, *big.Int, *big.Float, *big.Rat:
		return kindNumber, reflect.ValueOf(u)
	case string:
		return kindString, reflect.ValueOf(u)
	}

	rv := reflect.ValueOf(u)

	switch rv.Kind() {
	case reflect.Func:
		return kindFunction, rv
	case reflect.Complex64, reflect.Complex128, reflect.Chan, reflect.UnsafePointer:
		return kindUnsupported, rv
	default:
		return kindObject, rv
	}
}

func isPointerCycle(u any) bool {
	_, ok := u.(pointerCycle)

	return ok
}

// isFault reports whether v is an error value. Faults have no ordering.
func isFault(v any) bool {
	_, ok := v.(error)

	return ok
}

// selfInequal reports the unboxed sentinels that do not equal themselves: NaN and the
// zero time.Time, which plays the role of an invalid date.
func selfInequal(u any) bool {
	switch x := u.(type) {
	case float64:
		return math.IsNaN(x)
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}
