package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/amp-labs/typewise/typewise"
	"github.com/google/uuid"
)

// DecodeJSON decodes one JSON document. Objects keep their key order as *typewise.Map,
// arrays become []any, integers that fit become int64, larger integers *big.Int, and
// everything else float64 (or *big.Float when out of float64 range).
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		if errors.Is(err, ErrInvalidTag) || errors.Is(err, ErrTooDeep) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
	}

	return v, nil
}

//nolint:cyclop
func decodeJSONValue(dec *json.Decoder, depth int) (any, error) {
	if depth > typewise.DefaultMaxDepth {
		return nil, ErrTooDeep
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			out := []any{}

			for dec.More() {
				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}

				out = append(out, v)
			}

			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return out, nil
		case '{':
			m := typewise.NewMap()

			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, _ := kt.(string)

				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}

				m.Set(key, v)
			}

			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return untag(m)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case json.Number:
		return parseNumber(string(t)), nil
	default:
		// nil, bool or string
		return tok, nil
	}
}

func parseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return i
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if f, ok := new(big.Float).SetString(s); ok {
		return f
	}

	return s
}

// Marshal writes v as compact JSON, tagging the categories plain JSON cannot carry. A
// nil comparator means typewise.Default(); it decides how Go maps are ordered.
func Marshal(v any, c *typewise.Comparator) ([]byte, error) {
	if c == nil {
		c = typewise.Default()
	}

	doc, err := (&encoder{cmp: c}).value(v, 0)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnencodable, err)
	}

	return raw, nil
}

// EncodeJSON is Marshal with two-space indentation and a trailing newline.
func EncodeJSON(v any, c *typewise.Comparator) ([]byte, error) {
	raw, err := Marshal(v, c)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer

	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnencodable, err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

type encoder struct {
	cmp *typewise.Comparator
}

//nolint:cyclop,funlen
func (e *encoder) value(v any, depth int) (any, error) {
	if depth > e.cmp.Options().MaxDepth {
		return nil, ErrTooDeep
	}

	switch x := v.(type) {
	case error:
		return tagged(tagError, x.Error()), nil
	case uuid.UUID:
		return tagged(tagUUID, x.String()), nil
	}

	c, ok := e.cmp.Classify(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnencodable, v)
	}

	u := typewise.Unbox(v)

	switch c {
	case typewise.Absent:
		return tagged(tagUndefined, true), nil
	case typewise.Null:
		return nil, nil //nolint:nilnil
	case typewise.Boolean:
		return u, nil
	case typewise.Numeric:
		return encodeNumber(u), nil
	case typewise.Temporal:
		t, _ := u.(time.Time)
		if t.IsZero() {
			return tagged(tagDate, nil), nil
		}

		return tagged(tagDate, t.Format(time.RFC3339Nano)), nil
	case typewise.Binary:
		b, _ := u.([]byte)

		return tagged(tagBinary, base64.StdEncoding.EncodeToString(b)), nil
	case typewise.Textual:
		return u, nil
	case typewise.Sequence:
		rv := reflect.ValueOf(u)
		out := make([]any, rv.Len())

		for i := range out {
			elem, err := e.value(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}

			out[i] = elem
		}

		return out, nil
	case typewise.KeyedMap:
		entries, err := e.cmp.Entries(u)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnencodable, err)
		}

		out := typewise.NewMap()

		for _, kv := range entries {
			val, err := e.value(kv.Value, depth+1)
			if err != nil {
				return nil, err
			}

			key, ok := kv.Key.(string)
			if !ok {
				key = fmt.Sprint(kv.Key)
			}

			if _, dup := out.Get(key); dup {
				return nil, fmt.Errorf("%w: map key %v collides with %q", ErrUnencodable, kv.Key, key)
			}

			out.Set(key, val)
		}

		return out, nil
	case typewise.Pattern:
		_, parts, err := e.cmp.Registry().Serialize(u)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnencodable, err)
		}

		return tagged(tagRegexp, parts), nil
	case typewise.Callable:
		return tagged(tagFunction, reflect.TypeOf(u).NumIn()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnencodable, c)
	}
}

func encodeNumber(u any) any {
	switch x := u.(type) {
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case uint64:
		return json.Number(strconv.FormatUint(x, 10))
	case float64:
		switch {
		case math.IsNaN(x):
			return tagged(tagNaN, true)
		case math.IsInf(x, 0):
			return tagged(tagInf, sign(x))
		default:
			return json.Number(strconv.FormatFloat(x, 'g', -1, 64))
		}
	case *big.Int:
		return json.Number(x.String())
	}

	f, ok := typewise.Number(u)
	if !ok {
		return tagged(tagNaN, true)
	}

	if f.IsInf() {
		return tagged(tagInf, f.Sign())
	}

	return json.Number(f.Text('g', -1))
}

func sign(f float64) int {
	if f < 0 {
		return -1
	}

	return 1
}
