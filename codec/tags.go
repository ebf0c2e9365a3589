package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/amp-labs/typewise/typewise"
	"github.com/google/uuid"
)

const (
	tagUndefined = "$undefined"
	tagDate      = "$date"
	tagBinary    = "$binary"
	tagUUID      = "$uuid"
	tagRegexp    = "$regexp"
	tagNaN       = "$nan"
	tagInf       = "$inf"
	tagError     = "$error"
	tagFunction  = "$function"
)

var anyType = reflect.TypeFor[any]() //nolint:gochecknoglobals

// untag turns a single-entry map whose key is a known tag into the value it stands for.
// Any other map is returned as is.
//
//nolint:cyclop,funlen
func untag(m *typewise.Map) (any, error) {
	if m.Len() != 1 {
		return m, nil
	}

	key := m.Keys()[0]
	if !strings.HasPrefix(key, "$") {
		return m, nil
	}

	payload, _ := m.Get(key)

	switch key {
	case tagUndefined:
		if payload != true {
			return nil, invalidTag(key, payload)
		}

		return typewise.Undefined, nil
	case tagNaN:
		if payload != true {
			return nil, invalidTag(key, payload)
		}

		return math.NaN(), nil
	case tagInf:
		switch payload {
		case int64(1):
			return math.Inf(1), nil
		case int64(-1):
			return math.Inf(-1), nil
		default:
			return nil, invalidTag(key, payload)
		}
	case tagDate:
		return untagDate(payload)
	case tagBinary:
		s, ok := payload.(string)
		if !ok {
			return nil, invalidTag(key, payload)
		}

		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTag, key, err)
		}

		return b, nil
	case tagUUID:
		s, ok := payload.(string)
		if !ok {
			return nil, invalidTag(key, payload)
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTag, key, err)
		}

		return id, nil
	case tagRegexp:
		return untagRegexp(payload)
	case tagError:
		s, ok := payload.(string)
		if !ok {
			return nil, invalidTag(key, payload)
		}

		return errors.New(s), nil //nolint:err113
	case tagFunction:
		arity, ok := payload.(int64)
		if !ok || arity < 0 || arity > math.MaxUint8 {
			return nil, invalidTag(key, payload)
		}

		return makeFunc(int(arity)), nil
	default:
		return m, nil
	}
}

func untagDate(payload any) (any, error) {
	switch x := payload.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTag, tagDate, err)
		}

		return t, nil
	default:
		return nil, invalidTag(tagDate, payload)
	}
}

func untagRegexp(payload any) (any, error) {
	list, ok := payload.([]any)
	if !ok {
		return nil, invalidTag(tagRegexp, payload)
	}

	parts := make([]string, len(list))

	for i, p := range list {
		s, ok := p.(string)
		if !ok {
			return nil, invalidTag(tagRegexp, payload)
		}

		parts[i] = s
	}

	v, err := typewise.DefaultRegistry().Parse(typewise.Pattern, parts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTag, tagRegexp, err)
	}

	return v, nil
}

// makeFunc builds a callable that takes arity arguments and returns nothing. Callables
// order by arity, so that is all the decoded value needs to carry.
func makeFunc(arity int) any {
	in := make([]reflect.Type, arity)
	for i := range in {
		in[i] = anyType
	}

	typ := reflect.FuncOf(in, nil, false)

	return reflect.MakeFunc(typ, func([]reflect.Value) []reflect.Value { return nil }).Interface()
}

func tagged(key string, payload any) *typewise.Map {
	return typewise.NewMap(typewise.Entry{Key: key, Value: payload})
}

func invalidTag(key string, payload any) error {
	return fmt.Errorf("%w: %s cannot hold %s", ErrInvalidTag, key, describe(payload))
}
