package hashing

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/amp-labs/typewise/typewise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

type record struct {
	Name string
	Size int
}

func TestSum64_EqualValuesHashEqual(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		values []any
	}{
		{
			name:   "integers of every kind",
			values: []any{3, int8(3), uint64(3), 3.0, float32(3), big.NewInt(3), json.Number("3")},
		},
		{
			name:   "fractions",
			values: []any{0.5, big.NewRat(1, 2), big.NewFloat(0.5), json.Number("0.5")},
		},
		{
			name:   "signed zero",
			values: []any{0, math.Copysign(0, -1), big.NewFloat(0)},
		},
		{
			name:   "same instant in two zones",
			values: []any{when, when.In(time.FixedZone("x", 3600))},
		},
		{
			name:   "sequences of different element types",
			values: []any{[]int{1, 2}, []any{1.0, uint8(2)}, [2]int64{1, 2}},
		},
		{
			name: "keyed maps",
			values: []any{
				typewise.NewMap(typewise.Entry{Key: "Name", Value: "a"}, typewise.Entry{Key: "Size", Value: 1}),
				record{Name: "a", Size: 1},
			},
		},
		{
			name:   "go map key order",
			values: []any{map[string]int{"b": 2, "a": 1}, map[string]float64{"a": 1, "b": 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want, err := Sum64(tt.values[0])
			require.NoError(t, err)

			for _, v := range tt.values[1:] {
				got, err := Sum64(v)
				require.NoError(t, err)
				assert.Equal(t, want, got, "%T", v)
				assert.True(t, Value{V: tt.values[0]}.Equals(Value{V: v}))
			}
		})
	}
}

func TestSum64_DistinctValues(t *testing.T) {
	t.Parallel()

	values := []any{
		typewise.Undefined,
		nil,
		false,
		true,
		0,
		1,
		-1,
		time.Unix(0, 1),
		[]byte{},
		[]byte("a"),
		"",
		"a",
		[]any{},
		[]any{"a"},
		[]any{[]any{}},
		typewise.NewMap(),
		map[string]any{"a": nil},
		regexp.MustCompile("a"),
		regexp.MustCompile("(?i)a"),
		func() {},
		func(int) {},
	}

	seen := make(map[uint64]int, len(values))

	for i, v := range values {
		h, err := Sum64(v)
		require.NoError(t, err, "%#v", v)

		if j, ok := seen[h]; ok {
			t.Errorf("values %d and %d share hash %x", j, i, h)
		}

		seen[h] = i
	}
}

func TestSum64_Unhashable(t *testing.T) {
	t.Parallel()

	for _, v := range []any{
		errors.New("fault"),
		math.NaN(),
		time.Time{},
		complex(1, 2),
		[]any{1, math.NaN()},
		map[string]any{"k": errors.New("fault")},
	} {
		_, err := Sum64(v)
		require.ErrorIs(t, err, ErrUnhashable, "%#v", v)
	}
}

func TestValue_Text(t *testing.T) {
	t.Parallel()

	nfc, err := typewise.New(typewise.WithCollation(typewise.NFC))
	require.NoError(t, err)

	composed := Value{V: "\u00e9", Comparator: nfc, Text: norm.NFC.String}
	decomposed := Value{V: "e\u0301", Comparator: nfc, Text: norm.NFC.String}

	assert.True(t, composed.Equals(decomposed))

	a, err := Sha256(composed)
	require.NoError(t, err)

	b, err := Sha256(decomposed)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	plain, err := Sha256(Value{V: "e\u0301"})
	require.NoError(t, err)
	assert.NotEqual(t, a, plain)
}

func TestNewValue(t *testing.T) {
	t.Parallel()

	nfc, err := typewise.New(typewise.WithCollation(typewise.NFC))
	require.NoError(t, err)

	a, err := Xxh3(NewValue(nfc, []any{"\u00e9"}))
	require.NoError(t, err)

	b, err := Xxh3(NewValue(nfc, []any{"e\u0301"}))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Nil(t, NewValue(typewise.Default(), "x").Text)
	assert.Nil(t, NewValue(nil, "x").Text)
}

func TestDigests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fn     HashFunc
		length int
	}{
		{name: "sha256", fn: Sha256, length: 64},
		{name: "xxh3", fn: Xxh3, length: 16},
		{name: "xxh64", fn: XXH64, length: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := tt.fn(Value{V: []any{1, "x"}})
			require.NoError(t, err)
			assert.Len(t, a, tt.length)

			b, err := tt.fn(Value{V: []any{1.0, "x"}})
			require.NoError(t, err)
			assert.Equal(t, a, b)

			c, err := tt.fn(Value{V: []any{1, "y"}})
			require.NoError(t, err)
			assert.NotEqual(t, a, c)

			_, err = tt.fn(Value{V: math.NaN()})
			require.ErrorIs(t, err, ErrUnhashable)
		})
	}
}
