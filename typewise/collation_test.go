package typewise

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortStrings(t *testing.T, c *Comparator, in ...string) []string {
	t.Helper()

	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b string) int {
		o, err := c.Compare(a, b)
		require.NoError(t, err)

		return o.Int()
	})

	return out
}

func TestCollation_CodeUnits(t *testing.T) {
	t.Parallel()

	// U+FF5E (BMP, above the surrogate range) sorts after U+1F600 in UTF-16 order,
	// but before it in code point (and UTF-8 byte) order.
	const bmp, astral = "\uFF5E", "\U0001F600"

	assert.Equal(t, 1, compareCodeUnits(bmp, astral))
	assert.Equal(t, -1, compareCodeUnits(astral, bmp))
	assert.Equal(t, 0, compareCodeUnits(astral, astral))
	assert.Equal(t, -1, compareCodeUnits("\U0001F600", "\U0001F601"))
	assert.Equal(t, -1, compareCodeUnits("B", "a"))
	assert.Equal(t, -1, compareCodeUnits("", "a"))

	byBytes, err := New(WithCollation(Bytes))
	require.NoError(t, err)

	o, err := byBytes.Compare(bmp, astral)
	require.NoError(t, err)
	assert.Equal(t, Less, o)

	assert.Equal(t, Greater, mustCompare(t, bmp, astral))
}

func TestCollation_Natural(t *testing.T) {
	t.Parallel()

	c, err := New(WithCollation(Natural))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"file1", "file2", "file10"},
		sortStrings(t, c, "file10", "file2", "file1"))

	assert.Equal(t,
		[]string{"file1", "file10", "file2"},
		sortStrings(t, Default(), "file10", "file2", "file1"))
}

func TestCollation_NFC(t *testing.T) {
	t.Parallel()

	composed, decomposed := "\u00e9", "e\u0301"

	c, err := New(WithCollation(NFC))
	require.NoError(t, err)

	o, err := c.Compare(composed, decomposed)
	require.NoError(t, err)
	assert.Equal(t, Equal, o)

	assert.NotEqual(t, Equal, mustCompare(t, composed, decomposed))
}

func TestCollation_Locale(t *testing.T) {
	t.Parallel()

	c, err := New(WithLocale("en"))
	require.NoError(t, err)
	assert.Equal(t, Locale, c.Options().Collation)

	assert.Equal(t,
		[]string{"apple", "Banana", "cherry"},
		sortStrings(t, c, "cherry", "Banana", "apple"))
}

func TestCollations(t *testing.T) {
	t.Parallel()

	for _, col := range Collations() {
		opts := []Option{WithCollation(col)}
		if col == Locale {
			opts = append(opts, WithLocale("de"))
		}

		c, err := New(opts...)
		require.NoError(t, err, col)

		o, err := c.Compare("a", "b")
		require.NoError(t, err)
		assert.Equal(t, Less, o, col)
	}
}
