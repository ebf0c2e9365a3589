package typewise

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr   string
		source string
		flags  string
	}{
		{expr: "abc", source: "abc", flags: ""},
		{expr: "(?i)abc", source: "abc", flags: "i"},
		{expr: "(?ims)a.c$", source: "a.c$", flags: "ims"},
		{expr: "(?i)", source: "", flags: "i"},
		{expr: "(?i:abc)d", source: "(?i:abc)d", flags: ""},
		{expr: "(?-s)x", source: "(?-s)x", flags: ""},
		{expr: "(?U)(?m)x", source: "(?m)x", flags: "U"},
		{expr: "a/b", source: "a/b", flags: ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			p := regexp.MustCompile(tt.expr)

			source, flags := SerializePattern(p)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.flags, flags)

			back, err := ParsePattern(source, flags)
			require.NoError(t, err)
			assert.Equal(t, p.String(), back.String())
			assert.Equal(t, Equal, mustCompare(t, p, back))
		})
	}
}

func TestParsePattern_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParsePattern("abc", "g")
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = ParsePattern("abc", "ii")
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = ParsePattern("(", "")
	require.ErrorIs(t, err, ErrInvalidPattern)

	p, err := ParsePattern("^a+$", "i")
	require.NoError(t, err)
	assert.True(t, p.MatchString("AAA"))
}

func TestRegistry_SerializeParse(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()

	c, parts, err := r.Serialize(regexp.MustCompile("(?s)x.y"))
	require.NoError(t, err)
	assert.Equal(t, Pattern, c)
	assert.Equal(t, []string{"x.y", "s"}, parts)
	assert.True(t, r.Serializable(Pattern))

	v, err := r.Parse(Pattern, parts)
	require.NoError(t, err)
	assert.Equal(t, "(?s)x.y", v.(*regexp.Regexp).String())

	_, _, err = r.Serialize("text")
	require.ErrorIs(t, err, ErrNoSerializer)
	assert.False(t, r.Serializable(Textual))

	_, err = r.Parse(Numeric, []string{"1"})
	require.ErrorIs(t, err, ErrNoSerializer)

	_, err = r.Parse(Pattern, []string{"a", "i", "extra"})
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, _, err = r.Serialize(complex(1, 1))
	require.ErrorIs(t, err, ErrUnsupported)
}
