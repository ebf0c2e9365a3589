package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amp-labs/typewise/codec"
	"github.com/amp-labs/typewise/config"
	"github.com/amp-labs/typewise/sorting"
	"github.com/amp-labs/typewise/typewise"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestGolden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "sort_mixed", args: []string{"sort", "testdata/mixed.json"}},
		{name: "sort_reverse", args: []string{"sort", "--reverse", "testdata/mixed.json"}},
		{name: "sort_yaml", args: []string{"sort", "testdata/mixed.yaml"}},
		{name: "sort_faults_last", args: []string{"sort", "--unordered", "last", "--workers", "2", "testdata/faults.json"}},
		{
			name:  "sort_natural",
			stdin: `["img10", "img2", "img1"]`,
			args:  []string{"sort", "--collation", "natural", "-"},
		},
		{name: "classify_mixed", args: []string{"classify", "testdata/mixed.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err, stderr)

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, tt.name, []byte(stdout))
		})
	}
}

func TestSort_NoOrdering(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t, "", "sort", "testdata/faults.json")
	require.ErrorIs(t, err, sorting.ErrNoOrdering)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Empty(t, stdout)

	for _, want := range []string{"values have no ordering", "item 1", "item 3", "index=1", "index=3"} {
		assert.Contains(t, stderr, want)
	}
}

func TestSort_MatchesLibrary(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "sort", "testdata/mixed.yaml")
	require.NoError(t, err)

	data, err := os.ReadFile("testdata/mixed.yaml")
	require.NoError(t, err)

	want, err := codec.DecodeValues(codec.YAML, data)
	require.NoError(t, err)
	require.NoError(t, sorting.Sort(want))

	got, err := codec.DecodeValues(codec.JSON, []byte(stdout))
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		ord, err := typewise.Compare(want[i], got[i])
		require.NoError(t, err)
		assert.Equal(t, typewise.Equal, ord, "index %d", i)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
		code int
	}{
		{name: "numbers", args: []string{"1", "2.5"}, want: "less"},
		{name: "across kinds", args: []string{"2", "2.0"}, want: "equal"},
		{name: "category precedence", args: []string{`"a"`, "1000"}, want: "greater"},
		{name: "bare word is a string", args: []string{"apple", `"apple"`}, want: "equal"},
		{name: "fault", args: []string{`{"$error":"x"}`, "1"}, want: "unordered"},
		{name: "nan", args: []string{`{"$nan":true}`, "1"}, want: "unordered", code: exitFailure},
		{name: "collation", args: []string{"--collation", "natural", "x10", "x9"}, want: "greater"},
		{name: "reverse", args: []string{"--reverse", "1", "2"}, want: "greater"},
		{name: "reverse keeps unordered", args: []string{"--reverse", `{"$error":"x"}`, "1"}, want: "unordered"},
		{name: "field", args: []string{"--field", "age", `{"name":"b","age":3}`, `{"name":"a","age":7}`}, want: "less"},
		{name: "missing field", args: []string{"--field", "age", `{"name":"b"}`, `{"age":null}`}, want: "less"},
		{name: "field of a non-object", args: []string{"--field", "age", "5", `"x"`}, want: "equal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, "", append([]string{"compare"}, tt.args...)...)
			if tt.code != 0 {
				require.ErrorIs(t, err, typewise.ErrIncomparable)
				assert.Equal(t, tt.code, exitCode(err))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	badConfig := filepath.Join(t.TempDir(), "typewise.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("colation: natural\n"), 0o600))

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  error
	}{
		{name: "unknown input format", args: []string{"sort", "--input", "toml", "testdata/mixed.json"}, want: codec.ErrUnknownFormat},
		{name: "unknown collation", args: []string{"sort", "--collation", "klingon", "testdata/mixed.json"}, want: config.ErrInvalidConfig},
		{name: "bad policy", args: []string{"sort", "--unordered", "first", "testdata/mixed.json"}, want: config.ErrInvalidConfig},
		{name: "negative workers", args: []string{"sort", "--workers", "-1", "testdata/mixed.json"}, want: config.ErrInvalidConfig},
		{name: "bad config file", args: []string{"--config", badConfig, "sort", "testdata/mixed.json"}, want: config.ErrInvalidConfig},
		{name: "missing file", args: []string{"classify", "testdata/missing.json"}, want: os.ErrNotExist},
		{name: "not a list", stdin: `{"a": 1}`, args: []string{"sort"}, want: codec.ErrNotSequence},
		{name: "malformed", stdin: `[1,`, args: []string{"classify"}, want: codec.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.stdin, tt.args...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, exitUsage, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exitInterrupted, exitCode(fmt.Errorf("sorting: %w", context.Canceled)))
	assert.Equal(t, exitFailure, exitCode(failure(sorting.ErrNoOrdering)))
	assert.Equal(t, exitUsage, exitCode(usageError("bad flag %q", "x")))
	assert.Equal(t, exitUsage, exitCode(codec.ErrSyntax))
}

func TestClassify_Hash(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, `[1, 1.0, "1", {"$error": "x"}, {"$nan": true}]`, "classify", "--hash")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)

	column := func(line string) string { return strings.Fields(line)[2] }

	assert.Equal(t, column(lines[0]), column(lines[1]))
	assert.NotEqual(t, column(lines[0]), column(lines[2]))
	assert.Len(t, column(lines[0]), 16)
	assert.Equal(t, noHash, column(lines[3]))
	assert.Equal(t, noHash, column(lines[4]))
	assert.Equal(t, faultLabel, strings.Fields(lines[3])[1])
}
