//nolint:err113 // Test file uses errors.New() for creating test errors
package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any

		require.NoError(t, json.Unmarshal([]byte(line), &m), line)

		out = append(out, m)
	}

	return out
}

func TestGet_ContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := slog.New(NewHandler(Options{JSON: true, Output: &buf}))

	ctx := WithLogger(t.Context(), base)
	ctx = WithSubsystem(ctx, "sorting")
	ctx = With(ctx, "collation", "natural")

	Get(ctx).Info("sorted", "values", 3)
	Get(WithMuted(ctx, true)).Error("dropped")
	Get(With(ctx)).Info("again")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "sorted", lines[0]["msg"])
	assert.Equal(t, "sorting", lines[0]["subsystem"])
	assert.Equal(t, "natural", lines[0]["collation"])
	assert.InDelta(t, 3, lines[0]["values"], 0)
	assert.Equal(t, "again", lines[1]["msg"])
}

func TestGet_NilContext(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is accepted on purpose
	assert.NotNil(t, Get(nil))
	assert.NotNil(t, Get())
	assert.Empty(t, GetSubsystem(WithSubsystem(context.Background(), "")))
}

func TestGet_Slogt(t *testing.T) {
	t.Parallel()

	ctx := WithLogger(t.Context(), slogt.New(t))
	ctx = With(WithSubsystem(ctx, "index"), "op", "put")

	Get(ctx).Debug("visible in verbose test output")
	Get(ctx).Warn("rejected key", "error", AnnotateError(errors.New("nan"), "position", 2))
}

func TestWith_DoesNotShareBackingArray(t *testing.T) {
	t.Parallel()

	base := With(t.Context(), "a", 1)
	left := With(base, "b", 2)
	right := With(base, "c", 3)

	assert.Equal(t, []any{"a", 1, "b", 2}, getValues(left))
	assert.Equal(t, []any{"a", 1, "c", 3}, getValues(right))
}

func TestOptionsFromEnv(t *testing.T) { //nolint:paralleltest
	t.Setenv("LOG_JSON", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LEGACY_LOG_LEVEL", "warn")
	t.Setenv("LOG_OUTPUT", "stdout")

	opts, err := OptionsFromEnv("typewise")
	require.NoError(t, err)

	assert.Equal(t, "typewise", opts.Subsystem)
	assert.True(t, opts.JSON)
	assert.Equal(t, slog.LevelDebug, opts.MinLevel)
	assert.Equal(t, slog.LevelWarn, opts.LegacyLevel)

	t.Setenv("LOG_LEVEL", "loud")

	_, err = OptionsFromEnv("typewise")
	require.ErrorIs(t, err, ErrInvalidLogSetting)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_OUTPUT", "file")

	_, err = OptionsFromEnv("typewise")
	require.ErrorIs(t, err, ErrInvalidLogOutput)
}

func TestConfigureLogging(t *testing.T) { //nolint:paralleltest
	t.Setenv("LOG_JSON", "false")
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer

	logger, err := ConfigureLogging("typewise", WithOutput(&buf), WithJSON(true), WithLevel(slog.LevelInfo))
	require.NoError(t, err)

	assert.Same(t, logger, slog.Default())

	Get().Info("configured")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "typewise", lines[0]["subsystem"])

	ConfigureLoggingWithOptions(Options{Output: &bytes.Buffer{}})
}

func ExampleAnnotateError() {
	var buf bytes.Buffer

	log := slog.New(NewHandler(Options{Output: &buf}))

	err := fmt.Errorf("sort failed: %w", AnnotateError(errors.New("no ordering"), "index", 4))
	log.Error("request", "error", err)

	fmt.Println(strings.Contains(buf.String(), "index=4"))
	// Output: true
}
