// Package sorting sorts heterogeneous values with the typewise order, with an explicit
// choice of what to do with values that have no ordering.
package sorting

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	typewiseerrors "github.com/amp-labs/typewise/errors"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/sortable"
)

// ErrNoOrdering wraps the failure of every value that could not be placed in the order:
// faults, NaN, invalid times and unsupported Go kinds.
var ErrNoOrdering = errors.New("value has no ordering")

// Sort sorts values in place, stably. Under PolicyError a batch containing any value
// without an ordering is left untouched and every offending index is reported.
func Sort(values []any, opts ...Option) error {
	return SortContext(context.Background(), values, opts...)
}

// SortContext is Sort with a context for logging and cancellation. A canceled sort
// leaves values untouched.
func SortContext(ctx context.Context, values []any, opts ...Option) error {
	start := time.Now()
	o := newOptions(opts)

	err := sortSerial(ctx, values, o)

	observe("serial", start, err)

	return err
}

func sortSerial(ctx context.Context, values []any, o Options) error {
	ordered, tail, err := partition(values, o)
	if err != nil {
		logger.Get(ctx).Debug("sort rejected", "values", len(values), "error", err)

		return err
	}

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	slices.SortStableFunc(ordered, o.cmp)

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	writeBack(values, ordered, tail)

	logger.Get(ctx).Debug("sorted values", "values", len(values), "unordered", len(tail))

	return nil
}

// partition validates every value. Values without an ordering are either collected as
// errors or returned as the tail, depending on the policy.
func partition(values []any, o Options) ([]sortable.Value, []any, error) {
	ordered := make([]sortable.Value, 0, len(values))

	var (
		tail []any
		errs typewiseerrors.Collection
	)

	for i, v := range values {
		x, err := sortable.NewValueWith(o.Comparator, v)
		if err == nil {
			ordered = append(ordered, x)

			continue
		}

		if o.Policy == PolicyLast {
			tail = append(tail, v)

			continue
		}

		errs.AddAt(i, logger.AnnotateError(fmt.Errorf("%w: %w", ErrNoOrdering, err),
			"index", i, "type", fmt.Sprintf("%T", v)))
	}

	sortValuesTotal.WithLabelValues("ordered").Add(float64(len(ordered)))
	sortValuesTotal.WithLabelValues("unordered").Add(float64(len(tail) + errs.Len()))

	if errs.HasError() {
		return nil, nil, errs.GetError()
	}

	return ordered, tail, nil
}

func (o Options) cmp(a, b sortable.Value) int {
	r := a.Compare(b).Int()
	if o.Reverse {
		return -r
	}

	return r
}

func writeBack(values []any, ordered []sortable.Value, tail []any) {
	for i, x := range ordered {
		values[i] = x.Any()
	}

	copy(values[len(ordered):], tail)
}

func observe(mode string, start time.Time, err error) {
	sortTime.WithLabelValues(mode, strconv.FormatBool(err != nil)).
		Observe(float64(time.Since(start).Milliseconds()))
}
