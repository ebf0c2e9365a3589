package sorting

import (
	"container/heap"
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/sortable"
)

// sharedPool runs ParallelSort chunks when the caller sets neither Pool nor Workers.
var sharedPool = sync.OnceValue(func() pond.Pool { //nolint:gochecknoglobals
	return pond.NewPool(runtime.GOMAXPROCS(0))
})

// ParallelSort sorts values in place like Sort, splitting the work into ChunkSize pieces
// that are sorted on a worker pool and then merged. The result is identical to Sort's,
// including the position of equal values. On cancellation values are left untouched.
func ParallelSort(ctx context.Context, values []any, opts ...Option) error {
	start := time.Now()
	o := newOptions(opts)

	err := sortParallel(ctx, values, o)

	observe("parallel", start, err)

	return err
}

func sortParallel(ctx context.Context, values []any, o Options) error {
	if len(values) <= o.ChunkSize {
		return sortSerial(ctx, values, o)
	}

	ordered, tail, err := partition(values, o)
	if err != nil {
		logger.Get(ctx).Debug("sort rejected", "values", len(values), "error", err)

		return err
	}

	pool := o.Pool

	switch {
	case pool != nil:
	case o.Workers > 0:
		pool = pond.NewPool(o.Workers)
		defer pool.StopAndWait()
	default:
		pool = sharedPool()
	}

	chunks := slices.Collect(slices.Chunk(ordered, o.ChunkSize))
	group := pool.NewGroupContext(ctx)

	for _, chunk := range chunks {
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			slices.SortStableFunc(chunk, o.cmp)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	merged, err := merge(ctx, chunks, o.cmp, len(ordered))
	if err != nil {
		return err
	}

	writeBack(values, merged, tail)

	logger.Get(ctx).Debug("sorted values",
		"values", len(values), "unordered", len(tail), "chunks", len(chunks))

	return nil
}

// cursor is the next unmerged element of one sorted chunk.
type cursor struct {
	chunk int
	pos   int
}

type mergeHeap struct {
	chunks  [][]sortable.Value
	cursors []cursor
	cmp     func(a, b sortable.Value) int
}

func (h *mergeHeap) Len() int { return len(h.cursors) }

// Less breaks ties by chunk index, which keeps the merge stable.
func (h *mergeHeap) Less(i, j int) bool {
	a, b := h.cursors[i], h.cursors[j]

	if r := h.cmp(h.chunks[a.chunk][a.pos], h.chunks[b.chunk][b.pos]); r != 0 {
		return r < 0
	}

	return a.chunk < b.chunk
}

func (h *mergeHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *mergeHeap) Push(x any) { h.cursors = append(h.cursors, x.(cursor)) } //nolint:forcetypeassert

func (h *mergeHeap) Pop() any {
	last := h.cursors[len(h.cursors)-1]
	h.cursors = h.cursors[:len(h.cursors)-1]

	return last
}

// checkEvery is how many merged values pass between context checks.
const checkEvery = 1024

func merge(
	ctx context.Context, chunks [][]sortable.Value, cmp func(a, b sortable.Value) int, total int,
) ([]sortable.Value, error) {
	h := &mergeHeap{chunks: chunks, cmp: cmp}

	for i, c := range chunks {
		if len(c) > 0 {
			h.cursors = append(h.cursors, cursor{chunk: i})
		}
	}

	heap.Init(h)

	out := make([]sortable.Value, 0, total)

	for h.Len() > 0 {
		if len(out)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		top := &h.cursors[0]
		out = append(out, chunks[top.chunk][top.pos])

		top.pos++
		if top.pos == len(chunks[top.chunk]) {
			heap.Pop(h)
		} else {
			heap.Fix(h, 0)
		}
	}

	return out, nil
}
