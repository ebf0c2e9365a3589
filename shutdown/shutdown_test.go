package shutdown

import (
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/amp-labs/typewise/logger"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestShutdown_RunsHooksInOrderBeforeCancel(t *testing.T) {
	t.Parallel()

	h := New()

	ctx, stop := h.Listen(logger.WithLogger(t.Context(), slogt.New(t)))
	defer stop()

	var (
		order    []int
		canceled atomic.Bool
	)

	for i := range 3 {
		h.BeforeShutdown(func() {
			order = append(order, i)

			if ctx.Err() != nil {
				canceled.Store(true)
			}
		})
	}

	h.Shutdown()
	waitDone(t, ctx.Done())

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.False(t, canceled.Load(), "hooks must run before the context is canceled")
}

func TestShutdown_Signal(t *testing.T) {
	t.Parallel()

	h := New()

	ctx, stop := h.Listen(t.Context())
	defer stop()

	var called atomic.Bool

	h.BeforeShutdown(func() { called.Store(true) })

	h.signals <- syscall.SIGTERM

	waitDone(t, ctx.Done())
	assert.True(t, called.Load())
}

func TestShutdown_StopSkipsHooks(t *testing.T) {
	t.Parallel()

	h := New()

	ctx, stop := h.Listen(t.Context())

	var called atomic.Bool

	h.BeforeShutdown(func() { called.Store(true) })

	stop()
	stop()

	waitDone(t, ctx.Done())
	assert.False(t, called.Load())
	assert.NotPanics(t, h.Shutdown)
}

func TestShutdown_BeforeListen(t *testing.T) {
	t.Parallel()

	h := New()
	h.Shutdown()
	h.Shutdown()

	ctx, stop := h.Listen(t.Context())
	defer stop()

	waitDone(t, ctx.Done())
}

func TestConcurrentBeforeShutdown(t *testing.T) {
	t.Parallel()

	const goroutines = 100

	h := New()

	var wg sync.WaitGroup

	for range goroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			h.BeforeShutdown(func() {})
		}()
	}

	wg.Wait()

	h.mut.Lock()
	defer h.mut.Unlock()

	require.Len(t, h.hooks, goroutines)
}
