// Package shutdown turns SIGINT and SIGTERM into context cancellation for long sorts.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/typewise/logger"
)

// Handler cancels its context on the first signal, after running the registered hooks.
// The context is still live while hooks run.
type Handler struct {
	mut     sync.Mutex
	hooks   []func()
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
}

// New returns a Handler that is not yet listening.
func New() *Handler {
	return &Handler{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// BeforeShutdown registers h to run, in registration order, before the context is
// canceled.
func (s *Handler) BeforeShutdown(h func()) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.hooks = append(s.hooks, h)
}

// Shutdown triggers the same path as a signal. Called before Listen, it takes effect
// as soon as Listen starts. Repeated calls are dropped.
func (s *Handler) Shutdown() {
	select {
	case s.signals <- os.Interrupt:
	default:
	}
}

// Listen starts watching for signals and returns a context derived from parent that
// is canceled on the first one. Calling stop releases the signal handler without
// running the hooks.
func (s *Handler) Listen(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)

	signal.Notify(s.signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-s.signals:
			logger.Get(ctx).Warn("received " + sig.String() + ", shutting down")
			s.runHooks()
			cancel()
		case <-s.done:
		}
	}()

	return ctx, func() {
		s.once.Do(func() {
			signal.Stop(s.signals)
			close(s.done)
			cancel()
		})
	}
}

func (s *Handler) runHooks() {
	s.mut.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mut.Unlock()

	for _, h := range hooks {
		h()
	}
}
