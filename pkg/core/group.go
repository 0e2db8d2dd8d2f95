package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Group runs independent workers and joins them at a barrier.
// Unlike errgroup it never cancels siblings on failure: Wait returns only
// after every worker has finished, with all failures combined.
type Group struct {
	ctx    context.Context
	id     string
	logger *slog.Logger

	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

// NewGroup creates a Group whose workers receive ctx.
func NewGroup(ctx context.Context, logger *slog.Logger) *Group {
	if logger == nil {
		logger = discardLogger()
	}
	id := uuid.NewString()
	return &Group{
		ctx:    ctx,
		id:     id,
		logger: logger.With("run_id", id),
	}
}

// ID returns the run identifier attached to every log line of this group.
func (g *Group) ID() string { return g.id }

// Go dispatches fn on its own goroutine. A panic in fn is reported as that
// worker's error.
func (g *Group) Go(name string, fn func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		start := time.Now()
		err := g.run(fn)
		if err != nil {
			g.logger.Error("worker failed", "worker", name, "error", err)
			g.record(fmt.Errorf("worker %s: %w", name, err))
			return
		}
		g.logger.Debug("worker finished", "worker", name, "elapsed", time.Since(start))
	}()
}

func (g *Group) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(g.ctx)
}

func (g *Group) record(err error) {
	g.mu.Lock()
	g.err = multierr.Append(g.err, err)
	g.mu.Unlock()
}

// Wait blocks until every dispatched worker has returned and reports all
// worker failures. Use multierr.Errors to inspect them individually.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
