// Package lifecycle bridges repository change events into the
// github.com/aretw0/lifecycle event model.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/matrixvault/pkg/core"
)

// MatrixEvent is the lifecycle.Event emitted for one stored matrix.
type MatrixEvent struct {
	core.Event
}

// String renders the event as "matrix #<index> <verb> (<file>)".
func (e MatrixEvent) String() string {
	verb := "changed"
	switch e.Type {
	case core.EventCreate:
		verb = "created"
	case core.EventModify:
		verb = "modified"
	case core.EventDelete:
		verb = "deleted"
	}
	return fmt.Sprintf("matrix #%d %s (%s)", e.Index, verb, e.Name)
}

type matrixSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	logger *slog.Logger
}

// NewSource creates a lifecycle.Source that emits a MatrixEvent per
// repository event. Back-to-back events with the same index and type (one
// write reported several times) are forwarded once.
func NewSource(events <-chan core.Event, logger *slog.Logger) lifecycle.Source {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &matrixSource{
		events: events,
		out:    make(chan lifecycle.Event),
		logger: logger,
	}
}

func (s *matrixSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *matrixSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		var last *core.Event
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if last != nil && last.Index == e.Index && last.Type == e.Type {
					s.logger.Debug("duplicate matrix event coalesced", "index", e.Index, "type", e.Type)
					continue
				}
				last = &e
				select {
				case s.out <- MatrixEvent{Event: e}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
