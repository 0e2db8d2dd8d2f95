package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/matrixvault/pkg/core"
)

// EventBufferSize is the capacity of the channel returned by Watch.
const EventBufferSize = 100

// Watch reports creations, modifications and deletions of files that belong
// to the naming scheme. A single write may be reported more than once. The
// channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Event, EventBufferSize)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher panic", "error", err)
	}))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e, ok := r.mapEvent(event)
			if !ok {
				continue
			}
			r.cache.Invalidate(e.Name)
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.config.Logger.Error("fsnotify error", "error", err)
		}
	}
}

// mapEvent translates an fsnotify event into a core.Event. Files outside the
// naming scheme (including atomic-write temp files) are ignored.
func (r *Repository) mapEvent(event fsnotify.Event) (core.Event, bool) {
	name := filepath.Base(event.Name)
	index, ok := r.config.Naming.ParseIndex(name)
	if !ok {
		return core.Event{}, false
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
	case event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return core.Event{}, false
	}

	r.config.Logger.Debug("event received", "file", name, "type", eType)
	return core.Event{
		Type:      eType,
		Index:     index,
		Name:      name,
		Timestamp: time.Now().Unix(),
	}, true
}

var _ core.Watchable = (*Repository)(nil)
