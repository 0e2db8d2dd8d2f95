package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Pattern       string     `json:"pattern"`
	Codec         string     `json:"codec"`
	CacheSize     int        `json:"cache_size"`
	ReadOnly      bool       `json:"read_only"`
	Atomic        bool       `json:"atomic"`
	WatcherActive bool       `json:"watcher_active"`
	LastList      *time.Time `json:"last_list,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		Pattern:       r.config.Naming.Pattern(),
		Codec:         r.config.Codec.Name(),
		CacheSize:     r.cache.Len(),
		ReadOnly:      r.config.ReadOnly,
		Atomic:        r.config.Atomic,
		WatcherActive: r.watcherActive,
		LastList:      r.lastList,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordList() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastList = &now
}
