package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/matrixvault/pkg/codec"
	"github.com/aretw0/matrixvault/pkg/core"
)

// DefaultPrefix is the file name prefix used when Config.Naming has none.
const DefaultPrefix = "matrix"

// Repository implements core.Repository over one directory: index i is
// stored in the file Naming.FileName(i) encoded with Codec.
type Repository struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastList      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	Naming    core.Naming // Prefix defaults to DefaultPrefix, Extension to Codec.Extension()
	Codec     core.Codec  // defaults to the text codec
	Logger    *slog.Logger
	MustExist bool        // Initialize fails instead of creating the directory
	ReadOnly  bool        // Save, Delete and Teardown return core.ErrReadOnly
	Atomic    bool        // write through a temp file and rename
	Cache     bool        // reuse decoded matrices while the file is unchanged
	Perm      os.FileMode // defaults to 0644
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Codec == nil {
		config.Codec = codec.NewText(codec.DefaultSeparator)
	}
	if config.Naming.Prefix == "" {
		config.Naming.Prefix = DefaultPrefix
	}
	if config.Naming.Extension == "" {
		config.Naming.Extension = config.Codec.Extension()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Perm == 0 {
		config.Perm = 0644
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(),
	}
}

// Naming returns the file naming scheme of this repository.
func (r *Repository) Naming() core.Naming { return r.config.Naming }

// Codec returns the codec used for every file.
func (r *Repository) Codec() core.Codec { return r.config.Codec }

// Initialize ensures the directory exists, creating it if absent.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			if r.config.ReadOnly && !r.config.MustExist {
				return nil
			}
			return fmt.Errorf("matrix directory does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat matrix directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("matrix path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create matrix directory: %w", err)
	}
	return nil
}

// Save encodes m into the file for index, replacing previous content.
func (r *Repository) Save(ctx context.Context, index int, m *core.Matrix) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if index < 0 {
		return fmt.Errorf("negative index %d: %w", index, core.ErrOutOfRange)
	}
	if m == nil {
		return core.ErrNilMatrix
	}

	name := r.config.Naming.FileName(index)
	fullPath := filepath.Join(r.Path, name)
	encode := func(w io.Writer) error {
		return r.config.Codec.Encode(w, m)
	}

	var err error
	if r.config.Atomic {
		err = writeFileAtomic(fullPath, r.config.Perm, encode)
	} else {
		err = writeFileDirect(fullPath, r.config.Perm, encode)
	}
	r.cache.Invalidate(name)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	r.config.Logger.Debug("matrix saved",
		"file", name,
		"index", index,
		"codec", r.config.Codec.Name(),
		"rows", m.Rows(),
		"cols", m.Cols(),
	)
	return nil
}

// Get decodes the matrix stored under index.
func (r *Repository) Get(ctx context.Context, index int) (*core.Matrix, error) {
	if index < 0 {
		return nil, fmt.Errorf("negative index %d: %w", index, core.ErrOutOfRange)
	}
	return r.read(r.config.Naming.FileName(index))
}

func (r *Repository) read(name string) (*core.Matrix, error) {
	fullPath := filepath.Join(r.Path, name)

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var info os.FileInfo
	if r.config.Cache {
		if info, err = f.Stat(); err == nil {
			if m, hit := r.cache.Get(name, info.Size(), info.ModTime()); hit {
				return m, nil
			}
		}
	}

	m, err := r.config.Codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	if r.config.Cache && info != nil {
		r.cache.Set(name, info.Size(), info.ModTime(), m)
	}
	return m, nil
}

// List scans the directory for files matching the naming pattern and
// returns them sorted by index. Names whose middle part is not an index
// (e.g. "matrix_old.txt" for prefix "matrix") are skipped.
func (r *Repository) List(ctx context.Context) ([]core.Entry, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.Path, err)
	}
	names, err := doublestar.Glob(os.DirFS(r.Path), r.config.Naming.Pattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.Path, err)
	}

	entries := make([]core.Entry, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		index, ok := r.config.Naming.ParseIndex(name)
		if !ok {
			r.config.Logger.Debug("skipping file outside naming scheme", "file", name)
			continue
		}
		seen[name] = true
		entries = append(entries, core.Entry{Index: index, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})

	r.cache.Prune(seen)
	r.recordList()
	return entries, nil
}

// ReadAll decodes every listed file in index order.
func (r *Repository) ReadAll(ctx context.Context) ([]*core.Matrix, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Matrix, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := r.read(e.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Delete removes the file for index.
func (r *Repository) Delete(ctx context.Context, index int) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	name := r.config.Naming.FileName(index)
	r.cache.Invalidate(name)
	if err := os.Remove(filepath.Join(r.Path, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("matrix %d not found: %w", index, err)
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Teardown recursively deletes the repository directory. A missing
// directory is not an error.
func (r *Repository) Teardown(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	r.cache.Reset()
	if err := os.RemoveAll(r.Path); err != nil {
		return fmt.Errorf("failed to remove matrix directory: %w", err)
	}
	r.config.Logger.Debug("matrix directory removed", "path", r.Path)
	return nil
}

var _ core.Repository = (*Repository)(nil)
