package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"go.uber.org/multierr"
)

// Service orchestrates bulk reads and writes of matrix arrays against a Repository.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	workers int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for batch progress.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultWorkers sets the worker count used when a batch call passes 0.
func WithDefaultWorkers(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		logger:  discardLogger(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying repository.
func (s *Service) Repository() Repository { return s.repo }

// WriteArray writes arr[i] under index i.
func (s *Service) WriteArray(ctx context.Context, arr []*Matrix) error {
	return s.WriteRange(ctx, 0, arr)
}

// WriteRange writes arr[i] under index offset+i, one file per matrix.
// A failing file does not stop the remaining ones; all failures are returned.
func (s *Service) WriteRange(ctx context.Context, offset int, arr []*Matrix) error {
	if err := s.repo.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	return writeRange(ctx, s.repo, s.logger, offset, arr)
}

func writeRange(ctx context.Context, repo Repository, logger *slog.Logger, offset int, arr []*Matrix) error {
	var errs error
	for i, m := range arr {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		index := offset + i
		if err := repo.Save(ctx, index, m); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("index %d: %w", index, err))
			continue
		}
		if (i+1)%10 == 0 {
			logger.Debug("matrices written", "count", i+1, "last_index", index)
		}
	}
	return errs
}

// ReadArray reads every stored matrix ordered by index.
func (s *Service) ReadArray(ctx context.Context) ([]*Matrix, error) {
	return s.repo.ReadAll(ctx)
}

// WriteBatches splits arr into contiguous index ranges and writes each range
// on its own worker. It returns once every worker is done.
func (s *Service) WriteBatches(ctx context.Context, arr []*Matrix, workers int) error {
	if err := s.repo.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	g := NewGroup(ctx, s.logger)
	for _, p := range partition(len(arr), s.workerCount(workers)) {
		g.Go(fmt.Sprintf("write[%d:%d]", p.lo, p.hi), func(ctx context.Context) error {
			return writeRange(ctx, s.repo, s.logger, p.lo, arr[p.lo:p.hi])
		})
	}
	return g.Wait()
}

// ReadBatches lists the repository, decodes disjoint slices of it on
// separate workers and returns the matrices ordered by index.
func (s *Service) ReadBatches(ctx context.Context, workers int) ([]*Matrix, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Matrix, len(entries))
	g := NewGroup(ctx, s.logger)
	for _, p := range partition(len(entries), s.workerCount(workers)) {
		g.Go(fmt.Sprintf("read[%d:%d]", p.lo, p.hi), func(ctx context.Context) error {
			var errs error
			for k := p.lo; k < p.hi; k++ {
				if err := ctx.Err(); err != nil {
					return multierr.Append(errs, err)
				}
				m, err := s.repo.Get(ctx, entries[k].Index)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				out[k] = m
			}
			return errs
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Teardown removes everything the repository stores.
func (s *Service) Teardown(ctx context.Context) error {
	return s.repo.Teardown(ctx)
}

func (s *Service) workerCount(n int) int {
	if n > 0 {
		return n
	}
	return s.workers
}

// Job is one independent unit of bulk work for WriteAll.
type Job struct {
	Name     string
	Repo     Repository
	Offset   int
	Matrices []*Matrix
}

// WriteAll runs every job on its own worker and joins them. Jobs must not
// target the same file; distinct repositories or disjoint index ranges
// guarantee that.
func WriteAll(ctx context.Context, logger *slog.Logger, jobs []Job) error {
	if logger == nil {
		logger = discardLogger()
	}
	g := NewGroup(ctx, logger)
	for i, job := range jobs {
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i)
		}
		g.Go(name, func(ctx context.Context) error {
			if err := job.Repo.Initialize(ctx); err != nil {
				return fmt.Errorf("failed to initialize repository: %w", err)
			}
			return writeRange(ctx, job.Repo, logger, job.Offset, job.Matrices)
		})
	}
	return g.Wait()
}

type span struct{ lo, hi int }

// partition splits [0, n) into at most k contiguous, non-empty spans.
func partition(n, k int) []span {
	if n == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	spans := make([]span, 0, k)
	size, rem := n/k, n%k
	lo := 0
	for i := 0; i < k; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		spans = append(spans, span{lo, hi})
		lo = hi
	}
	return spans
}
