package matrixvault

import (
	"context"
	"log/slog"

	"github.com/aretw0/matrixvault/internal/platform"
	"github.com/aretw0/matrixvault/pkg/core"
)

// --- Types ---

// Matrix is a public alias for the immutable dense matrix.
type Matrix = core.Matrix

// Repository is a public alias for the storage contract.
type Repository = core.Repository

// Service is a public alias for the bulk I/O service.
type Service = core.Service

// Job is a public alias for one unit of WriteAll work.
type Job = core.Job

// --- Configuration ---

// Option defines a functional option for configuring a vault.
type Option = platform.Option

// WithLogger sets the logger for the repository and the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithCodec uses a custom codec for every file.
func WithCodec(c core.Codec) Option {
	return platform.WithCodec(c)
}

// WithFormat selects a built-in codec by name.
func WithFormat(name string) Option {
	return platform.WithFormat(name)
}

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return platform.WithPrefix(prefix)
}

// WithExtension overrides the file extension.
func WithExtension(ext string) Option {
	return platform.WithExtension(ext)
}

// WithMustExist requires the directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly disables every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithAtomicWrites toggles temp-file-and-rename writes.
func WithAtomicWrites(enabled bool) Option {
	return platform.WithAtomicWrites(enabled)
}

// WithCache enables the decoded-matrix cache.
func WithCache(enabled bool) Option {
	return platform.WithCache(enabled)
}

// WithLenient relaxes row-length checks of the JSON and YAML codecs.
func WithLenient(enabled bool) Option {
	return platform.WithLenient(enabled)
}

// WithWorkers sets the default worker count of batch operations.
func WithWorkers(n int) Option {
	return platform.WithWorkers(n)
}

// WithForceTemp re-roots the vault under the system temp directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithRepository injects a custom repository.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// --- Factory ---

// New opens the vault at path and returns a Service over it.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open opens the vault at path and returns its repository.
func Open(path string, opts ...Option) (core.Repository, error) {
	return platform.Open(path, opts...)
}

// --- Operations ---

// WriteAll runs independent write jobs concurrently and joins them.
func WriteAll(ctx context.Context, logger *slog.Logger, jobs []Job) error {
	return core.WriteAll(ctx, logger, jobs)
}

// CompareArrays reports whether two matrix slices are element-wise equal.
func CompareArrays(a, b []*Matrix) bool {
	return core.CompareArrays(a, b)
}

// FindRoot looks upwards from startDir for a matrixvault.yaml file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
