package platform

import (
	"log/slog"

	"github.com/aretw0/matrixvault/pkg/core"
)

// options holds the internal configuration for a matrix vault.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	codec      core.Codec
	format     string
	prefix     string
	extension  string
	mustExist  bool
	readOnly   bool
	atomic     bool
	cache      bool
	lenient    bool
	forceTemp  bool
	workers    int
}

// Option defines a functional option for configuring a vault.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		format: "text",
		atomic: true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger shared by the repository and the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCodec uses c for every file. It takes precedence over WithFormat.
func WithCodec(c core.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithFormat selects a built-in codec by name ("text", "binary", "json", "yaml").
func WithFormat(name string) Option {
	return func(o *options) {
		o.format = name
	}
}

// WithPrefix sets the file name prefix (default "matrix").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithExtension overrides the codec's file extension.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// WithMustExist makes opening fail when the directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly rejects Save, Delete and Teardown with core.ErrReadOnly and
// never creates the directory.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithAtomicWrites toggles temp-file-and-rename writes. Enabled by default.
func WithAtomicWrites(enabled bool) Option {
	return func(o *options) {
		o.atomic = enabled
	}
}

// WithCache keeps decoded matrices in memory while their file is unchanged.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithLenient makes the JSON and YAML codecs ignore extra entries in rows
// longer than the first one.
func WithLenient(enabled bool) Option {
	return func(o *options) {
		o.lenient = enabled
	}
}

// WithWorkers sets the default worker count of batch operations.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithForceTemp re-roots the vault under the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithRepository injects a repository; every storage option is then ignored.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}
