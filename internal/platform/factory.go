package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/matrixvault/pkg/adapters/fs"
	"github.com/aretw0/matrixvault/pkg/codec"
	"github.com/aretw0/matrixvault/pkg/core"
)

// New opens the vault at path and wraps it in a Service.
//
//	svc, err := matrixvault.New("./matrices", matrixvault.WithFormat("binary"))
func New(path string, opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)
	repo, err := open(path, o)
	if err != nil {
		return nil, err
	}

	var svcOpts []core.ServiceOption
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	if o.workers > 0 {
		svcOpts = append(svcOpts, core.WithDefaultWorkers(o.workers))
	}
	return core.NewService(repo, svcOpts...), nil
}

// Open builds the repository for path and initializes it.
func Open(path string, opts ...Option) (core.Repository, error) {
	return open(path, buildOptions(opts))
}

func open(path string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	c, err := resolveCodec(o)
	if err != nil {
		return nil, err
	}

	resolved := ResolvePath(path, o.forceTemp && !o.readOnly)
	if o.logger != nil && resolved != path {
		o.logger.Warn("running in temp directory", "original_path", path, "resolved_path", resolved)
	}

	repo := fs.NewRepository(fs.Config{
		Path:      resolved,
		Naming:    core.Naming{Prefix: o.prefix, Extension: normalizeExt(o.extension)},
		Codec:     c,
		Logger:    o.logger,
		MustExist: o.mustExist,
		ReadOnly:  o.readOnly,
		Atomic:    o.atomic,
		Cache:     o.cache,
	})
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func resolveCodec(o *options) (core.Codec, error) {
	if o.codec != nil {
		return o.codec, nil
	}
	c, err := codec.ByName(o.format)
	if err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}
	switch c := c.(type) {
	case *codec.JSON:
		c.Lenient = o.lenient
	case *codec.YAML:
		c.Lenient = o.lenient
	}
	return c, nil
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
