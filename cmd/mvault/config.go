package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/matrixvault"
	"github.com/aretw0/matrixvault/internal/platform"
)

// config mirrors matrixvault.yaml. Flags set on the command line win.
type config struct {
	Dir       string `yaml:"dir"`
	Format    string `yaml:"format"`
	Prefix    string `yaml:"prefix"`
	Extension string `yaml:"extension"`
	Workers   int    `yaml:"workers"`
	Atomic    *bool  `yaml:"atomic"`
	Lenient   bool   `yaml:"lenient"`
}

// loadConfig reads path, or the nearest matrixvault.yaml above the working
// directory when path is empty. No file at all yields an empty config.
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("failed to get working directory: %w", err)
		}
		root, err := platform.FindRoot(wd)
		if errors.Is(err, platform.ErrRootNotFound) {
			return cfg, nil
		}
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(root, platform.ConfigFileName)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Dir != "" && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(filepath.Dir(path), cfg.Dir)
	}
	slog.Debug("config loaded", "file", path)
	return cfg, nil
}

// merge overlays flags onto the file values. A flag counts only when it was
// set explicitly or the file left the setting empty.
func (c config) merge(flags *pflag.FlagSet) config {
	str := func(name string, cur *string) {
		if flags.Changed(name) || *cur == "" {
			*cur, _ = flags.GetString(name)
		}
	}
	str("dir", &c.Dir)
	str("format", &c.Format)
	str("prefix", &c.Prefix)
	str("extension", &c.Extension)

	if flags.Changed("workers") || c.Workers == 0 {
		c.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("atomic") || c.Atomic == nil {
		v, _ := flags.GetBool("atomic")
		c.Atomic = &v
	}
	if flags.Changed("lenient") {
		c.Lenient, _ = flags.GetBool("lenient")
	}
	return c
}

// options turns the settings into vault options for the given format.
func (c config) options(format string, extra ...matrixvault.Option) []matrixvault.Option {
	atomic := true
	if c.Atomic != nil {
		atomic = *c.Atomic
	}
	opts := []matrixvault.Option{
		matrixvault.WithLogger(slog.Default()),
		matrixvault.WithFormat(format),
		matrixvault.WithPrefix(c.Prefix),
		matrixvault.WithWorkers(c.Workers),
		matrixvault.WithAtomicWrites(atomic),
		matrixvault.WithLenient(c.Lenient),
	}
	if format == c.Format {
		opts = append(opts, matrixvault.WithExtension(c.Extension))
	}
	return append(opts, extra...)
}
