// Package config loads trisieve settings from a TOML or YAML file.
//
// The format is chosen by extension (.toml, .yaml or .yml). Every key is
// optional; flags given on the command line override the file.
//
//	check_triangles = true
//	common_neighbor = 3
//	extension       = 2
//	jobs            = 8
//
//	[cache]
//	dir       = "/scratch/trisieve-cache"
//	redis_url = "redis://cache.internal:6379/0"
//	ttl       = "720h"
//	prefix    = "r3-10:"
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/stream"
)

// Config is the file-level configuration.
type Config struct {
	CheckTriangles bool   `toml:"check_triangles" yaml:"check_triangles"`
	CommonNeighbor int    `toml:"common_neighbor" yaml:"common_neighbor"`
	Extension      int    `toml:"extension" yaml:"extension"`
	ShardRes       int    `toml:"shard_res" yaml:"shard_res"`
	ShardMod       int    `toml:"shard_mod" yaml:"shard_mod"`
	Jobs           int    `toml:"jobs" yaml:"jobs"`
	NoCache        bool   `toml:"no_cache" yaml:"no_cache"`
	MetricsFile    string `toml:"metrics_file" yaml:"metrics_file"`
	Cache          Cache  `toml:"cache" yaml:"cache"`
}

// Cache configures the result cache.
type Cache struct {
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	TTL      string `toml:"ttl" yaml:"ttl"`

	// Prefix namespaces keys in a shared backend.
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// TTLDuration parses TTL; an empty value yields def.
func (c Cache) TTLDuration(def time.Duration) (time.Duration, error) {
	if c.TTL == "" {
		return def, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.ttl %q", c.TTL)
	}
	if d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return d, nil
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.New(errs.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse TOML config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse YAML config")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errs.ValidateExtension(c.Extension); err != nil {
		return err
	}
	if err := errs.ValidateCommonNeighbor(c.CommonNeighbor); err != nil {
		return err
	}
	if err := errs.ValidateJobs(c.Jobs); err != nil {
		return err
	}
	if err := c.Shard().Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid shard")
	}
	if _, err := c.Cache.TTLDuration(0); err != nil {
		return err
	}
	return nil
}

// Shard returns the configured res/mod split.
func (c *Config) Shard() stream.Shard {
	return stream.Shard{Res: c.ShardRes, Mod: c.ShardMod}
}
