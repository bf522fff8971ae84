// Package pipeline wires the graph6 codec, the stream filter and the result
// cache into the operations the CLI exposes.
//
// # Usage
//
// Filter one stream:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Filter(ctx, os.Stdin, os.Stdout, pipeline.Options{})
//
// Filter a file, replaying a cached result when the same input was
// filtered before with the same options:
//
//	result, err := runner.FilterFile(ctx, "graphs_n10.g6", out, opts)
//
// Filter many files in parallel, one independent stream per file:
//
//	batch, err := runner.Batch(ctx, inputs, "out", 8, opts)
//	fmt.Println(batch.Summary.Mean)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trisieve/pkg/cache"
	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/predicate"
	"github.com/matzehuels/trisieve/pkg/stream"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultJobs is the batch parallelism when none is given.
	DefaultJobs = 4

	// OutputSuffix replaces the input extension for batch outputs.
	OutputSuffix = ".filtered.g6"

	// DefaultCacheLimit is the largest output, in bytes, kept for the cache.
	DefaultCacheLimit = 64 << 20
)

// =============================================================================
// Options
// =============================================================================

// Options configures a filter run.
type Options struct {
	// Optional predicates appended after twin-free and maximal-triangle-free.
	CheckTriangles bool `json:"check_triangles,omitempty"`
	CommonNeighbor int  `json:"common_neighbor,omitempty"`
	Extension      int  `json:"extension,omitempty"`

	// Shard restricts evaluation to every Mod-th graph starting at Res.
	Shard stream.Shard `json:"shard"`

	// Refresh ignores cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL is the lifetime of stored results; zero uses cache.DefaultTTL.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// CacheLimit bounds the output held in memory for the cache. Larger
	// outputs are streamed but not stored. Zero uses DefaultCacheLimit.
	CacheLimit int64 `json:"cache_limit,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger                        `json:"-"`
	Progress func(done, total int, res *Result) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateExtension(o.Extension); err != nil {
		return err
	}
	if err := errs.ValidateCommonNeighbor(o.CommonNeighbor); err != nil {
		return err
	}
	if err := o.Shard.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid shard")
	}
	if o.CacheTTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache TTL must not be negative")
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.DefaultTTL
	}
	if o.CacheLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache limit must not be negative")
	}
	if o.CacheLimit == 0 {
		o.CacheLimit = DefaultCacheLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PredicateConfig returns the predicate selection.
func (o Options) PredicateConfig() predicate.Config {
	return predicate.Config{
		CheckTriangles: o.CheckTriangles,
		CommonNeighbor: o.CommonNeighbor,
		Extension:      o.Extension,
	}
}

// Predicates returns the predicate set in evaluation order.
func (o Options) Predicates() predicate.Set {
	return predicate.Build(o.PredicateConfig())
}

// cacheKeyOpts returns the options that determine the output: the
// predicate names together with every parameter of the selection.
func (o Options) cacheKeyOpts() cache.FilterKeyOpts {
	cfg := o.PredicateConfig()
	return cache.FilterKeyOpts{
		Predicates:     o.Predicates().Names(),
		Extension:      cfg.Extension,
		CommonNeighbor: cfg.CommonNeighbor,
		ShardRes:       o.Shard.Res,
		ShardMod:       o.Shard.Mod,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result describes one filter run.
type Result struct {
	// RunID identifies the run in logs and metrics. A cache hit reports the
	// ID of the run that produced the stored output.
	RunID string `json:"run_id"`

	// Input and Output are file paths; empty for plain streams.
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`

	// InputHash is the SHA-256 of the input file.
	InputHash string `json:"input_hash,omitempty"`

	// Stats are the filter counters. On a cache hit only Read and Accepted
	// are known.
	Stats stream.Stats `json:"stats"`

	// CacheHit reports whether the output was replayed from the cache.
	CacheHit bool `json:"cache_hit"`

	// Duration is the wall time of the whole operation.
	Duration time.Duration `json:"duration"`
}

// Summary aggregates per-file wall times, in seconds.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// BatchResult collects the results of [Runner.Batch], in input order.
type BatchResult struct {
	Files     []*Result     `json:"files"`
	Read      int           `json:"read"`
	Accepted  int           `json:"accepted"`
	CacheHits int           `json:"cache_hits"`
	Summary   Summary       `json:"summary"`
	Elapsed   time.Duration `json:"elapsed"`
}
