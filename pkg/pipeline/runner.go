package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trisieve/pkg/cache"
	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph6"
	"github.com/matzehuels/trisieve/pkg/stream"
)

// Runner executes filter runs with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Filter reads graph6 records from in and writes the accepted ones to out.
//
// The returned Result is non-nil whenever the stream was started, so the
// caller can report how far a failed run got.
func (r *Runner) Filter(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}

	w := graph6.NewWriter(out)
	f := &stream.Filter{
		Predicates: opts.Predicates(),
		Shard:      opts.Shard,
		RunID:      res.RunID,
		Logger:     opts.Logger,
	}
	opts.Logger.Debug("starting filter",
		"run", res.RunID,
		"predicates", f.Predicates.Names(),
		"shard", opts.Shard)

	stats, err := f.Run(ctx, graph6.NewReader(in), w)
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("flush output: %w", ferr)
	}
	res.Stats = stats
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	opts.Logger.Info("filtered stream",
		"read", stats.Read,
		"accepted", stats.Accepted,
		"duration", res.Duration)
	return res, nil
}

// FilterFile filters the graph6 file at inPath into w.
//
// The input is hashed first. Unless opts.Refresh is set, a stored output
// for the same content and predicate selection is replayed instead of
// filtering. Fresh outputs are stored after a successful run unless the
// cache is disabled or the output exceeds opts.CacheLimit; in both cases
// nothing is buffered beyond the limit. Cache failures are logged and never
// fail the run.
func (r *Runner) FilterFile(ctx context.Context, inPath string, w io.Writer, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := errs.ValidateInputFile(inPath); err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := os.Open(inPath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", inPath)
	}
	defer f.Close()

	hash, err := cache.HashReader(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", inPath)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "rewind %s", inPath)
	}
	key := r.Keyer.FilterKey(hash, opts.cacheKeyOpts())

	if !opts.Refresh {
		res, ok, err := r.replay(ctx, key, w, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("%s: replay cached output: %w", inPath, err)
		}
		if ok {
			res.Input = inPath
			res.InputHash = hash
			res.Duration = time.Since(start)
			opts.Logger.Info("replayed cached result",
				"input", inPath,
				"read", res.Stats.Read,
				"accepted", res.Stats.Accepted)
			return res, nil
		}
	}

	var captured *capture
	out := w
	if !cache.Disabled(r.Cache) {
		captured = newCapture(opts.CacheLimit)
		out = io.MultiWriter(w, captured)
	}
	res, err := r.Filter(ctx, f, out, opts)
	if res != nil {
		res.Input = inPath
		res.InputHash = hash
		res.Duration = time.Since(start)
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", inPath, err)
	}

	switch {
	case captured == nil:
	case captured.overflow:
		opts.Logger.Debug("output not cached", "input", inPath, "limit", opts.CacheLimit)
	default:
		r.store(ctx, key, res, captured.String(), opts)
	}
	return res, nil
}

// replay writes a cached output to w. It reports false on a miss or when
// the entry cannot be used; only a failed write to w is an error.
func (r *Runner) replay(ctx context.Context, key string, w io.Writer, logger *log.Logger) (*Result, bool, error) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
		return nil, false, nil
	}
	if !hit {
		return nil, false, nil
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("discarding cache entry", "err", fmt.Errorf("%w: %v", cache.ErrCorrupt, err))
		_ = r.Cache.Delete(ctx, key)
		return nil, false, nil
	}
	if _, err := io.WriteString(w, entry.Output); err != nil {
		return nil, false, err
	}
	logger.Debug("cache hit", "entry", entry.String())

	return &Result{
		RunID: entry.RunID,
		Stats: stream.Stats{
			Read:     entry.Read,
			Accepted: entry.Accepted,
			Rejected: entry.Rejected,
		},
		CacheHit: true,
	}, true, nil
}

func (r *Runner) store(ctx context.Context, key string, res *Result, output string, opts Options) {
	data, err := json.Marshal(cache.Entry{
		RunID:    res.RunID,
		Read:     res.Stats.Read,
		Accepted: res.Stats.Accepted,
		Rejected: res.Stats.Rejected,
		Output:   output,
		StoredAt: time.Now().UTC(),
	})
	if err != nil {
		opts.Logger.Warn("encode cache entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	}
}

// applyLogger sets the runner's logger on opts if none was given.
func (r *Runner) applyLogger(opts *Options) {
	if r.Logger != nil && opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
