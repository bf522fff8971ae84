package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/trisieve/pkg/errors"
)

// Batch filters every input file into its own output under outDir, running
// up to jobs files at once. Each file is an independent sequential stream.
//
// The first failure cancels the remaining files; outputs of files that did
// not complete are removed. Two inputs that map to the same output name are
// rejected before anything runs.
func (r *Runner) Batch(ctx context.Context, inputs []string, outDir string, jobs int, opts Options) (*BatchResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if len(inputs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no input files")
	}
	if err := errs.ValidateJobs(jobs); err != nil {
		return nil, err
	}
	if jobs == 0 {
		jobs = DefaultJobs
	}
	if err := errs.ValidateOutputDir(outDir); err != nil {
		return nil, err
	}

	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		if err := errs.ValidateInputFile(in); err != nil {
			return nil, err
		}
		out := OutputPath(outDir, in)
		if prev, dup := seen[out]; dup {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s and %s would both write %s", prev, in, out)
		}
		seen[out] = in
		outputs[i] = out
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", outDir)
	}

	start := time.Now()
	results := make([]*Result, len(inputs))

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range inputs {
		g.Go(func() error {
			res, err := r.filterTo(gctx, inputs[i], outputs[i], opts)
			if err != nil {
				return err
			}
			results[i] = res

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if opts.Progress != nil {
				opts.Progress(n, len(inputs), res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	br := &BatchResult{Files: results, Elapsed: time.Since(start)}
	durations := make(stats.Float64Data, 0, len(results))
	for _, res := range results {
		br.Read += res.Stats.Read
		br.Accepted += res.Stats.Accepted
		if res.CacheHit {
			br.CacheHits++
		}
		durations = append(durations, res.Duration.Seconds())
	}
	br.Summary = summarize(durations)

	opts.Logger.Info("batch complete",
		"files", len(results),
		"read", br.Read,
		"accepted", br.Accepted,
		"cache_hits", br.CacheHits,
		"duration", br.Elapsed)
	return br, nil
}

// filterTo runs FilterFile into a fresh output file, removing it on failure.
func (r *Runner) filterTo(ctx context.Context, in, out string, opts Options) (*Result, error) {
	f, err := os.Create(out)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", out)
	}
	res, err := r.FilterFile(ctx, in, f, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", out, cerr)
	}
	if err != nil {
		_ = os.Remove(out)
		return nil, err
	}
	res.Output = out
	return res, nil
}

// OutputPath returns the batch output path for an input file: the input's
// base name with its extension replaced by [OutputSuffix].
func OutputPath(outDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+OutputSuffix)
}

func summarize(d stats.Float64Data) Summary {
	var s Summary
	if d.Len() == 0 {
		return s
	}
	// Errors only arise for empty input, excluded above.
	s.Mean, _ = d.Mean()
	s.Median, _ = d.Median()
	s.Min, _ = d.Min()
	s.Max, _ = d.Max()
	s.StdDev, _ = d.StandardDeviation()
	return s
}
