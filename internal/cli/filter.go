package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trisieve/pkg/cache"
	"github.com/matzehuels/trisieve/pkg/config"
	"github.com/matzehuels/trisieve/pkg/pipeline"
	"github.com/matzehuels/trisieve/pkg/stream"
)

// filterFlags holds the flags shared by the root, filter and batch commands.
// Flags left at their defaults fall back to the config file.
type filterFlags struct {
	output         string
	checkTriangles bool
	commonNeighbor int
	extension      int
	res            int
	mod            int
	noCache        bool
	refresh        bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.checkTriangles, "check-triangles", false, "also reject graphs that contain a triangle")
	cmd.Flags().IntVar(&f.commonNeighbor, "common-neighbor", 0, "also require independent sets of up to this size to share a neighbor (0 disables)")
	cmd.Flags().IntVar(&f.extension, "extension", 0, "also require the k-extension property (0 disables)")
	cmd.Flags().IntVar(&f.res, "res", 0, "evaluate only graphs whose index i satisfies i % mod == res")
	cmd.Flags().IntVar(&f.mod, "mod", 0, "split the stream into mod shards (0 or 1 disables)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and filter again")
}

// options merges the flags over cfg.
func (f *filterFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		CheckTriangles: cfg.CheckTriangles,
		CommonNeighbor: cfg.CommonNeighbor,
		Extension:      cfg.Extension,
		Shard:          cfg.Shard(),
		Refresh:        f.refresh,
	}
	changed := cmd.Flags().Changed
	if changed("check-triangles") {
		opts.CheckTriangles = f.checkTriangles
	}
	if changed("common-neighbor") {
		opts.CommonNeighbor = f.commonNeighbor
	}
	if changed("extension") {
		opts.Extension = f.extension
	}
	if changed("res") || changed("mod") {
		opts.Shard = stream.Shard{Res: f.res, Mod: f.mod}
	}

	ttl, err := cfg.Cache.TTLDuration(cache.DefaultTTL)
	if err != nil {
		return opts, err
	}
	opts.CacheTTL = ttl
	return opts, opts.ValidateAndSetDefaults()
}

// filterCommand creates the filter command.
func (c *CLI) filterCommand() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Filter a graph6 stream or file",
		Long: `Filter reads graph6 records and writes the ones that satisfy every
predicate, unchanged and in input order.

With a file argument the input is hashed and a previous result for the same
content and options is replayed from the cache. Without one (or with "-")
stdin is filtered without caching.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// runFilter filters one input into one output.
func (c *CLI) runFilter(cmd *cobra.Command, args []string, flags *filterFlags) error {
	opts, err := flags.options(cmd, c.cfg)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	out := c.Stdout
	var file *os.File
	if flags.output != "" {
		if file, err = os.Create(flags.output); err != nil {
			return fmt.Errorf("create %s: %w", flags.output, err)
		}
		out = file
	}

	res, err := c.filter(cmd, args, out, opts, flags.noCache)
	if file != nil {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", flags.output, cerr)
		}
		if err != nil {
			_ = os.Remove(flags.output)
		}
	}
	if err != nil {
		if res != nil {
			c.Logger.Warn("filter stopped", "read", res.Stats.Read, "accepted", res.Stats.Accepted)
		}
		return err
	}

	c.Logger.Debug("rejections", "by_predicate", res.Stats.Rejected, "skipped", res.Stats.Skipped)
	return nil
}

func (c *CLI) filter(cmd *cobra.Command, args []string, out io.Writer, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	ctx := cmd.Context()
	if len(args) == 0 || args[0] == "-" {
		return pipeline.NewRunner(nil, nil, c.Logger).Filter(ctx, c.Stdin, out, opts)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, err
	}
	res, err := runner.FilterFile(ctx, args[0], out, opts)
	if err == nil && res.CacheHit {
		c.Logger.Debug("output replayed from cache", "run", res.RunID)
	}
	return res, err
}
