// Package cli implements the trisieve command-line interface.
//
// Running trisieve without a subcommand filters graph6 from stdin to stdout,
// so it can sit in a pipeline after a graph generator:
//
//	geng -t 10 | trisieve > candidates.g6
//
// The subcommands filter files (with result caching), filter many files in
// parallel, explain the verdicts for individual graphs, render graphs as
// diagrams, and manage the result cache. All commands support --verbose (-v)
// for debug logging; logs go to stderr so stdout stays clean for graphs.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trisieve/pkg/buildinfo"
	"github.com/matzehuels/trisieve/pkg/cache"
	"github.com/matzehuels/trisieve/pkg/config"
	"github.com/matzehuels/trisieve/pkg/observability"
	"github.com/matzehuels/trisieve/pkg/observability/prom"
	"github.com/matzehuels/trisieve/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "trisieve"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Streams used by the filter commands; tests replace them.
	Stdin  io.Reader
	Stdout io.Writer

	configPath  string
	metricsFile string

	cfg     *config.Config
	metrics *prom.Metrics
	cache   cache.Cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		cfg:    &config.Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself is the stdin-to-stdout filter.
func (c *CLI) RootCommand() *cobra.Command {
	var flags filterFlags

	root := &cobra.Command{
		Use:   "trisieve [file]",
		Short: "trisieve filters graph6 streams by structural predicates",
		Long: `trisieve reads graphs in graph6 format and keeps those that are twin-free
and maximal triangle-free, writing them unchanged in input order.

Without a subcommand it filters stdin (or the given file) to stdout.`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(cmd, args, &flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.register(root)
	root.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")

	root.AddCommand(c.filterCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and installs the metrics hooks.
func (c *CLI) setup() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	if c.metricsFile == "" {
		c.metricsFile = c.cfg.MetricsFile
	}
	if c.metricsFile != "" {
		c.metrics = prom.New()
		c.metrics.Register()
	}
	return nil
}

// Close writes the metrics file, if any, and releases the cache. It is
// called once after the command returns, whether or not it failed.
func (c *CLI) Close() error {
	var errList []error
	if c.cache != nil {
		errList = append(errList, c.cache.Close())
		c.cache = nil
	}
	if c.metrics != nil {
		if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
			errList = append(errList, fmt.Errorf("write metrics: %w", err))
		} else {
			c.Logger.Debug("wrote metrics", "path", c.metricsFile)
		}
		observability.Reset()
		c.metrics = nil
	}
	return errors.Join(errList...)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache || c.cfg.NoCache)
	if err != nil {
		return nil, err
	}
	c.cache = cc

	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(cache.NewInstrumented(cc, cache.KeyTypeFilter), keyer, c.Logger), nil
}

// newCache picks the backend: Redis when configured, the file cache
// otherwise. A file cache that cannot be located disables caching.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.cfg.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/trisieve/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir(appName)
}
