package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trisieve/pkg/pipeline"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags  filterFlags
		outDir string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Filter many graph6 files in parallel",
		Long: `Batch filters each input file into <out-dir>/<name>.filtered.g6. Files
are processed in parallel, each as its own sequential stream, and cached
results are replayed as with the filter command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg)
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			if !cmd.Flags().Changed("jobs") && c.cfg.Jobs > 0 {
				jobs = c.cfg.Jobs
			}
			return c.runBatch(cmd, args, outDir, jobs, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "directory for filtered outputs (required)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", pipeline.DefaultJobs, "files to filter at once")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, inputs []string, outDir string, jobs int, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Filtering %d files...", len(inputs)))
	opts.Progress = func(done, total int, res *pipeline.Result) {
		spinner.SetMessage(fmt.Sprintf("Filtering files... %d/%d", done, total))
		c.Logger.Debug("file done", "input", res.Input, "accepted", res.Stats.Accepted, "cached", res.CacheHit)
	}

	spinner.Start()
	br, err := runner.Batch(cmd.Context(), inputs, outDir, jobs, opts)
	if err != nil {
		spinner.StopWithError("Batch failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Filtered %d files", len(br.Files)))

	printBatchResult(br)
	return nil
}

func printBatchResult(br *pipeline.BatchResult) {
	for _, res := range br.Files {
		printFile(res.Output)
		printStats(res.Stats.Read, res.Stats.Accepted, res.CacheHit)
	}
	printNewline()
	printKeyValue("graphs", fmt.Sprintf("%d read, %d accepted", br.Read, br.Accepted))
	printKeyValue("cache hits", fmt.Sprintf("%d/%d", br.CacheHits, len(br.Files)))
	printKeyValue("per file", fmt.Sprintf("mean %s, median %s, max %s",
		seconds(br.Summary.Mean), seconds(br.Summary.Median), seconds(br.Summary.Max)))
	printKeyValue("elapsed", br.Elapsed.Round(time.Millisecond).String())
}

func seconds(s float64) string {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond).String()
}
