package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph"
	"github.com/matzehuels/trisieve/pkg/graph6"
	gio "github.com/matzehuels/trisieve/pkg/io"
	"github.com/matzehuels/trisieve/pkg/predicate"
	"github.com/matzehuels/trisieve/pkg/render/nodelink"
)

// Output formats supported by the render command.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var renderFormats = []string{formatDOT, formatSVG, formatJSON, formatPDF, formatPNG}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	outDir   string   // directory for rendered files
	formats  []string // output formats
	layout   string   // Graphviz engine
	annotate bool     // draw predicate witnesses
	limit    int      // stop after this many graphs (0 = all)
	scale    float64  // PNG scale factor
	cfg      predicate.Config
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{layout: nodelink.DefaultLayout, scale: 2}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render each graph of a graph6 file as a diagram",
		Long: `Render writes one file per graph and format, named <name>_<index>.<format>,
where index is the zero-based position in the input.

DOT, SVG and JSON need no external tools. PDF and PNG require rsvg-convert
from librsvg. With --annotate, twins and triangles are highlighted and an
edge that could be added without a triangle is drawn dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := errs.ValidateFormat(f, renderFormats...); err != nil {
					return err
				}
			}
			if err := errs.ValidateExtension(opts.cfg.Extension); err != nil {
				return err
			}
			if err := errs.ValidateCommonNeighbor(opts.cfg.CommonNeighbor); err != nil {
				return err
			}
			if opts.outDir == "" {
				opts.outDir = "."
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "d", "", "output directory (default current directory)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "graphviz layout: "+strings.Join(nodelink.Layouts, ", "))
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "draw the witnesses of failing predicates")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "render at most this many graphs")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.cfg.CheckTriangles, "check-triangles", false, "annotate triangles (with --annotate)")
	cmd.Flags().IntVar(&opts.cfg.CommonNeighbor, "common-neighbor", 0, "annotate uncovered independent sets (with --annotate)")
	cmd.Flags().IntVar(&opts.cfg.Extension, "extension", 0, "annotate extension failures (with --annotate)")
	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	if err := errs.ValidateInputFile(input); err != nil {
		return err
	}
	if err := errs.ValidateOutputDir(opts.outDir); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", opts.outDir)
	}

	f, err := os.Open(input)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", input)
	}
	defer f.Close()

	prog := newProgress(c.Logger)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	r := graph6.NewReader(f)
	count := 0
	for opts.limit == 0 || count < opts.limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		prefix := filepath.Join(opts.outDir, fmt.Sprintf("%s_%d", base, count))
		err = renderGraph(ctx, g, prefix, opts)
		g.Release()
		if err != nil {
			return err
		}
		count++
	}

	prog.done(fmt.Sprintf("Rendered %d graphs", count))
	return nil
}

// renderGraph writes prefix.<format> for every requested format.
func renderGraph(ctx context.Context, g *graph.Graph, prefix string, opts *renderOpts) error {
	var dotOpts nodelink.Options
	if opts.annotate {
		dotOpts = nodelink.Annotate(predicate.Explain(g, opts.cfg))
	}
	dot := nodelink.ToDOT(g, dotOpts)

	for _, format := range opts.formats {
		path := prefix + "." + format
		var (
			data []byte
			err  error
		)
		switch format {
		case formatDOT:
			data = []byte(dot)
		case formatSVG:
			data, err = nodelink.RenderSVG(ctx, dot, opts.layout)
		case formatPDF:
			data, err = nodelink.RenderPDF(ctx, dot, opts.layout)
		case formatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.layout, opts.scale)
		case formatJSON:
			if err := gio.ExportJSON(g, path); err != nil {
				return err
			}
			printFile(path)
			continue
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
