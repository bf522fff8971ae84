package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trisieve/pkg/graph"
	"github.com/matzehuels/trisieve/pkg/render"
)

// DefaultLayout is the Graphviz engine used when none is given. Circular
// layouts keep small dense graphs readable.
const DefaultLayout = "circo"

// Layouts lists the accepted Graphviz engines.
var Layouts = []string{"circo", "neato", "fdp", "sfdp", "twopi", "dot"}

// Options configures node-link diagram rendering.
type Options struct {
	// Labels names the vertices; vertex i is labelled Labels[i] when present
	// and by its index otherwise.
	Labels []string

	// Highlight lists vertices drawn filled.
	Highlight []int

	// Dashed lists vertex pairs drawn as dashed edges. Pairs that are
	// already edges are drawn once, dashed.
	Dashed [][2]int
}

// ToDOT converts g to Graphviz DOT format. Vertices are named by index so the
// output is stable for a given graph and options.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for i := 0; i < g.Order(); i++ {
		attrs := []string{fmt.Sprintf("label=%q", label(opts.Labels, i))}
		if slices.Contains(opts.Highlight, i) {
			attrs = append(attrs, "fillcolor=\"#f4a261\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", i, strings.Join(attrs, ", "))
	}

	dashed := make(map[[2]int]bool, len(opts.Dashed))
	for _, p := range opts.Dashed {
		dashed[ordered(p)] = true
	}

	buf.WriteString("\n")
	g.Edges(func(i, j int) bool {
		if dashed[[2]int{i, j}] {
			return true
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", i, j)
		return true
	})
	for _, p := range opts.Dashed {
		p = ordered(p)
		if p[0] < 0 || p[1] >= g.Order() || p[0] == p[1] {
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d [style=dashed, color=\"#e76f51\"];\n", p[0], p[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return strconv.Itoa(i)
}

func ordered(p [2]int) [2]int {
	if p[0] > p[1] {
		return [2]int{p[1], p[0]}
	}
	return p
}

// RenderSVG lays out a DOT graph with the given Graphviz engine and renders
// it to SVG. An empty layout uses [DefaultLayout].
func RenderSVG(ctx context.Context, dot, layout string) ([]byte, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	if !slices.Contains(Layouts, layout) {
		return nil, fmt.Errorf("unknown layout %q (valid: %s)", layout, strings.Join(Layouts, ", "))
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts at
// the origin and whose size matches it, so the image scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot, layout string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, layout)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot, layout string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, layout)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
