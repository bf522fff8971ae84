// Package nodelink renders a single undirected graph as a node-link diagram.
//
// [ToDOT] produces Graphviz DOT source (graph G { 0 -- 1; ... }) and
// [RenderSVG] lays it out with the embedded Graphviz library, so no external
// binary is needed for DOT or SVG output. PDF and PNG go through
// [render.ToPDF] and [render.ToPNG].
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.DefaultLayout)
//
// Filter verdicts can be drawn onto the diagram: [Options.Highlight] fills
// the given vertices (for example a pair of twins) and [Options.Dashed] adds
// dashed non-edges (for example an edge that could be added without creating
// a triangle).
package nodelink
