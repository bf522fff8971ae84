// Package render converts rendered SVG diagrams to other formats.
//
// The [nodelink] subpackage produces DOT and SVG for a single graph. PDF and
// PNG output goes through the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.DefaultLayout)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Install librsvg with "brew install librsvg" (macOS) or
// "apt install librsvg2-bin" (Linux).
package render
