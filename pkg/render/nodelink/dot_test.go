package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/trisieve/pkg/graph"
	"github.com/matzehuels/trisieve/pkg/graph6"
	"github.com/matzehuels/trisieve/pkg/predicate"
)

func decode(t *testing.T, s string) *graph.Graph {
	t.Helper()
	g, err := graph6.Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q): %v", s, err)
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(decode(t, "Bg"), Options{})

	if !strings.HasPrefix(dot, "graph G {\n") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() output has directed edges")
	}
	for _, want := range []string{`0 [label="0"]`, `2 [label="2"]`, "0 -- 1;", "1 -- 2;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "0 -- 2") {
		t.Error("ToDOT() output has non-edge 0 -- 2")
	}
}

func TestToDOT_Labels(t *testing.T) {
	dot := ToDOT(decode(t, "Bg"), Options{Labels: []string{"a", "", "c"}})

	for _, want := range []string{`0 [label="a"]`, `1 [label="1"]`, `2 [label="c"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_Highlight(t *testing.T) {
	dot := ToDOT(decode(t, "Bg"), Options{Highlight: []int{0, 2}})

	if got := strings.Count(dot, "#f4a261"); got != 2 {
		t.Errorf("highlighted vertices = %d, want 2", got)
	}
	if !strings.Contains(dot, `1 [label="1"];`) {
		t.Error("vertex 1 should not be highlighted")
	}
}

func TestToDOT_Dashed(t *testing.T) {
	tests := []struct {
		name   string
		dashed [][2]int
		want   string
		solid  int
	}{
		{"non-edge", [][2]int{{3, 0}}, "0 -- 3 [style=dashed", 3},
		{"existing edge drawn once", [][2]int{{1, 0}}, "0 -- 1 [style=dashed", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(decode(t, "Ch"), Options{Dashed: tt.dashed})
			if !strings.Contains(dot, tt.want) {
				t.Errorf("ToDOT() output missing %q:\n%s", tt.want, dot)
			}
			if got := strings.Count(dot, "--") - strings.Count(dot, "style=dashed"); got != tt.solid {
				t.Errorf("solid edges = %d, want %d", got, tt.solid)
			}
		})
	}
}

func TestToDOT_DashedOutOfRange(t *testing.T) {
	dot := ToDOT(decode(t, "A_"), Options{Dashed: [][2]int{{0, 5}, {1, 1}}})
	if strings.Contains(dot, "dashed") {
		t.Errorf("out-of-range pairs were drawn:\n%s", dot)
	}
}

func TestAnnotate(t *testing.T) {
	cfg := predicate.Config{CheckTriangles: true}

	// P3: vertices 0 and 2 are twins, nothing can be added.
	opts := Annotate(predicate.Explain(decode(t, "Bg"), cfg))
	if len(opts.Highlight) != 2 || len(opts.Dashed) != 0 {
		t.Errorf("P3 Annotate() = %+v, want two highlighted vertices", opts)
	}

	// P4: twin-free, but the end vertices can be joined.
	opts = Annotate(predicate.Explain(decode(t, "Ch"), cfg))
	if len(opts.Highlight) != 0 || len(opts.Dashed) != 1 {
		t.Errorf("P4 Annotate() = %+v, want one dashed pair", opts)
	}

	// C5 passes everything.
	opts = Annotate(predicate.Explain(decode(t, "Dhc"), cfg))
	if opts.Highlight != nil || opts.Dashed != nil {
		t.Errorf("C5 Annotate() = %+v, want zero options", opts)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	for _, layout := range []string{"", "neato", "dot"} {
		svg, err := RenderSVG(context.Background(), ToDOT(decode(t, "Dhc"), Options{}), layout)
		if err != nil {
			t.Fatalf("RenderSVG(%q) error: %v", layout, err)
		}
		if !strings.Contains(string(svg), "<svg") {
			t.Errorf("RenderSVG(%q) output missing <svg> tag", layout)
		}
	}
}

func TestRenderSVG_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := RenderSVG(ctx, `not valid DOT {{{`, ""); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
	if _, err := RenderSVG(ctx, `graph G { 0 -- 1; }`, "spiral"); err == nil {
		t.Error("RenderSVG() should reject an unknown layout")
	}
}
