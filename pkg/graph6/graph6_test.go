package graph6

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph"
)

func cycle(n int) *graph.Graph {
	g := graph.New(n)
	for i := 0; i < n; i++ {
		_ = g.AddEdge(i, (i+1)%n)
	}
	return g
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		build func() *graph.Graph
		want  string
	}{
		{"K0", func() *graph.Graph { return graph.New(0) }, "?"},
		{"K1", func() *graph.Graph { return graph.New(1) }, "@"},
		{"K2", func() *graph.Graph {
			g := graph.New(2)
			_ = g.AddEdge(0, 1)
			return g
		}, "A_"},
		{"K4", func() *graph.Graph {
			g := graph.New(4)
			for i := 0; i < 4; i++ {
				for j := i + 1; j < 4; j++ {
					_ = g.AddEdge(i, j)
				}
			}
			return g
		}, "C~"},
		{"C5", func() *graph.Graph { return cycle(5) }, "Dhc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			defer g.Release()
			if got := Encode(g); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	// HOG graph 32194.
	g, err := Decode("H@BQPS^")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer g.Release()

	if g.Order() != 9 {
		t.Fatalf("Order() = %d, want 9", g.Order())
	}
	want := map[int][]int{
		0: {5},
		3: {2, 5, 8},
		8: {3, 4, 5, 6, 7},
	}
	for v, nbrs := range want {
		if got := g.Neighbors(v); !slices.Equal(got, nbrs) {
			t.Errorf("Neighbors(%d) = %v, want %v", v, got, nbrs)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("decoded graph invalid: %v", err)
	}
}

func TestDecodeHeader(t *testing.T) {
	g, err := Decode(Header + "Dhc")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer g.Release()
	if g.Order() != 5 || g.EdgeCount() != 5 {
		t.Errorf("got order %d with %d edges, want C5", g.Order(), g.EdgeCount())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"sparse6", ":Fa@x^"},
		{"digraph6", "&DI?AO?"},
		{"truncated", "Dh"},
		{"too long", "Dhcc"},
		{"bad byte", "D h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(tt.input)
			if err == nil {
				g.Release()
				t.Fatalf("Decode(%q) succeeded, want error", tt.input)
			}
			if !errs.Is(err, errs.ErrCodeInvalidGraph) {
				t.Errorf("Decode(%q) code = %s, want %s", tt.input, errs.GetCode(err), errs.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestRoundTripIsIdentical(t *testing.T) {
	// Orders on both sides of the one-byte size prefix and the word boundary.
	for _, n := range []int{5, 62, 63, 64, 65, 70, 130} {
		g := cycle(n)
		line := Encode(g)

		back, err := Decode(line)
		if err != nil {
			t.Fatalf("n=%d: Decode(Encode()) error: %v", n, err)
		}
		if !back.Equal(g) {
			t.Errorf("n=%d: decoded graph differs", n)
		}
		if again := Encode(back); again != line {
			t.Errorf("n=%d: re-encoding changed the record", n)
		}
		g.Release()
		back.Release()
	}
}

func TestReader(t *testing.T) {
	input := Header + "Dhc\n\nA_\r\n   \n@\n"
	r := NewReader(strings.NewReader(input))

	var orders []int
	for {
		g, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		orders = append(orders, g.Order())
		g.Release()
	}

	if !slices.Equal(orders, []int{5, 2, 1}) {
		t.Errorf("orders = %v, want [5 2 1]", orders)
	}
	if r.Line() != 5 {
		t.Errorf("Line() = %d, want 5", r.Line())
	}

	// EOF is sticky
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next after EOF = %v, want io.EOF", err)
	}
}

func TestReaderHeaderOnlyOnFirstLine(t *testing.T) {
	r := NewReader(strings.NewReader("Dhc\n" + Header + "A_\n"))
	g, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	g.Release()

	if _, err := r.Next(); err == nil {
		t.Fatal("header on line 2 should be rejected")
	} else if errs.LineOf(err) != 2 {
		t.Errorf("LineOf(err) = %d, want 2", errs.LineOf(err))
	}
}

func TestReaderReportsLine(t *testing.T) {
	r := NewReader(strings.NewReader("Dhc\nA_\n:Fa@x^\n@\n"))
	for i := 0; i < 2; i++ {
		g, err := r.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		g.Release()
	}

	_, err := r.Next()
	if err == nil {
		t.Fatal("sparse6 line should be rejected")
	}
	if errs.LineOf(err) != 3 {
		t.Errorf("LineOf(err) = %d, want 3", errs.LineOf(err))
	}
	if !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("code = %s, want %s", errs.GetCode(err), errs.ErrCodeInvalidGraph)
	}
	var le *errs.LineError
	if !errors.As(err, &le) || le.Text != ":Fa@x^" {
		t.Errorf("LineError text = %+v", le)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	c5 := cycle(5)
	defer c5.Release()
	k1 := graph.New(1)
	defer k1.Release()

	for _, g := range []*graph.Graph{c5, k1} {
		if err := w.Emit(g); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if buf.Len() != 0 {
		t.Error("writer should buffer until Flush")
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got := buf.String(); got != "Dhc\n@\n" {
		t.Errorf("output = %q, want %q", got, "Dhc\n@\n")
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}
