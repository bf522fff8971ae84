package graph

import (
	"errors"
	"slices"
	"testing"
)

func cycle(t *testing.T, n int) *Graph {
	t.Helper()
	g := New(n)
	for i := 0; i < n; i++ {
		if err := g.AddEdge(i, (i+1)%n); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestWordsFor(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 1},
		{63, 1},
		{64, 1},
		{65, 2},
		{128, 2},
		{129, 3},
	}
	for _, tt := range tests {
		if got := WordsFor(tt.n); got != tt.want {
			t.Errorf("WordsFor(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	g := New(70)
	defer g.Release()

	if g.Order() != 70 {
		t.Errorf("Order() = %d, want 70", g.Order())
	}
	if g.Words() != 2 {
		t.Errorf("Words() = %d, want 2", g.Words())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	for i := 0; i < g.Order(); i++ {
		if len(g.Row(i).Bits) != 2 {
			t.Fatalf("row %d has %d words, want 2", i, len(g.Row(i).Bits))
		}
	}
}

func TestAddEdge(t *testing.T) {
	g := New(4)
	defer g.Release()

	if err := g.AddEdge(0, 3); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if !g.HasEdge(0, 3) || !g.HasEdge(3, 0) {
		t.Error("edge 0-3 should be present in both rows")
	}
	if g.HasEdge(0, 1) {
		t.Error("edge 0-1 should be absent")
	}

	// Re-adding is a no-op
	if err := g.AddEdge(3, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}

	if err := g.AddEdge(2, 2); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("AddEdge(2, 2) error = %v, want ErrSelfLoop", err)
	}
	if err := g.AddEdge(0, 4); !errors.Is(err, ErrVertexRange) {
		t.Errorf("AddEdge(0, 4) error = %v, want ErrVertexRange", err)
	}
	if err := g.AddEdge(-1, 0); !errors.Is(err, ErrVertexRange) {
		t.Errorf("AddEdge(-1, 0) error = %v, want ErrVertexRange", err)
	}
}

func TestRowOperations(t *testing.T) {
	// Path 0-1-2 plus isolated vertex 3
	g := New(4)
	defer g.Release()
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)

	if !g.RowsEqual(0, 2) {
		t.Error("vertices 0 and 2 share the neighbor set {1}")
	}
	if g.RowsEqual(0, 1) {
		t.Error("vertices 0 and 1 have different neighbor sets")
	}
	if !g.RowsIntersect(0, 2) {
		t.Error("vertices 0 and 2 have common neighbor 1")
	}
	if g.RowsIntersect(0, 3) {
		t.Error("vertex 3 is isolated")
	}
	if got := g.Neighbors(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Neighbors(1) = %v, want [0 2]", got)
	}
	if got := g.Degree(3); got != 0 {
		t.Errorf("Degree(3) = %d, want 0", got)
	}
}

func TestMultiWordRows(t *testing.T) {
	g := cycle(t, 130)
	defer g.Release()

	if g.Words() != 3 {
		t.Fatalf("Words() = %d, want 3", g.Words())
	}
	if !g.HasEdge(129, 0) || !g.HasEdge(63, 64) || !g.HasEdge(128, 129) {
		t.Error("edges crossing word boundaries should be present")
	}
	if got := g.Neighbors(64); !slices.Equal(got, []int{63, 65}) {
		t.Errorf("Neighbors(64) = %v, want [63 65]", got)
	}
	if !g.RowsIntersect(63, 65) {
		t.Error("63 and 65 share neighbor 64")
	}
	if g.EdgeCount() != 130 {
		t.Errorf("EdgeCount() = %d, want 130", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestEdges(t *testing.T) {
	g := cycle(t, 5)
	defer g.Release()

	var got [][2]int
	g.Edges(func(i, j int) bool {
		got = append(got, [2]int{i, j})
		return true
	})
	want := [][2]int{{0, 1}, {0, 4}, {1, 2}, {2, 3}, {3, 4}}
	if !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}

	count := 0
	g.Edges(func(i, j int) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Edges should stop early, visited %d", count)
	}
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name    string
		n, m    int
		rows    [][]uint64
		wantErr error
	}{
		{"star", 3, 1, [][]uint64{{0b110}, {0b001}, {0b001}}, nil},
		{"empty", 0, 0, nil, nil},
		{"stray bits", 3, 1, [][]uint64{{1 << 5}, {0}, {0}}, ErrStrayBits},
		{"asymmetric", 3, 1, [][]uint64{{0b010}, {0}, {0}}, ErrAsymmetric},
		{"self loop", 3, 1, [][]uint64{{0b001}, {0}, {0}}, ErrSelfLoop},
		{"wrong m", 3, 2, [][]uint64{{0, 0}, {0, 0}, {0, 0}}, ErrRowWidth},
		{"short row", 2, 1, [][]uint64{{0b10}, {}}, ErrRowWidth},
		{"row count", 3, 1, [][]uint64{{0}, {0}}, ErrRowWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromRows(tt.n, tt.m, tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromRows() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromRows() error = %v", err)
			}
			defer g.Release()
			for i, r := range tt.rows {
				if !slices.Equal(g.Row(i).Bits, r) {
					t.Errorf("row %d = %v, want %v", i, g.Row(i).Bits, r)
				}
			}
		})
	}
}

func TestCloneAndEqual(t *testing.T) {
	g := cycle(t, 5)
	c := g.Clone()
	defer c.Release()

	if !g.Equal(c) {
		t.Fatal("clone should equal original")
	}
	_ = c.AddEdge(0, 2)
	if g.HasEdge(0, 2) {
		t.Error("mutating the clone must not affect the original")
	}
	if g.Equal(c) {
		t.Error("graphs with different edges should not be equal")
	}

	g.Release()
	if !c.HasEdge(0, 1) {
		t.Error("releasing the original must not affect the clone")
	}
}

func TestRelease(t *testing.T) {
	g := cycle(t, 5)
	if g.Released() {
		t.Fatal("fresh graph should not be released")
	}

	g.Release()
	if !g.Released() {
		t.Error("Released() should be true after Release")
	}
	if g.Order() != 0 || g.Words() != 0 {
		t.Errorf("released graph reports n=%d m=%d, want 0 0", g.Order(), g.Words())
	}

	// Double release is harmless
	g.Release()

	// Pooled storage comes back zeroed
	h := New(5)
	defer h.Release()
	if h.EdgeCount() != 0 {
		t.Errorf("recycled graph has %d edges, want 0", h.EdgeCount())
	}
}
