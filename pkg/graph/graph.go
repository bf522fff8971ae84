package graph

import (
	"errors"
	"fmt"
	mathbits "math/bits"
	"sync"

	"github.com/soniakeys/bits"
)

// WordBits is the width of one adjacency word.
const WordBits = 64

var (
	// ErrVertexRange is returned when a vertex index falls outside [0, n).
	ErrVertexRange = errors.New("vertex index out of range")

	// ErrSelfLoop is returned when an edge would connect a vertex to itself.
	ErrSelfLoop = errors.New("self-loops are not allowed")

	// ErrAsymmetric is returned by [Graph.Validate] and [FromRows] when bit
	// (i, j) is set but bit (j, i) is not.
	ErrAsymmetric = errors.New("adjacency is not symmetric")

	// ErrRowWidth is returned by [FromRows] when the row count or the word
	// count per row does not match n.
	ErrRowWidth = errors.New("row width does not match vertex count")

	// ErrStrayBits is returned when a row has bits set at or beyond n.
	ErrStrayBits = errors.New("bits set beyond the last vertex")
)

// Graph is a dense undirected graph stored as one bit row per vertex.
//
// The zero value is an empty graph with no vertices. A Graph is not safe for
// concurrent mutation; concurrent reads are fine.
type Graph struct {
	n        int
	m        int
	words    []uint64
	rows     []bits.Bits
	released bool
}

// WordsFor returns the number of words needed for a row of n bits.
func WordsFor(n int) int {
	return (n + WordBits - 1) / WordBits
}

var wordPool sync.Pool

func getWords(size int) []uint64 {
	if p, ok := wordPool.Get().(*[]uint64); ok && cap(*p) >= size {
		w := (*p)[:size]
		clear(w)
		return w
	}
	return make([]uint64, size)
}

func putWords(w []uint64) {
	if cap(w) == 0 {
		return
	}
	w = w[:0]
	wordPool.Put(&w)
}

// New returns an edgeless graph on n vertices.
// It panics if n is negative.
func New(n int) *Graph {
	if n < 0 {
		panic(fmt.Sprintf("graph: negative order %d", n))
	}
	m := WordsFor(n)
	g := &Graph{n: n, m: m, words: getWords(n * m)}
	g.rows = make([]bits.Bits, n)
	for i := range g.rows {
		g.rows[i] = bits.Bits{Num: n, Bits: g.words[i*m : (i+1)*m : (i+1)*m]}
	}
	return g
}

// FromRows builds a graph from packed rows. rows must hold n rows of exactly
// m = WordsFor(n) words each; bit j of row i lives in word j/64 at bit
// position j%64. The rows are copied and the result is validated.
func FromRows(n, m int, rows [][]uint64) (*Graph, error) {
	if n < 0 || m != WordsFor(n) || len(rows) != n {
		return nil, fmt.Errorf("%w: n=%d m=%d rows=%d", ErrRowWidth, n, m, len(rows))
	}
	g := New(n)
	for i, r := range rows {
		if len(r) != m {
			g.Release()
			return nil, fmt.Errorf("%w: row %d has %d words, want %d", ErrRowWidth, i, len(r), m)
		}
		copy(g.rows[i].Bits, r)
	}
	if err := g.Validate(); err != nil {
		g.Release()
		return nil, err
	}
	return g, nil
}

// Order returns the number of vertices n.
func (g *Graph) Order() int { return g.n }

// Words returns the number of words per row m.
func (g *Graph) Words() int { return g.m }

// Row returns the neighbor set of vertex i. The returned value aliases the
// graph's storage and must be treated as read-only.
func (g *Graph) Row(i int) bits.Bits { return g.rows[i] }

// HasEdge reports whether vertices i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool {
	return g.rows[i].Bits[j/WordBits]&(1<<(uint(j)%WordBits)) != 0
}

// RowsEqual reports whether vertices i and j have identical neighbor sets,
// comparing their rows word by word.
func (g *Graph) RowsEqual(i, j int) bool {
	ri, rj := g.rows[i].Bits, g.rows[j].Bits
	for k := range ri {
		if ri[k] != rj[k] {
			return false
		}
	}
	return true
}

// RowsIntersect reports whether vertices i and j have a common neighbor,
// i.e. whether the word-by-word AND of their rows is non-zero.
func (g *Graph) RowsIntersect(i, j int) bool {
	ri, rj := g.rows[i].Bits, g.rows[j].Bits
	for k := range ri {
		if ri[k]&rj[k] != 0 {
			return true
		}
	}
	return false
}

// AddEdge connects vertices i and j. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(i, j int) error {
	if i < 0 || i >= g.n || j < 0 || j >= g.n {
		return fmt.Errorf("%w: edge %d-%d on %d vertices", ErrVertexRange, i, j, g.n)
	}
	if i == j {
		return fmt.Errorf("%w: vertex %d", ErrSelfLoop, i)
	}
	g.rows[i].SetBit(j, 1)
	g.rows[j].SetBit(i, 1)
	return nil
}

// Neighbors returns the neighbors of vertex i in increasing order.
func (g *Graph) Neighbors(i int) []int {
	out := make([]int, 0, g.Degree(i))
	g.rows[i].IterateOnes(func(j int) bool {
		out = append(out, j)
		return true
	})
	return out
}

// Degree returns the number of neighbors of vertex i.
func (g *Graph) Degree(i int) int {
	d := 0
	for _, w := range g.rows[i].Bits {
		d += mathbits.OnesCount64(w)
	}
	return d
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	sum := 0
	for _, w := range g.words {
		sum += mathbits.OnesCount64(w)
	}
	return sum / 2
}

// Edges calls fn for every edge (i, j) with i < j, in increasing order of i
// then j. Iteration stops early if fn returns false.
func (g *Graph) Edges(fn func(i, j int) bool) {
	for i := 0; i < g.n; i++ {
		cont := true
		g.rows[i].IterateOnes(func(j int) bool {
			if j <= i {
				return true
			}
			cont = fn(i, j)
			return cont
		})
		if !cont {
			return
		}
	}
}

// Validate checks that the graph is symmetric, loop-free and has no bits set
// beyond the last vertex.
func (g *Graph) Validate() error {
	tail := g.n % WordBits
	for i := 0; i < g.n; i++ {
		row := g.rows[i].Bits
		if tail != 0 && row[g.m-1]>>uint(tail) != 0 {
			return fmt.Errorf("%w: row %d", ErrStrayBits, i)
		}
		if g.HasEdge(i, i) {
			return fmt.Errorf("%w: vertex %d", ErrSelfLoop, i)
		}
		for j := i + 1; j < g.n; j++ {
			if g.HasEdge(i, j) != g.HasEdge(j, i) {
				return fmt.Errorf("%w: pair %d-%d", ErrAsymmetric, i, j)
			}
		}
	}
	return nil
}

// Clone returns an independent copy of g.
func (g *Graph) Clone() *Graph {
	c := New(g.n)
	copy(c.words, g.words)
	return c
}

// Equal reports whether g and h have the same order and identical rows.
func (g *Graph) Equal(h *Graph) bool {
	if g.n != h.n || g.m != h.m {
		return false
	}
	for k, w := range g.words {
		if h.words[k] != w {
			return false
		}
	}
	return true
}

// Release returns the graph's storage to the pool. The graph is left empty
// and must not be used afterwards. Releasing twice is harmless.
func (g *Graph) Release() {
	if g.released {
		return
	}
	putWords(g.words)
	g.n, g.m = 0, 0
	g.words = nil
	g.rows = nil
	g.released = true
}

// Released reports whether [Graph.Release] has been called.
func (g *Graph) Released() bool { return g.released }
