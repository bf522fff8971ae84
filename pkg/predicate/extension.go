package predicate

import (
	"slices"

	"github.com/matzehuels/trisieve/pkg/graph"
)

// Extension reports whether g has the Ψ_k extension property: for every
// independent set X of k vertices and every set Y of k vertices disjoint
// from X, some vertex z outside X ∪ Y is adjacent to every vertex of X and
// to no vertex of Y.
//
// The property holds vacuously when g has fewer than 2k vertices. k <= 0
// disables the test.
func Extension(g *graph.Graph, k int) bool {
	_, _, found := FindExtensionFailure(g, k)
	return !found
}

// FindExtensionFailure returns the first pair (X, Y), in lexicographic order
// of X then Y, for which no witness vertex exists.
func FindExtensionFailure(g *graph.Graph, k int) (x, y []int, found bool) {
	n := g.Order()
	if k <= 0 || n < 2*k {
		return nil, nil, false
	}
	s := newExtSearch(g, k)
	if !s.chooseX(0) {
		return nil, nil, false
	}
	return slices.Clone(s.xs), slices.Clone(s.ys), true
}

// extSearch enumerates (X, Y) pairs depth first. common[d] holds the AND of
// the first d rows of X; forbid[d] holds the OR of the first d rows of Y
// together with the Y vertices themselves.
type extSearch struct {
	g      *graph.Graph
	k      int
	inX    []bool
	xs, ys []int
	common [][]uint64
	forbid [][]uint64
}

func newExtSearch(g *graph.Graph, k int) *extSearch {
	n, m := g.Order(), g.Words()
	s := &extSearch{
		g:      g,
		k:      k,
		inX:    make([]bool, n),
		xs:     make([]int, 0, k),
		ys:     make([]int, 0, k),
		common: make([][]uint64, k+1),
		forbid: make([][]uint64, k+1),
	}
	for d := range s.common {
		s.common[d] = make([]uint64, m)
		s.forbid[d] = make([]uint64, m)
	}
	for w := range s.common[0] {
		s.common[0][w] = ^uint64(0)
	}
	if tail := n % graph.WordBits; tail != 0 {
		s.common[0][m-1] = (uint64(1) << uint(tail)) - 1
	}
	return s
}

// chooseX extends X and reports whether a failing (X, Y) pair was found.
func (s *extSearch) chooseX(start int) bool {
	d := len(s.xs)
	if d == s.k {
		return s.chooseY(0)
	}
	n := s.g.Order()
	for v := start; v < n; v++ {
		if s.adjacentToX(v) {
			continue
		}
		row := s.g.Row(v).Bits
		for w := range row {
			s.common[d+1][w] = s.common[d][w] & row[w]
		}
		s.xs = append(s.xs, v)
		s.inX[v] = true
		if s.chooseX(v + 1) {
			return true
		}
		s.xs = s.xs[:d]
		s.inX[v] = false
	}
	return false
}

func (s *extSearch) chooseY(start int) bool {
	d := len(s.ys)
	if d == s.k {
		return !s.hasWitness()
	}
	n := s.g.Order()
	for u := start; u < n; u++ {
		if s.inX[u] {
			continue
		}
		row := s.g.Row(u).Bits
		for w := range row {
			s.forbid[d+1][w] = s.forbid[d][w] | row[w]
		}
		s.forbid[d+1][u/graph.WordBits] |= uint64(1) << uint(u%graph.WordBits)
		s.ys = append(s.ys, u)
		if s.chooseY(u + 1) {
			return true
		}
		s.ys = s.ys[:d]
	}
	return false
}

func (s *extSearch) adjacentToX(v int) bool {
	for _, x := range s.xs {
		if s.g.HasEdge(v, x) {
			return true
		}
	}
	return false
}

// hasWitness reports whether some z is adjacent to all of X and to none of
// Y. Vertices of X are excluded implicitly: the graph has no loops.
func (s *extSearch) hasWitness() bool {
	c, f := s.common[s.k], s.forbid[s.k]
	for w := range c {
		if c[w]&^f[w] != 0 {
			return true
		}
	}
	return false
}
