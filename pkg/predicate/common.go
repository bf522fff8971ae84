package predicate

import (
	"slices"

	"github.com/matzehuels/trisieve/pkg/graph"
)

// DefaultCommonNeighborSize is the independent-set bound used by the
// triangle-free cover characterization.
const DefaultCommonNeighborSize = 3

// CommonNeighbor reports whether every independent set of at most size
// vertices has a common neighbor. A single vertex needs one neighbor, so a
// graph with an isolated vertex fails for any positive size.
//
// size <= 0 disables the test.
func CommonNeighbor(g *graph.Graph, size int) bool {
	_, found := FindUncoveredSet(g, size)
	return !found
}

// FindUncoveredSet returns the first independent set of at most size
// vertices, in depth-first lexicographic order, whose members share no
// neighbor. Every proper prefix of the returned set has a common neighbor.
func FindUncoveredSet(g *graph.Graph, size int) ([]int, bool) {
	if size <= 0 || g.Order() == 0 {
		return nil, false
	}
	s := newExtSearch(g, size)
	if !s.uncovered(0) {
		return nil, false
	}
	return slices.Clone(s.xs), true
}

// uncovered extends X by one vertex at a time and reports whether the AND of
// the rows of X became empty. X stays independent throughout.
func (s *extSearch) uncovered(start int) bool {
	d := len(s.xs)
	if d == s.k {
		return false
	}
	n := s.g.Order()
	for v := start; v < n; v++ {
		if s.adjacentToX(v) {
			continue
		}
		row := s.g.Row(v).Bits
		empty := true
		for w := range row {
			s.common[d+1][w] = s.common[d][w] & row[w]
			if s.common[d+1][w] != 0 {
				empty = false
			}
		}
		s.xs = append(s.xs, v)
		if empty || s.uncovered(v+1) {
			return true
		}
		s.xs = s.xs[:d]
	}
	return false
}
