package predicate

import "github.com/matzehuels/trisieve/pkg/graph"

// TwinFree reports whether no two distinct vertices of g have identical
// neighbor sets. Graphs with fewer than two vertices are twin-free.
func TwinFree(g *graph.Graph) bool {
	_, _, found := FindTwins(g)
	return !found
}

// FindTwins returns the first pair (i, j), i < j, whose rows are equal,
// scanning i then j in increasing order.
func FindTwins(g *graph.Graph) (i, j int, found bool) {
	n := g.Order()
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if g.RowsEqual(i, j) {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// MaximalTriangleFree reports whether every non-adjacent pair of vertices of
// g has at least one common neighbor, so that no edge can be added without
// closing a triangle. g is assumed to be triangle-free.
func MaximalTriangleFree(g *graph.Graph) bool {
	_, _, found := FindAddableEdge(g)
	return !found
}

// FindAddableEdge returns the first non-adjacent pair (i, j), i < j, with no
// common neighbor.
func FindAddableEdge(g *graph.Graph) (i, j int, found bool) {
	n := g.Order()
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if g.HasEdge(i, j) {
				continue
			}
			if !g.RowsIntersect(i, j) {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// TriangleFree reports whether g contains no three mutually adjacent
// vertices.
func TriangleFree(g *graph.Graph) bool {
	_, found := FindTriangle(g)
	return !found
}

// FindTriangle returns the lexicographically first triangle of g.
func FindTriangle(g *graph.Graph) (tri [3]int, found bool) {
	n := g.Order()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !g.HasEdge(i, j) || !g.RowsIntersect(i, j) {
				continue
			}
			for k := j + 1; k < n; k++ {
				if g.HasEdge(i, k) && g.HasEdge(j, k) {
					return [3]int{i, j, k}, true
				}
			}
		}
	}
	return tri, false
}
