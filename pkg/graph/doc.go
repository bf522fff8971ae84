// Package graph provides the dense, bit-packed adjacency representation used
// by the trisieve filter.
//
// # Overview
//
// A [Graph] is a finite, undirected, loop-free graph on vertices 0..n-1. Each
// vertex owns one row: a bit-vector of n bits, split into m = ceil(n/64)
// 64-bit words. Bit j of row i is set iff vertices i and j are adjacent.
// Rows are exposed as [github.com/soniakeys/bits.Bits] values that share one
// contiguous backing slice.
//
// The representation is read-only once built. The predicates in
// pkg/predicate only ever call [Graph.Row], [Graph.HasEdge],
// [Graph.RowsEqual] and [Graph.RowsIntersect].
//
// # Building
//
// Sources build graphs with [New] and [Graph.AddEdge], or with [FromRows]
// when they already hold packed words:
//
//	g := graph.New(5)
//	for i := 0; i < 5; i++ {
//	    _ = g.AddEdge(i, (i+1)%5)
//	}
//
// # Ownership
//
// Storage is drawn from a word pool. The owner calls [Graph.Release] once the
// graph is no longer needed; after that the instance reports Order() == 0 and
// must not be used. Use [Graph.Clone] to keep a copy beyond the owner's scope.
package graph
