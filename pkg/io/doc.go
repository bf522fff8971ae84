// Package io provides JSON import and export for single graphs.
//
// # JSON Format
//
// A graph is an object with its vertex count and an edge list:
//
//	{
//	  "order": 5,
//	  "edges": [[0, 1], [0, 4], [1, 2], [2, 3], [3, 4]]
//	}
//
// Vertices are the integers 0 through order-1. Each edge is a pair of
// distinct vertices; [WriteJSON] writes every edge once with the smaller
// vertex first, in increasing order, so the output for a given graph is
// stable. [ReadJSON] accepts the pairs in any order and either orientation
// but rejects self-loops, out-of-range vertices and repeated edges.
//
// # Usage
//
//	err := io.WriteJSON(g, os.Stdout)
//	g, err := io.ReadJSON(r)
//
// [ExportJSON] and [ImportJSON] are file-based wrappers.
//
// The format is meant for handing a single filtered graph to other tools.
// Streams of graphs stay in graph6 (see package graph6).
package io
