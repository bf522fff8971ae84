// Package graph6 reads and writes graphs in the graph6 text format.
//
// graph6 is the line-oriented encoding produced by nauty's geng: one graph
// per line, the order in a variable-length prefix followed by the upper
// triangle of the adjacency matrix packed six bits per printable byte.
// Files may begin with the optional ">>graph6<<" header.
//
// Encoding and decoding go through gonum's graph6 implementation; this
// package adapts it to the bit-packed [graph.Graph] and to the stream
// interfaces of the filter.
package graph6

import (
	"strings"

	gonum "gonum.org/v1/gonum/graph/encoding/graph6"
	"gonum.org/v1/gonum/graph/simple"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph"
)

// Header is the optional graph6 file header.
const Header = ">>graph6<<"

// Decode parses a single graph6 record. A leading header is accepted.
// The caller owns the returned graph and should release it.
func Decode(s string) (*graph.Graph, error) {
	return decode(strings.TrimPrefix(strings.TrimRight(s, "\r\n"), Header))
}

// decode parses a record with the header and line ending already removed.
func decode(s string) (*graph.Graph, error) {
	if err := errs.ValidateGraph6Line(s); err != nil {
		return nil, err
	}
	enc := gonum.Graph(s)
	if !gonum.IsValid(enc) {
		return nil, errs.New(errs.ErrCodeInvalidGraph, "malformed graph6 record")
	}

	n := enc.Nodes().Len()
	g := graph.New(n)
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if enc.HasEdgeBetween(int64(i), int64(j)) {
				// Indices come from a valid record; AddEdge cannot fail.
				_ = g.AddEdge(i, j)
			}
		}
	}
	return g, nil
}

// Encode returns the graph6 record for g, without header or newline.
func Encode(g *graph.Graph) string {
	n := g.Order()
	u := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		u.AddNode(simple.Node(i))
	}
	g.Edges(func(i, j int) bool {
		u.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		return true
	})
	return string(gonum.Encode(u))
}
