package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/trisieve/pkg/graph"
)

// MaxOrder bounds the vertex count accepted by [ReadJSON]; the adjacency
// matrix is allocated up front.
const MaxOrder = 1 << 16

// ErrDuplicateEdge is returned when an edge is listed more than once.
var ErrDuplicateEdge = errors.New("duplicate edge")

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an error if the JSON is malformed, the order is negative
// or above [MaxOrder], or an edge is a self-loop, references a vertex outside
// [0, order) or repeats an earlier edge. Edge errors wrap the sentinel errors
// of package graph or [ErrDuplicateEdge] and name the offending index.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Order < 0 || data.Order > MaxOrder {
		return nil, fmt.Errorf("order %d out of range [0, %d]", data.Order, MaxOrder)
	}

	g := graph.New(data.Order)
	for k, e := range data.Edges {
		if err := addEdge(g, e[0], e[1]); err != nil {
			g.Release()
			return nil, fmt.Errorf("edge %d (%d, %d): %w", k, e[0], e[1], err)
		}
	}
	return g, nil
}

func addEdge(g *graph.Graph, i, j int) error {
	n := g.Order()
	if i >= 0 && j >= 0 && i < n && j < n && g.HasEdge(i, j) {
		return ErrDuplicateEdge
	}
	return g.AddEdge(i, j)
}

// ImportJSON reads a JSON graph file from path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
