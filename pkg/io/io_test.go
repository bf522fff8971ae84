package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/trisieve/pkg/graph"
)

func cycle5(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(5)
	for i := 0; i < 5; i++ {
		if err := g.AddEdge(i, (i+1)%5); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(cycle5(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	compact := strings.Join(strings.Fields(buf.String()), "")
	want := `{"order":5,"edges":[[0,1],[0,4],[1,2],[2,3],[3,4]]}`
	if compact != want {
		t.Errorf("WriteJSON() = %s, want %s", compact, want)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(graph.New(0), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	compact := strings.Join(strings.Fields(buf.String()), "")
	if compact != `{"order":0,"edges":[]}` {
		t.Errorf("WriteJSON() = %s", compact)
	}
}

func TestRoundTrip(t *testing.T) {
	g := cycle5(t)
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !got.Equal(g) {
		t.Error("round trip changed the graph")
	}
}

func TestReadJSON_Orientation(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{"order": 3, "edges": [[2, 1], [1, 0]]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !g.HasEdge(0, 1) || !g.HasEdge(1, 2) || g.HasEdge(0, 2) {
		t.Errorf("ReadJSON() edges = %d, want path 0-1-2", g.EdgeCount())
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"malformed", `{"order": 3,`, nil},
		{"unknown field", `{"order": 2, "nodes": []}`, nil},
		{"negative order", `{"order": -1, "edges": []}`, nil},
		{"huge order", `{"order": 100000000, "edges": []}`, nil},
		{"self-loop", `{"order": 2, "edges": [[1, 1]]}`, graph.ErrSelfLoop},
		{"out of range", `{"order": 2, "edges": [[0, 2]]}`, graph.ErrVertexRange},
		{"negative vertex", `{"order": 2, "edges": [[-1, 0]]}`, graph.ErrVertexRange},
		{"duplicate", `{"order": 3, "edges": [[0, 1], [1, 0]]}`, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON() succeeded, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c5.json")
	if err := ExportJSON(cycle5(t), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if g.Order() != 5 || g.EdgeCount() != 5 {
		t.Errorf("ImportJSON() = order %d, %d edges", g.Order(), g.EdgeCount())
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() of a missing file succeeded")
	}
}
