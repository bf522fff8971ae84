package predicate

import (
	"fmt"

	"github.com/matzehuels/trisieve/pkg/graph"
)

// Predicate names, in the order a [Set] evaluates them.
const (
	NameTwinFree            = "twin-free"
	NameMaximalTriangleFree = "maximal-triangle-free"
	NameTriangleFree        = "triangle-free"
	NameCommonNeighbor      = "common-neighbor"
	NameExtension           = "extension"
)

// Predicate is a named structural test.
type Predicate struct {
	Name string
	Test func(*graph.Graph) bool
}

// Set is an ordered conjunction of predicates. Evaluation stops at the first
// predicate that fails.
type Set []Predicate

// Config selects the optional predicates appended after the default pair.
type Config struct {
	// CheckTriangles adds [TriangleFree] after the default predicates.
	CheckTriangles bool
	// CommonNeighbor adds the common-neighbor test for independent sets of
	// at most this many vertices when positive.
	CommonNeighbor int
	// Extension adds the Ψ_k test for k = Extension when positive.
	Extension int
}

// Default returns the twin-free and maximal-triangle-free predicates, in
// that order.
func Default() Set {
	return Set{
		{Name: NameTwinFree, Test: TwinFree},
		{Name: NameMaximalTriangleFree, Test: MaximalTriangleFree},
	}
}

// Build returns [Default] followed by the predicates enabled in cfg.
func Build(cfg Config) Set {
	s := Default()
	if cfg.CheckTriangles {
		s = append(s, Predicate{Name: NameTriangleFree, Test: TriangleFree})
	}
	if size := cfg.CommonNeighbor; size > 0 {
		s = append(s, Predicate{
			Name: NameCommonNeighbor,
			Test: func(g *graph.Graph) bool { return CommonNeighbor(g, size) },
		})
	}
	if k := cfg.Extension; k > 0 {
		s = append(s, Predicate{
			Name: NameExtension,
			Test: func(g *graph.Graph) bool { return Extension(g, k) },
		})
	}
	return s
}

// Evaluate runs the predicates in order. It returns true if all hold, or
// false and the name of the first one that failed.
func (s Set) Evaluate(g *graph.Graph) (ok bool, failed string) {
	for _, p := range s {
		if !p.Test(g) {
			return false, p.Name
		}
	}
	return true, ""
}

// Names returns the predicate names in evaluation order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// Verdict is the outcome of one predicate on one graph, with the witness
// that made it fail.
type Verdict struct {
	Name    string
	OK      bool
	Witness string

	// Vertices are the witness vertices: the twin pair, the addable edge's
	// endpoints, the triangle, the uncovered independent set, or X followed by Y for the extension property.
	Vertices []int
}

// Explain evaluates every predicate enabled by cfg without short-circuiting
// and describes each failure. It is meant for interactive inspection; the
// stream filter uses [Set.Evaluate].
func Explain(g *graph.Graph, cfg Config) []Verdict {
	out := make([]Verdict, 0, 5)

	v := Verdict{Name: NameTwinFree, OK: true}
	if i, j, found := FindTwins(g); found {
		v.OK = false
		v.Witness = fmt.Sprintf("vertices %d and %d have the same neighbors", i, j)
		v.Vertices = []int{i, j}
	}
	out = append(out, v)

	v = Verdict{Name: NameMaximalTriangleFree, OK: true}
	if i, j, found := FindAddableEdge(g); found {
		v.OK = false
		v.Witness = fmt.Sprintf("edge %d-%d can be added without a triangle", i, j)
		v.Vertices = []int{i, j}
	}
	out = append(out, v)

	if cfg.CheckTriangles {
		v = Verdict{Name: NameTriangleFree, OK: true}
		if tri, found := FindTriangle(g); found {
			v.OK = false
			v.Witness = fmt.Sprintf("triangle %d-%d-%d", tri[0], tri[1], tri[2])
			v.Vertices = tri[:]
		}
		out = append(out, v)
	}

	if cfg.CommonNeighbor > 0 {
		v = Verdict{Name: NameCommonNeighbor, OK: true}
		if set, found := FindUncoveredSet(g, cfg.CommonNeighbor); found {
			v.OK = false
			v.Witness = fmt.Sprintf("independent set %v has no common neighbor", set)
			v.Vertices = set
		}
		out = append(out, v)
	}

	if cfg.Extension > 0 {
		v = Verdict{Name: NameExtension, OK: true}
		if x, y, found := FindExtensionFailure(g, cfg.Extension); found {
			v.OK = false
			v.Witness = fmt.Sprintf("no witness for X=%v Y=%v", x, y)
			v.Vertices = append(append([]int{}, x...), y...)
		}
		out = append(out, v)
	}
	return out
}
