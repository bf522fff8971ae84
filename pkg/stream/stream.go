// Package stream runs a predicate set over a lazy sequence of graphs.
//
// A [Filter] pulls one graph at a time from a [Source], tests it against its
// predicates in order, forwards the graph unchanged to a [Sink] if every
// predicate holds, and releases it before asking for the next one. At most
// one graph is alive at any moment, so memory use does not grow with the
// length of the stream.
//
//	f := stream.NewFilter(predicate.Default())
//	stats, err := f.Run(ctx, graph6.NewReader(os.Stdin), w)
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trisieve/pkg/graph"
	"github.com/matzehuels/trisieve/pkg/observability"
	"github.com/matzehuels/trisieve/pkg/predicate"
)

// Source yields graphs one at a time. Next returns io.EOF when the stream is
// exhausted; any other error aborts the stream. The caller owns each
// returned graph and releases it. A Source is not restartable.
type Source interface {
	Next() (*graph.Graph, error)
}

// Sink receives accepted graphs. Emit must not retain g after it returns.
type Sink interface {
	Emit(g *graph.Graph) error
}

// SourceFunc adapts a function to [Source].
type SourceFunc func() (*graph.Graph, error)

func (f SourceFunc) Next() (*graph.Graph, error) { return f() }

// SinkFunc adapts a function to [Sink].
type SinkFunc func(*graph.Graph) error

func (f SinkFunc) Emit(g *graph.Graph) error { return f(g) }

// Shard restricts evaluation to the graphs whose zero-based stream index i
// satisfies i % Mod == Res. The zero value evaluates everything.
type Shard struct {
	Res int
	Mod int
}

// Enabled reports whether the shard skips any graphs.
func (s Shard) Enabled() bool { return s.Mod > 1 }

// Validate checks that Res is in range for Mod.
func (s Shard) Validate() error {
	if s.Mod < 0 {
		return fmt.Errorf("shard mod must be non-negative, got %d", s.Mod)
	}
	if s.Mod > 0 && (s.Res < 0 || s.Res >= s.Mod) {
		return fmt.Errorf("shard res %d out of range [0, %d)", s.Res, s.Mod)
	}
	if s.Mod == 0 && s.Res != 0 {
		return fmt.Errorf("shard res %d given without mod", s.Res)
	}
	return nil
}

func (s Shard) owns(i int) bool {
	return !s.Enabled() || i%s.Mod == s.Res
}

// Stats summarizes one run of a [Filter].
type Stats struct {
	Read     int            `json:"read"`
	Skipped  int            `json:"skipped,omitempty"`
	Accepted int            `json:"accepted"`
	Rejected map[string]int `json:"rejected"`
	Elapsed  time.Duration  `json:"elapsed"`
}

// RejectedTotal returns the number of graphs rejected by any predicate.
func (s Stats) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// Filter forwards the graphs that satisfy every predicate in its set.
type Filter struct {
	Predicates predicate.Set
	Shard      Shard
	RunID      string
	Logger     *log.Logger
}

// NewFilter returns a filter over the given predicates with a discard logger.
func NewFilter(set predicate.Set) *Filter {
	return &Filter{Predicates: set}
}

// Run consumes src until it is exhausted, emitting accepted graphs to sink.
//
// Run returns nil at end of stream. A source error other than io.EOF, a sink
// error, or a cancelled ctx stops the loop and is returned together with the
// stats collected so far. ctx is consulted between graphs only; a graph that
// is being evaluated always runs to completion. The registered filter hooks
// are read once, so one run reports to a single hook set.
func (f *Filter) Run(ctx context.Context, src Source, sink Sink) (stats Stats, err error) {
	logger := f.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	hooks := observability.Filter()
	stats.Rejected = make(map[string]int, len(f.Predicates))

	start := time.Now()
	hooks.OnStreamStart(ctx, f.RunID, f.Predicates.Names())
	defer func() {
		stats.Elapsed = time.Since(start)
		hooks.OnStreamComplete(ctx, f.RunID, stats.Read, stats.Accepted, stats.Elapsed, err)
	}()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		g, err := src.Next()
		if errors.Is(err, io.EOF) {
			logger.Debug("end of stream", "read", stats.Read, "accepted", stats.Accepted)
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read graph %d: %w", index+1, err)
		}

		if err := f.step(ctx, hooks, index, g, sink, &stats); err != nil {
			return stats, err
		}
	}
}

// step handles a single graph and always releases it. hooks are the ones
// captured when the run started.
func (f *Filter) step(ctx context.Context, hooks observability.FilterHooks, index int, g *graph.Graph, sink Sink, stats *Stats) error {
	defer g.Release()
	stats.Read++

	if !f.Shard.owns(index) {
		stats.Skipped++
		return nil
	}

	t := time.Now()
	ok, failed := f.Predicates.Evaluate(g)
	hooks.OnGraphEvaluated(ctx, g.Order(), ok, failed, time.Since(t))

	if !ok {
		stats.Rejected[failed]++
		return nil
	}
	stats.Accepted++
	if err := sink.Emit(g); err != nil {
		return fmt.Errorf("emit graph %d: %w", index+1, err)
	}
	return nil
}

// SliceSource yields the given graphs in order, then io.EOF. Ownership of
// each graph passes to the caller of Next.
func SliceSource(graphs ...*graph.Graph) Source {
	i := 0
	return SourceFunc(func() (*graph.Graph, error) {
		if i >= len(graphs) {
			return nil, io.EOF
		}
		g := graphs[i]
		graphs[i] = nil
		i++
		return g, nil
	})
}

// CollectSink keeps a clone of every emitted graph.
type CollectSink struct {
	Graphs []*graph.Graph
}

// Emit clones g and appends the clone.
func (c *CollectSink) Emit(g *graph.Graph) error {
	c.Graphs = append(c.Graphs, g.Clone())
	return nil
}

// Release releases every collected graph.
func (c *CollectSink) Release() {
	for _, g := range c.Graphs {
		g.Release()
	}
	c.Graphs = nil
}
