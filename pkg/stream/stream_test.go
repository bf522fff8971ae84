package stream

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/matzehuels/trisieve/pkg/graph"
	"github.com/matzehuels/trisieve/pkg/observability"
	"github.com/matzehuels/trisieve/pkg/predicate"
)

func build(n int, edges ...[2]int) *graph.Graph {
	g := graph.New(n)
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			panic(err)
		}
	}
	return g
}

func cycle(n int) *graph.Graph {
	g := graph.New(n)
	for i := 0; i < n; i++ {
		_ = g.AddEdge(i, (i+1)%n)
	}
	return g
}

func TestRunFiltersStream(t *testing.T) {
	inputs := []*graph.Graph{
		cycle(5),
		build(3, [2]int{0, 1}, [2]int{1, 2}),
		build(4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}),
		build(2, [2]int{0, 1}),
		build(1),
	}
	// C5, K2 and K1 pass; P3 has twins; P4 is not maximal.
	all := append([]*graph.Graph(nil), inputs...)

	var out CollectSink
	defer out.Release()

	stats, err := NewFilter(predicate.Default()).Run(context.Background(), SliceSource(inputs...), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Read != 5 || stats.Accepted != 3 {
		t.Errorf("stats = %+v, want read 5 accepted 3", stats)
	}
	if stats.Rejected[predicate.NameTwinFree] != 1 || stats.Rejected[predicate.NameMaximalTriangleFree] != 1 {
		t.Errorf("rejected = %v, want one per predicate", stats.Rejected)
	}
	if stats.RejectedTotal() != 2 {
		t.Errorf("RejectedTotal() = %d, want 2", stats.RejectedTotal())
	}

	wantOrders := []int{5, 2, 1}
	if len(out.Graphs) != len(wantOrders) {
		t.Fatalf("emitted %d graphs, want %d", len(out.Graphs), len(wantOrders))
	}
	for i, g := range out.Graphs {
		if g.Order() != wantOrders[i] {
			t.Errorf("graph %d order = %d, want %d", i, g.Order(), wantOrders[i])
		}
	}

	for i, g := range all {
		if !g.Released() {
			t.Errorf("input %d was not released", i)
		}
	}
}

func TestRunEmptyStream(t *testing.T) {
	var out CollectSink
	stats, err := NewFilter(predicate.Default()).Run(context.Background(), SliceSource(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Read != 0 || len(out.Graphs) != 0 {
		t.Errorf("empty stream produced read=%d emitted=%d", stats.Read, len(out.Graphs))
	}
}

func TestRunEmitsUnchanged(t *testing.T) {
	in := cycle(70)
	want := in.Clone()
	defer want.Release()

	// A 70-cycle is not maximal; accept everything to test forwarding.
	set := predicate.Set{{Name: "any", Test: func(*graph.Graph) bool { return true }}}

	var out CollectSink
	defer out.Release()
	if _, err := NewFilter(set).Run(context.Background(), SliceSource(in), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Graphs) != 1 || !out.Graphs[0].Equal(want) {
		t.Error("emitted graph differs from input")
	}
}

func TestRunSourceError(t *testing.T) {
	boom := errors.New("truncated line")
	first := cycle(5)
	calls := 0
	src := SourceFunc(func() (*graph.Graph, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return nil, boom
	})

	var out CollectSink
	defer out.Release()
	stats, err := NewFilter(predicate.Default()).Run(context.Background(), src, &out)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	if stats.Read != 1 || len(out.Graphs) != 1 {
		t.Errorf("graphs before the error should be processed: %+v", stats)
	}
	if !first.Released() {
		t.Error("graph read before the error was not released")
	}
}

func TestRunSinkErrorReleases(t *testing.T) {
	g := cycle(5)
	boom := errors.New("disk full")
	sink := SinkFunc(func(*graph.Graph) error { return boom })

	_, err := NewFilter(predicate.Default()).Run(context.Background(), SliceSource(g), sink)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	if !g.Released() {
		t.Error("graph was not released after sink error")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := cycle(5)
	defer g.Release()
	stats, err := NewFilter(predicate.Default()).Run(ctx, SliceSource(g), &CollectSink{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if stats.Read != 0 {
		t.Errorf("read %d graphs after cancellation", stats.Read)
	}
}

func TestRunShard(t *testing.T) {
	var inputs []*graph.Graph
	for i := 0; i < 7; i++ {
		inputs = append(inputs, cycle(5))
	}

	f := NewFilter(predicate.Default())
	f.Shard = Shard{Res: 1, Mod: 3}

	var out CollectSink
	defer out.Release()
	stats, err := f.Run(context.Background(), SliceSource(inputs...), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Indices 1 and 4 belong to shard 1/3.
	if stats.Read != 7 || stats.Skipped != 5 || stats.Accepted != 2 {
		t.Errorf("stats = %+v, want read 7 skipped 5 accepted 2", stats)
	}
}

func TestShardValidate(t *testing.T) {
	tests := []struct {
		shard   Shard
		wantErr bool
	}{
		{Shard{}, false},
		{Shard{Res: 0, Mod: 1}, false},
		{Shard{Res: 3, Mod: 4}, false},
		{Shard{Res: 4, Mod: 4}, true},
		{Shard{Res: -1, Mod: 4}, true},
		{Shard{Res: 0, Mod: -2}, true},
		{Shard{Res: 2}, true},
	}
	for _, tt := range tests {
		if err := tt.shard.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%+v.Validate() error = %v, wantErr %v", tt.shard, err, tt.wantErr)
		}
	}
}

type recordingHooks struct {
	observability.NoopFilterHooks
	started    []string
	evaluated  int
	rejections map[string]int
	read       int
	accepted   int
	err        error
}

func (h *recordingHooks) OnStreamStart(_ context.Context, _ string, names []string) {
	h.started = names
}

func (h *recordingHooks) OnGraphEvaluated(_ context.Context, _ int, ok bool, failed string, _ time.Duration) {
	h.evaluated++
	if !ok {
		h.rejections[failed]++
	}
}

func (h *recordingHooks) OnStreamComplete(_ context.Context, _ string, read, accepted int, _ time.Duration, err error) {
	h.read, h.accepted, h.err = read, accepted, err
}

func TestRunHooks(t *testing.T) {
	h := &recordingHooks{rejections: map[string]int{}}
	observability.SetFilterHooks(h)
	defer observability.Reset()

	src := SliceSource(cycle(5), build(2))
	_, err := NewFilter(predicate.Default()).Run(context.Background(), src, SinkFunc(func(*graph.Graph) error { return nil }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(h.started) != 2 {
		t.Errorf("OnStreamStart predicates = %v", h.started)
	}
	if h.evaluated != 2 || h.rejections[predicate.NameTwinFree] != 1 {
		t.Errorf("evaluated=%d rejections=%v", h.evaluated, h.rejections)
	}
	if h.read != 2 || h.accepted != 1 || h.err != nil {
		t.Errorf("OnStreamComplete read=%d accepted=%d err=%v", h.read, h.accepted, h.err)
	}
}

func TestRunHooksFixedPerRun(t *testing.T) {
	first := &recordingHooks{rejections: map[string]int{}}
	second := &recordingHooks{rejections: map[string]int{}}
	observability.SetFilterHooks(first)
	defer observability.Reset()

	graphs := []*graph.Graph{cycle(5), build(2), cycle(5)}
	i := 0
	src := SourceFunc(func() (*graph.Graph, error) {
		if i == len(graphs) {
			return nil, io.EOF
		}
		if i == 1 {
			observability.SetFilterHooks(second)
		}
		g := graphs[i]
		i++
		return g, nil
	})

	_, err := NewFilter(predicate.Default()).Run(context.Background(), src, SinkFunc(func(*graph.Graph) error { return nil }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.evaluated != 3 || first.read != 3 {
		t.Errorf("hooks at start saw evaluated=%d read=%d, want 3 and 3", first.evaluated, first.read)
	}
	if second.evaluated != 0 || second.started != nil {
		t.Errorf("hooks registered mid-run saw %d evaluations", second.evaluated)
	}
}

func TestSliceSourceEOF(t *testing.T) {
	src := SliceSource()
	for i := 0; i < 2; i++ {
		if _, err := src.Next(); err != io.EOF {
			t.Errorf("Next() #%d = %v, want io.EOF", i, err)
		}
	}
}
