// Package pkg provides the libraries behind trisieve, a streaming filter for
// graphs in graph6 format.
//
// # Overview
//
// A graph generator emits millions of small graphs; trisieve keeps the ones
// that are twin-free and maximal triangle-free, the candidates in searches
// for extremal triangle-free graphs. The pkg directory is organized as:
//
//  1. [graph] - Bit-packed adjacency rows for dense small graphs
//  2. [predicate] - Twin-free, maximal-triangle-free and optional checks
//  3. [stream] - The sequential filter loop over a graph source and sink
//  4. [graph6] - The graph6 codec with line-oriented reader and writer
//  5. [pipeline] - Orchestration: files, batches and result caching
//  6. [cache], [config], [observability] - Infrastructure
//  7. [render/nodelink], [io] - Diagrams and JSON export of single graphs
//
// # Architecture
//
// The data flow of a filter run:
//
//	graph6 lines
//	     ↓
//	[graph6] Reader (decode, validate, line numbers)
//	     ↓
//	[stream] Filter ([predicate] Set, shard selection)
//	     ↓
//	[graph6] Writer (accepted graphs, input order)
//
// [pipeline] wraps this loop with input hashing and a [cache] lookup, and
// runs many files in parallel for batch jobs.
//
// # Quick Start
//
//	set := predicate.Default()
//	f := stream.NewFilter(set)
//	stats, err := f.Run(ctx, graph6.NewReader(os.Stdin), w)
package pkg
