// Package predicate implements the structural tests applied to every graph
// in the stream.
//
// The two default predicates are [TwinFree] (no two distinct vertices share
// a neighbor set) and [MaximalTriangleFree] (every non-adjacent pair has a
// common neighbor). Both scan unordered pairs (i, j), i < j, in increasing
// order and stop at the first violation. They are pure functions of the
// graph and never mutate it.
//
// [MaximalTriangleFree] assumes its input is already triangle-free, as
// produced by a triangle-free generator such as geng -t. It does not look
// for triangles itself; [TriangleFree] does, and callers that cannot vouch
// for their input can add it to the [Set].
//
// [TwinFree] compares every pair, adjacent or not, while
// [MaximalTriangleFree] skips adjacent pairs, as their definitions require.
//
// [Extension] tests the Ψ_k extension property of the generic triangle-free
// graph and is opt-in, as is [CommonNeighbor], which requires every small
// independent set to share a neighbor.
package predicate
