// Package flann provides a forest of hierarchical k-means cluster trees for
// approximate nearest-neighbor search over fixed-length numeric feature
// vectors.
//
// The index (package index/hkmeans) builds T independent trees by
// recursively partitioning point indices with one of three center-choosing
// strategies (random, farthest-point, or k-means++ weighted sampling), then
// answers queries with a best-bin-first search that interleaves descents
// across all trees through a single shared priority queue and a
// per-query "already scored" bitset.
//
// Dataset storage, result accumulation, and the distance metric are
// supplied by the caller through small interfaces defined in package core;
// packages distance, memvectors, resultset, and removedset provide ready
// reference implementations of those interfaces.
package flann
