// Package distance defines the distance-function abstraction consumed by
// the clustering forest and provides the two concrete metrics FLANN's
// hierarchical clustering index was built against: squared Euclidean
// distance and cosine similarity expressed as a distance.
//
// Per spec.md's Non-goals, no SIMD or GPU-specialized kernels are provided
// here; the plain loops below are the reference behavior the core is
// verified against.
package distance
