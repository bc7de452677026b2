// Package core defines the small interfaces the clustering forest depends
// on but does not own: the dataset view, the removed-point bitset, and the
// result accumulator. Concrete implementations live in sibling packages
// (memvectors, removedset, resultset); the index only ever consumes these
// interfaces.
package core

// Dataset is a non-owning, read-only view over an ordered sequence of
// fixed-dimension vectors, addressable by integer index in [0, Len()).
type Dataset interface {
	// Point returns the vector stored at i. The returned slice must not be
	// retained past the next mutation of the dataset.
	Point(i int) []float32

	// Len returns the number of vectors currently in the dataset.
	Len() int

	// Cols returns the fixed dimensionality of every vector in the dataset.
	Cols() int
}

// MutableDataset is a Dataset that can grow. Extend appends new vectors at
// the end, in order, and returns the size the dataset had before the
// extension (i.e. the index of the first newly added point).
type MutableDataset interface {
	Dataset

	// Extend appends points to the dataset and returns the size before the
	// extension. Every point must have exactly Cols() elements.
	Extend(points [][]float32) (oldSize int, err error)
}

// RemovedSet reports whether a dataset index has been logically deleted.
// The clustering forest only ever reads this set; it never mutates it.
type RemovedSet interface {
	Test(i int) bool
}

// ResultSet accumulates candidate (distance, index) pairs discovered during
// a search. AddPoint is a best-effort insertion: implementations are free to
// reject points that cannot improve the accumulated result (e.g. a bounded
// top-k set that is already full of closer candidates).
type ResultSet interface {
	// AddPoint offers a scored dataset point to the result accumulator.
	AddPoint(dist float32, index int)

	// Full reports whether the accumulator holds enough results that
	// further, more expensive exploration can be skipped once the check
	// budget for the current query is exhausted.
	Full() bool
}

// SearchResult pairs a dataset index with its distance to the query,
// returned by the reference ResultSet implementation in package resultset.
type SearchResult struct {
	Index    int
	Distance float32
}
