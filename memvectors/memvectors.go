// Package memvectors provides a simple in-memory implementation of
// core.MutableDataset: vectors are packed contiguously in a single
// []float32 slice for locality, with append-only growth.
package memvectors

import (
	"fmt"
	"sync"

	"github.com/ceccocats/flann/core"
)

// Store is a growable, contiguous, in-memory vector dataset.
//
// Thread safety: concurrent reads are safe; Extend requires the caller not
// to read concurrently with it (matches the core's contract that build and
// query never run concurrently with a mutating Extend).
type Store struct {
	mu   sync.RWMutex
	dim  int
	data []float32 // data[i*dim : (i+1)*dim] is vector i
	n    int
}

var (
	_ core.Dataset        = (*Store)(nil)
	_ core.MutableDataset = (*Store)(nil)
)

// New creates an empty Store for vectors of the given dimensionality.
func New(dim int) *Store {
	if dim <= 0 {
		dim = 1
	}
	return &Store{dim: dim}
}

// Cols returns the fixed vector dimensionality.
func (s *Store) Cols() int { return s.dim }

// Len returns the number of vectors currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

// Point returns the vector at i. The returned slice aliases internal
// storage and must not be retained across a subsequent Extend.
func (s *Store) Point(i int) []float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[i*s.dim : (i+1)*s.dim]
}

// Extend appends points to the store, returning the size before the
// extension. Every point must have exactly Cols() elements.
func (s *Store) Extend(points [][]float32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldSize := s.n
	for i, p := range points {
		if len(p) != s.dim {
			return oldSize, fmt.Errorf("memvectors: point %d has %d columns, want %d", i, len(p), s.dim)
		}
	}
	for _, p := range points {
		s.data = append(s.data, p...)
		s.n++
	}
	return oldSize, nil
}
