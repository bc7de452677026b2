// Package removedset provides a compressed, roaring-bitmap-backed
// implementation of core.RemovedSet for tombstoning dataset indices without
// physically removing them from the forest.
package removedset

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ceccocats/flann/core"
)

// Set is a thread-safe, compressed bitset of logically deleted dataset
// indices. The clustering forest only reads it during search.
type Set struct {
	mu sync.RWMutex
	bm *roaring.Bitmap
}

var _ core.RemovedSet = (*Set)(nil)

// New creates an empty Set.
func New() *Set {
	return &Set{bm: roaring.New()}
}

// Remove marks i as logically deleted.
func (s *Set) Remove(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bm.Add(uint32(i))
}

// Restore clears the removed flag for i.
func (s *Set) Restore(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bm.Remove(uint32(i))
}

// Test reports whether i is marked as removed.
func (s *Set) Test(i int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bm.Contains(uint32(i))
}

// Count returns the number of removed indices.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.bm.GetCardinality())
}
