// Package resultset provides a bounded top-k implementation of
// core.ResultSet: a max-heap of the k closest candidates seen so far, so
// that a worse candidate can be evicted in O(log k) as better ones arrive.
package resultset

import "github.com/ceccocats/flann/core"

type item struct {
	dist  float32
	index int
}

// TopK collects the k candidates with the smallest distance offered to it
// via AddPoint. It is not safe for concurrent use; give each query its own
// instance.
type TopK struct {
	k     int
	items []item // max-heap by dist; items[0] is the current worst kept candidate
}

var _ core.ResultSet = (*TopK)(nil)

// NewTopK creates a TopK accumulator for at most k results. k must be > 0.
func NewTopK(k int) *TopK {
	if k < 1 {
		k = 1
	}
	return &TopK{k: k, items: make([]item, 0, k)}
}

// AddPoint offers (dist, index) to the accumulator. If the set is not yet
// full, the point is always kept. Once full, it replaces the current worst
// kept candidate only if it is strictly closer.
func (t *TopK) AddPoint(dist float32, index int) {
	if len(t.items) < t.k {
		t.items = append(t.items, item{dist, index})
		t.siftUp(len(t.items) - 1)
		return
	}
	if dist >= t.items[0].dist {
		return
	}
	t.items[0] = item{dist, index}
	t.siftDown(0)
}

// Full reports whether the accumulator already holds k candidates.
func (t *TopK) Full() bool { return len(t.items) >= t.k }

// Len returns the number of candidates currently held.
func (t *TopK) Len() int { return len(t.items) }

// Results returns the held candidates in ascending-distance order. It works
// on a copy, so the accumulator itself is left unchanged.
func (t *TopK) Results() []core.SearchResult {
	out := make([]core.SearchResult, len(t.items))
	items := make([]item, len(t.items))
	copy(items, t.items)
	for i := len(items) - 1; i >= 0; i-- {
		out[i] = core.SearchResult{Index: items[0].index, Distance: items[0].dist}
		items[0] = items[i]
		items = items[:i]
		siftDownSlice(items, 0)
	}
	return out
}

func (t *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if t.items[p].dist >= t.items[i].dist {
			return
		}
		t.items[p], t.items[i] = t.items[i], t.items[p]
		i = p
	}
}

func (t *TopK) siftDown(i int) { siftDownSlice(t.items, i) }

func siftDownSlice(items []item, i int) {
	n := len(items)
	for {
		l, r := 2*i+1, 2*i+2
		largest := i
		if l < n && items[l].dist > items[largest].dist {
			largest = l
		}
		if r < n && items[r].dist > items[largest].dist {
			largest = r
		}
		if largest == i {
			return
		}
		items[i], items[largest] = items[largest], items[i]
		i = largest
	}
}
