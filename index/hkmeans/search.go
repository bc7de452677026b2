package hkmeans

import (
	"context"

	"github.com/ceccocats/flann/core"
	"github.com/ceccocats/flann/internal/bitset"
	"github.com/ceccocats/flann/internal/queue"
)

// FindNeighbors performs a best-bin-first search across every tree in the
// forest, offering scored candidates to result until either the heap is
// exhausted or the check budget is spent and result reports itself full.
//
// The traversal order is fully deterministic for a fixed forest, query and
// checksBudget: trees are descended in order 0..Trees-1, ties in pivot
// distance are broken by lowest child index, and ties in the shared heap
// are broken by insertion order.
func (idx *Index) FindNeighbors(ctx context.Context, result core.ResultSet, query []float32, checksBudget int) error {
	if len(query) != idx.dataset.Cols() {
		err := core.NewErrDimensionMismatch(idx.dataset.Cols(), len(query))
		idx.logger.LogSearch(ctx, checksBudget, 0, err)
		return err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.built {
		idx.logger.LogSearch(ctx, checksBudget, 0, ErrNotBuilt)
		return ErrNotBuilt
	}

	q := queue.New[*Node](idx.opts.Branching * idx.opts.Trees)
	checked := bitset.New(idx.dataset.Len())
	checks := 0

	s := &searchState{
		idx:     idx,
		result:  result,
		query:   query,
		queue:   q,
		checked: checked,
		budget:  checksBudget,
	}

	for _, root := range idx.roots {
		s.descend(root, &checks)
	}

	for q.Len() > 0 && (checks < checksBudget || !result.Full()) {
		item, ok := q.PopMin()
		if !ok {
			break
		}
		s.descend(item.Value, &checks)
	}

	idx.logger.LogSearch(ctx, checksBudget, checks, nil)
	return nil
}

type searchState struct {
	idx     *Index
	result  core.ResultSet
	query   []float32
	queue   *queue.Queue[*Node]
	checked *bitset.BitSet
	budget  int
}

// descend advances the traversal one node at a time: score a leaf's points,
// or find the best child of an inner node, push the rest as deferred
// branches onto the shared heap, and recurse into the best child.
func (s *searchState) descend(n *Node, checks *int) {
	if n.IsLeaf() {
		if *checks >= s.budget && s.result.Full() {
			return
		}
		for _, p := range n.Points {
			if s.checked.Test(p.Index) || (s.idx.removed != nil && s.idx.removed.Test(p.Index)) {
				continue
			}
			d, err := s.idx.opts.Distance(s.query, p.Point)
			if err != nil {
				continue
			}
			s.result.AddPoint(d, p.Index)
			s.checked.Set(p.Index)
			*checks++
		}
		return
	}

	bestIdx := 0
	bestDist, err := s.idx.opts.Distance(s.query, n.Children[0].Pivot)
	if err != nil {
		return
	}
	for c := 1; c < len(n.Children); c++ {
		d, err := s.idx.opts.Distance(s.query, n.Children[c].Pivot)
		if err != nil {
			continue
		}
		if d < bestDist {
			bestDist = d
			bestIdx = c
		}
	}

	for c, child := range n.Children {
		if c == bestIdx {
			continue
		}
		d, err := s.idx.opts.Distance(s.query, child.Pivot)
		if err != nil {
			continue
		}
		s.queue.Push(child, d)
	}

	s.descend(n.Children[bestIdx], checks)
}
