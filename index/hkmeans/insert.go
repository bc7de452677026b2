package hkmeans

import "context"

// AddPoints extends the dataset with new vectors and either routes them
// incrementally into the existing forest or triggers a full rebuild, per
// Options.RebuildThreshold. Points must have exactly dataset.Cols() columns;
// dimension mismatches are surfaced by the underlying dataset's Extend.
func (idx *Index) AddPoints(ctx context.Context, points [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.built {
		return ErrNotBuilt
	}

	oldSize, err := idx.dataset.Extend(points)
	if err != nil {
		return err
	}
	newSize := oldSize + len(points)

	if idx.opts.RebuildThreshold > 1 && float64(idx.sizeAtBuild)*idx.opts.RebuildThreshold < float64(newSize) {
		idx.logger.LogRebuild(ctx, idx.sizeAtBuild, newSize)
		err := idx.buildLocked(ctx)
		idx.logger.LogInsert(ctx, len(points), true, err)
		return err
	}

	for i := range points {
		pointIdx := oldSize + i
		vec := idx.dataset.Point(pointIdx)
		for _, root := range idx.roots {
			if err := idx.addPointToTree(root, pointIdx, vec); err != nil {
				idx.logger.LogInsert(ctx, len(points), false, err)
				return err
			}
		}
	}

	idx.logger.LogInsert(ctx, len(points), false, nil)
	return nil
}

// addPointToTree routes a single new point down from node by repeatedly
// choosing the child whose pivot is closest, ties broken by lowest child
// index, until it reaches a leaf; the point is appended there, splitting
// the leaf via computeClustering once its size reaches Branching.
func (idx *Index) addPointToTree(node *Node, pointIdx int, p []float32) error {
	if node.IsLeaf() {
		node.Points = append(node.Points, PointInfo{Index: pointIdx, Point: p})
		if len(node.Points) >= idx.opts.Branching {
			indices := make([]int, len(node.Points))
			for i, pi := range node.Points {
				indices[i] = pi.Index
			}
			return idx.computeClustering(node, indices, idx.rng)
		}
		return nil
	}

	bestIdx := 0
	bestDist, err := idx.opts.Distance(p, node.Children[0].Pivot)
	if err != nil {
		return err
	}
	for c := 1; c < len(node.Children); c++ {
		d, err := idx.opts.Distance(p, node.Children[c].Pivot)
		if err != nil {
			return err
		}
		if d < bestDist {
			bestDist = d
			bestIdx = c
		}
	}
	return idx.addPointToTree(node.Children[bestIdx], pointIdx, p)
}
