package hkmeans

import "math/rand"

// computeClustering recursively partitions indices into node, splitting
// into Branching children whenever there are enough points and the chooser
// can produce a full set of centers: it picks centers, labels each index by
// nearest center, partitions indices in place by label, then recurses into
// each child.
func (idx *Index) computeClustering(node *Node, indices []int, rng *rand.Rand) error {
	n := len(indices)
	if n < idx.opts.LeafSize {
		idx.makeLeaf(node, indices)
		return nil
	}

	centers := idx.chooser.choose(rng, idx.opts.Distance, idx.dataset, indices, idx.opts.Branching)
	if len(centers) < idx.opts.Branching {
		idx.makeLeaf(node, indices)
		return nil
	}

	labels, err := idx.computeLabels(indices, centers)
	if err != nil {
		return err
	}

	if noProgress(labels) {
		idx.makeLeaf(node, indices)
		return nil
	}

	node.Children = make([]*Node, idx.opts.Branching)
	start := 0
	for label := 0; label < idx.opts.Branching; label++ {
		end := start
		for j := start; j < n; j++ {
			if labels[j] == label {
				indices[j], indices[end] = indices[end], indices[j]
				labels[j], labels[end] = labels[end], labels[j]
				end++
			}
		}

		child := idx.arena.Alloc()
		child.PivotIdx = centers[label]
		child.Pivot = idx.dataset.Point(centers[label])
		node.Children[label] = child

		if err := idx.computeClustering(child, indices[start:end], rng); err != nil {
			return err
		}
		start = end
	}
	return nil
}

// noProgress reports whether every index in indices labeled the same,
// meaning a split would recreate an identical child holding all n points.
// This guards the degenerate-data case (§4.2/§7): value-identical points
// can make every candidate center coincide, and without this check
// computeClustering would recurse on an unchanged index set forever.
func noProgress(labels []int) bool {
	if len(labels) == 0 {
		return false
	}
	first := labels[0]
	for _, l := range labels[1:] {
		if l != first {
			return false
		}
	}
	return true
}

// computeLabels assigns each index in indices the label of its nearest
// center, ties broken by lowest label. computeClustering's partition pass
// scans the returned labels forward from `start`, so labels must stay aligned
// with indices element-for-element (parallel slices, swapped in lockstep).
func (idx *Index) computeLabels(indices, centers []int) ([]int, error) {
	labels := make([]int, len(indices))
	for i, pointIdx := range indices {
		point := idx.dataset.Point(pointIdx)
		best := 0
		bestDist, err := idx.opts.Distance(point, idx.dataset.Point(centers[0]))
		if err != nil {
			return nil, err
		}
		for c := 1; c < len(centers); c++ {
			d, err := idx.opts.Distance(point, idx.dataset.Point(centers[c]))
			if err != nil {
				return nil, err
			}
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
	}
	return labels, nil
}

// makeLeaf turns node into a leaf holding a PointInfo for every index in
// indices, snapshotting each point's current vector.
func (idx *Index) makeLeaf(node *Node, indices []int) {
	node.Children = nil
	node.Points = make([]PointInfo, len(indices))
	for i, pointIdx := range indices {
		node.Points[i] = PointInfo{Index: pointIdx, Point: idx.dataset.Point(pointIdx)}
	}
}
