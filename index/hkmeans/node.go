package hkmeans

// PointInfo pairs a dataset index with the vector stored at that index at
// the time the leaf holding it was built or last appended to.
type PointInfo struct {
	Index int
	Point []float32
}

// Node is either an inner node or a leaf. Inner nodes hold exactly Branching
// children and a pivot pointing into the dataset; leaves hold a list of
// PointInfo and no children. The root of a tree is always allocated with a
// nil Pivot and PivotIdx of -1, since it is never compared against during
// search.
type Node struct {
	PivotIdx int
	Pivot    []float32

	Children []*Node
	Points   []PointInfo
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }
