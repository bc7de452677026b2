package hkmeans

import (
	"bytes"
	"encoding/gob"
	"math/rand"
)

// persistedNode is the on-disk shape of a Node: a pivot dataset reference
// and either its children (recurse) or a leaf's point index list.
//
// Leaf point indices are persisted explicitly, trading a larger file for
// load-time exactness: after AddPoints has run, a leaf's point set can no
// longer be reproduced by re-running the builder over the base dataset
// alone.
type persistedNode struct {
	PivotIdx int
	IsLeaf   bool
	LeafIdx  []int
	Children []persistedNode
}

// persistedIndex is the on-disk shape of an Index: the parameter block
// described in the persisted-layout contract, followed by one persistedNode
// tree per forest root.
type persistedIndex struct {
	Branching        int
	Trees            int
	CentersInit      CentersInit
	LeafSize         int
	RebuildThreshold float64
	RandomSeed       int64
	SizeAtBuild      int
	MemoryCounter    int64
	Roots            []persistedNode
}

var (
	_ gob.GobEncoder = (*Index)(nil)
	_ gob.GobDecoder = (*Index)(nil)
)

// GobEncode serializes the forest's shape and build parameters. Pivots and
// leaf points are stored as dataset indices, not raw vectors: decoding
// requires the same dataset (by index) to be attached to the target Index.
func (idx *Index) GobEncode() ([]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	p := persistedIndex{
		Branching:        idx.opts.Branching,
		Trees:            idx.opts.Trees,
		CentersInit:      idx.opts.CentersInit,
		LeafSize:         idx.opts.LeafSize,
		RebuildThreshold: idx.opts.RebuildThreshold,
		RandomSeed:       idx.opts.RandomSeed,
		SizeAtBuild:      idx.sizeAtBuild,
		MemoryCounter:    int64(idx.arena.Allocs()) * approxBytesPerNode,
		Roots:            make([]persistedNode, len(idx.roots)),
	}
	for i, root := range idx.roots {
		p.Roots[i] = encodeNode(root)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(n *Node) persistedNode {
	if n.IsLeaf() {
		leafIdx := make([]int, len(n.Points))
		for i, pi := range n.Points {
			leafIdx[i] = pi.Index
		}
		return persistedNode{PivotIdx: n.PivotIdx, IsLeaf: true, LeafIdx: leafIdx}
	}
	children := make([]persistedNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = encodeNode(c)
	}
	return persistedNode{PivotIdx: n.PivotIdx, IsLeaf: false, Children: children}
}

// GobDecode restores a forest previously written by GobEncode into idx. The
// caller must have already constructed idx via New with the same dataset
// (by index) the forest was built over.
func (idx *Index) GobDecode(data []byte) error {
	var p persistedIndex
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return err
	}

	c, err := newChooser(p.CentersInit)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.opts.Branching = p.Branching
	idx.opts.Trees = p.Trees
	idx.opts.CentersInit = p.CentersInit
	idx.opts.LeafSize = p.LeafSize
	idx.opts.RebuildThreshold = p.RebuildThreshold
	idx.opts.RandomSeed = p.RandomSeed
	idx.chooser = c
	idx.rng = rand.New(rand.NewSource(p.RandomSeed))

	idx.arena.Reset()
	idx.roots = make([]*Node, len(p.Roots))
	for i, pn := range p.Roots {
		idx.roots[i] = idx.decodeNode(pn)
	}
	idx.sizeAtBuild = p.SizeAtBuild
	idx.built = true
	return nil
}

func (idx *Index) decodeNode(pn persistedNode) *Node {
	node := idx.arena.Alloc()
	node.PivotIdx = pn.PivotIdx
	if pn.PivotIdx >= 0 {
		node.Pivot = idx.dataset.Point(pn.PivotIdx)
	}

	if pn.IsLeaf {
		node.Points = make([]PointInfo, len(pn.LeafIdx))
		for i, dsIdx := range pn.LeafIdx {
			node.Points[i] = PointInfo{Index: dsIdx, Point: idx.dataset.Point(dsIdx)}
		}
		return node
	}

	node.Children = make([]*Node, len(pn.Children))
	for i, c := range pn.Children {
		node.Children[i] = idx.decodeNode(c)
	}
	return node
}
