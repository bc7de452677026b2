// Package hkmeans implements a forest of hierarchical k-means cluster trees
// searched with best-bin-first (BBF) multi-tree traversal: each tree
// recursively partitions the dataset into Branching-way clusters, and a
// query descends all trees at once through a shared priority queue so that
// a promising branch in one tree can be explored before a worse branch in
// another.
package hkmeans
