package hkmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceccocats/flann/memvectors"
	"github.com/ceccocats/flann/removedset"
	"github.com/ceccocats/flann/resultset"
)

func TestAddPoints_RebuildThreshold(t *testing.T) {
	ds := memvectors.New(2)
	_, err := ds.Extend(randomPoints(t, 100, 2, 1))
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(4), WithLeafSize(4), WithTrees(2), WithRebuildThreshold(2.0), WithRandomSeed(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))
	assert.Equal(t, 100, idx.sizeAtBuild)

	require.NoError(t, idx.AddPoints(context.Background(), randomPoints(t, 101, 2, 2)))
	assert.Equal(t, 201, idx.sizeAtBuild, "size_at_build*threshold (200) < 201 should trigger a rebuild")

	require.NoError(t, idx.AddPoints(context.Background(), randomPoints(t, 50, 2, 3)))
	assert.Equal(t, 201, idx.sizeAtBuild, "size_at_build*threshold (402) is not exceeded by 251, no rebuild")
}

func TestAddPoints_IncrementalRouting(t *testing.T) {
	ds := memvectors.New(2)
	_, err := ds.Extend(randomPoints(t, 50, 2, 5))
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(4), WithLeafSize(4), WithTrees(1), WithRebuildThreshold(0), WithRandomSeed(4))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	newPoint := []float32{1000, 1000}
	require.NoError(t, idx.AddPoints(context.Background(), [][]float32{newPoint}))
	assert.Equal(t, 50, idx.sizeAtBuild, "rebuild disabled: size_at_build stays fixed")

	result := resultset.NewTopK(1)
	require.NoError(t, idx.FindNeighbors(context.Background(), result, newPoint, 10_000))
	got := result.Results()
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].Index)
}

func TestAddPoints_SplitsOverflowingLeaf(t *testing.T) {
	ds := memvectors.New(1)
	_, err := ds.Extend([][]float32{{0}, {1}, {2}})
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(2), WithLeafSize(4), WithTrees(1), WithRebuildThreshold(0), WithRandomSeed(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))
	require.True(t, idx.roots[0].IsLeaf())

	more := make([][]float32, 0)
	for i := 3; i < 3+idx.opts.Branching; i++ {
		more = append(more, []float32{float32(i)})
	}
	require.NoError(t, idx.AddPoints(context.Background(), more))
	assert.False(t, idx.roots[0].IsLeaf(), "the overflowing root leaf should have been split")

	seen := map[int]int{}
	collectLeafIndices(idx.roots[0], seen)
	assert.Len(t, seen, 3+len(more))
}

func TestAddPoints_RequiresBuild(t *testing.T) {
	ds := memvectors.New(2)
	idx, err := New(ds, removedset.New())
	require.NoError(t, err)

	err = idx.AddPoints(context.Background(), [][]float32{{0, 0}})
	assert.ErrorIs(t, err, ErrNotBuilt)
}
