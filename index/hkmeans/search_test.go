package hkmeans

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceccocats/flann/core"
	"github.com/ceccocats/flann/memvectors"
	"github.com/ceccocats/flann/removedset"
	"github.com/ceccocats/flann/resultset"
)

func TestFindNeighbors_TinyExact(t *testing.T) {
	ds := memvectors.New(2)
	_, err := ds.Extend([][]float32{{0, 0}, {1, 0}, {0, 1}, {10, 10}})
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(2), WithLeafSize(1), WithTrees(1), WithRandomSeed(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	result := resultset.NewTopK(1)
	require.NoError(t, idx.FindNeighbors(context.Background(), result, []float32{0.1, 0.1}, math.MaxInt32))

	got := result.Results()
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Index)
}

func TestFindNeighbors_ExactExhaustionMatchesBruteForce(t *testing.T) {
	ds := memvectors.New(3)
	pts := randomPoints(t, 200, 3, 5)
	_, err := ds.Extend(pts)
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(4), WithTrees(2), WithLeafSize(8), WithRandomSeed(3))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	query := []float32{50, 50, 50}
	k := 5

	result := resultset.NewTopK(k)
	require.NoError(t, idx.FindNeighbors(context.Background(), result, query, 10_000))
	got := result.Results()

	brute := bruteForceTopK(ds, query, k)

	gotIdx := indicesOf(got)
	bruteIdx := indicesOf(brute)
	sort.Ints(gotIdx)
	sort.Ints(bruteIdx)
	assert.Equal(t, bruteIdx, gotIdx)
}

func TestFindNeighbors_CheckedSetLaw(t *testing.T) {
	ds := memvectors.New(2)
	pts := randomPoints(t, 100, 2, 9)
	_, err := ds.Extend(pts)
	require.NoError(t, err)

	idx, err := New(ds, removedset.New(), WithBranching(4), WithTrees(4), WithLeafSize(4), WithRandomSeed(2))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	counting := &countingResultSet{TopK: resultset.NewTopK(10)}
	require.NoError(t, idx.FindNeighbors(context.Background(), counting, pts[0], 10_000))

	for idxVal, count := range counting.scored {
		assert.LessOrEqualf(t, count, 1, "index %d scored %d times", idxVal, count)
	}
}

func TestFindNeighbors_RespectsRemoved(t *testing.T) {
	ds := memvectors.New(2)
	_, err := ds.Extend([][]float32{{0, 0}, {0.01, 0.01}, {5, 5}})
	require.NoError(t, err)

	removed := removedset.New()
	removed.Remove(0)

	idx, err := New(ds, removed, WithBranching(2), WithLeafSize(1), WithTrees(1), WithRandomSeed(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	result := resultset.NewTopK(3)
	require.NoError(t, idx.FindNeighbors(context.Background(), result, []float32{0, 0}, 1000))

	for _, r := range result.Results() {
		assert.NotEqual(t, 0, r.Index)
	}
}

// TestFindNeighbors_LeafScoredInFullDespiteBudget checks that the check
// budget bounds leaves entered, not distances computed exactly: a leaf
// entered while under budget must have every one of its points scored,
// even though scoring the first point alone already
// exhausts the budget and fills a k=1 result.
func TestFindNeighbors_LeafScoredInFullDespiteBudget(t *testing.T) {
	ds := memvectors.New(2)
	pts := randomPoints(t, 20, 2, 17)
	_, err := ds.Extend(pts)
	require.NoError(t, err)

	// A single leaf holding every point: LeafSize larger than the dataset
	// means computeClustering never splits, so the whole forest is one leaf.
	idx, err := New(ds, removedset.New(), WithBranching(4), WithLeafSize(50), WithTrees(1), WithRandomSeed(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))
	require.True(t, idx.roots[0].IsLeaf())

	counting := &countingResultSet{TopK: resultset.NewTopK(1)}
	require.NoError(t, idx.FindNeighbors(context.Background(), counting, pts[0], 1))

	assert.Len(t, counting.scored, 20, "the entered leaf must be scored in full, not truncated at the budget")
}

func TestFindNeighbors_DimensionMismatch(t *testing.T) {
	ds := memvectors.New(2)
	_, _ = ds.Extend([][]float32{{0, 0}})
	idx, err := New(ds, removedset.New(), WithBranching(2), WithLeafSize(1), WithTrees(1))
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background()))

	err = idx.FindNeighbors(context.Background(), resultset.NewTopK(1), []float32{0, 0, 0}, 10)
	assert.Error(t, err)
}

func TestFindNeighbors_RequiresBuild(t *testing.T) {
	ds := memvectors.New(2)
	_, _ = ds.Extend([][]float32{{0, 0}})
	idx, err := New(ds, removedset.New())
	require.NoError(t, err)

	err = idx.FindNeighbors(context.Background(), resultset.NewTopK(1), []float32{0, 0}, 10)
	assert.ErrorIs(t, err, ErrNotBuilt)
}

type countingResultSet struct {
	*resultset.TopK
	scored map[int]int
}

func (c *countingResultSet) AddPoint(dist float32, index int) {
	if c.scored == nil {
		c.scored = map[int]int{}
	}
	c.scored[index]++
	c.TopK.AddPoint(dist, index)
}

func bruteForceTopK(ds core.Dataset, query []float32, k int) []core.SearchResult {
	rs := resultset.NewTopK(k)
	for i := 0; i < ds.Len(); i++ {
		d, _ := squaredL2(query, ds.Point(i))
		rs.AddPoint(d, i)
	}
	return rs.Results()
}

func squaredL2(a, b []float32) (float32, error) {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}

func indicesOf(results []core.SearchResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Index
	}
	return out
}
