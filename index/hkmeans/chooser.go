package hkmeans

import (
	"math"
	"math/rand"

	"github.com/ceccocats/flann/core"
	"github.com/ceccocats/flann/distance"
)

// CentersInit selects the strategy used to pick initial cluster centers at
// each node of the builder.
type CentersInit int

const (
	// CentersRandom draws distinct candidate indices uniformly at random.
	CentersRandom CentersInit = iota
	// CentersGonzales picks centers by farthest-point (Gonzales) sampling.
	CentersGonzales
	// CentersKMeansPP picks centers by D²-weighted (k-means++) sampling.
	CentersKMeansPP
)

// String renders a human-readable name, used in logging and errors.
func (c CentersInit) String() string {
	switch c {
	case CentersRandom:
		return "random"
	case CentersGonzales:
		return "gonzales"
	case CentersKMeansPP:
		return "kmeanspp"
	default:
		return "unknown"
	}
}

// chooser picks up to b centers from candidates, a slice of dataset
// indices. It may return fewer than b entries when the candidate set is
// degenerate (duplicates, fewer than b unique points, or every remaining
// candidate already coincides with a chosen center); callers must handle
// that by treating the node as a leaf (see builder.go).
type chooser interface {
	choose(rng *rand.Rand, df distance.Func, ds core.Dataset, candidates []int, b int) []int
}

func newChooser(c CentersInit) (chooser, error) {
	switch c {
	case CentersRandom:
		return randomChooser{}, nil
	case CentersGonzales:
		return gonzalesChooser{}, nil
	case CentersKMeansPP:
		return kmeansppChooser{}, nil
	default:
		return nil, ErrUnknownCentersInit
	}
}

type randomChooser struct{}

// choose shuffles candidates and takes them in shuffled order, but skips any
// candidate that coincides (zero distance) with an already-chosen center, so
// it degenerates to fewer than b centers on fewer-than-b-unique-points data
// exactly like gonzalesChooser and kmeansppChooser do, rather than returning
// b index-distinct but value-identical picks.
func (randomChooser) choose(rng *rand.Rand, df distance.Func, ds core.Dataset, candidates []int, b int) []int {
	n := len(candidates)
	if n == 0 {
		return nil
	}
	if b > n {
		b = n
	}
	pool := make([]int, n)
	copy(pool, candidates)
	rng.Shuffle(n, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	chosen := make([]int, 0, b)
	for _, cand := range pool {
		if len(chosen) >= b {
			break
		}
		cp := ds.Point(cand)
		distinct := true
		for _, c := range chosen {
			d, err := df(cp, ds.Point(c))
			if err != nil || d <= 0 {
				distinct = false
				break
			}
		}
		if distinct {
			chosen = append(chosen, cand)
		}
	}
	return chosen
}

type gonzalesChooser struct{}

func (gonzalesChooser) choose(rng *rand.Rand, df distance.Func, ds core.Dataset, candidates []int, b int) []int {
	n := len(candidates)
	if n == 0 {
		return nil
	}
	if b > n {
		b = n
	}

	used := make([]bool, n)
	minDist := make([]float32, n)
	for i := range minDist {
		minDist[i] = math.MaxFloat32
	}

	firstPos := rng.Intn(n)
	chosen := make([]int, 0, b)
	chosen = append(chosen, candidates[firstPos])
	used[firstPos] = true
	updateGonzalesMinDist(df, ds, candidates, minDist, used, candidates[firstPos])

	for len(chosen) < b {
		bestPos := -1
		bestDist := float32(-1)
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			if minDist[i] > bestDist || (minDist[i] == bestDist && (bestPos == -1 || candidates[i] < candidates[bestPos])) {
				bestDist = minDist[i]
				bestPos = i
			}
		}
		if bestPos == -1 || bestDist <= 0 {
			break
		}
		chosen = append(chosen, candidates[bestPos])
		used[bestPos] = true
		updateGonzalesMinDist(df, ds, candidates, minDist, used, candidates[bestPos])
	}
	return chosen
}

func updateGonzalesMinDist(df distance.Func, ds core.Dataset, candidates []int, minDist []float32, used []bool, center int) {
	cp := ds.Point(center)
	for i, idx := range candidates {
		if used[i] {
			continue
		}
		d, err := df(ds.Point(idx), cp)
		if err != nil {
			continue
		}
		if d < minDist[i] {
			minDist[i] = d
		}
	}
}

type kmeansppChooser struct{}

func (kmeansppChooser) choose(rng *rand.Rand, df distance.Func, ds core.Dataset, candidates []int, b int) []int {
	n := len(candidates)
	if n == 0 {
		return nil
	}
	if b > n {
		b = n
	}

	used := make([]bool, n)
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = math.MaxFloat64
	}

	firstPos := rng.Intn(n)
	chosen := make([]int, 0, b)
	chosen = append(chosen, candidates[firstPos])
	used[firstPos] = true
	updateKMeansppMinDist(df, ds, candidates, minDist, used, candidates[firstPos])

	for len(chosen) < b {
		var total float64
		for i := 0; i < n; i++ {
			if !used[i] {
				total += minDist[i]
			}
		}
		if total <= 0 {
			break
		}

		target := rng.Float64() * total
		pick := -1
		var cum float64
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			cum += minDist[i]
			if cum >= target {
				pick = i
				break
			}
		}
		if pick == -1 {
			for i := n - 1; i >= 0; i-- {
				if !used[i] {
					pick = i
					break
				}
			}
		}

		chosen = append(chosen, candidates[pick])
		used[pick] = true
		updateKMeansppMinDist(df, ds, candidates, minDist, used, candidates[pick])
	}
	return chosen
}

func updateKMeansppMinDist(df distance.Func, ds core.Dataset, candidates []int, minDist []float64, used []bool, center int) {
	cp := ds.Point(center)
	for i, idx := range candidates {
		if used[i] {
			continue
		}
		d, err := df(ds.Point(idx), cp)
		if err != nil {
			continue
		}
		if float64(d) < minDist[i] {
			minDist[i] = float64(d)
		}
	}
}
