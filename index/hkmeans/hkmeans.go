package hkmeans

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ceccocats/flann/core"
	"github.com/ceccocats/flann/distance"
	"github.com/ceccocats/flann/internal/arena"
	"github.com/ceccocats/flann/logging"
)

// approxBytesPerNode is a rough per-node accounting constant used to derive
// Stats.ApproxMemoryBytes; it is a coarse estimate, not an exact sizeof.
const approxBytesPerNode = 96

// Options configures a forest of hierarchical clustering trees.
type Options struct {
	// Branching is the fan-out B of every inner node. Must be at least 2
	// once Build runs; validated lazily, not at construction.
	Branching int

	// Trees is the forest size T.
	Trees int

	// LeafSize is the node size threshold L below which a node becomes a
	// leaf rather than being split further.
	LeafSize int

	// CentersInit selects which center-choosing strategy the builder uses.
	CentersInit CentersInit

	// RandomSeed seeds the deterministic random engine shared by Build and
	// AddPoints, so that identical seeds and inputs reproduce identical tree
	// shapes.
	RandomSeed int64

	// RebuildThreshold controls when AddPoints triggers a full rebuild
	// instead of incremental insertion. 0 disables rebuilding.
	RebuildThreshold float64

	// Distance is the function used to compare vectors.
	Distance distance.Func

	// Logger receives structured events for Build, AddPoints and Search.
	Logger *logging.Logger
}

// DefaultOptions returns the option set used when a caller supplies none.
func DefaultOptions() Options {
	return Options{
		Branching:        32,
		Trees:            4,
		LeafSize:         100,
		CentersInit:      CentersRandom,
		RandomSeed:       1,
		RebuildThreshold: 2.0,
		Distance:         distance.SquaredL2,
		Logger:           logging.Noop(),
	}
}

// Option mutates an Options in place.
type Option func(*Options)

// WithBranching sets the fan-out B.
func WithBranching(b int) Option { return func(o *Options) { o.Branching = b } }

// WithTrees sets the forest size T.
func WithTrees(t int) Option { return func(o *Options) { o.Trees = t } }

// WithLeafSize sets the leaf-size threshold L.
func WithLeafSize(l int) Option { return func(o *Options) { o.LeafSize = l } }

// WithCentersInit sets the center-choosing strategy.
func WithCentersInit(c CentersInit) Option { return func(o *Options) { o.CentersInit = c } }

// WithRandomSeed sets the seed for the deterministic random engine.
func WithRandomSeed(seed int64) Option { return func(o *Options) { o.RandomSeed = seed } }

// WithRebuildThreshold sets the amortized rebuild threshold.
func WithRebuildThreshold(t float64) Option { return func(o *Options) { o.RebuildThreshold = t } }

// WithDistance sets the distance function.
func WithDistance(f distance.Func) Option { return func(o *Options) { o.Distance = f } }

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option { return func(o *Options) { o.Logger = l } }

// Index is a forest of hierarchical clustering trees searched with
// best-bin-first traversal. An Index is safe for concurrent queries once
// Build has completed; it does not support concurrent Build/AddPoints with
// queries or with each other.
type Index struct {
	opts    Options
	dataset core.MutableDataset
	removed core.RemovedSet
	chooser chooser
	arena   *arena.Arena[Node]
	logger  *logging.Logger

	mu          sync.RWMutex
	roots       []*Node
	sizeAtBuild int
	rng         *rand.Rand
	built       bool
}

// New constructs an Index over dataset and removed, applying the given
// options on top of DefaultOptions. It returns ErrUnknownCentersInit if the
// configured strategy is not recognized; branching is validated lazily by
// Build instead, since it only matters once there is data to cluster.
func New(dataset core.MutableDataset, removed core.RemovedSet, optFns ...Option) (*Index, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Distance == nil {
		opts.Distance = distance.SquaredL2
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}

	c, err := newChooser(opts.CentersInit)
	if err != nil {
		return nil, err
	}

	return &Index{
		opts:    opts,
		dataset: dataset,
		removed: removed,
		chooser: c,
		arena:   arena.New[Node](arena.DefaultChunkSize),
		logger:  opts.Logger,
		rng:     rand.New(rand.NewSource(opts.RandomSeed)),
	}, nil
}

// Name identifies this index algorithm as a fixed tag, for callers that
// surface it through a registry of index implementations.
func (idx *Index) Name() string { return "hkmeans" }

// Build clusters the current contents of the dataset into Trees independent
// trees, replacing any forest built previously. Trees are built in
// parallel, one goroutine per tree, each seeded deterministically from a
// sub-seed drawn sequentially off Options.RandomSeed before the fan-out so
// that the resulting shapes do not depend on goroutine scheduling.
func (idx *Index) Build(ctx context.Context) error {
	if idx.opts.Branching < 2 {
		return ErrBranchingTooSmall
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.buildLocked(ctx)
}

// buildLocked performs the actual clustering. Callers must hold idx.mu for
// writing; it is shared between Build and AddPoints' rebuild branch.
func (idx *Index) buildLocked(ctx context.Context) error {
	start := time.Now()
	n := idx.dataset.Len()

	seeds := make([]int64, idx.opts.Trees)
	for i := range seeds {
		seeds[i] = idx.rng.Int63()
	}

	idx.arena.Reset()
	roots := make([]*Node, idx.opts.Trees)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < idx.opts.Trees; t++ {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			treeRng := rand.New(rand.NewSource(seeds[t]))
			indices := make([]int, n)
			for i := range indices {
				indices[i] = i
			}
			root := idx.arena.Alloc()
			root.PivotIdx = -1
			if err := idx.computeClustering(root, indices, treeRng); err != nil {
				return err
			}
			roots[t] = root
			return nil
		})
	}

	err := g.Wait()
	idx.logger.LogBuild(ctx, idx.opts.Trees, n, time.Since(start).Milliseconds(), err)
	if err != nil {
		return err
	}

	idx.roots = roots
	idx.sizeAtBuild = n
	idx.built = true
	return nil
}

// Stats reports coarse size and memory accounting for diagnostics.
type Stats struct {
	Trees             int
	SizeAtBuild       int
	DatasetSize       int
	NodeAllocations   int
	ApproxMemoryBytes int64
}

// Stats returns a snapshot of the index's current size and memory
// accounting.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		Trees:             idx.opts.Trees,
		SizeAtBuild:       idx.sizeAtBuild,
		DatasetSize:       idx.dataset.Len(),
		NodeAllocations:   idx.arena.Allocs(),
		ApproxMemoryBytes: int64(idx.arena.Allocs()) * approxBytesPerNode,
	}
}
