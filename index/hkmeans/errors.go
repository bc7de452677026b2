package hkmeans

import "errors"

// ErrBranchingTooSmall is returned by Build when the configured branching
// factor is below the minimum of 2.
var ErrBranchingTooSmall = errors.New("hkmeans: branching factor must be at least 2")

// ErrUnknownCentersInit is returned by New when the configured center
// initialization strategy is not one of the recognized variants.
var ErrUnknownCentersInit = errors.New("hkmeans: unknown algorithm for choosing initial centers")

// ErrNotBuilt is returned by operations that require a completed Build.
var ErrNotBuilt = errors.New("hkmeans: index has not been built")
