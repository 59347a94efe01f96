// Package evaluation provides k-fold cross-validation for somnus models.
//
// KFold partitions row indices into disjoint shuffled folds; CrossValidate
// drives the train/predict loop, accumulating one out-of-fold prediction
// per row and scoring the full prediction vector with R². Fold assignment
// is randomized per invocation unless a seed is supplied, so repeated
// runs produce scores within a small band rather than identical values.
package evaluation

import (
	"math/rand"
	"time"

	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// Fold holds the train and test row indices of one cross-validation fold.
type Fold struct {
	Train []int
	Test  []int
}

// KFold generates shuffled, disjoint folds over row indices. Every row
// appears in exactly one test set.
type KFold struct {
	nSplits int
	shuffle bool
	seed    int64 // -1 = unseeded
}

// KFoldOption configures a KFold.
type KFoldOption func(*KFold)

// WithNSplits sets the number of folds (default 10).
func WithNSplits(n int) KFoldOption {
	return func(k *KFold) { k.nSplits = n }
}

// WithShuffle toggles shuffling of row indices before partitioning
// (default true).
func WithShuffle(shuffle bool) KFoldOption {
	return func(k *KFold) { k.shuffle = shuffle }
}

// WithSeed seeds the shuffle for reproducible fold assignment.
func WithSeed(seed int64) KFoldOption {
	return func(k *KFold) { k.seed = seed }
}

// NewKFold creates a KFold with 10 shuffled splits by default.
func NewKFold(opts ...KFoldOption) *KFold {
	k := &KFold{nSplits: 10, shuffle: true, seed: -1}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Split partitions the indices 0..nSamples-1 into folds. The first
// nSamples mod nSplits folds receive one extra test row, so the test
// sets cover every index exactly once.
func (k *KFold) Split(nSamples int) ([]Fold, error) {
	if k.nSplits < 2 {
		return nil, somnusErrors.NewValidationError("n_splits", "must be at least 2", k.nSplits)
	}
	if nSamples < k.nSplits {
		return nil, somnusErrors.NewValueError("KFold.Split", "more splits than samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if k.shuffle {
		seed := k.seed
		if seed < 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(nSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	foldSize := nSamples / k.nSplits
	remainder := nSamples % k.nSplits

	folds := make([]Fold, k.nSplits)
	offset := 0
	for f := 0; f < k.nSplits; f++ {
		size := foldSize
		if f < remainder {
			size++
		}

		test := make([]int, size)
		copy(test, indices[offset:offset+size])

		train := make([]int, 0, nSamples-size)
		train = append(train, indices[:offset]...)
		train = append(train, indices[offset+size:]...)

		folds[f] = Fold{Train: train, Test: test}
		offset += size
	}
	return folds, nil
}
