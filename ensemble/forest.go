// Package ensemble implements bootstrap-aggregated tree ensembles.
//
// RandomForestRegressor averages the predictions of many randomized CART
// regression trees. Each tree is grown on a bootstrap sample of the
// training rows and considers a random subset of features at every
// split. The forest also aggregates per-feature importance scores (mean
// variance reduction attributable to each feature), normalized to sum
// to 1.
//
// Example usage:
//
//	forest := ensemble.NewRandomForestRegressor(
//		ensemble.WithRandomState(42),
//	)
//	if err := forest.Fit(X, y); err != nil {
//		log.Fatal(err)
//	}
//	predictions, err := forest.Predict(XTest)
//
// Training is not deterministic unless WithRandomState is supplied: an
// unseeded forest draws a fresh seed per call, so two fits on identical
// data produce different trees and slightly different predictions. This
// matches the retrain-per-request behavior the sleep predictor exposes.
package ensemble

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/core/model"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
)

// RandomForestRegressor is a bootstrap-aggregated ensemble of regression
// trees.
type RandomForestRegressor struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	nEstimators     int   // number of trees
	maxDepth        int   // 0 = unlimited
	minSamplesSplit int   // minimum samples to split a node
	minSamplesLeaf  int   // minimum samples in a leaf
	maxFeatures     int   // features per split; 0 = max(1, p/3)
	bootstrap       bool  // sample rows with replacement
	randomState     int64 // -1 = unseeded (nondeterministic)

	// Fitted state
	trees              []*regressionTree
	nFeatures          int
	featureImportances []float64
}

// RandomForestRegressorOption is a functional option.
type RandomForestRegressorOption func(*RandomForestRegressor)

// WithNEstimators sets the number of trees in the forest.
func WithNEstimators(n int) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.nEstimators = n }
}

// WithMaxDepth sets the maximum tree depth (0 = unlimited).
func WithMaxDepth(depth int) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum samples required to split a node.
func WithMinSamplesSplit(n int) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples required in a leaf.
func WithMinSamplesLeaf(n int) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.minSamplesLeaf = n }
}

// WithMaxFeatures sets the number of features considered per split
// (0 = the max(1, p/3) regression heuristic).
func WithMaxFeatures(n int) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.maxFeatures = n }
}

// WithBootstrap toggles bootstrap sampling of training rows.
func WithBootstrap(b bool) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.bootstrap = b }
}

// WithRandomState seeds the forest for reproducible training. Without it
// every Fit draws a fresh seed.
func WithRandomState(seed int64) RandomForestRegressorOption {
	return func(f *RandomForestRegressor) { f.randomState = seed }
}

// NewRandomForestRegressor creates a forest with the standard defaults:
// 100 trees, unlimited depth, bootstrap sampling, unseeded.
func NewRandomForestRegressor(opts ...RandomForestRegressorOption) *RandomForestRegressor {
	f := &RandomForestRegressor{
		state:           model.NewStateManager(),
		nEstimators:     100,
		maxDepth:        0,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     0,
		bootstrap:       true,
		randomState:     -1,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = log.GetLoggerWithName("ensemble").With(
		log.ModelNameKey, "RandomForestRegressor",
		log.ComponentKey, "ensemble",
	)
	return f
}

// IsFitted reports whether the forest has been trained.
func (f *RandomForestRegressor) IsFitted() bool { return f.state.IsFitted() }

// Fit trains the forest on X (n_samples × n_features) and y
// (n_samples × 1). Trees are grown concurrently, each from its own
// random source, so training is safe and repeatable under a fixed seed.
func (f *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer somnusErrors.Recover(&err, "RandomForestRegressor.Fit")

	start := time.Now()
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return somnusErrors.NewModelError("RandomForestRegressor.Fit", "empty data", somnusErrors.ErrEmptyData)
	}
	if yRows != nSamples {
		return somnusErrors.NewDimensionError("RandomForestRegressor.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return somnusErrors.NewValueError("RandomForestRegressor.Fit", "y must be a column vector")
	}
	if f.nEstimators <= 0 {
		return somnusErrors.NewValidationError("n_estimators", "must be positive", f.nEstimators)
	}

	f.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	// Materialize inputs once; trees share them read-only.
	Xd := mat.DenseCopyOf(X)
	targets := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		targets[i] = y.At(i, 0)
	}

	maxFeatures := f.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = nFeatures / 3
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	baseSeed := f.randomState
	if baseSeed < 0 {
		baseSeed = time.Now().UnixNano()
	}

	f.nFeatures = nFeatures
	f.trees = make([]*regressionTree, f.nEstimators)

	var wg sync.WaitGroup
	for i := 0; i < f.nEstimators; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			// Each tree gets its own source to avoid lock contention
			// and to keep seeded runs reproducible.
			rng := rand.New(rand.NewSource(baseSeed + int64(treeIdx)))

			indices := make([]int, nSamples)
			for j := range indices {
				if f.bootstrap {
					indices[j] = rng.Intn(nSamples)
				} else {
					indices[j] = j
				}
			}

			tree := &regressionTree{
				maxDepth:        f.maxDepth,
				minSamplesSplit: f.minSamplesSplit,
				minSamplesLeaf:  f.minSamplesLeaf,
				maxFeatures:     maxFeatures,
				rng:             rng,
			}
			tree.fit(Xd, targets, indices)
			f.trees[treeIdx] = tree
		}(i)
	}
	wg.Wait()

	f.aggregateImportances()
	f.state.SetFitted()
	f.state.SetDimensions(nFeatures, nSamples)

	f.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the forest's averaged prediction for each row of X as
// an (n_samples × 1) matrix.
func (f *RandomForestRegressor) Predict(X mat.Matrix) (_ *mat.Dense, err error) {
	defer somnusErrors.Recover(&err, "RandomForestRegressor.Predict")

	if !f.state.IsFitted() {
		return nil, somnusErrors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != f.nFeatures {
		return nil, somnusErrors.NewDimensionError("RandomForestRegressor.Predict", f.nFeatures, nFeatures, 1)
	}

	f.logger.Debug("Prediction started",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, nSamples,
	)

	predictions := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		predictions.Set(i, 0, f.predictRow(row))
	}
	return predictions, nil
}

// PredictRow returns the forest's prediction for a single feature row,
// which must follow the column order the forest was trained on.
func (f *RandomForestRegressor) PredictRow(row []float64) (float64, error) {
	if !f.state.IsFitted() {
		return 0, somnusErrors.NewNotFittedError("RandomForestRegressor", "PredictRow")
	}
	if len(row) != f.nFeatures {
		return 0, somnusErrors.NewDimensionError("RandomForestRegressor.PredictRow", f.nFeatures, len(row), 1)
	}
	return f.predictRow(row), nil
}

func (f *RandomForestRegressor) predictRow(row []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += tree.predictRow(row)
	}
	return sum / float64(len(f.trees))
}

// FeatureImportances returns a copy of the per-feature importance scores,
// aligned to the training column order. Scores are non-negative and sum
// to 1 (unless no split ever improved impurity, in which case all are 0).
func (f *RandomForestRegressor) FeatureImportances() []float64 {
	if f.featureImportances == nil {
		return nil
	}
	importances := make([]float64, len(f.featureImportances))
	copy(importances, f.featureImportances)
	return importances
}

// Score returns the coefficient of determination R² of the predictions
// for X against y.
func (f *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		diff := yTrue - yPred.At(i, 0)
		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += diff * diff
	}
	if tss == 0 {
		return 0, somnusErrors.NewValueError("RandomForestRegressor.Score", "no variance in y")
	}
	return 1 - rss/tss, nil
}

// aggregateImportances sums the unnormalized variance reductions across
// trees and normalizes the result to sum to 1.
func (f *RandomForestRegressor) aggregateImportances() {
	f.featureImportances = make([]float64, f.nFeatures)
	for _, tree := range f.trees {
		for j, imp := range tree.featureImportances {
			f.featureImportances[j] += imp
		}
	}

	var sum float64
	for _, imp := range f.featureImportances {
		sum += imp
	}
	if sum > 0 && !math.IsNaN(sum) {
		for j := range f.featureImportances {
			f.featureImportances[j] /= sum
		}
	}
}
