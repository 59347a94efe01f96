package ensemble

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeNode represents a node in a regression tree.
type treeNode struct {
	isLeaf    bool
	feature   int       // split feature index (internal nodes)
	threshold float64   // split threshold (internal nodes)
	left      *treeNode // values <= threshold
	right     *treeNode // values > threshold
	value     float64   // mean target of samples at this node
	impurity  float64   // variance of targets at this node
	nSamples  int
	depth     int
}

// regressionTree is a CART regression tree using variance reduction as
// its splitting criterion. It is the building block of
// RandomForestRegressor and is always used through it.
type regressionTree struct {
	maxDepth        int // 0 = unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // features considered per split; 0 = all
	rng             *rand.Rand

	root               *treeNode
	nFeatures          int
	featureImportances []float64 // unnormalized variance reduction per feature
}

// fit builds the tree on the rows of X selected by indices. Bootstrap
// sampling is expressed through indices, so duplicates are allowed and
// the matrix itself is never copied.
func (t *regressionTree) fit(X *mat.Dense, y []float64, indices []int) {
	_, nFeatures := X.Dims()
	t.nFeatures = nFeatures
	t.featureImportances = make([]float64, nFeatures)
	t.root = t.buildTree(X, y, indices, 0)
}

// buildTree recursively grows the tree.
func (t *regressionTree) buildTree(X *mat.Dense, y []float64, indices []int, depth int) *treeNode {
	nSamples := len(indices)

	mean, variance := meanVariance(y, indices)
	node := &treeNode{
		value:    mean,
		impurity: variance,
		nSamples: nSamples,
		depth:    depth,
	}

	if t.shouldStop(nSamples, variance, depth) {
		node.isLeaf = true
		return node
	}

	bestFeature, bestThreshold, bestDecrease := t.findBestSplit(X, y, indices, variance)
	if bestFeature == -1 {
		node.isLeaf = true
		return node
	}

	var leftIndices, rightIndices []int
	for _, idx := range indices {
		if X.At(idx, bestFeature) <= bestThreshold {
			leftIndices = append(leftIndices, idx)
		} else {
			rightIndices = append(rightIndices, idx)
		}
	}
	if len(leftIndices) < t.minSamplesLeaf || len(rightIndices) < t.minSamplesLeaf {
		node.isLeaf = true
		return node
	}

	node.feature = bestFeature
	node.threshold = bestThreshold
	t.featureImportances[bestFeature] += bestDecrease * float64(nSamples)

	node.left = t.buildTree(X, y, leftIndices, depth+1)
	node.right = t.buildTree(X, y, rightIndices, depth+1)
	return node
}

// shouldStop checks the stopping criteria.
func (t *regressionTree) shouldStop(nSamples int, impurity float64, depth int) bool {
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return true
	}
	if nSamples < t.minSamplesSplit {
		return true
	}
	if impurity == 0 {
		return true
	}
	return false
}

// findBestSplit searches a random subset of features for the threshold
// with the largest weighted variance decrease. Returns feature -1 when no
// valid split exists.
func (t *regressionTree) findBestSplit(X *mat.Dense, y []float64, indices []int, parentImpurity float64) (int, float64, float64) {
	nSamples := len(indices)
	bestFeature := -1
	bestThreshold := 0.0
	bestDecrease := 0.0

	for _, feature := range t.candidateFeatures() {
		sorted := make([]int, nSamples)
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return X.At(sorted[a], feature) < X.At(sorted[b], feature)
		})

		// Prefix sums over the sorted order let each threshold be
		// evaluated in O(1).
		var leftSum, leftSumSq float64
		var totalSum, totalSumSq float64
		for _, idx := range sorted {
			totalSum += y[idx]
			totalSumSq += y[idx] * y[idx]
		}

		for i := 0; i < nSamples-1; i++ {
			yi := y[sorted[i]]
			leftSum += yi
			leftSumSq += yi * yi

			v1 := X.At(sorted[i], feature)
			v2 := X.At(sorted[i+1], feature)
			if v1 == v2 {
				continue
			}

			nLeft := i + 1
			nRight := nSamples - nLeft
			if nLeft < t.minSamplesLeaf || nRight < t.minSamplesLeaf {
				continue
			}

			leftVar := varianceFromSums(leftSum, leftSumSq, nLeft)
			rightVar := varianceFromSums(totalSum-leftSum, totalSumSq-leftSumSq, nRight)

			weighted := (float64(nLeft)*leftVar + float64(nRight)*rightVar) / float64(nSamples)
			decrease := parentImpurity - weighted
			if decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = feature
				bestThreshold = (v1 + v2) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease
}

// candidateFeatures returns the feature indices considered at a split: a
// uniform random subset of size maxFeatures, or all features when
// maxFeatures is zero or covers everything.
func (t *regressionTree) candidateFeatures() []int {
	if t.maxFeatures <= 0 || t.maxFeatures >= t.nFeatures {
		features := make([]int, t.nFeatures)
		for i := range features {
			features[i] = i
		}
		return features
	}
	return t.rng.Perm(t.nFeatures)[:t.maxFeatures]
}

// predictRow traverses the tree for a single feature row.
func (t *regressionTree) predictRow(row []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// meanVariance computes the mean and population variance of y over the
// selected indices.
func meanVariance(y []float64, indices []int) (float64, float64) {
	n := float64(len(indices))
	if n == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, idx := range indices {
		sum += y[idx]
		sumSq += y[idx] * y[idx]
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0 // guard against floating-point cancellation
	}
	return mean, variance
}

func varianceFromSums(sum, sumSq float64, n int) float64 {
	fn := float64(n)
	mean := sum / fn
	variance := sumSq/fn - mean*mean
	return math.Max(variance, 0)
}
