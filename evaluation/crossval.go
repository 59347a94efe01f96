package evaluation

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/metrics"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
)

// Regressor is the estimator interface CrossValidate drives.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (*mat.Dense, error)
}

// CrossValidate estimates out-of-sample performance of the models
// produced by newModel.
//
// For each fold a fresh model is trained on the remaining rows and
// predicts the held-out rows; every row is predicted exactly once. The
// returned score is the R² of the complete out-of-fold prediction vector
// against y. The last fold's fitted model is returned so callers can
// inspect it (the importance ranking reported by the benchmark comes from
// that model, not from an average across folds).
func CrossValidate(newModel func() Regressor, X *mat.Dense, y *mat.VecDense, kfold *KFold) (_ float64, _ Regressor, err error) {
	defer somnusErrors.Recover(&err, "CrossValidate")

	nSamples, _ := X.Dims()
	if y.Len() != nSamples {
		return 0, nil, somnusErrors.NewDimensionError("CrossValidate", nSamples, y.Len(), 0)
	}

	start := time.Now()
	folds, err := kfold.Split(nSamples)
	if err != nil {
		return 0, nil, err
	}

	yPred := mat.NewVecDense(nSamples, nil)
	var lastModel Regressor

	for _, fold := range folds {
		XTrain, yTrain := subset(X, y, fold.Train)
		XTest, _ := subset(X, y, fold.Test)

		m := newModel()
		if err := m.Fit(XTrain, yTrain); err != nil {
			return 0, nil, err
		}

		preds, err := m.Predict(XTest)
		if err != nil {
			return 0, nil, err
		}
		for i, idx := range fold.Test {
			yPred.SetVec(idx, preds.At(i, 0))
		}
		lastModel = m
	}

	score, err := metrics.R2Score(y, yPred)
	if err != nil {
		return 0, nil, err
	}

	logger := log.GetLoggerWithName("evaluation")
	logger.Info("Cross-validation completed",
		log.ComponentKey, "evaluation",
		log.SamplesKey, nSamples,
		log.FoldsKey, len(folds),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return score, lastModel, nil
}

// subset extracts the selected rows of X and y as a new matrix and
// column vector.
func subset(X *mat.Dense, y *mat.VecDense, indices []int) (*mat.Dense, *mat.VecDense) {
	_, nFeatures := X.Dims()
	Xs := mat.NewDense(len(indices), nFeatures, nil)
	ys := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			Xs.Set(i, j, X.At(idx, j))
		}
		ys.SetVec(i, y.AtVec(idx))
	}
	return Xs, ys
}
