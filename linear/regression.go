// Package linear provides the ordinary least squares baseline model.
//
// LinearRegression exists to benchmark the random-forest regressor: the
// cross-validated R² of the forest on the sleep-study targets is compared
// against this model in cmd/benchmark. It solves the normal equations
// with an explicit inverse and follows the standard estimator interface:
//
//	lr := linear.NewLinearRegression()
//	err := lr.Fit(X, y)
//	predictions, err := lr.Predict(XTest)
package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/core/model"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
)

// LinearRegression is an ordinary least squares regression model.
type LinearRegression struct {
	state     *model.StateManager
	logger    log.Logger
	Weights   *mat.VecDense // Model coefficients
	Intercept float64
	NFeatures int
}

// NewLinearRegression creates a new untrained linear regression model.
func NewLinearRegression() *LinearRegression {
	lr := &LinearRegression{
		state: model.NewStateManager(),
	}
	lr.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "LinearRegression",
		log.ComponentKey, "linear",
	)
	return lr
}

// IsFitted returns whether the model has been fitted.
func (lr *LinearRegression) IsFitted() bool { return lr.state.IsFitted() }

// Fit trains the model by solving the normal equations
// (X^T X) w = X^T y with an intercept column prepended to X.
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer somnusErrors.Recover(&err, "LinearRegression.Fit")

	start := time.Now()
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return somnusErrors.NewModelError("LinearRegression.Fit", "empty data", somnusErrors.ErrEmptyData)
	}
	if ry != r {
		return somnusErrors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return somnusErrors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	lr.NFeatures = c

	// X_with_intercept = [1, X]
	XWithIntercept := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		XWithIntercept.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			XWithIntercept.Set(i, j+1, X.At(i, j))
		}
	}

	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	var XTXInv mat.Dense
	if invErr := XTXInv.Inverse(&XTX); invErr != nil {
		return somnusErrors.NewModelError("LinearRegression.Fit", "singular matrix", somnusErrors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+1))
	}

	lr.state.SetFitted()
	lr.state.SetDimensions(lr.NFeatures, r)

	lr.logger.Debug("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict computes y = X * weights + intercept for each row of X.
func (lr *LinearRegression) Predict(X mat.Matrix) (_ *mat.Dense, err error) {
	defer somnusErrors.Recover(&err, "LinearRegression.Predict")

	if !lr.state.IsFitted() {
		return nil, somnusErrors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, somnusErrors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// GetWeights returns a copy of the learned coefficients.
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	weights := make([]float64, lr.Weights.Len())
	for i := 0; i < lr.Weights.Len(); i++ {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept returns the learned intercept.
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.state.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score returns the coefficient of determination R² of the predictions
// for X against y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (_ float64, err error) {
	defer somnusErrors.Recover(&err, "LinearRegression.Score")

	yPred, err := lr.Predict(X)
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
		return 0, somnusErrors.NewValueError("LinearRegression.Score", "total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}
