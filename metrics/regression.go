// Package metrics provides evaluation metrics and feature-importance
// ranking for somnus models.
//
// Regression metrics operate on *mat.VecDense inputs:
//
//	r2, err := metrics.R2Score(yTrue, yPred)
//
// RankImportances pairs feature names with importance scores and orders
// them for display or reporting; see importance.go.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// MSE calculates the Mean Squared Error between true and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, somnusErrors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, somnusErrors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE calculates the Root Mean Squared Error, the square root of MSE,
// in the same units as the target variable.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted
// values. MAE is more robust to outliers than MSE.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, somnusErrors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, somnusErrors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination (R²).
//
// R² = 1 - RSS/TSS. A score of 1 indicates perfect predictions, 0 means
// the model is no better than predicting the mean, and negative values
// indicate worse-than-mean predictions.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, somnusErrors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, somnusErrors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		diff := yTrueVal - yPred.AtVec(i)
		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += diff * diff
	}

	if tss == 0 {
		return 0, somnusErrors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}
