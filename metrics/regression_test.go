package metrics_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/metrics"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMSE(t *testing.T) {
	yTrue := vec(1, 2, 3)
	yPred := vec(1, 2, 5)

	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSE failed: %v", err)
	}
	if math.Abs(mse-4.0/3) > 1e-9 {
		t.Errorf("MSE = %f, want %f", mse, 4.0/3)
	}
}

func TestRMSE(t *testing.T) {
	yTrue := vec(0, 0, 0, 0)
	yPred := vec(2, 2, 2, 2)

	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if math.Abs(rmse-2) > 1e-9 {
		t.Errorf("RMSE = %f, want 2", rmse)
	}
}

func TestMAE(t *testing.T) {
	yTrue := vec(1, -1, 3)
	yPred := vec(2, 1, 1)

	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE failed: %v", err)
	}
	if math.Abs(mae-5.0/3) > 1e-9 {
		t.Errorf("MAE = %f, want %f", mae, 5.0/3)
	}
}

func TestR2Score(t *testing.T) {
	yTrue := vec(1, 2, 3, 4)

	// Perfect predictions score 1.
	r2, err := metrics.R2Score(yTrue, vec(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(r2-1) > 1e-9 {
		t.Errorf("Perfect R² = %f, want 1", r2)
	}

	// Predicting the mean scores 0.
	r2, err = metrics.R2Score(yTrue, vec(2.5, 2.5, 2.5, 2.5))
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(r2) > 1e-9 {
		t.Errorf("Mean-prediction R² = %f, want 0", r2)
	}
}

func TestR2Score_NoVariance(t *testing.T) {
	if _, err := metrics.R2Score(vec(5, 5, 5), vec(5, 5, 5)); err == nil {
		t.Fatal("R2Score with constant yTrue should fail")
	}
}

func TestRegressionMetrics_Errors(t *testing.T) {
	if _, err := metrics.MSE(vec(1, 2), vec(1)); err == nil {
		t.Error("MSE with mismatched lengths should fail")
	}
	if _, err := metrics.MAE(vec(1, 2), vec(1)); err == nil {
		t.Error("MAE with mismatched lengths should fail")
	}
	if _, err := metrics.R2Score(vec(1, 2), vec(1)); err == nil {
		t.Error("R2Score with mismatched lengths should fail")
	}
}
