package ensemble_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/ensemble"
)

// linearData builds y = 3*x0 + 10 over n samples with a second noise-free
// but uninformative feature.
func linearData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i)
		X.Set(i, 0, x)
		X.Set(i, 1, float64(i%2))
		y.Set(i, 0, 3*x+10)
	}
	return X, y
}

func TestRandomForestRegressor_FitPredict(t *testing.T) {
	X, y := linearData(80)

	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithRandomState(42),
	)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !forest.IsFitted() {
		t.Error("Forest should be fitted after Fit()")
	}

	preds, err := forest.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// In-sample predictions of a deep forest on clean data track the
	// true values closely.
	for i := 10; i < 70; i++ {
		want := y.At(i, 0)
		got := preds.At(i, 0)
		if math.Abs(got-want) > 0.25*want {
			t.Errorf("Prediction %d: got %f, want within 25%% of %f", i, got, want)
		}
	}
}

func TestRandomForestRegressor_FeatureImportances(t *testing.T) {
	X, y := linearData(60)

	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithRandomState(7),
	)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	importances := forest.FeatureImportances()
	if len(importances) != 2 {
		t.Fatalf("Expected 2 importance scores, got %d", len(importances))
	}

	var sum float64
	for i, imp := range importances {
		if imp < 0 {
			t.Errorf("Importance %d is negative: %f", i, imp)
		}
		sum += imp
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("Importances should sum to 1, got %f", sum)
	}

	// The target is a pure function of feature 0.
	if importances[0] <= importances[1] {
		t.Errorf("Feature 0 should dominate: got %v", importances)
	}
}

func TestRandomForestRegressor_SeededReproducibility(t *testing.T) {
	X, y := linearData(50)

	train := func() *mat.Dense {
		forest := ensemble.NewRandomForestRegressor(
			ensemble.WithNEstimators(20),
			ensemble.WithRandomState(99),
		)
		if err := forest.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		preds, err := forest.Predict(X)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		return preds
	}

	p1 := train()
	p2 := train()
	for i := 0; i < 50; i++ {
		if p1.At(i, 0) != p2.At(i, 0) {
			t.Fatalf("Seeded forests disagree at row %d: %f vs %f", i, p1.At(i, 0), p2.At(i, 0))
		}
	}
}

func TestRandomForestRegressor_PredictRow(t *testing.T) {
	X, y := linearData(50)

	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithRandomState(1),
	)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got, err := forest.PredictRow([]float64{25, 1})
	if err != nil {
		t.Fatalf("PredictRow failed: %v", err)
	}
	want := 3*25.0 + 10
	if math.Abs(got-want) > 0.25*want {
		t.Errorf("PredictRow: got %f, want within 25%% of %f", got, want)
	}

	if _, err := forest.PredictRow([]float64{1, 2, 3}); err == nil {
		t.Error("PredictRow with wrong width should fail")
	}
}

func TestRandomForestRegressor_Errors(t *testing.T) {
	forest := ensemble.NewRandomForestRegressor()

	if _, err := forest.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict on an unfitted forest should fail")
	}

	X := mat.NewDense(10, 2, nil)
	badY := mat.NewDense(5, 1, nil)
	if err := forest.Fit(X, badY); err == nil {
		t.Error("Fit with mismatched sample counts should fail")
	}

	wideY := mat.NewDense(10, 2, nil)
	if err := forest.Fit(X, wideY); err == nil {
		t.Error("Fit with a non-column y should fail")
	}
}

func TestRandomForestRegressor_Score(t *testing.T) {
	X, y := linearData(60)

	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithRandomState(5),
	)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	r2, err := forest.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if r2 < 0.9 {
		t.Errorf("In-sample R² on clean linear data should be high, got %f", r2)
	}
}
