package preprocessing_test

import (
	"testing"

	"github.com/somnuslabs/somnus/preprocessing"
)

func TestOneHotEncoder_Fit(t *testing.T) {
	data := [][]string{
		{"cat", "red"},
		{"dog", "blue"},
		{"cat", "red"},
		{"fish", "green"},
	}

	encoder := preprocessing.NewOneHotEncoder()

	err := encoder.Fit(data)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if !encoder.IsFitted() {
		t.Error("Encoder should be fitted after Fit()")
	}

	if encoder.NFeatures != 2 {
		t.Errorf("Expected NFeatures=2, got %d", encoder.NFeatures)
	}

	// Categories are learned sorted.
	expectedCategories := [][]string{
		{"cat", "dog", "fish"},
		{"blue", "green", "red"},
	}
	for i, expectedCats := range expectedCategories {
		if len(encoder.Categories[i]) != len(expectedCats) {
			t.Errorf("Feature %d: expected %d categories, got %d",
				i, len(expectedCats), len(encoder.Categories[i]))
			continue
		}
		for j, expectedCat := range expectedCats {
			if encoder.Categories[i][j] != expectedCat {
				t.Errorf("Feature %d, category %d: expected %s, got %s",
					i, j, expectedCat, encoder.Categories[i][j])
			}
		}
	}

	if encoder.NOutputs != 6 {
		t.Errorf("Expected NOutputs=6, got %d", encoder.NOutputs)
	}
}

func TestOneHotEncoder_Transform(t *testing.T) {
	trainData := [][]string{
		{"cat", "red"},
		{"dog", "blue"},
		{"fish", "green"},
	}

	encoder := preprocessing.NewOneHotEncoder()
	if err := encoder.Fit(trainData); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := encoder.Transform(trainData)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	r, c := result.Dims()
	if r != 3 || c != 6 {
		t.Fatalf("Expected 3x6 matrix, got %dx%d", r, c)
	}

	// Column order: ["cat","dog","fish"] then ["blue","green","red"].
	expected := [][]float64{
		{1, 0, 0, 0, 0, 1}, // cat, red
		{0, 1, 0, 1, 0, 0}, // dog, blue
		{0, 0, 1, 0, 1, 0}, // fish, green
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if result.At(i, j) != expected[i][j] {
				t.Errorf("Result[%d][%d]: expected %f, got %f", i, j, expected[i][j], result.At(i, j))
			}
		}
	}
}

func TestOneHotEncoder_DropFirst(t *testing.T) {
	data := [][]string{
		{"Male", "Yes"},
		{"Female", "No"},
		{"Female", "Yes"},
	}

	encoder := preprocessing.NewOneHotEncoder(preprocessing.WithDropFirst())
	result, err := encoder.FitTransform(data)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Binary features collapse to one indicator each; the alphabetically
	// first category (Female, No) is the baseline.
	r, c := result.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Expected 3x2 matrix, got %dx%d", r, c)
	}

	expected := [][]float64{
		{1, 1}, // Male, Yes
		{0, 0}, // Female, No
		{0, 1}, // Female, Yes
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if result.At(i, j) != expected[i][j] {
				t.Errorf("Result[%d][%d]: expected %f, got %f", i, j, expected[i][j], result.At(i, j))
			}
		}
	}

	names := encoder.GetFeatureNamesOut([]string{"Gender", "Smoking status"})
	expectedNames := []string{"Gender_Male", "Smoking status_Yes"}
	if len(names) != len(expectedNames) {
		t.Fatalf("Expected %d output names, got %d", len(expectedNames), len(names))
	}
	for i, name := range expectedNames {
		if names[i] != name {
			t.Errorf("Output name %d: expected %s, got %s", i, name, names[i])
		}
	}
}

func TestOneHotEncoder_UnfittedError(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()

	_, err := encoder.Transform([][]string{{"cat"}})
	if err == nil {
		t.Fatal("Transform on an unfitted encoder should fail")
	}
}

func TestOneHotEncoder_EmptyDataError(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()

	if err := encoder.Fit(nil); err == nil {
		t.Fatal("Fit with no data should fail")
	}
}
