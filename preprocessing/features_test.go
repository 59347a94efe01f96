package preprocessing_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/somnuslabs/somnus/dataset"
	"github.com/somnuslabs/somnus/preprocessing"
)

// newStudyTable builds a small table with the full sleep-study schema.
func newStudyTable(t *testing.T, n int) *dataset.Table {
	t.Helper()

	ids := make([]float64, n)
	ages := make([]float64, n)
	bedtimes := make([]float64, n)
	wakeups := make([]float64, n)
	durations := make([]float64, n)
	efficiencies := make([]float64, n)
	rems := make([]float64, n)
	deeps := make([]float64, n)
	lights := make([]float64, n)
	awakenings := make([]float64, n)
	caffeines := make([]float64, n)
	alcohols := make([]float64, n)
	exercises := make([]float64, n)
	genders := make([]string, n)
	smokers := make([]string, n)

	for i := 0; i < n; i++ {
		ids[i] = float64(i + 1)
		ages[i] = float64(20 + i)
		bedtimes[i] = 22 + float64(i%4)*0.5
		wakeups[i] = 6 + float64(i%5)*0.5
		durations[i] = dur(bedtimes[i], wakeups[i])
		efficiencies[i] = 30 + 0.8*ages[i]
		rems[i] = 18 + float64(i%7)
		deeps[i] = 55 + float64(i%9)
		lights[i] = 100 - rems[i] - deeps[i]
		awakenings[i] = float64(i % 4)
		caffeines[i] = float64((i % 5) * 50)
		alcohols[i] = float64(i % 3)
		exercises[i] = float64(i % 6)
		if i%2 == 0 {
			genders[i] = dataset.GenderMale
		} else {
			genders[i] = dataset.GenderFemale
		}
		if i%3 == 0 {
			smokers[i] = dataset.SmokingYes
		} else {
			smokers[i] = dataset.SmokingNo
		}
	}

	table := dataset.NewTable()
	add := func(err error) {
		if err != nil {
			t.Fatalf("building table: %v", err)
		}
	}
	add(table.AddNumeric(dataset.ColID, ids))
	add(table.AddNumeric(dataset.ColAge, ages))
	add(table.AddCategorical(dataset.ColGender, genders))
	add(table.AddNumeric(dataset.ColBedtime, bedtimes))
	add(table.AddNumeric(dataset.ColWakeupTime, wakeups))
	add(table.AddNumeric(dataset.ColSleepDuration, durations))
	add(table.AddNumeric(dataset.ColSleepEfficiency, efficiencies))
	add(table.AddNumeric(dataset.ColREMSleepPct, rems))
	add(table.AddNumeric(dataset.ColDeepSleepPct, deeps))
	add(table.AddNumeric(dataset.ColLightSleepPct, lights))
	add(table.AddNumeric(dataset.ColAwakenings, awakenings))
	add(table.AddNumeric(dataset.ColCaffeine, caffeines))
	add(table.AddNumeric(dataset.ColAlcohol, alcohols))
	add(table.AddCategorical(dataset.ColSmoking, smokers))
	add(table.AddNumeric(dataset.ColExercise, exercises))
	return table
}

func dur(bed, wake float64) float64 {
	if wake < bed {
		return wake + 24 - bed
	}
	return wake - bed
}

func TestEncodeFeatures_ColumnOrder(t *testing.T) {
	table := newStudyTable(t, 12)

	design, schema, err := preprocessing.EncodeFeatures(table)
	if err != nil {
		t.Fatalf("EncodeFeatures failed: %v", err)
	}

	// 15 columns − 5 excluded − 2 categorical originals + 2 indicators.
	expectedNames := []string{
		dataset.ColAge,
		dataset.ColBedtime,
		dataset.ColWakeupTime,
		dataset.ColSleepDuration,
		dataset.ColAwakenings,
		dataset.ColCaffeine,
		dataset.ColAlcohol,
		dataset.ColExercise,
		"Gender_Male",
		"Smoking status_Yes",
	}

	names := schema.FeatureNames()
	if len(names) != len(expectedNames) {
		t.Fatalf("Expected %d features, got %d: %v", len(expectedNames), len(names), names)
	}
	for i, expected := range expectedNames {
		if names[i] != expected {
			t.Errorf("Feature %d: expected %q, got %q", i, expected, names[i])
		}
	}

	rows, cols := design.Dims()
	if rows != 12 || cols != len(expectedNames) {
		t.Fatalf("Expected 12x%d design matrix, got %dx%d", len(expectedNames), rows, cols)
	}
}

func TestEncodeFeatures_IndicatorConvention(t *testing.T) {
	table := newStudyTable(t, 10)

	_, schema, err := preprocessing.EncodeFeatures(table)
	if err != nil {
		t.Fatalf("EncodeFeatures failed: %v", err)
	}

	gender, ok := schema.Indicator(dataset.ColGender)
	if !ok {
		t.Fatal("No gender indicator in schema")
	}
	if gender.Positive != dataset.GenderMale || gender.Baseline != dataset.GenderFemale {
		t.Errorf("Gender indicator: expected Male positive / Female baseline, got %+v", gender)
	}

	smoking, ok := schema.Indicator(dataset.ColSmoking)
	if !ok {
		t.Fatal("No smoking indicator in schema")
	}
	if smoking.Positive != dataset.SmokingYes || smoking.Baseline != dataset.SmokingNo {
		t.Errorf("Smoking indicator: expected Yes positive / No baseline, got %+v", smoking)
	}

	male, err := schema.EncodeCategory(dataset.ColGender, dataset.GenderMale)
	if err != nil || male != 1 {
		t.Errorf("EncodeCategory(Male) = %f, %v; want 1", male, err)
	}
	female, err := schema.EncodeCategory(dataset.ColGender, dataset.GenderFemale)
	if err != nil || female != 0 {
		t.Errorf("EncodeCategory(Female) = %f, %v; want 0", female, err)
	}
}

func TestEncodeFeatures_IndicatorValues(t *testing.T) {
	table := newStudyTable(t, 6)

	design, schema, err := preprocessing.EncodeFeatures(table)
	if err != nil {
		t.Fatalf("EncodeFeatures failed: %v", err)
	}

	genderCol, _ := schema.IndexOf("Gender_Male")
	smokingCol, _ := schema.IndexOf("Smoking status_Yes")
	for i := 0; i < 6; i++ {
		wantGender := 0.0
		if i%2 == 0 {
			wantGender = 1.0
		}
		wantSmoking := 0.0
		if i%3 == 0 {
			wantSmoking = 1.0
		}
		if got := design.At(i, genderCol); got != wantGender {
			t.Errorf("Row %d gender indicator: expected %f, got %f", i, wantGender, got)
		}
		if got := design.At(i, smokingCol); got != wantSmoking {
			t.Errorf("Row %d smoking indicator: expected %f, got %f", i, wantSmoking, got)
		}
	}
}

func TestEncodeFeatures_EmptyTable(t *testing.T) {
	if _, _, err := preprocessing.EncodeFeatures(dataset.NewTable()); err == nil {
		t.Fatal("EncodeFeatures on an empty table should fail")
	}
}

func TestTargetVector(t *testing.T) {
	table := newStudyTable(t, 8)

	y, err := preprocessing.TargetVector(table, dataset.ColSleepEfficiency)
	if err != nil {
		t.Fatalf("TargetVector failed: %v", err)
	}
	if y.Len() != 8 {
		t.Fatalf("Expected 8 values, got %d", y.Len())
	}
	for i := 0; i < 8; i++ {
		want := 30 + 0.8*float64(20+i)
		if math.Abs(y.AtVec(i)-want) > 1e-9 {
			t.Errorf("y[%d] = %f, want %f", i, y.AtVec(i), want)
		}
	}

	if _, err := preprocessing.TargetVector(table, "no such column"); err == nil {
		t.Fatal("TargetVector with an unknown column should fail")
	}
}

// Guards against accidentally reusing a column name in test fixtures.
func TestStudyTableFixture(t *testing.T) {
	table := newStudyTable(t, 4)
	if got := len(table.Columns()); got != 15 {
		t.Fatalf("Fixture should have 15 columns, got %d: %s", got, fmt.Sprint(table.Columns()))
	}
}
