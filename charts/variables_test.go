package charts_test

import (
	"path/filepath"
	"testing"

	"github.com/somnuslabs/somnus/charts"
	"github.com/somnuslabs/somnus/dataset"
	"github.com/somnuslabs/somnus/metrics"
)

func TestResolvePair_DistinctPassThrough(t *testing.T) {
	s1, s2 := charts.ResolvePair(dataset.ColAge, dataset.ColCaffeine)
	if s1 != dataset.ColAge || s2 != dataset.ColCaffeine {
		t.Errorf("Distinct pair changed: got (%q, %q)", s1, s2)
	}
}

func TestResolvePair_DuplicateSubstitutesAwakenings(t *testing.T) {
	s1, s2 := charts.ResolvePair(dataset.ColAge, dataset.ColAge)
	if s1 != dataset.ColAge {
		t.Errorf("First selection should be unchanged, got %q", s1)
	}
	if s2 != dataset.ColAwakenings {
		t.Errorf("Second selection = %q, want %q", s2, dataset.ColAwakenings)
	}
}

func TestResolvePair_DoubledAwakeningsSubstitutesCaffeine(t *testing.T) {
	s1, s2 := charts.ResolvePair(dataset.ColAwakenings, dataset.ColAwakenings)
	if s1 != dataset.ColAwakenings {
		t.Errorf("First selection should be unchanged, got %q", s1)
	}
	if s2 != dataset.ColCaffeine {
		t.Errorf("Second selection = %q, want %q", s2, dataset.ColCaffeine)
	}
}

func TestSaveImportanceChart(t *testing.T) {
	ranked := []metrics.FeatureImportance{
		{Feature: "Exercise frequency (in days per week)", Importance: 0.05},
		{Feature: "Awakenings", Importance: 0.25},
		{Feature: "Age", Importance: 0.7},
	}

	path := filepath.Join(t.TempDir(), "importance.png")
	if err := charts.SaveImportanceChart(ranked, "Sleep efficiency", path); err != nil {
		t.Fatalf("SaveImportanceChart failed: %v", err)
	}
}

func TestSaveImportanceChart_EmptyRanking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importance.png")
	if err := charts.SaveImportanceChart(nil, "empty", path); err == nil {
		t.Fatal("SaveImportanceChart with no data should fail")
	}
}
