package metrics

import (
	"sort"

	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// SortOrder controls how RankImportances orders its result.
type SortOrder int

const (
	// Unsorted keeps the original feature order.
	Unsorted SortOrder = iota
	// Ascending orders by increasing importance, the convention for
	// horizontal bar charts where the top feature renders last.
	Ascending
	// Descending orders by decreasing importance, the convention for
	// printed reports.
	Descending
)

// FeatureImportance pairs a feature name with its importance score.
type FeatureImportance struct {
	Feature    string
	Importance float64
}

// RankImportances pairs parallel feature-name and importance slices and
// orders them.
//
// The importance scores are expected to come from a fitted ensemble:
// non-negative, summing to 1 across features. Ties keep their original
// relative order. A positive limit truncates the result after sorting to
// at most limit entries; limit <= 0 keeps everything. Inputs are never
// modified.
func RankImportances(features []string, importances []float64, order SortOrder, limit int) ([]FeatureImportance, error) {
	if len(features) == 0 {
		return nil, somnusErrors.NewValueError("RankImportances", "no features")
	}
	if len(features) != len(importances) {
		return nil, somnusErrors.NewDimensionError("RankImportances", len(features), len(importances), 0)
	}

	ranked := make([]FeatureImportance, len(features))
	for i, name := range features {
		ranked[i] = FeatureImportance{Feature: name, Importance: importances[i]}
	}

	switch order {
	case Ascending:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Importance < ranked[j].Importance
		})
	case Descending:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Importance > ranked[j].Importance
		})
	}

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
