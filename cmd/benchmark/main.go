// Command benchmark compares the random-forest regressor against the
// multiple-linear-regression baseline on the sleep-efficiency study.
//
// For each of the three sleep-quality targets it reports the 10-fold
// cross-validated R² of both models and the forest's feature-importance
// ranking. With -top K it re-runs the forest using only each target's
// top K features, which historically scores worse and is why the live
// predictor uses all features.
package main

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/charts"
	"github.com/somnuslabs/somnus/dataset"
	"github.com/somnuslabs/somnus/ensemble"
	"github.com/somnuslabs/somnus/evaluation"
	"github.com/somnuslabs/somnus/linear"
	"github.com/somnuslabs/somnus/metrics"
	"github.com/somnuslabs/somnus/pkg/log"
	"github.com/somnuslabs/somnus/preprocessing"
	"github.com/somnuslabs/somnus/sleep"
)

func main() {
	dataPath := flag.String("data", "data/Sleep_Efficiency.csv", "path to the sleep-efficiency CSV")
	folds := flag.Int("folds", 10, "number of cross-validation folds")
	top := flag.Int("top", 0, "re-run the forest with only the top K features (0 = skip)")
	chartDir := flag.String("charts", "", "directory to write feature-importance charts (empty = skip)")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	log.SetupLogger(*logLevel)

	table, err := dataset.LoadCSV(*dataPath)
	if err != nil {
		fatal(err)
	}

	design, schema, err := preprocessing.EncodeFeatures(table)
	if err != nil {
		fatal(err)
	}

	for _, target := range sleep.Targets {
		y, err := preprocessing.TargetVector(table, target.Column())
		if err != nil {
			fatal(err)
		}

		forestR2, ranked, err := evaluateForest(design, schema.FeatureNames(), y, *folds)
		if err != nil {
			fatal(err)
		}
		linearR2, err := evaluateLinear(design, y, *folds)
		if err != nil {
			fatal(err)
		}

		fmt.Printf("=== %s ===\n", target)
		fmt.Printf("  random forest   cross-validated r2: %.4f\n", forestR2)
		fmt.Printf("  linear baseline cross-validated r2: %.4f\n", linearR2)
		fmt.Println("  feature importances (descending):")
		for _, fi := range ranked {
			fmt.Printf("    %-50s %.4f\n", fi.Feature, fi.Importance)
		}

		if *top > 0 {
			topR2, err := evaluateTopFeatures(design, schema, ranked, y, *top, *folds)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("  forest with top %d features only r2: %.4f\n", *top, topR2)
		}

		if *chartDir != "" {
			ascending, err := metrics.RankImportances(schema.FeatureNames(), importancesOf(ranked, schema.FeatureNames()), metrics.Ascending, 0)
			if err != nil {
				fatal(err)
			}
			path := fmt.Sprintf("%s/importance_%d.png", *chartDir, int(target))
			if err := charts.SaveImportanceChart(ascending, "Feature importance for "+target.String(), path); err != nil {
				fatal(err)
			}
			fmt.Printf("  chart written to %s\n", path)
		}
		fmt.Println()
	}
}

// evaluateForest cross-validates a fresh forest and returns the score
// with the last fold's importance ranking.
func evaluateForest(design *mat.Dense, featureNames []string, y *mat.VecDense, folds int) (float64, []metrics.FeatureImportance, error) {
	kfold := evaluation.NewKFold(evaluation.WithNSplits(folds))
	score, lastModel, err := evaluation.CrossValidate(func() evaluation.Regressor {
		return ensemble.NewRandomForestRegressor()
	}, design, y, kfold)
	if err != nil {
		return 0, nil, err
	}
	forest := lastModel.(*ensemble.RandomForestRegressor)
	ranked, err := metrics.RankImportances(featureNames, forest.FeatureImportances(), metrics.Descending, 0)
	if err != nil {
		return 0, nil, err
	}
	return score, ranked, nil
}

// evaluateLinear cross-validates the least-squares baseline.
func evaluateLinear(design *mat.Dense, y *mat.VecDense, folds int) (float64, error) {
	kfold := evaluation.NewKFold(evaluation.WithNSplits(folds))
	score, _, err := evaluation.CrossValidate(func() evaluation.Regressor {
		return linear.NewLinearRegression()
	}, design, y, kfold)
	return score, err
}

// evaluateTopFeatures re-runs the forest on the K most important
// features of the full-model ranking.
func evaluateTopFeatures(design *mat.Dense, schema *preprocessing.Schema, ranked []metrics.FeatureImportance, y *mat.VecDense, k, folds int) (float64, error) {
	if k > len(ranked) {
		k = len(ranked)
	}
	nRows, _ := design.Dims()
	selected := mat.NewDense(nRows, k, nil)
	for j := 0; j < k; j++ {
		col, _ := schema.IndexOf(ranked[j].Feature)
		for i := 0; i < nRows; i++ {
			selected.Set(i, j, design.At(i, col))
		}
	}

	kfold := evaluation.NewKFold(evaluation.WithNSplits(folds))
	score, _, err := evaluation.CrossValidate(func() evaluation.Regressor {
		return ensemble.NewRandomForestRegressor()
	}, selected, y, kfold)
	return score, err
}

// importancesOf rebuilds the score slice aligned to featureNames from a
// ranking.
func importancesOf(ranked []metrics.FeatureImportance, featureNames []string) []float64 {
	byName := make(map[string]float64, len(ranked))
	for _, fi := range ranked {
		byName[fi.Feature] = fi.Importance
	}
	out := make([]float64, len(featureNames))
	for i, name := range featureNames {
		out[i] = byName[name]
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "benchmark:", err)
	os.Exit(1)
}
