package sleep

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/dataset"
	"github.com/somnuslabs/somnus/ensemble"
	"github.com/somnuslabs/somnus/evaluation"
	"github.com/somnuslabs/somnus/metrics"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
	"github.com/somnuslabs/somnus/preprocessing"
)

// requiredColumns must all be present in the study table; a missing
// column is an unrecoverable schema mismatch detected at construction.
var requiredColumns = []string{
	dataset.ColID,
	dataset.ColAge,
	dataset.ColGender,
	dataset.ColBedtime,
	dataset.ColWakeupTime,
	dataset.ColSleepDuration,
	dataset.ColSleepEfficiency,
	dataset.ColREMSleepPct,
	dataset.ColDeepSleepPct,
	dataset.ColLightSleepPct,
	dataset.ColAwakenings,
	dataset.ColCaffeine,
	dataset.ColAlcohol,
	dataset.ColSmoking,
	dataset.ColExercise,
}

// Predictor answers what-if questions about a person's sleep quality.
//
// The study table is encoded once at construction; every Predict call
// then trains a fresh random forest for the requested target and runs a
// single-row prediction. Retraining per request means unseeded
// predictors give slightly different answers for identical inputs, which
// is the dashboard's documented behavior; supply WithRandomState for
// reproducible output. A Predictor is read-only after construction and
// safe for concurrent use.
type Predictor struct {
	design *mat.Dense
	schema *preprocessing.Schema
	table  *dataset.Table
	logger log.Logger

	nEstimators int
	randomState int64 // -1 = unseeded
}

// PredictorOption configures a Predictor.
type PredictorOption func(*Predictor)

// WithTrees sets the number of trees trained per request (default 100).
func WithTrees(n int) PredictorOption {
	return func(p *Predictor) { p.nEstimators = n }
}

// WithRandomState seeds every per-request forest for reproducible
// predictions. Without it each request retrains with a fresh seed.
func WithRandomState(seed int64) PredictorOption {
	return func(p *Predictor) { p.randomState = seed }
}

// NewPredictor validates the study table against the expected schema and
// encodes its design matrix.
func NewPredictor(table *dataset.Table, opts ...PredictorOption) (*Predictor, error) {
	var missing []string
	for _, name := range requiredColumns {
		if table == nil || !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		msg := "table is missing required columns:"
		for _, name := range missing {
			msg += " " + name
		}
		return nil, somnusErrors.NewValueError("NewPredictor", msg)
	}

	design, schema, err := preprocessing.EncodeFeatures(table)
	if err != nil {
		return nil, err
	}

	p := &Predictor{
		design:      design,
		schema:      schema,
		table:       table,
		nEstimators: 100,
		randomState: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = log.GetLoggerWithName("sleep").With(
		log.ComponentKey, "sleep",
	)
	return p, nil
}

// Schema returns the predictor-column schema shared between training and
// single-row prediction.
func (p *Predictor) Schema() *preprocessing.Schema { return p.schema }

// FeatureRow assembles a single design-matrix row from raw inputs, in
// the exact column order the models train on. Sleep duration is derived
// from the bedtime and wake time; gender and smoking are encoded with
// the schema's indicator rules.
func (p *Predictor) FeatureRow(in Inputs) ([]float64, error) {
	genderValue, err := p.schema.EncodeCategory(dataset.ColGender, genderCategory(in.Gender))
	if err != nil {
		return nil, err
	}
	smokerValue, err := p.schema.EncodeCategory(dataset.ColSmoking, smokerCategory(in.Smoker))
	if err != nil {
		return nil, err
	}

	genderInd, _ := p.schema.Indicator(dataset.ColGender)
	smokerInd, _ := p.schema.Indicator(dataset.ColSmoking)

	values := map[string]float64{
		dataset.ColAge:           in.Age,
		dataset.ColBedtime:       in.Bedtime,
		dataset.ColWakeupTime:    in.WakeupTime,
		dataset.ColSleepDuration: in.Duration(),
		dataset.ColAwakenings:    in.Awakenings,
		dataset.ColCaffeine:      in.Caffeine,
		dataset.ColAlcohol:       in.Alcohol,
		dataset.ColExercise:      in.Exercise,
		genderInd.Name:           genderValue,
		smokerInd.Name:           smokerValue,
	}

	row := make([]float64, p.schema.NumFeatures())
	for i, name := range p.schema.FeatureNames() {
		value, ok := values[name]
		if !ok {
			return nil, somnusErrors.NewValueError("Predictor.FeatureRow", "no input for feature "+name)
		}
		row[i] = value
	}
	return row, nil
}

// Predict trains a fresh forest for the target and predicts the
// statistic for the given inputs, rounded to two decimal places for
// display.
func (p *Predictor) Predict(target Target, in Inputs) (_ float64, err error) {
	defer somnusErrors.Recover(&err, "Predictor.Predict")

	start := time.Now()
	forest, err := p.trainForest(target)
	if err != nil {
		return 0, err
	}

	row, err := p.FeatureRow(in)
	if err != nil {
		return 0, err
	}

	prediction, err := forest.PredictRow(row)
	if err != nil {
		return 0, err
	}

	p.logger.Info("Prediction served",
		log.OperationKey, log.OperationPredict,
		log.TargetKey, target.Column(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return math.Round(prediction*100) / 100, nil
}

// FeatureImportances trains a fresh forest for the target and returns
// its importance ranking. Order and limit follow metrics.RankImportances;
// the dashboard's bar chart asks for Ascending, reports for Descending.
func (p *Predictor) FeatureImportances(target Target, order metrics.SortOrder, limit int) ([]metrics.FeatureImportance, error) {
	forest, err := p.trainForest(target)
	if err != nil {
		return nil, err
	}
	return metrics.RankImportances(p.schema.FeatureNames(), forest.FeatureImportances(), order, limit)
}

// Evaluate reports the cross-validated R² of the forest for the target,
// together with the importance ranking of the last fold's model in
// descending order.
func (p *Predictor) Evaluate(target Target, folds int) (float64, []metrics.FeatureImportance, error) {
	y, err := preprocessing.TargetVector(p.table, target.Column())
	if err != nil {
		return 0, nil, err
	}

	kfold := evaluation.NewKFold(evaluation.WithNSplits(folds))
	score, lastModel, err := evaluation.CrossValidate(func() evaluation.Regressor {
		return p.newForest()
	}, p.design, y, kfold)
	if err != nil {
		return 0, nil, err
	}

	forest, ok := lastModel.(*ensemble.RandomForestRegressor)
	if !ok {
		return 0, nil, somnusErrors.NewValueError("Predictor.Evaluate", "unexpected model type")
	}
	ranked, err := metrics.RankImportances(p.schema.FeatureNames(), forest.FeatureImportances(), metrics.Descending, 0)
	if err != nil {
		return 0, nil, err
	}
	return score, ranked, nil
}

// trainForest fits a fresh forest for the target on the full table.
func (p *Predictor) trainForest(target Target) (*ensemble.RandomForestRegressor, error) {
	y, err := preprocessing.TargetVector(p.table, target.Column())
	if err != nil {
		return nil, err
	}
	forest := p.newForest()
	if err := forest.Fit(p.design, y); err != nil {
		return nil, err
	}
	return forest, nil
}

func (p *Predictor) newForest() *ensemble.RandomForestRegressor {
	opts := []ensemble.RandomForestRegressorOption{
		ensemble.WithNEstimators(p.nEstimators),
	}
	if p.randomState >= 0 {
		opts = append(opts, ensemble.WithRandomState(p.randomState))
	}
	return ensemble.NewRandomForestRegressor(opts...)
}
