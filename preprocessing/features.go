// Package preprocessing provides feature encoding for the somnus library.
//
// The package has two layers: a generic OneHotEncoder for categorical
// string data, and EncodeFeatures, which turns a cleaned sleep-study
// table into the numeric design matrix the regressors train on. The
// Schema returned by EncodeFeatures is the single source of truth for
// predictor column order and categorical encoding conventions; both the
// trainer and the single-row predictor consume it, so the two can never
// silently disagree about what each column means.
package preprocessing

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/dataset"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
)

// excludedColumns never enter the design matrix: the row identifier, the
// three target candidates, and light sleep percentage (the complement of
// the REM and deep percentages, excluded to avoid leaking the targets).
var excludedColumns = map[string]bool{
	dataset.ColID:              true,
	dataset.ColSleepEfficiency: true,
	dataset.ColREMSleepPct:     true,
	dataset.ColDeepSleepPct:    true,
	dataset.ColLightSleepPct:   true,
}

// Indicator describes the binary encoding of one categorical column in
// the design matrix.
type Indicator struct {
	Source   string // source column, e.g. "Gender"
	Name     string // design-matrix column name, e.g. "Gender_Male"
	Positive string // category encoded as 1
	Baseline string // dropped category encoded as 0
}

// Schema is the ordered list of design-matrix columns together with the
// encoding rules for categorical sources. A Schema is immutable once
// built.
type Schema struct {
	featureNames []string
	index        map[string]int
	indicators   map[string]Indicator // keyed by source column
}

// FeatureNames returns the design-matrix column names in order.
func (s *Schema) FeatureNames() []string {
	out := make([]string, len(s.featureNames))
	copy(out, s.featureNames)
	return out
}

// NumFeatures returns the number of design-matrix columns.
func (s *Schema) NumFeatures() int { return len(s.featureNames) }

// IndexOf returns the design-matrix column index of the named feature.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Indicator returns the encoding rule for a categorical source column.
func (s *Schema) Indicator(source string) (Indicator, bool) {
	ind, ok := s.indicators[source]
	return ind, ok
}

// EncodeCategory encodes a raw categorical value for the given source
// column: 1 for the positive category, 0 otherwise. Only defined for
// sources that produced exactly one indicator column.
func (s *Schema) EncodeCategory(source, value string) (float64, error) {
	ind, ok := s.indicators[source]
	if !ok {
		return 0, somnusErrors.NewValueError("Schema.EncodeCategory", "no indicator for column "+source)
	}
	if value == ind.Positive {
		return 1, nil
	}
	return 0, nil
}

// EncodeFeatures builds the numeric design matrix from a cleaned table.
//
// Numeric predictor columns are taken in table order; categorical columns
// are one-hot encoded with the drop-first scheme (the alphabetically
// first category becomes the all-zeros baseline) and their indicator
// columns are appended after the numeric block, mirroring how the
// dashboard's dataframe encoding ordered its columns. Identifier and
// target columns are excluded unconditionally, regardless of which target
// is modeled later.
func EncodeFeatures(table *dataset.Table) (_ *mat.Dense, _ *Schema, err error) {
	defer somnusErrors.Recover(&err, "EncodeFeatures")

	if table == nil || table.NumRows() == 0 {
		return nil, nil, somnusErrors.NewModelError("EncodeFeatures", "empty table", somnusErrors.ErrEmptyData)
	}

	start := time.Now()
	nRows := table.NumRows()

	var numericNames, categoricalNames []string
	for _, name := range table.Columns() {
		if excludedColumns[name] {
			continue
		}
		if table.IsCategorical(name) {
			categoricalNames = append(categoricalNames, name)
		} else {
			numericNames = append(numericNames, name)
		}
	}

	var indicatorBlock *mat.Dense
	var indicatorNames []string
	indicators := make(map[string]Indicator)

	if len(categoricalNames) > 0 {
		rows := make([][]string, nRows)
		for i := range rows {
			rows[i] = make([]string, len(categoricalNames))
		}
		for j, name := range categoricalNames {
			values, catErr := table.Categorical(name)
			if catErr != nil {
				return nil, nil, catErr
			}
			for i := 0; i < nRows; i++ {
				rows[i][j] = values[i]
			}
		}

		encoder := NewOneHotEncoder(WithDropFirst())
		indicatorBlock, err = encoder.FitTransform(rows)
		if err != nil {
			return nil, nil, err
		}
		indicatorNames = encoder.GetFeatureNamesOut(categoricalNames)

		outIdx := 0
		for j, source := range categoricalNames {
			categories := encoder.Categories[j]
			if len(categories) == 2 {
				indicators[source] = Indicator{
					Source:   source,
					Name:     indicatorNames[outIdx],
					Positive: categories[1],
					Baseline: categories[0],
				}
			}
			outIdx += encoder.featureWidth(j)
		}
	}

	nFeatures := len(numericNames) + len(indicatorNames)
	design := mat.NewDense(nRows, nFeatures, nil)

	for j, name := range numericNames {
		values, numErr := table.Numeric(name)
		if numErr != nil {
			return nil, nil, numErr
		}
		for i := 0; i < nRows; i++ {
			design.Set(i, j, values[i])
		}
	}
	if indicatorBlock != nil {
		offset := len(numericNames)
		for j := range indicatorNames {
			for i := 0; i < nRows; i++ {
				design.Set(i, offset+j, indicatorBlock.At(i, j))
			}
		}
	}

	featureNames := append(append([]string{}, numericNames...), indicatorNames...)
	index := make(map[string]int, len(featureNames))
	for i, name := range featureNames {
		index[name] = i
	}
	schema := &Schema{featureNames: featureNames, index: index, indicators: indicators}

	logger := log.GetLoggerWithName("preprocessing")
	logger.Debug("Design matrix built",
		log.ComponentKey, "preprocessing",
		log.OperationKey, log.OperationEncode,
		log.SamplesKey, nRows,
		log.FeaturesKey, nFeatures,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return design, schema, nil
}

// TargetVector extracts the named target column as a column vector
// aligned with the design matrix rows.
func TargetVector(table *dataset.Table, target string) (*mat.VecDense, error) {
	values, err := table.Numeric(target)
	if err != nil {
		return nil, err
	}
	y := mat.NewVecDense(len(values), nil)
	for i, v := range values {
		y.SetVec(i, v)
	}
	return y, nil
}
