package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/somnuslabs/somnus/core/model"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// OneHotEncoder converts categorical string data into binary indicator
// columns. Categories are learned from the training data and sorted, so
// the mapping from category to column is deterministic.
//
// With drop-first enabled the first (alphabetically smallest) category of
// each feature becomes the implicit baseline and is not materialized as a
// column. A binary feature then produces exactly one indicator column.
type OneHotEncoder struct {
	state *model.StateManager

	dropFirst bool

	// Categories holds each feature's learned categories, sorted.
	Categories [][]string

	// CategoryToIdx maps category to output offset within each feature's
	// block of indicator columns. Baseline categories map to -1 when
	// drop-first is enabled.
	CategoryToIdx []map[string]int

	// NFeatures is the number of input features.
	NFeatures int

	// NOutputs is the number of output indicator columns.
	NOutputs int
}

// OneHotEncoderOption configures a OneHotEncoder.
type OneHotEncoderOption func(*OneHotEncoder)

// WithDropFirst drops the first category of every feature, encoding it as
// the all-zeros baseline.
func WithDropFirst() OneHotEncoderOption {
	return func(e *OneHotEncoder) {
		e.dropFirst = true
	}
}

// NewOneHotEncoder creates a new OneHotEncoder.
func NewOneHotEncoder(opts ...OneHotEncoderOption) *OneHotEncoder {
	e := &OneHotEncoder{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsFitted reports whether the encoder has learned its categories.
func (e *OneHotEncoder) IsFitted() bool { return e.state.IsFitted() }

// Fit learns the category set of every feature from the training data.
// Data is row-major: data[i][j] is the value of feature j in sample i.
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer somnusErrors.Recover(&err, "OneHotEncoder.Fit")

	if len(data) == 0 {
		return somnusErrors.NewModelError("OneHotEncoder.Fit", "empty data", somnusErrors.ErrEmptyData)
	}
	if len(data[0]) == 0 {
		return somnusErrors.NewModelError("OneHotEncoder.Fit", "empty features", somnusErrors.ErrEmptyData)
	}

	nSamples := len(data)
	nFeatures := len(data[0])

	for i, row := range data {
		if len(row) != nFeatures {
			return somnusErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), i)
		}
	}

	e.NFeatures = nFeatures
	e.Categories = make([][]string, nFeatures)
	e.CategoryToIdx = make([]map[string]int, nFeatures)
	e.NOutputs = 0

	for j := 0; j < nFeatures; j++ {
		categorySet := make(map[string]bool)
		for i := 0; i < nSamples; i++ {
			categorySet[data[i][j]] = true
		}

		categories := make([]string, 0, len(categorySet))
		for category := range categorySet {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		e.Categories[j] = categories

		categoryToIdx := make(map[string]int, len(categories))
		offset := 0
		for idx, category := range categories {
			if e.dropFirst && idx == 0 {
				categoryToIdx[category] = -1
				continue
			}
			categoryToIdx[category] = offset
			offset++
		}
		e.CategoryToIdx[j] = categoryToIdx
		e.NOutputs += offset
	}

	e.state.SetFitted()
	return nil
}

// Transform encodes data using the learned categories. Unknown categories
// encode as all zeros.
func (e *OneHotEncoder) Transform(data [][]string) (_ *mat.Dense, err error) {
	defer somnusErrors.Recover(&err, "OneHotEncoder.Transform")

	if !e.state.IsFitted() {
		return nil, somnusErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(data) == 0 {
		return mat.NewDense(0, e.NOutputs, nil), nil
	}

	nSamples := len(data)
	if len(data[0]) != e.NFeatures {
		return nil, somnusErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(data[0]), 1)
	}

	result := mat.NewDense(nSamples, e.NOutputs, nil)
	for i := 0; i < nSamples; i++ {
		outputIdx := 0
		for j := 0; j < e.NFeatures; j++ {
			if idx, exists := e.CategoryToIdx[j][data[i][j]]; exists && idx >= 0 {
				result.Set(i, outputIdx+idx, 1.0)
			}
			outputIdx += e.featureWidth(j)
		}
	}
	return result, nil
}

// FitTransform learns categories and encodes the same data in one call.
func (e *OneHotEncoder) FitTransform(data [][]string) (*mat.Dense, error) {
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// GetFeatureNamesOut returns the output column names, formed as
// "<feature>_<category>". Baseline categories are omitted under
// drop-first. When inputFeatures is nil, "x0", "x1", ... are used.
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.state.IsFitted() {
		return nil
	}

	var outputFeatures []string
	for j, categories := range e.Categories {
		name := fmt.Sprintf("x%d", j)
		if inputFeatures != nil && j < len(inputFeatures) {
			name = inputFeatures[j]
		}
		for idx, category := range categories {
			if e.dropFirst && idx == 0 {
				continue
			}
			outputFeatures = append(outputFeatures, fmt.Sprintf("%s_%s", name, category))
		}
	}
	return outputFeatures
}

// featureWidth returns the number of indicator columns feature j emits.
func (e *OneHotEncoder) featureWidth(j int) int {
	n := len(e.Categories[j])
	if e.dropFirst && n > 0 {
		return n - 1
	}
	return n
}
