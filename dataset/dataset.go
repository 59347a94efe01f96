// Package dataset provides the cleaned sleep-study table consumed by the
// somnus estimators.
//
// A Table is a rectangular, column-oriented collection of numeric and
// categorical columns. Tables are loaded once (see LoadCSV) and then
// passed around as read-only handles; nothing in the library mutates a
// Table after loading.
package dataset

import (
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// Canonical column names of the sleep-efficiency study after cleaning.
// Consumption and exercise columns carry their units in the name, matching
// the labels shown in the dashboard.
const (
	ColID              = "ID"
	ColAge             = "Age"
	ColGender          = "Gender"
	ColBedtime         = "Bedtime"
	ColWakeupTime      = "Wakeup time"
	ColSleepDuration   = "Sleep duration"
	ColSleepEfficiency = "Sleep efficiency"
	ColREMSleepPct     = "REM sleep percentage"
	ColDeepSleepPct    = "Deep sleep percentage"
	ColLightSleepPct   = "Light sleep percentage"
	ColAwakenings      = "Awakenings"
	ColCaffeine        = "Caffeine consumption 24 hrs before sleeping (mg)"
	ColAlcohol         = "Alcohol consumption 24 hrs before sleeping (oz)"
	ColSmoking         = "Smoking status"
	ColExercise        = "Exercise frequency (in days per week)"
)

// Gender and smoking category labels as they appear in the raw data.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	SmokingYes   = "Yes"
	SmokingNo    = "No"
)

// Table is a rectangular table of named numeric and categorical columns.
type Table struct {
	names       []string
	numeric     map[string][]float64
	categorical map[string][]string
	nRows       int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// AddNumeric appends a numeric column. The first column added fixes the
// row count; later columns must match it.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.names = append(t.names, name)
	t.numeric[name] = values
	return nil
}

// AddCategorical appends a categorical (string) column.
func (t *Table) AddCategorical(name string, values []string) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.names = append(t.names, name)
	t.categorical[name] = values
	return nil
}

func (t *Table) checkAdd(name string, n int) error {
	if t.HasColumn(name) {
		return somnusErrors.NewValueError("Table.Add", "duplicate column "+name)
	}
	if len(t.names) == 0 {
		t.nRows = n
		return nil
	}
	if n != t.nRows {
		return somnusErrors.NewDimensionError("Table.Add", t.nRows, n, 0)
	}
	return nil
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int { return t.nRows }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, numOK := t.numeric[name]
	_, catOK := t.categorical[name]
	return numOK || catOK
}

// IsCategorical reports whether the named column holds string categories.
func (t *Table) IsCategorical(name string) bool {
	_, ok := t.categorical[name]
	return ok
}

// Numeric returns the values of a numeric column. The returned slice is
// the table's backing storage and must not be modified.
func (t *Table) Numeric(name string) ([]float64, error) {
	values, ok := t.numeric[name]
	if !ok {
		return nil, somnusErrors.NewValueError("Table.Numeric", "no numeric column "+name)
	}
	return values, nil
}

// Categorical returns the values of a categorical column.
func (t *Table) Categorical(name string) ([]string, error) {
	values, ok := t.categorical[name]
	if !ok {
		return nil, somnusErrors.NewValueError("Table.Categorical", "no categorical column "+name)
	}
	return values, nil
}
