// Package sleep is the domain facade of the somnus library. It binds
// the cleaned sleep-study table, the feature schema, and the
// random-forest regressor into the operations the dashboard calls:
// what-if predictions for a single person, feature-importance rankings,
// and cross-validated benchmark scores.
package sleep

import (
	"github.com/somnuslabs/somnus/dataset"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// Target identifies one of the three sleep-quality statistics a model
// can predict.
type Target int

const (
	// SleepEfficiency is the percentage of time in bed spent asleep.
	SleepEfficiency Target = iota
	// REMSleepPercentage is the percentage of sleep spent in REM.
	REMSleepPercentage
	// DeepSleepPercentage is the percentage of sleep spent in deep sleep.
	DeepSleepPercentage
)

// Targets lists all predictable statistics.
var Targets = []Target{SleepEfficiency, REMSleepPercentage, DeepSleepPercentage}

// Column returns the dataset column holding this target.
func (t Target) Column() string {
	switch t {
	case SleepEfficiency:
		return dataset.ColSleepEfficiency
	case REMSleepPercentage:
		return dataset.ColREMSleepPct
	case DeepSleepPercentage:
		return dataset.ColDeepSleepPct
	}
	return ""
}

// String returns the target's dataset column name.
func (t Target) String() string { return t.Column() }

// ParseTarget resolves a dataset column name to a Target.
func ParseTarget(name string) (Target, error) {
	for _, t := range Targets {
		if t.Column() == name {
			return t, nil
		}
	}
	return 0, somnusErrors.NewValueError("ParseTarget", "unknown target "+name)
}
