package sleep

import "github.com/somnuslabs/somnus/dataset"

// Gender and smoking labels as the dashboard presents them.
const (
	BiologicalMale   = "Biological Male"
	BiologicalFemale = "Biological Female"
	SmokerYes        = "Yes"
	SmokerNo         = "No"
)

// Inputs holds the raw what-if inputs a user supplies for a prediction.
// Values are not validated beyond their types; out-of-domain inputs
// produce extrapolated rather than failing predictions.
type Inputs struct {
	Age        float64 // years
	Bedtime    float64 // fractional hours of day in [0, 24)
	WakeupTime float64 // fractional hours of day in [0, 24)
	Awakenings float64 // count per night
	Caffeine   float64 // mg consumed in the 24h before bedtime
	Alcohol    float64 // oz consumed in the 24h before bedtime
	Exercise   float64 // days per week
	Gender     string  // BiologicalMale or BiologicalFemale
	Smoker     string  // SmokerYes or SmokerNo
}

// Duration derives the sleep duration in hours from the bedtime and
// wake time, adding a day when the sleep interval crosses midnight.
func (in Inputs) Duration() float64 {
	return DeriveDuration(in.Bedtime, in.WakeupTime)
}

// DeriveDuration computes hours slept between a bedtime and a wake time,
// both as fractional hours of day.
func DeriveDuration(bedtime, wakeupTime float64) float64 {
	if wakeupTime < bedtime {
		return wakeupTime + 24 - bedtime
	}
	return wakeupTime - bedtime
}

// genderCategory maps a dashboard gender label to the dataset category.
func genderCategory(label string) string {
	if label == BiologicalMale {
		return dataset.GenderMale
	}
	return dataset.GenderFemale
}

// smokerCategory maps a dashboard smoking label to the dataset category.
func smokerCategory(label string) string {
	if label == SmokerYes {
		return dataset.SmokingYes
	}
	return dataset.SmokingNo
}
