// Command predict estimates a person's sleep efficiency, REM sleep
// percentage, and deep sleep percentage from their habits, the same
// what-if tool the dashboard exposes through its sliders and dropdowns.
//
// Each run retrains a fresh forest per target on the study data, so
// repeated runs with the same inputs vary slightly unless -seed is set.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/somnuslabs/somnus/dataset"
	"github.com/somnuslabs/somnus/pkg/log"
	"github.com/somnuslabs/somnus/sleep"
)

func main() {
	dataPath := flag.String("data", "data/Sleep_Efficiency.csv", "path to the sleep-efficiency CSV")
	age := flag.Float64("age", 15, "age in years")
	bedtime := flag.Float64("bedtime", 23, "bedtime as fractional hours of day (e.g. 23.5 = 11:30pm)")
	wakeup := flag.Float64("wakeup", 9, "wake time as fractional hours of day")
	awakenings := flag.Float64("awakenings", 0, "awakenings per night")
	caffeine := flag.Float64("caffeine", 50, "caffeine consumed in the 24h before bed (mg)")
	alcohol := flag.Float64("alcohol", 0, "alcohol consumed in the 24h before bed (oz)")
	exercise := flag.Float64("exercise", 2, "exercise days per week")
	male := flag.Bool("male", true, "biological male (false = biological female)")
	smoker := flag.Bool("smoker", false, "smokes")
	seed := flag.Int64("seed", -1, "random seed for reproducible predictions (-1 = unseeded)")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	log.SetupLogger(*logLevel)

	table, err := dataset.LoadCSV(*dataPath)
	if err != nil {
		fatal(err)
	}

	var opts []sleep.PredictorOption
	if *seed >= 0 {
		opts = append(opts, sleep.WithRandomState(*seed))
	}
	predictor, err := sleep.NewPredictor(table, opts...)
	if err != nil {
		fatal(err)
	}

	gender := sleep.BiologicalFemale
	if *male {
		gender = sleep.BiologicalMale
	}
	smoke := sleep.SmokerNo
	if *smoker {
		smoke = sleep.SmokerYes
	}

	inputs := sleep.Inputs{
		Age:        *age,
		Bedtime:    *bedtime,
		WakeupTime: *wakeup,
		Awakenings: *awakenings,
		Caffeine:   *caffeine,
		Alcohol:    *alcohol,
		Exercise:   *exercise,
		Gender:     gender,
		Smoker:     smoke,
	}

	for _, target := range sleep.Targets {
		value, err := predictor.Predict(target, inputs)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Your predicted %s is %.2f%%\n", lower(target.String()), value)
	}
}

// lower lowercases only the first rune, keeping acronyms like REM intact.
func lower(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	if len(s) > 1 && s[1] >= 'A' && s[1] <= 'Z' {
		return s
	}
	return string(s[0]+'a'-'A') + s[1:]
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "predict:", err)
	os.Exit(1)
}
