package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
	"github.com/somnuslabs/somnus/pkg/log"
)

// Raw header names before cleaning. The loader renames these to the
// canonical unit-carrying names.
var renames = map[string]string{
	"Caffeine consumption": ColCaffeine,
	"Alcohol consumption":  ColAlcohol,
	"Exercise frequency":   ColExercise,
}

// categoricalColumns are stored as strings; every other column is numeric.
var categoricalColumns = map[string]bool{
	ColGender:  true,
	ColSmoking: true,
}

// timestampColumns hold a date plus a time of day; only the time-of-day
// component survives cleaning, as fractional hours in [0, 24).
var timestampColumns = map[string]bool{
	ColBedtime:    true,
	ColWakeupTime: true,
}

// LoadCSV reads the sleep-efficiency study from a CSV file and applies the
// cleaning the rest of the library expects:
//
//   - rows with any missing value are dropped
//   - sleep efficiency is rescaled from a fraction to a percentage
//   - consumption and exercise columns are renamed to carry their units
//   - bedtime and wakeup timestamps are reduced to fractional hours of day
//
// The returned Table is ready to pass to preprocessing.EncodeFeatures.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, somnusErrors.Wrap(err, "LoadCSV")
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, somnusErrors.Wrap(err, "LoadCSV")
	}
	if len(records) < 2 {
		return nil, somnusErrors.NewModelError("LoadCSV", "no data rows in "+path, somnusErrors.ErrEmptyData)
	}

	header := records[0]
	for i, name := range header {
		if renamed, ok := renames[name]; ok {
			header[i] = renamed
		}
	}

	rows := dropIncomplete(records[1:])

	logger := log.GetLoggerWithName("dataset")
	logger.Info("Dataset loaded",
		log.ComponentKey, "dataset",
		log.SamplesKey, len(rows),
		log.FeaturesKey, len(header),
	)

	table := NewTable()
	for j, name := range header {
		var addErr error
		switch {
		case categoricalColumns[name]:
			values := make([]string, len(rows))
			for i, row := range rows {
				values[i] = row[j]
			}
			addErr = table.AddCategorical(name, values)
		case timestampColumns[name]:
			values := make([]float64, len(rows))
			for i, row := range rows {
				values[i], err = parseClockHours(row[j])
				if err != nil {
					return nil, err
				}
			}
			addErr = table.AddNumeric(name, values)
		default:
			values := make([]float64, len(rows))
			for i, row := range rows {
				values[i], err = strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
				if err != nil {
					return nil, somnusErrors.NewValueError("LoadCSV",
						"column "+name+": cannot parse "+row[j])
				}
			}
			if name == ColSleepEfficiency {
				// Stored as a fraction in the raw file; the library
				// contract is a 0-100 percentage.
				for i := range values {
					values[i] *= 100
				}
			}
			addErr = table.AddNumeric(name, values)
		}
		if addErr != nil {
			return nil, addErr
		}
	}

	return table, nil
}

// dropIncomplete removes rows containing any empty field.
func dropIncomplete(rows [][]string) [][]string {
	complete := make([][]string, 0, len(rows))
	for _, row := range rows {
		ok := true
		for _, field := range row {
			if strings.TrimSpace(field) == "" {
				ok = false
				break
			}
		}
		if ok {
			complete = append(complete, row)
		}
	}
	return complete
}

// parseClockHours extracts the time-of-day component of a timestamp like
// "2021-03-06 01:30:00" as fractional hours (1.5).
func parseClockHours(value string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(value))
	clock := fields[len(fields)-1]

	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
	}
	if err != nil {
		return 0, somnusErrors.NewValueError("LoadCSV", "cannot parse time of day "+value)
	}
	return float64(t.Hour()) + float64(t.Minute())/60, nil
}
