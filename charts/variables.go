package charts

import "github.com/somnuslabs/somnus/dataset"

// ResolvePair deduplicates a two-variable chart selection. When the user
// picks the same statistic for both axes, the second is substituted with
// a default alternate: Awakenings, or caffeine consumption when
// Awakenings itself was doubled. Distinct selections pass through
// unchanged.
func ResolvePair(stat1, stat2 string) (string, string) {
	if stat1 != stat2 {
		return stat1, stat2
	}
	if stat1 != dataset.ColAwakenings {
		return stat1, dataset.ColAwakenings
	}
	return stat1, dataset.ColCaffeine
}
