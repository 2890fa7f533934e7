package suggest

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistorySummary aggregates the objective values of a trial history.
type HistorySummary struct {
	// Count is the number of trials.
	Count int

	// Best is the trial with the highest objective when maximizing, the
	// lowest otherwise. Nil for an empty history.
	Best *Trial

	// Mean and StdDev of the objective values. StdDev is the sample standard
	// deviation and 0 for fewer than two trials.
	Mean   float64
	StdDev float64
}

// SummarizeHistory computes a HistorySummary. The returned Best points into
// a copy, not into results.
func SummarizeHistory(results []Trial, maximize bool) HistorySummary {
	if len(results) == 0 {
		return HistorySummary{}
	}

	values := make([]float64, len(results))
	for i, t := range results {
		values[i] = t.ObjectiveValue
	}

	var bestIdx int
	if maximize {
		bestIdx = floats.MaxIdx(values)
	} else {
		bestIdx = floats.MinIdx(values)
	}

	best := results[bestIdx]

	summary := HistorySummary{
		Count: len(results),
		Best:  &best,
		Mean:  stat.Mean(values, nil),
	}

	if len(values) > 1 {
		summary.StdDev = stat.StdDev(values, nil)
	}

	return summary
}
