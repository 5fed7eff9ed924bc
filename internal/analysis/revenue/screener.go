// Package revenue implements the quarter-over-quarter and year-over-year
// revenue trend screen applied to each company's filing history.
package revenue

import (
	"github.com/edgarsift/edgarsift/pkg/models"
)

// minPeriods is the number of most-recent quarters the sequential check needs.
const minPeriods = 4

// Screen classifies a revenue series as trending up or not. The verdict is a
// pure function of the series: no I/O, no state, recomputed every run.
//
// A series passes only when both hold:
//  1. the four most recent quarters grow strictly from oldest to newest
//     (ties fail), and
//  2. the most recent quarter beats the same fiscal quarter one year
//     earlier. A missing year-ago quarter fails this check rather than
//     skipping it.
func Screen(series *models.RevenueSeries) models.TrendResult {
	if series == nil || len(series.Periods) < minPeriods {
		return models.TrendResult{Passes: false, Reason: models.TrendInsufficientData}
	}

	// q0 is the most recent quarter; q3 the oldest of the compared four.
	recent := series.Periods[:minPeriods]
	for _, p := range recent {
		if p.Revenue == nil {
			return models.TrendResult{Passes: false, Reason: models.TrendMissingData}
		}
	}

	// Strict sequential growth: q3 < q2 < q1 < q0.
	for i := minPeriods - 1; i > 0; i-- {
		if *recent[i].Revenue >= *recent[i-1].Revenue {
			return models.TrendResult{Passes: false, Reason: models.TrendNotSequential}
		}
	}

	// Year-over-year: latest quarter vs the same fiscal quarter a year ago.
	yearAgo, ok := series.YearAgo(recent[0])
	if !ok {
		return models.TrendResult{Passes: false, Reason: models.TrendNoYoYGrowth}
	}
	if yearAgo.Revenue == nil {
		return models.TrendResult{Passes: false, Reason: models.TrendMissingData}
	}
	if *recent[0].Revenue <= *yearAgo.Revenue {
		return models.TrendResult{Passes: false, Reason: models.TrendNoYoYGrowth}
	}

	return models.TrendResult{Passes: true, Reason: models.TrendPassed}
}
