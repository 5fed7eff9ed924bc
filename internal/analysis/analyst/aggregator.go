// Package analyst folds third-party ratings for a ticker into a single
// directional bias.
package analyst

import (
	"strconv"
	"strings"

	"github.com/edgarsift/edgarsift/pkg/models"
)

// Label thresholds on the mean contribution score.
const (
	bullishAbove = 0.33
	bearishBelow = -0.33
)

// Aggregate combines zero or more ratings into an AnalystBias. Each rating
// contributes +1 (bullish), 0 (neutral), or -1 (bearish); the score is the
// arithmetic mean. An empty set yields a neutral bias with Ratings==0, which
// the classifier treats differently from a genuinely mixed set.
func Aggregate(ratings []models.AnalystRating) models.AnalystBias {
	bias := models.AnalystBias{Label: models.BiasNeutral, Ratings: len(ratings)}
	if len(ratings) == 0 {
		return bias
	}

	sum := 0.0
	for _, r := range ratings {
		switch r.Label {
		case models.BiasBullish:
			sum++
		case models.BiasBearish:
			sum--
		}
	}

	bias.Score = sum / float64(len(ratings))
	switch {
	case bias.Score > bullishAbove:
		bias.Label = models.BiasBullish
	case bias.Score < bearishBelow:
		bias.Label = models.BiasBearish
	}
	return bias
}

// Targets extracts the per-source price targets without aggregating them.
// Averaging targets across sources would hide disagreement, so each one is
// carried through and reported individually.
func Targets(ratings []models.AnalystRating) []models.PriceTarget {
	var targets []models.PriceTarget
	for _, r := range ratings {
		if r.PriceTarget != nil {
			targets = append(targets, models.PriceTarget{Source: r.Source, Target: *r.PriceTarget})
		}
	}
	return targets
}

// NormalizeLabel maps a source's raw rating to the bullish/neutral/bearish
// taxonomy. Two input shapes are recognized: the common 1-5 numeric scale
// (1 = strong buy, 3 = hold, 5 = strong sell) and textual broker labels.
// Anything unrecognized counts as neutral rather than being dropped, so a
// source that rated the ticker still shows up in the rating count.
func NormalizeLabel(raw string) models.BiasLabel {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.BiasNeutral
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		// (3-v)/2 maps 1→+1, 3→0, 5→-1; the sign picks the label.
		score := (3 - v) / 2
		switch {
		case score > 0:
			return models.BiasBullish
		case score < 0:
			return models.BiasBearish
		default:
			return models.BiasNeutral
		}
	}

	switch s {
	case "buy", "strong buy", "overweight", "outperform", "accumulate", "add", "positive", "bullish":
		return models.BiasBullish
	case "sell", "strong sell", "underweight", "underperform", "reduce", "negative", "bearish":
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}
