// Package signal combines the revenue screen, valuation tier, and analyst
// bias into the final Buy/Hold/Sell recommendation.
//
// The rules run in a fixed precedence and the first match wins, so every
// outcome is deterministic and explainable after the fact. Reordering the
// rules changes outcomes for tickers matching more than one of them; the
// order here is part of the contract.
package signal

import (
	"github.com/edgarsift/edgarsift/pkg/models"
)

// Rule names recorded in the rationale trail.
const (
	RuleRevenueValue    = "revenue_and_fair_value"
	RuleForwardEarnings = "forward_earnings_improve"
	RuleBearishOverride = "bearish_analyst_override"
	RuleAnalystBullish  = "bullish_analysts"
	RuleOverpricedSell  = "overpriced_and_bearish"
	RuleSpeculativeSell = "purely_speculative"
	RuleDefaultHold     = "default_hold"
)

// Inputs carries the per-ticker facts the classifier combines.
type Inputs struct {
	Trend           models.TrendResult
	Tier            models.ValuationTier
	ForwardImproves bool
	Bias            models.AnalystBias
}

// Classify maps the inputs to a recommendation and the ordered trail of
// rules evaluated up to and including the one that fired. It is a total
// function: every combination of inputs, including all-missing data,
// produces exactly one of Buy, Hold, or Sell.
func Classify(in Inputs) (models.Recommendation, []string) {
	var trail []string

	// Rule 1: revenue momentum at a sane price.
	trail = append(trail, RuleRevenueValue)
	if in.Trend.Passes && (in.Tier == models.TierCheap || in.Tier == models.TierReasonable) {
		return models.RecommendBuy, trail
	}

	// Rule 2: the market already prices in earnings growth — unless the
	// analysts disagree, in which case evaluation jumps straight to the
	// speculative check. The jump is deliberate: a bearish consensus must
	// not be laundered into a BUY via forward multiples, and it must not
	// reach rule 3 or 4 either, which would double-count the bearish bias.
	trail = append(trail, RuleForwardEarnings)
	if in.ForwardImproves {
		if in.Bias.Label != models.BiasBearish {
			return models.RecommendBuy, trail
		}
		trail = append(trail, RuleBearishOverride)
		return speculativeOrHold(in, trail)
	}

	// Rule 3: analysts alone can carry a BUY, but never into the top tier.
	trail = append(trail, RuleAnalystBullish)
	if in.Bias.Label == models.BiasBullish && in.Tier != models.TierVeryExpensive {
		return models.RecommendBuy, trail
	}

	// Rule 4: priced for perfection and the street disagrees.
	trail = append(trail, RuleOverpricedSell)
	if in.Tier == models.TierVeryExpensive && in.Bias.Label == models.BiasBearish {
		return models.RecommendSell, trail
	}

	return speculativeOrHold(in, trail)
}

// speculativeOrHold evaluates rules 5 and 6, the tail of the precedence
// chain shared by the normal path and the bearish-override jump.
func speculativeOrHold(in Inputs, trail []string) (models.Recommendation, []string) {
	// Rule 5: nothing supports the ticker at all — no revenue trend, no
	// forward improvement, and not a single analyst covering it.
	trail = append(trail, RuleSpeculativeSell)
	if !in.Trend.Passes && !in.ForwardImproves && in.Bias.Ratings == 0 {
		return models.RecommendSell, trail
	}

	// Rule 6: everything else is a HOLD — mixed signals, good companies at
	// rich prices, and any combination the rules above do not capture.
	trail = append(trail, RuleDefaultHold)
	return models.RecommendHold, trail
}
