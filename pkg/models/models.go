// Package models defines the core data structures shared across edgarsift.
package models

import "time"

// Company is one row of the screened universe: the SEC master ticker list
// entry that links a ticker symbol to its filing identity.
type Company struct {
	CIK    string `json:"cik"`    // zero-padded to 10 digits, e.g., "0000320193"
	Ticker string `json:"ticker"` // uppercased, e.g., "AAPL"
	Name   string `json:"name"`   // e.g., "APPLE INC"
}

// RevenuePeriod is a single reported revenue observation from an XBRL filing.
// Revenue is a pointer so that "unavailable" is distinguishable from zero.
type RevenuePeriod struct {
	End          time.Time `json:"end"`           // period end date
	FiscalYear   int       `json:"fiscal_year"`   // e.g., 2025
	FiscalPeriod string    `json:"fiscal_period"` // "Q1".."Q4" ("FY" rows are normalized to "Q4")
	Form         string    `json:"form"`          // "10-Q" or "10-K"
	Revenue      *float64  `json:"revenue"`       // USD; nil when the filing carries no usable amount
}

// RevenueSeries holds a company's reported quarterly revenue, newest first.
// Periods are chronologically contiguous and non-overlapping; a series
// typically carries 4-8 periods so that a year-ago comparison is possible.
type RevenueSeries struct {
	Ticker  string          `json:"ticker"`
	CIK     string          `json:"cik"`
	Periods []RevenuePeriod `json:"periods"` // most recent first
}

// YearAgo returns the period one fiscal year before p, if the series has it.
func (s *RevenueSeries) YearAgo(p RevenuePeriod) (RevenuePeriod, bool) {
	for _, cand := range s.Periods {
		if cand.FiscalYear == p.FiscalYear-1 && cand.FiscalPeriod == p.FiscalPeriod {
			return cand, true
		}
	}
	return RevenuePeriod{}, false
}

// TrendReason enumerates why a revenue series passed or failed the screen.
type TrendReason string

const (
	TrendPassed           TrendReason = "passed"
	TrendInsufficientData TrendReason = "insufficient_data"
	TrendMissingData      TrendReason = "missing_data"
	TrendNotSequential    TrendReason = "not_sequential"
	TrendNoYoYGrowth      TrendReason = "no_yoy_growth"
)

// TrendResult is the screener's verdict for one revenue series. It is
// recomputed every run; the series itself remains the source of truth.
type TrendResult struct {
	Passes bool        `json:"passes"`
	Reason TrendReason `json:"reason"`
}

// ValuationSnapshot is a point-in-time valuation picture for one ticker.
// All numeric fields are pointers: a missing value is absent, never zero.
// A snapshot belongs to a single run and is superseded wholesale by the next.
type ValuationSnapshot struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name,omitempty"`
	Sector     string    `json:"sector,omitempty"`
	Industry   string    `json:"industry,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	MarketCap  *float64  `json:"market_cap,omitempty"`
	TrailingPE *float64  `json:"trailing_pe,omitempty"`
	ForwardPE  *float64  `json:"forward_pe,omitempty"`
	PEGRatio   *float64  `json:"peg_ratio,omitempty"`
	Beta       *float64  `json:"beta,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// ValuationTier buckets a snapshot by trailing P/E.
type ValuationTier string

const (
	TierCheap         ValuationTier = "cheap"
	TierReasonable    ValuationTier = "reasonable"
	TierExpensive     ValuationTier = "expensive"
	TierVeryExpensive ValuationTier = "very_expensive"
	TierUnknown       ValuationTier = "unknown"
)

// BiasLabel is the normalized direction of analyst sentiment.
type BiasLabel string

const (
	BiasBullish BiasLabel = "bullish"
	BiasNeutral BiasLabel = "neutral"
	BiasBearish BiasLabel = "bearish"
)

// AnalystRating is one third-party source's opinion on a ticker. Zero or
// more ratings per ticker; no ratings at all is a valid state.
type AnalystRating struct {
	Source      string    `json:"source"` // e.g., "zacks", "consensus"
	Label       BiasLabel `json:"label"`
	PriceTarget *float64  `json:"price_target,omitempty"`
}

// AnalystBias is the per-run aggregate of a ticker's ratings. Ratings counts
// the inputs so that "neutral with no ratings" stays distinguishable from a
// genuinely mixed rating set.
type AnalystBias struct {
	Score   float64   `json:"score"` // mean of +1/0/-1 contributions
	Label   BiasLabel `json:"label"`
	Ratings int       `json:"ratings"`
}

// Recommendation is the final classification for a ticker.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
)

// PriceTarget carries one source's target through to the output unaggregated.
// Targets are never averaged across sources; blending them would hide the
// disagreement the rationale is supposed to expose.
type PriceTarget struct {
	Source string  `json:"source"`
	Target float64 `json:"target"`
}

// Signal is the final per-ticker output of a run. The run date is part of
// its identity: history is never merged across runs.
type Signal struct {
	Ticker          string         `json:"ticker"`
	Name            string         `json:"name,omitempty"`
	Sector          string         `json:"sector,omitempty"`
	Industry        string         `json:"industry,omitempty"`
	RunDate         time.Time      `json:"run_date"`
	RevenueFlag     bool           `json:"revenue_flag"`
	Tier            ValuationTier  `json:"valuation_tier"`
	ForwardImproves bool           `json:"forward_improves"`
	Bias            AnalystBias    `json:"analyst_bias"`
	PriceTargets    []PriceTarget  `json:"price_targets,omitempty"`
	Recommendation  Recommendation `json:"recommendation"`
	Rationale       []string       `json:"rationale"` // rule trail, in evaluation order
}

// FilingEntry is one item from the EDGAR recent-filings feed, used only as
// context for the downstream research prompt.
type FilingEntry struct {
	Title    string    `json:"title"`
	FormType string    `json:"form_type"`
	Filed    time.Time `json:"filed"`
	Link     string    `json:"link"`
}
