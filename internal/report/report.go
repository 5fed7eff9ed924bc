// Package report builds the human-facing run artifacts: the external
// research prompt handed to an analyst (or an LLM) to fill the ratings CSV,
// and the plain-text run summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgarsift/edgarsift/pkg/models"
)

// ResearchPromptFile is the file name the prompt is written to.
const ResearchPromptFile = "research_prompt.md"

// researchPromptHeader instructs the reader on the exact CSV shape the
// ratings fetcher parses. Keep the column list in sync with the research
// provider.
const researchPromptHeader = `# External Research Request

For each ticker below, collect current analyst ratings from public sources
(Zacks, TipRanks, consensus aggregators). Report each source as one CSV row.

Return the results as CSV with this exact header:

` + "```" + `
ticker,source,rating,price_target
` + "```" + `

Rules:
- rating is either the 1-5 analyst scale (1 = strong buy, 5 = strong sell)
  or a textual label (buy, hold, sell, overweight, underperform, ...).
- price_target is optional; leave the field empty when no target is given.
- One row per ticker per source. Skip tickers you find no coverage for.

## Tickers
`

// BuildResearchPrompt renders the research request for the given tickers.
// Recent filings, when available, are listed per ticker as context so the
// researcher can anchor ratings to the latest reporting period.
func BuildResearchPrompt(tickers []string, filings map[string][]models.FilingEntry) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(researchPromptHeader)

	for _, t := range sorted {
		b.WriteString("\n### " + t + "\n")
		entries := filings[t]
		if len(entries) == 0 {
			b.WriteString("- no recent filings on record\n")
			continue
		}
		for _, e := range entries {
			date := ""
			if !e.Filed.IsZero() {
				date = e.Filed.Format("2006-01-02") + " "
			}
			fmt.Fprintf(&b, "- %s%s: %s\n", date, e.FormType, e.Title)
		}
	}

	return b.String()
}

// Summary renders a one-line-per-ticker overview of a run's signals,
// grouped by recommendation.
func Summary(signals []models.Signal) string {
	if len(signals) == 0 {
		return "no signals\n"
	}

	groups := map[models.Recommendation][]models.Signal{}
	for _, s := range signals {
		groups[s.Recommendation] = append(groups[s.Recommendation], s)
	}

	var b strings.Builder
	for _, rec := range []models.Recommendation{models.RecommendBuy, models.RecommendHold, models.RecommendSell} {
		sigs := groups[rec]
		if len(sigs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n", rec, len(sigs))
		for _, s := range sigs {
			fired := ""
			if len(s.Rationale) > 0 {
				fired = s.Rationale[len(s.Rationale)-1]
			}
			fmt.Fprintf(&b, "  %-6s %-14s bias=%-8s %s\n", s.Ticker, s.Tier, s.Bias.Label, fired)
		}
	}
	return b.String()
}
