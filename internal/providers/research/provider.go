// Package research implements the analyst-research data provider. Ratings
// come primarily from a local CSV file maintained outside the pipeline
// (exported from brokerage or research tooling); optionally, tickers absent
// from the file are scraped from public forecast pages.
//
// A missing file or a ticker with no rows is a valid no-coverage state, not
// an error. The downstream classifier treats "no ratings" as its own signal.
package research

import (
	"time"

	"github.com/edgarsift/edgarsift/internal/provider"
)

const providerName = "research"

// Provider implements provider.Provider for local analyst research.
type Provider struct {
	provider.BaseProvider
}

// New creates the research provider reading ratings from file. When scrape
// is true, tickers absent from the file are looked up on public forecast
// pages as a fallback.
func New(file string, scrape bool) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Local analyst ratings CSV with optional web fallback",
			"",
			nil,
		),
	}

	p.RegisterFetcher(newRatingsFetcher(file, scrape))

	return p
}

func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
