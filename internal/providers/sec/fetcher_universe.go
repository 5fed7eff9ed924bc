package sec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/pkg/models"
)

// ---- TickerUniverse fetcher ----
// Downloads the SEC master ticker list mapping every listed ticker to its
// CIK. The list is the screening universe and also the symbol→CIK resolver
// for the other fetchers.

type universeFetcher struct {
	provider.BaseFetcher
	userAgent string
}

func newUniverseFetcher(userAgent string, rateLimit int) *universeFetcher {
	return &universeFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelTickerUniverse,
			"SEC master ticker list: every listed ticker with its CIK",
			nil,
			[]string{provider.ParamLimit},
			time.Hour, rateLimit, time.Second,
		),
		userAgent: userAgent,
	}
}

func (f *universeFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	u := edgarFilesURL + "/company_tickers.json"
	var entries map[string]tickerEntry
	if err := fetchSECJSON(ctx, u, f.userAgent, &entries); err != nil {
		return nil, fmt.Errorf("sec ticker universe: %w", err)
	}

	companies := make([]models.Company, 0, len(entries))
	for _, e := range entries {
		if e.Ticker == "" {
			continue
		}
		companies = append(companies, models.Company{
			CIK:    padCIK(fmt.Sprintf("%d", e.CIK)),
			Ticker: strings.ToUpper(e.Ticker),
			Name:   e.Title,
		})
	}

	// The source map is unordered; sort so that runs are reproducible and
	// any limit truncation is stable.
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].Ticker < companies[j].Ticker
	})

	if lim := parseLimit(params[provider.ParamLimit]); lim > 0 && len(companies) > lim {
		companies = companies[:lim]
	}

	f.CacheSet(cacheKey, companies)
	return newResult(companies), nil
}

// ResolveCIK finds the zero-padded CIK for a ticker symbol from a fetched
// universe. The second return is false when the symbol is unlisted.
func ResolveCIK(universe []models.Company, symbol string) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	for _, c := range universe {
		if c.Ticker == sym {
			return c.CIK, true
		}
	}
	return "", false
}

func parseLimit(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
