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

// revenueTags are the us-gaap concepts tried in order when extracting
// revenue. Issuers moved between these tags across ASC 606 adoption, so a
// single concept misses whole companies; the first tag yielding usable
// quarterly facts wins.
var revenueTags = []string{
	"Revenues",
	"RevenueFromContractWithCustomerExcludingAssessedTax",
	"SalesRevenueNet",
}

const defaultRevenuePeriods = 8

// ---- RevenueSeries fetcher ----
// Extracts a company's quarterly revenue history from the XBRL company
// facts endpoint.

type revenueFetcher struct {
	provider.BaseFetcher
	userAgent string
}

func newRevenueFetcher(userAgent string, rateLimit int) *revenueFetcher {
	return &revenueFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelRevenueSeries,
			"Quarterly revenue history from SEC XBRL company facts",
			[]string{provider.ParamCIK},
			[]string{provider.ParamSymbol, provider.ParamLimit},
			30*time.Minute, rateLimit, time.Second,
		),
		userAgent: userAgent,
	}
}

func (f *revenueFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cik := padCIK(strings.TrimSpace(params[provider.ParamCIK]))
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/CIK%s.json", edgarCompanyURL, cik)
	var resp companyFactsResponse
	if err := fetchSECJSON(ctx, u, f.userAgent, &resp); err != nil {
		return nil, fmt.Errorf("sec company facts for CIK %s: %w", cik, err)
	}

	limit := defaultRevenuePeriods
	if lim := parseLimit(params[provider.ParamLimit]); lim > 0 {
		limit = lim
	}

	series := &models.RevenueSeries{
		Ticker:  strings.ToUpper(params[provider.ParamSymbol]),
		CIK:     cik,
		Periods: extractRevenuePeriods(&resp, limit),
	}

	f.CacheSet(cacheKey, series)
	return newResult(series), nil
}

// extractRevenuePeriods walks the fallback tag list and returns the first
// tag's quarterly periods, newest first, capped at limit.
func extractRevenuePeriods(resp *companyFactsResponse, limit int) []models.RevenuePeriod {
	gaap := resp.Facts["us-gaap"]
	for _, tag := range revenueTags {
		group, ok := gaap[tag]
		if !ok {
			continue
		}
		periods := quarterlyPeriods(group.Units["USD"])
		if len(periods) > 0 {
			if len(periods) > limit {
				periods = periods[:limit]
			}
			return periods
		}
	}
	return nil
}

// quarterlyPeriods filters XBRL facts down to one revenue value per fiscal
// quarter: USD facts from 10-Q/10-K filings covering a single quarter. The
// same quarter is often restated in later filings, so duplicates by end
// date are collapsed keeping the most recently filed value. Annual "FY"
// facts that cover only the fourth quarter are relabeled Q4.
func quarterlyPeriods(facts []factUnit) []models.RevenuePeriod {
	byEnd := make(map[string]factUnit)
	for _, fu := range facts {
		if fu.Form != "10-Q" && fu.Form != "10-K" {
			continue
		}
		if !isQuarterSpan(fu.Start, fu.End) {
			continue
		}
		prev, seen := byEnd[fu.End]
		if !seen || fu.Filed > prev.Filed {
			byEnd[fu.End] = fu
		}
	}

	periods := make([]models.RevenuePeriod, 0, len(byEnd))
	for _, fu := range byEnd {
		fp := fu.FP
		if fp == "FY" {
			fp = "Q4"
		}
		val := fu.Val
		periods = append(periods, models.RevenuePeriod{
			End:          parseSECDate(fu.End),
			FiscalYear:   fu.FY,
			FiscalPeriod: fp,
			Form:         fu.Form,
			Revenue:      &val,
		})
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].End.After(periods[j].End)
	})
	return periods
}

// isQuarterSpan reports whether start..end covers a single fiscal quarter.
// Company facts mix quarterly and cumulative (year-to-date, full-year)
// durations under the same tag; anything outside roughly thirteen weeks is
// a cumulative figure and must not enter the quarterly series.
func isQuarterSpan(start, end string) bool {
	s := parseSECDate(start)
	e := parseSECDate(end)
	if s.IsZero() || e.IsZero() {
		return false
	}
	days := int(e.Sub(s).Hours() / 24)
	return days >= 70 && days <= 110
}
