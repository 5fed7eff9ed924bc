// Package sec implements the SEC EDGAR data provider: the master ticker
// list, XBRL company facts (quarterly revenue), and the recent-filings feed.
//
// No API key required, but the SEC requires a descriptive User-Agent with a
// contact address on every request and throttles above ~10 requests/second
// per agent. The user agent is mandatory configuration, not a default.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/edgarsift/edgarsift/internal/infra"
	"github.com/edgarsift/edgarsift/internal/provider"
)

const (
	providerName = "sec"

	edgarDataURL    = "https://data.sec.gov"
	edgarFilesURL   = "https://www.sec.gov/files"
	edgarCompanyURL = "https://data.sec.gov/api/xbrl/companyfacts"
	edgarBrowseURL  = "https://www.sec.gov/cgi-bin/browse-edgar"
)

// Provider implements provider.Provider for SEC EDGAR.
type Provider struct {
	provider.BaseProvider
	userAgent string
}

// New creates the SEC provider with the configured User-Agent and rate
// limit (requests per second) and registers all fetchers.
func New(userAgent string, rateLimit int) *Provider {
	if rateLimit <= 0 {
		rateLimit = 8
	}
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"SEC EDGAR - ticker universe, XBRL revenue facts, and filings",
			"https://www.sec.gov/edgar",
			nil,
		),
		userAgent: userAgent,
	}

	p.RegisterFetcher(newUniverseFetcher(userAgent, rateLimit))
	p.RegisterFetcher(newRevenueFetcher(userAgent, rateLimit))
	p.RegisterFetcher(newFilingFeedFetcher(userAgent, rateLimit))

	return p
}

// Ping checks connectivity to SEC EDGAR.
func (p *Provider) Ping(ctx context.Context) error {
	url := edgarDataURL + "/submissions/CIK0000320193.json" // Apple
	body, _, err := infra.DoGet(ctx, url, secHeaders(p.userAgent))
	if err != nil {
		return fmt.Errorf("sec ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func secHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/json",
	}
}

// fetchSECJSON performs a GET request to the SEC API and decodes JSON.
func fetchSECJSON(ctx context.Context, url, userAgent string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, secHeaders(userAgent))
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read SEC response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse SEC JSON: %w", err)
	}
	return nil
}

// padCIK pads a CIK number to 10 digits with leading zeros.
func padCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
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
