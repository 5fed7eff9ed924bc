// Package yahoo implements the Yahoo Finance data provider. It wraps the
// v10 quoteSummary API into the standard provider/fetcher framework to
// produce point-in-time valuation snapshots.
//
// Yahoo Finance is free and keyless. Fields are frequently absent for
// unprofitable companies, ADRs, and recent listings; absence is preserved
// as nil rather than zero so downstream tiering can stay fail-closed.
package yahoo

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
	providerName = "yahoo"

	quoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
}

// New creates the Yahoo provider and registers its fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - valuation multiples and company profile",
			"https://finance.yahoo.com",
			nil,
		),
	}

	p.RegisterFetcher(newValuationFetcher())

	return p
}

// Ping checks connectivity to Yahoo Finance.
func (p *Provider) Ping(ctx context.Context) error {
	url := quoteSummaryURL + "/AAPL?modules=price"
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("yahoo ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchJSON performs a GET request and decodes the response into dest.
func fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
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
