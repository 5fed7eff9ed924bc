package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/pkg/models"
)

// ---- ValuationSnapshot fetcher ----
// One quoteSummary call per ticker covering price, multiples, and the
// sector/industry profile.

type valuationFetcher struct {
	provider.BaseFetcher
}

func newValuationFetcher() *valuationFetcher {
	return &valuationFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelValuationSnapshot,
			"Valuation snapshot (P/E multiples, price, profile) from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			15*time.Minute, 5, time.Second,
		),
	}
}

func (f *valuationFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(params[provider.ParamSymbol]))

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?modules=price,summaryDetail,defaultKeyStatistics,assetProfile",
		quoteSummaryURL, symbol)

	var resp quoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yahoo valuation %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo API error for %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary for %s", symbol)
	}

	snap := buildSnapshot(symbol, &resp.QuoteSummary.Result[0])
	f.CacheSet(cacheKey, snap)
	return newResult(snap), nil
}

// buildSnapshot maps a quoteSummary result onto a ValuationSnapshot,
// keeping absent metrics nil. summaryDetail is the primary source for
// multiples with defaultKeyStatistics as fallback, matching which module
// Yahoo actually populates per listing.
func buildSnapshot(symbol string, r *quoteSummaryResult) *models.ValuationSnapshot {
	snap := &models.ValuationSnapshot{
		Ticker:    symbol,
		FetchedAt: time.Now(),
	}

	if p := r.Price; p != nil {
		snap.Name = p.LongName
		if snap.Name == "" {
			snap.Name = p.ShortName
		}
		snap.Price = p.RegularMarketPrice.Raw
		snap.MarketCap = p.MarketCap.Raw
	}
	if ap := r.AssetProfile; ap != nil {
		snap.Sector = ap.Sector
		snap.Industry = ap.Industry
	}
	if sd := r.SummaryDetail; sd != nil {
		snap.TrailingPE = sd.TrailingPE.Raw
		snap.ForwardPE = sd.ForwardPE.Raw
		snap.Beta = sd.Beta.Raw
		if snap.MarketCap == nil {
			snap.MarketCap = sd.MarketCap.Raw
		}
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		if snap.ForwardPE == nil {
			snap.ForwardPE = ks.ForwardPE.Raw
		}
		if snap.Beta == nil {
			snap.Beta = ks.Beta.Raw
		}
		snap.PEGRatio = ks.PegRatio.Raw
	}

	return snap
}
