package sec

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/pkg/models"
)

// ---- FilingFeed fetcher ----
// Reads a company's recent filings from the EDGAR browse Atom feed. The
// feed is context for the downstream research prompt, not an input to the
// screen itself.

type filingFeedFetcher struct {
	provider.BaseFetcher
	parser    *gofeed.Parser
	userAgent string
}

func newFilingFeedFetcher(userAgent string, rateLimit int) *filingFeedFetcher {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	return &filingFeedFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelFilingFeed,
			"Recent company filings from the EDGAR Atom feed",
			[]string{provider.ParamCIK},
			[]string{provider.ParamForm, provider.ParamLimit},
			10*time.Minute, rateLimit, time.Second,
		),
		parser:    p,
		userAgent: userAgent,
	}
}

func (f *filingFeedFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	limit := 10
	if lim := parseLimit(params[provider.ParamLimit]); lim > 0 {
		limit = lim
	}

	q := url.Values{}
	q.Set("action", "getcompany")
	q.Set("CIK", padCIK(params[provider.ParamCIK]))
	q.Set("type", params[provider.ParamForm]) // empty means all forms
	q.Set("owner", "include")
	q.Set("count", fmt.Sprintf("%d", limit))
	q.Set("output", "atom")

	feed, err := f.parser.ParseURLWithContext(edgarBrowseURL+"?"+q.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("sec filing feed: %w", err)
	}

	entries := feedEntries(feed, limit)
	f.CacheSet(cacheKey, entries)
	return newResult(entries), nil
}

func feedEntries(feed *gofeed.Feed, limit int) []models.FilingEntry {
	entries := make([]models.FilingEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(entries) == limit {
			break
		}
		e := models.FilingEntry{
			Title: item.Title,
			Link:  item.Link,
		}
		if len(item.Categories) > 0 {
			e.FormType = item.Categories[0]
		}
		if item.UpdatedParsed != nil {
			e.Filed = *item.UpdatedParsed
		} else if item.PublishedParsed != nil {
			e.Filed = *item.PublishedParsed
		}
		entries = append(entries, e)
	}
	return entries
}
