package research

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/edgarsift/edgarsift/internal/analysis/analyst"
	"github.com/edgarsift/edgarsift/internal/infra"
	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/pkg/models"
)

const forecastURL = "https://stockanalysis.com/stocks/%s/forecast/"

// ---- AnalystRatings fetcher ----

type ratingsFetcher struct {
	provider.BaseFetcher
	file   string
	scrape bool
}

func newRatingsFetcher(file string, scrape bool) *ratingsFetcher {
	return &ratingsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelAnalystRatings,
			"Analyst ratings from the local research CSV",
			[]string{provider.ParamSymbol},
			nil,
			10*time.Minute, 2, time.Second,
		),
		file:   file,
		scrape: scrape,
	}
}

func (f *ratingsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(params[provider.ParamSymbol]))

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	bySymbol, err := readRatingsFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("research ratings file: %w", err)
	}

	ratings := bySymbol[symbol]
	if len(ratings) == 0 && f.scrape {
		if err := f.RateLimit(ctx); err != nil {
			return nil, err
		}
		scraped, err := scrapeForecast(ctx, symbol)
		if err == nil {
			ratings = scraped
		}
		// Scrape failures degrade to no coverage; the file is the source
		// of record and the page is best-effort.
	}

	f.CacheSet(cacheKey, ratings)
	return newResult(ratings), nil
}

// readRatingsFile parses the research CSV into per-ticker rating sets.
// Expected columns: ticker, source, rating[, price_target]. The rating is
// either the 1-5 analyst scale or a textual label. A missing file yields an
// empty map: no coverage, not an error.
func readRatingsFile(path string) (map[string][]models.AnalystRating, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]models.AnalystRating{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // price_target column is optional per row

	bySymbol := make(map[string][]models.AnalystRating)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(rec[0]), "ticker") {
				continue
			}
		}
		if len(rec) < 3 {
			continue
		}

		ticker := strings.ToUpper(strings.TrimSpace(rec[0]))
		if ticker == "" {
			continue
		}
		rating := models.AnalystRating{
			Source: strings.TrimSpace(rec[1]),
			Label:  analyst.NormalizeLabel(rec[2]),
		}
		if len(rec) > 3 {
			if target, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64); err == nil && target > 0 {
				rating.PriceTarget = &target
			}
		}
		bySymbol[ticker] = append(bySymbol[ticker], rating)
	}

	return bySymbol, nil
}

// scrapeForecast pulls the consensus rating and mean price target from a
// public forecast page.
func scrapeForecast(ctx context.Context, symbol string) ([]models.AnalystRating, error) {
	url := fmt.Sprintf(forecastURL, strings.ToLower(symbol))
	body, _, err := infra.DoGet(ctx, url, map[string]string{
		"User-Agent": infra.DefaultUserAgent,
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse forecast page for %s: %w", symbol, err)
	}

	return parseForecast(doc), nil
}

// parseForecast extracts the consensus row from a forecast document. The
// page carries the consensus label and mean target in data blocks near the
// top; anything unparseable simply yields no rating.
func parseForecast(doc *goquery.Document) []models.AnalystRating {
	label := strings.TrimSpace(doc.Find("div[data-test='consensus-rating']").First().Text())
	if label == "" {
		// Fall back to the first bolded rating word in the analyst block.
		doc.Find("div.analyst-summary span, div.analyst-summary b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			t := strings.TrimSpace(s.Text())
			if t != "" {
				label = t
				return false
			}
			return true
		})
	}
	if label == "" {
		return nil
	}

	rating := models.AnalystRating{
		Source: "consensus",
		Label:  analyst.NormalizeLabel(label),
	}

	targetText := strings.TrimSpace(doc.Find("div[data-test='price-target']").First().Text())
	if target, ok := parseDollar(targetText); ok {
		rating.PriceTarget = &target
	}

	return []models.AnalystRating{rating}
}

// parseDollar parses strings like "$187.50" or "187.50".
func parseDollar(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
