package research

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/pkg/models"
)

func writeRatingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "research.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRatingsFile(t *testing.T) {
	path := writeRatingsFile(t, `ticker,source,rating,price_target
AAPL,zacks,2,210.50
AAPL,consensus,buy
msft,zacks,4,
NVDA,seekingalpha,hold,180
`)

	bySymbol, err := readRatingsFile(path)
	if err != nil {
		t.Fatal(err)
	}

	aapl := bySymbol["AAPL"]
	if len(aapl) != 2 {
		t.Fatalf("AAPL ratings: %d, want 2", len(aapl))
	}
	if aapl[0].Label != models.BiasBullish {
		t.Errorf("numeric 2 should be bullish, got %s", aapl[0].Label)
	}
	if aapl[0].PriceTarget == nil || *aapl[0].PriceTarget != 210.50 {
		t.Errorf("AAPL price target: %v", aapl[0].PriceTarget)
	}
	if aapl[1].PriceTarget != nil {
		t.Error("missing target column should stay nil")
	}

	msft := bySymbol["MSFT"]
	if len(msft) != 1 || msft[0].Label != models.BiasBearish {
		t.Errorf("lowercase ticker / numeric 4: %+v", msft)
	}
	if msft[0].PriceTarget != nil {
		t.Error("empty target field should stay nil")
	}

	if bySymbol["NVDA"][0].Label != models.BiasNeutral {
		t.Errorf("hold should be neutral")
	}
}

func TestReadRatingsFileMissing(t *testing.T) {
	bySymbol, err := readRatingsFile(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(bySymbol) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(bySymbol))
	}
}

func TestFetchNoCoverage(t *testing.T) {
	path := writeRatingsFile(t, "ticker,source,rating\nAAPL,zacks,buy\n")
	f := newRatingsFetcher(path, false)

	res, err := f.Fetch(context.Background(), provider.QueryParams{provider.ParamSymbol: "ZZZ"})
	if err != nil {
		t.Fatalf("no coverage must not error: %v", err)
	}
	ratings := res.Data.([]models.AnalystRating)
	if len(ratings) != 0 {
		t.Fatalf("expected no ratings, got %d", len(ratings))
	}
}

func TestFetchCoveredSymbol(t *testing.T) {
	path := writeRatingsFile(t, "ticker,source,rating,price_target\nGE,zacks,1,205\nGE,consensus,sell\n")
	f := newRatingsFetcher(path, false)

	res, err := f.Fetch(context.Background(), provider.QueryParams{provider.ParamSymbol: "ge"})
	if err != nil {
		t.Fatal(err)
	}
	ratings := res.Data.([]models.AnalystRating)
	if len(ratings) != 2 {
		t.Fatalf("got %d ratings, want 2", len(ratings))
	}
	if ratings[0].Label != models.BiasBullish || ratings[1].Label != models.BiasBearish {
		t.Errorf("labels: %s %s", ratings[0].Label, ratings[1].Label)
	}
}

func TestParseForecast(t *testing.T) {
	html := `<html><body>
	  <div data-test="consensus-rating">Strong Buy</div>
	  <div data-test="price-target">$187.50</div>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	ratings := parseForecast(doc)
	if len(ratings) != 1 {
		t.Fatalf("got %d ratings, want 1", len(ratings))
	}
	if ratings[0].Label != models.BiasBullish || ratings[0].Source != "consensus" {
		t.Errorf("rating: %+v", ratings[0])
	}
	if ratings[0].PriceTarget == nil || *ratings[0].PriceTarget != 187.50 {
		t.Errorf("target: %v", ratings[0].PriceTarget)
	}
}

func TestParseForecastEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if got := parseForecast(doc); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestParseDollar(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$187.50", 187.50, true},
		{"1,250.00", 1250, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"$-5", 0, false},
	}
	for _, c := range cases {
		got, ok := parseDollar(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseDollar(%q) = %v, %v", c.in, got, ok)
		}
	}
}
