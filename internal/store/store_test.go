package store

import (
	"encoding/csv"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/edgarsift/edgarsift/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func f(v float64) *float64 { return &v }

func TestWriteUniverse(t *testing.T) {
	s := newTestStore(t)
	err := s.WriteUniverse([]models.Company{
		{CIK: "0000320193", Ticker: "AAPL", Name: "Apple Inc."},
		{CIK: "0000789019", Ticker: "MSFT", Name: "MICROSOFT CORP"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, s.Path(UniverseFile))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"cik", "ticker", "name"}) {
		t.Errorf("header: %v", rows[0])
	}
	if rows[1][1] != "AAPL" {
		t.Errorf("first row: %v", rows[1])
	}
}

func TestWriteScreened(t *testing.T) {
	s := newTestStore(t)
	err := s.WriteScreened([]ScreenedRow{
		{
			Company: models.Company{CIK: "0000000001", Ticker: "ACME", Name: "Acme"},
			Result:  models.TrendResult{Passes: true, Reason: models.TrendPassed},
		},
		{
			Company: models.Company{CIK: "0000000002", Ticker: "ZZZ", Name: "ZZZ Corp"},
			Result:  models.TrendResult{Passes: false, Reason: models.TrendNoYoYGrowth},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, s.Path(ScreenedFile))
	if rows[1][3] != "true" || rows[1][4] != "passed" {
		t.Errorf("pass row: %v", rows[1])
	}
	if rows[2][3] != "false" || rows[2][4] != "no_yoy_growth" {
		t.Errorf("fail row: %v", rows[2])
	}
}

func TestWriteWatchlistValuations(t *testing.T) {
	s := newTestStore(t)
	err := s.WriteWatchlistValuations([]*models.ValuationSnapshot{
		{Ticker: "ACME", Name: "Acme", Sector: "Technology", TrailingPE: f(28.4), ForwardPE: f(21.1)},
		{Ticker: "ZZZ"}, // all metrics missing
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, s.Path(WatchlistFile))
	if rows[1][6] != "28.4" {
		t.Errorf("trailing PE cell: %q", rows[1][6])
	}
	// Missing metrics become empty cells, never zeros.
	if rows[2][6] != "" || rows[2][7] != "" {
		t.Errorf("missing metrics: %v", rows[2])
	}
}

func TestSignalsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	runDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	in := []models.Signal{
		{
			Ticker: "ACME", Name: "Acme", Sector: "Technology", Industry: "Software",
			RunDate: runDate, RevenueFlag: true, Tier: models.TierReasonable,
			Bias:           models.AnalystBias{Score: 0.5, Label: models.BiasBullish, Ratings: 2},
			Recommendation: models.RecommendBuy,
			Rationale:      []string{"revenue_and_fair_value"},
		},
		{
			Ticker: "ZZZ", RunDate: runDate, Tier: models.TierUnknown,
			Bias:           models.AnalystBias{Label: models.BiasNeutral},
			Recommendation: models.RecommendSell,
			Rationale: []string{
				"revenue_and_fair_value", "forward_earnings_improve",
				"bullish_analysts", "overpriced_and_bearish", "purely_speculative",
			},
		},
	}
	if err := s.WriteSignals(in); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadSignals()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d signals, want 2", len(out))
	}
	if !reflect.DeepEqual(out[0], in[0]) {
		t.Errorf("first signal:\n got %+v\nwant %+v", out[0], in[0])
	}
	if len(out[1].Rationale) != 5 {
		t.Errorf("rationale trail lost: %v", out[1].Rationale)
	}
}

func TestWriteSignalsOverwrites(t *testing.T) {
	s := newTestStore(t)
	runDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	sig := models.Signal{
		Ticker: "ACME", RunDate: runDate, Tier: models.TierCheap,
		Bias:           models.AnalystBias{Label: models.BiasNeutral},
		Recommendation: models.RecommendBuy,
		Rationale:      []string{"revenue_and_fair_value"},
	}
	if err := s.WriteSignals([]models.Signal{sig, sig, sig}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteSignals([]models.Signal{sig}); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadSignals()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("rewrite did not truncate: %d rows", len(out))
	}
}

func TestReadSignalsMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ReadSignals(); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
