// Package store persists run artifacts as CSV files in the output
// directory. Every writer truncates and rewrites its file whole, so a rerun
// on the same day replaces the previous artifacts rather than appending.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/edgarsift/edgarsift/pkg/models"
)

// File names written into the output directory.
const (
	UniverseFile  = "universe.csv"
	ScreenedFile  = "screened.csv"
	WatchlistFile = "watchlist_valuations.csv"
	SignalsFile   = "signals.csv"
)

// rationaleSep joins the rule trail into a single CSV field. Rule names
// never contain it.
const rationaleSep = "|"

// Store writes run artifacts under a single output directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory path.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path of a file inside the output directory.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// WriteUniverse persists the screening universe.
func (s *Store) WriteUniverse(companies []models.Company) error {
	rows := make([][]string, 0, len(companies)+1)
	rows = append(rows, []string{"cik", "ticker", "name"})
	for _, c := range companies {
		rows = append(rows, []string{c.CIK, c.Ticker, c.Name})
	}
	return s.writeCSV(UniverseFile, rows)
}

// ScreenedRow is one company's revenue-screen verdict.
type ScreenedRow struct {
	Company models.Company
	Result  models.TrendResult
}

// WriteScreened persists every screened company with its verdict, passes
// and failures alike, so a run's negative results stay inspectable.
func (s *Store) WriteScreened(screened []ScreenedRow) error {
	rows := make([][]string, 0, len(screened)+1)
	rows = append(rows, []string{"ticker", "cik", "name", "passes", "reason"})
	for _, r := range screened {
		rows = append(rows, []string{
			r.Company.Ticker,
			r.Company.CIK,
			r.Company.Name,
			strconv.FormatBool(r.Result.Passes),
			string(r.Result.Reason),
		})
	}
	return s.writeCSV(ScreenedFile, rows)
}

// WriteWatchlistValuations persists the raw valuation snapshots for the
// watchlist, before tiering.
func (s *Store) WriteWatchlistValuations(snaps []*models.ValuationSnapshot) error {
	rows := make([][]string, 0, len(snaps)+1)
	rows = append(rows, []string{
		"ticker", "name", "sector", "industry",
		"price", "market_cap", "trailing_pe", "forward_pe", "peg_ratio", "beta",
	})
	for _, sn := range snaps {
		rows = append(rows, []string{
			sn.Ticker, sn.Name, sn.Sector, sn.Industry,
			formatFloat(sn.Price), formatFloat(sn.MarketCap),
			formatFloat(sn.TrailingPE), formatFloat(sn.ForwardPE),
			formatFloat(sn.PEGRatio), formatFloat(sn.Beta),
		})
	}
	return s.writeCSV(WatchlistFile, rows)
}

// WriteSignals persists the final per-ticker signals. The rationale trail
// is joined into one field so the file round-trips through spreadsheets.
func (s *Store) WriteSignals(signals []models.Signal) error {
	rows := make([][]string, 0, len(signals)+1)
	rows = append(rows, []string{
		"ticker", "name", "sector", "industry", "run_date",
		"revenue_flag", "valuation_tier", "forward_improves",
		"analyst_bias_label", "analyst_bias_score", "ratings",
		"recommendation", "rationale",
	})
	for _, sig := range signals {
		rows = append(rows, []string{
			sig.Ticker, sig.Name, sig.Sector, sig.Industry,
			sig.RunDate.Format("2006-01-02"),
			strconv.FormatBool(sig.RevenueFlag),
			string(sig.Tier),
			strconv.FormatBool(sig.ForwardImproves),
			string(sig.Bias.Label),
			strconv.FormatFloat(sig.Bias.Score, 'f', -1, 64),
			strconv.Itoa(sig.Bias.Ratings),
			string(sig.Recommendation),
			strings.Join(sig.Rationale, rationaleSep),
		})
	}
	return s.writeCSV(SignalsFile, rows)
}

// ReadSignals reads back a signals file written by WriteSignals. Used by
// the status command and by report building.
func (s *Store) ReadSignals() ([]models.Signal, error) {
	f, err := os.Open(s.Path(SignalsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", SignalsFile, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	signals := make([]models.Signal, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 13 {
			continue
		}
		sig := models.Signal{
			Ticker:   rec[0],
			Name:     rec[1],
			Sector:   rec[2],
			Industry: rec[3],
			Tier:     models.ValuationTier(rec[6]),
			Bias: models.AnalystBias{
				Label: models.BiasLabel(rec[8]),
			},
			Recommendation: models.Recommendation(rec[11]),
		}
		sig.RunDate, _ = parseDate(rec[4])
		sig.RevenueFlag, _ = strconv.ParseBool(rec[5])
		sig.ForwardImproves, _ = strconv.ParseBool(rec[7])
		sig.Bias.Score, _ = strconv.ParseFloat(rec[9], 64)
		sig.Bias.Ratings, _ = strconv.Atoi(rec[10])
		if rec[12] != "" {
			sig.Rationale = strings.Split(rec[12], rationaleSep)
		}
		signals = append(signals, sig)
	}
	return signals, nil
}

// writeCSV writes rows to name atomically: a temp file in the same
// directory renamed over the target, so readers never observe a half
// written artifact.
func (s *Store) writeCSV(name string, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
