// Package pipeline orchestrates a screening run: universe download, the
// concurrent revenue screen, valuation and ratings enrichment for the
// surviving tickers plus the watchlist, classification, and persistence.
//
// A run is deterministic for fixed inputs and idempotent on disk: every
// artifact is rewritten whole, keyed only by the output directory. Ticker
// failures never abort a run; a failed ticker is logged, counted, and
// carried through with its data marked missing.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edgarsift/edgarsift/internal/analysis/analyst"
	"github.com/edgarsift/edgarsift/internal/analysis/revenue"
	"github.com/edgarsift/edgarsift/internal/analysis/signal"
	"github.com/edgarsift/edgarsift/internal/analysis/valuation"
	"github.com/edgarsift/edgarsift/internal/config"
	"github.com/edgarsift/edgarsift/internal/infra"
	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/internal/providers/sec"
	"github.com/edgarsift/edgarsift/internal/report"
	"github.com/edgarsift/edgarsift/internal/store"
	"github.com/edgarsift/edgarsift/pkg/models"
)

// Pipeline wires the providers, analysis stages, and the store together.
type Pipeline struct {
	cfg      *config.Config
	registry *provider.Registry
	store    *store.Store
	log      zerolog.Logger
}

// New creates a pipeline over an already-populated provider registry.
func New(cfg *config.Config, registry *provider.Registry, st *store.Store, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		store:    st,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// RunResult summarizes one completed run.
type RunResult struct {
	RunDate      time.Time
	UniverseSize int
	Screened     []store.ScreenedRow
	Passed       []models.Company
	Signals      []models.Signal
	Failed       []string // tickers whose fetches failed after retries
}

// Run executes the full pipeline for runDate and persists all artifacts.
func (p *Pipeline) Run(ctx context.Context, runDate time.Time) (*RunResult, error) {
	res := &RunResult{RunDate: runDate.Truncate(24 * time.Hour)}

	universe, err := p.fetchUniverse(ctx)
	if err != nil {
		return nil, err
	}
	res.UniverseSize = len(universe)
	if err := p.store.WriteUniverse(universe); err != nil {
		return nil, err
	}

	res.Screened, res.Failed = p.screenCompanies(ctx, universe)
	if err := p.store.WriteScreened(res.Screened); err != nil {
		return nil, err
	}
	for _, row := range res.Screened {
		if row.Result.Passes {
			res.Passed = append(res.Passed, row.Company)
		}
	}
	p.log.Info().
		Int("universe", res.UniverseSize).
		Int("screened", len(res.Screened)).
		Int("passed", len(res.Passed)).
		Int("failed", len(res.Failed)).
		Msg("revenue screen complete")

	targets := p.targets(res.Passed)

	snapshots, snapFailed := p.fetchSnapshots(ctx, targets)
	res.Failed = append(res.Failed, snapFailed...)

	watchSnaps := make([]*models.ValuationSnapshot, 0, len(p.cfg.Watchlist))
	for _, t := range p.normalizedWatchlist() {
		if snap := snapshots[t]; snap != nil {
			watchSnaps = append(watchSnaps, snap)
		}
	}
	if err := p.store.WriteWatchlistValuations(watchSnaps); err != nil {
		return nil, err
	}

	ratings := p.fetchRatings(ctx, targets)
	filings := p.fetchFilings(ctx, targets, universe)

	res.Signals = p.buildSignals(res, targets, universe, snapshots, ratings)
	if err := p.store.WriteSignals(res.Signals); err != nil {
		return nil, err
	}

	prompt := report.BuildResearchPrompt(targets, filings)
	if err := writeFile(p.store.Path(report.ResearchPromptFile), prompt); err != nil {
		return nil, err
	}

	p.log.Info().
		Int("signals", len(res.Signals)).
		Str("dir", p.store.Dir()).
		Msg("run complete")
	return res, nil
}

// Screen runs only the universe download and revenue screen stages.
func (p *Pipeline) Screen(ctx context.Context) (*RunResult, error) {
	res := &RunResult{RunDate: time.Now().Truncate(24 * time.Hour)}

	universe, err := p.fetchUniverse(ctx)
	if err != nil {
		return nil, err
	}
	res.UniverseSize = len(universe)
	if err := p.store.WriteUniverse(universe); err != nil {
		return nil, err
	}

	res.Screened, res.Failed = p.screenCompanies(ctx, universe)
	if err := p.store.WriteScreened(res.Screened); err != nil {
		return nil, err
	}
	for _, row := range res.Screened {
		if row.Result.Passes {
			res.Passed = append(res.Passed, row.Company)
		}
	}
	return res, nil
}

// Watchlist fetches and persists valuation snapshots for the watchlist only.
func (p *Pipeline) Watchlist(ctx context.Context) ([]*models.ValuationSnapshot, error) {
	tickers := p.normalizedWatchlist()
	snapshots, _ := p.fetchSnapshots(ctx, tickers)

	snaps := make([]*models.ValuationSnapshot, 0, len(tickers))
	for _, t := range tickers {
		if snap := snapshots[t]; snap != nil {
			snaps = append(snaps, snap)
		}
	}
	if err := p.store.WriteWatchlistValuations(snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// --- Stages ---

func (p *Pipeline) fetchUniverse(ctx context.Context) ([]models.Company, error) {
	params := provider.QueryParams{provider.ParamProvider: "sec"}
	if p.cfg.Screen.MaxTickers > 0 {
		params[provider.ParamLimit] = fmt.Sprintf("%d", p.cfg.Screen.MaxTickers)
	}

	var companies []models.Company
	err := p.retry(ctx, func() error {
		res, err := p.registry.Fetch(ctx, provider.ModelTickerUniverse, params)
		if err != nil {
			return err
		}
		var ok bool
		companies, ok = res.Data.([]models.Company)
		if !ok {
			return fmt.Errorf("unexpected universe payload %T", res.Data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch ticker universe: %w", err)
	}
	return companies, nil
}

// screenCompanies runs the revenue screen over the universe with a bounded
// worker pool. Results keep universe order via index addressing; no output
// depends on goroutine scheduling.
func (p *Pipeline) screenCompanies(ctx context.Context, universe []models.Company) ([]store.ScreenedRow, []string) {
	rows := make([]store.ScreenedRow, len(universe))
	failed := make([]bool, len(universe))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Screen.Concurrency)

	for i, company := range universe {
		g.Go(func() error {
			series, err := p.fetchRevenueSeries(gctx, company)
			if err != nil {
				p.log.Warn().Str("ticker", company.Ticker).Err(err).Msg("revenue fetch failed")
				failed[i] = true
				rows[i] = store.ScreenedRow{
					Company: company,
					Result:  models.TrendResult{Passes: false, Reason: models.TrendMissingData},
				}
				return nil
			}
			rows[i] = store.ScreenedRow{
				Company: company,
				Result:  revenue.Screen(series),
			}
			return nil
		})
	}
	g.Wait() // workers never return errors; Wait only drains the pool

	var failedTickers []string
	for i, f := range failed {
		if f {
			failedTickers = append(failedTickers, universe[i].Ticker)
		}
	}
	return rows, failedTickers
}

func (p *Pipeline) fetchRevenueSeries(ctx context.Context, company models.Company) (*models.RevenueSeries, error) {
	params := provider.QueryParams{
		provider.ParamProvider: "sec",
		provider.ParamCIK:      company.CIK,
		provider.ParamSymbol:   company.Ticker,
	}

	var series *models.RevenueSeries
	err := p.retry(ctx, func() error {
		res, err := p.registry.Fetch(ctx, provider.ModelRevenueSeries, params)
		if err != nil {
			return err
		}
		var ok bool
		series, ok = res.Data.(*models.RevenueSeries)
		if !ok {
			return fmt.Errorf("unexpected revenue payload %T", res.Data)
		}
		return nil
	})
	return series, err
}

// fetchSnapshots retrieves valuation snapshots for tickers concurrently.
// A ticker that fails after retries is reported in the second return and
// simply absent from the map: downstream tiering treats it as Unknown.
func (p *Pipeline) fetchSnapshots(ctx context.Context, tickers []string) (map[string]*models.ValuationSnapshot, []string) {
	var mu sync.Mutex
	snapshots := make(map[string]*models.ValuationSnapshot, len(tickers))
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Screen.Concurrency)

	for _, ticker := range tickers {
		g.Go(func() error {
			var snap *models.ValuationSnapshot
			err := p.retry(gctx, func() error {
				res, err := p.registry.Fetch(gctx, provider.ModelValuationSnapshot, provider.QueryParams{
					provider.ParamProvider: "yahoo",
					provider.ParamSymbol:   ticker,
				})
				if err != nil {
					return err
				}
				var ok bool
				snap, ok = res.Data.(*models.ValuationSnapshot)
				if !ok {
					return fmt.Errorf("unexpected valuation payload %T", res.Data)
				}
				return nil
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.Warn().Str("ticker", ticker).Err(err).Msg("valuation fetch failed")
				failed = append(failed, ticker)
				return nil
			}
			snapshots[ticker] = snap
			return nil
		})
	}
	g.Wait()

	sort.Strings(failed)
	return snapshots, failed
}

// fetchRatings retrieves analyst ratings per ticker. Ratings come from a
// local file, so this stage runs sequentially; a fetch error degrades to no
// coverage for that ticker.
func (p *Pipeline) fetchRatings(ctx context.Context, tickers []string) map[string][]models.AnalystRating {
	ratings := make(map[string][]models.AnalystRating, len(tickers))
	for _, ticker := range tickers {
		res, err := p.registry.Fetch(ctx, provider.ModelAnalystRatings, provider.QueryParams{
			provider.ParamProvider: "research",
			provider.ParamSymbol:   ticker,
		})
		if err != nil {
			p.log.Warn().Str("ticker", ticker).Err(err).Msg("ratings fetch failed")
			continue
		}
		if rs, ok := res.Data.([]models.AnalystRating); ok {
			ratings[ticker] = rs
		}
	}
	return ratings
}

// fetchFilings retrieves the recent-filings feed for prompt context. Purely
// best-effort: any failure leaves the ticker without filing context.
func (p *Pipeline) fetchFilings(ctx context.Context, tickers []string, universe []models.Company) map[string][]models.FilingEntry {
	filings := make(map[string][]models.FilingEntry, len(tickers))
	for _, ticker := range tickers {
		cik, ok := sec.ResolveCIK(universe, ticker)
		if !ok {
			continue
		}
		res, err := p.registry.Fetch(ctx, provider.ModelFilingFeed, provider.QueryParams{
			provider.ParamProvider: "sec",
			provider.ParamCIK:      cik,
			provider.ParamForm:     "10-",
			provider.ParamLimit:    "5",
		})
		if err != nil {
			p.log.Debug().Str("ticker", ticker).Err(err).Msg("filing feed fetch failed")
			continue
		}
		if entries, ok := res.Data.([]models.FilingEntry); ok && len(entries) > 0 {
			filings[ticker] = entries
		}
	}
	return filings
}

// buildSignals classifies every target and assembles the sorted signal set.
func (p *Pipeline) buildSignals(res *RunResult, targets []string, universe []models.Company,
	snapshots map[string]*models.ValuationSnapshot, ratings map[string][]models.AnalystRating) []models.Signal {

	passedBy := make(map[string]models.TrendResult, len(res.Screened))
	for _, row := range res.Screened {
		passedBy[row.Company.Ticker] = row.Result
	}
	nameBy := make(map[string]string, len(universe))
	for _, c := range universe {
		nameBy[c.Ticker] = c.Name
	}

	signals := make([]models.Signal, 0, len(targets))
	for _, ticker := range targets {
		snap := snapshots[ticker]
		tier, forwardImproves := valuation.Classify(snap)
		bias := analyst.Aggregate(ratings[ticker])

		trend := passedBy[ticker] // zero value fails closed for unscreened tickers
		rec, trail := signal.Classify(signal.Inputs{
			Trend:           trend,
			Tier:            tier,
			ForwardImproves: forwardImproves,
			Bias:            bias,
		})

		sig := models.Signal{
			Ticker:          ticker,
			Name:            nameBy[ticker],
			RunDate:         res.RunDate,
			RevenueFlag:     trend.Passes,
			Tier:            tier,
			ForwardImproves: forwardImproves,
			Bias:            bias,
			PriceTargets:    analyst.Targets(ratings[ticker]),
			Recommendation:  rec,
			Rationale:       trail,
		}
		if snap != nil {
			if snap.Name != "" {
				sig.Name = snap.Name
			}
			sig.Sector = snap.Sector
			sig.Industry = snap.Industry
		}
		signals = append(signals, sig)
	}

	sort.Slice(signals, func(i, j int) bool {
		return signals[i].Ticker < signals[j].Ticker
	})
	return signals
}

// --- Helpers ---

// targets is the union of screen survivors and the watchlist, deduplicated
// and sorted. The watchlist is always fully scored regardless of the screen.
func (p *Pipeline) targets(passed []models.Company) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range passed {
		if !seen[c.Ticker] {
			seen[c.Ticker] = true
			out = append(out, c.Ticker)
		}
	}
	for _, t := range p.normalizedWatchlist() {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func (p *Pipeline) normalizedWatchlist() []string {
	out := make([]string, 0, len(p.cfg.Watchlist))
	for _, t := range p.cfg.Watchlist {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p *Pipeline) retry(ctx context.Context, fn func() error) error {
	backoff := time.Duration(p.cfg.Screen.RetryBackoff) * time.Millisecond
	return infra.Retry(ctx, p.cfg.Screen.RetryAttempts, backoff, fn)
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
