// edgarsift — SEC revenue screening and signal generation.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edgarsift/edgarsift/internal/config"
	"github.com/edgarsift/edgarsift/internal/logging"
	"github.com/edgarsift/edgarsift/internal/pipeline"
	"github.com/edgarsift/edgarsift/internal/provider"
	"github.com/edgarsift/edgarsift/internal/providers/research"
	"github.com/edgarsift/edgarsift/internal/providers/sec"
	"github.com/edgarsift/edgarsift/internal/providers/yahoo"
	"github.com/edgarsift/edgarsift/internal/report"
	"github.com/edgarsift/edgarsift/internal/store"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "edgarsift",
	Short: "edgarsift — SEC revenue screening and signal generation",
	Long: `edgarsift screens the SEC filing universe for companies with sustained
quarterly revenue growth, tiers the survivors and your watchlist by
valuation, folds in analyst research, and emits deterministic
BUY/HOLD/SELL signals with a full rationale trail.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildPipeline assembles the provider registry, store, and pipeline from
// the loaded config.
func buildPipeline() (*pipeline.Pipeline, *store.Store, zerolog.Logger, error) {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	reg := provider.NewRegistry()
	providers := []provider.Provider{
		sec.New(cfg.SEC.UserAgent, cfg.SEC.RateLimit),
		yahoo.New(),
		research.New(cfg.Research.File, cfg.Research.Scrape),
	}
	for _, p := range providers {
		if err := reg.Register(p); err != nil {
			return nil, nil, log, fmt.Errorf("register provider: %w", err)
		}
	}

	st, err := store.New(cfg.Output.Dir)
	if err != nil {
		return nil, nil, log, err
	}

	return pipeline.New(cfg, reg, st, log), st, log, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edgarsift %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full screening pipeline",
	Long: `Download the SEC ticker universe, screen every company for sustained
quarterly revenue growth, fetch valuations and analyst research for the
survivors plus the watchlist, classify each ticker, and write all
artifacts to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, st, _, err := buildPipeline()
		if err != nil {
			return err
		}

		res, err := p.Run(cmd.Context(), time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("universe: %d  passed screen: %d  failed fetches: %d\n\n",
			res.UniverseSize, len(res.Passed), len(res.Failed))
		fmt.Print(report.Summary(res.Signals))
		fmt.Printf("\nartifacts written to %s\n", st.Dir())
		return nil
	},
}

// --- Screen Command ---

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run only the revenue screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, st, _, err := buildPipeline()
		if err != nil {
			return err
		}

		res, err := p.Screen(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("screened %d companies, %d passed\n", len(res.Screened), len(res.Passed))
		for _, c := range res.Passed {
			fmt.Printf("  %-6s %s\n", c.Ticker, c.Name)
		}
		fmt.Printf("\nresults written to %s\n", st.Path(store.ScreenedFile))
		return nil
	},
}

// --- Watchlist Command ---

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Fetch valuation snapshots for the watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, st, _, err := buildPipeline()
		if err != nil {
			return err
		}

		snaps, err := p.Watchlist(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%-6s %-12s %-12s %s\n", "TICKER", "TRAILING PE", "FORWARD PE", "SECTOR")
		for _, s := range snaps {
			fmt.Printf("%-6s %-12s %-12s %s\n",
				s.Ticker, formatPE(s.TrailingPE), formatPE(s.ForwardPE), s.Sector)
		}
		fmt.Printf("\nsnapshots written to %s\n", st.Path(store.WatchlistFile))
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run's signals and configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, _, err := buildPipeline()
		if err != nil {
			return err
		}

		signals, err := st.ReadSignals()
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("no previous run found; use `edgarsift run` first")
				return nil
			}
			return err
		}

		if len(signals) > 0 {
			fmt.Printf("last run: %s (%d signals)\n\n",
				signals[0].RunDate.Format("2006-01-02"), len(signals))
		}
		fmt.Print(report.Summary(signals))
		return nil
	},
}

func formatPE(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
