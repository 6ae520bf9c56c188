package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"IPOSentinel/internal/analysis"
	"IPOSentinel/internal/collector"
	"IPOSentinel/internal/config"
	"IPOSentinel/internal/logging"
	"IPOSentinel/internal/recorder"
)

var cfgPath string

var rootCMD = &cobra.Command{
	Use:   "iposentinel",
	Short: "Performance summary of recently listed stocks",
	Long: `IPOSentinel fetches daily price history for recent IPOs and reports,
per ticker, the change since listing and the day the price peaked.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCMD.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "path to the YAML config file")
	rootCMD.AddCommand(summaryCMD, serveCMD)
}

// app bundles what every subcommand needs.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) fetcher() collector.Fetcher {
	switch a.cfg.DataSource.Provider {
	case config.ProviderAlpaca:
		return collector.NewAlpacaFetcher(a.cfg.Alpaca.APIKey, a.cfg.Alpaca.APISecret)
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 20}
	default:
		return collector.NewYahooFetcher(a.cfg.Proxy)
	}
}

func (a *app) lister() collector.Lister {
	if a.cfg.IPOSource.URL != "" {
		maxAge := time.Duration(a.cfg.IPOSource.MaxAgeDays) * 24 * time.Hour
		return collector.NewHTMLLister(a.cfg.IPOSource.URL, maxAge, a.cfg.Proxy)
	}
	return &collector.StaticLister{Tickers: a.cfg.IPOSource.Tickers}
}

// trackerFactory returns a constructor for fresh Trackers sharing one fetcher and lister.
func (a *app) trackerFactory() (func() *analysis.Tracker, string) {
	fetcher := a.fetcher()
	lister := a.lister()
	opts := analysis.Options{
		Lookback:     time.Duration(a.cfg.Analysis.LookbackDays) * 24 * time.Hour,
		OSDThreshold: a.cfg.Analysis.OSDThreshold,
		Concurrency:  a.cfg.Analysis.FetchConcurrency,
		Logger:       a.log,
	}
	return func() *analysis.Tracker {
		return analysis.NewTracker(lister, fetcher, opts)
	}, fetcher.Name()
}

// recorder opens the SQLite recorder, falling back to a no-op one.
func (a *app) recorder() recorder.Recorder {
	if a.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath, a.log)
	if err != nil {
		a.log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return sr
}
