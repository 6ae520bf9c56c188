package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"IPOSentinel/internal/collector"
	"IPOSentinel/internal/model"
)

// DefaultLookback is the calendar span of price history fetched per ticker.
const DefaultLookback = 30 * 24 * time.Hour

// Options tunes a Tracker. Zero values fall back to the defaults.
type Options struct {
	Lookback     time.Duration
	OSDThreshold int
	// Concurrency is the number of fetches in flight; 1 fetches sequentially.
	Concurrency int
	Now         func() time.Time
	Logger      *zap.Logger
}

// Tracker computes recent-IPO performance. Price history and summary are
// each built once per Tracker and then served from memory.
type Tracker struct {
	lister  collector.Lister
	fetcher collector.Fetcher

	lookback    time.Duration
	osdThresh   int
	concurrency int
	now         func() time.Time
	log         *zap.Logger

	mu      sync.Mutex
	history *model.PriceHistory
	summary *model.SummaryTable
}

// NewTracker creates a Tracker over the given collaborators.
func NewTracker(lister collector.Lister, fetcher collector.Fetcher, opts Options) *Tracker {
	t := &Tracker{
		lister:      lister,
		fetcher:     fetcher,
		lookback:    opts.Lookback,
		osdThresh:   opts.OSDThreshold,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		log:         opts.Logger,
	}
	if t.lookback <= 0 {
		t.lookback = DefaultLookback
	}
	if t.osdThresh <= 0 {
		t.osdThresh = DefaultOSDThreshold
	}
	if t.concurrency <= 0 {
		t.concurrency = 1
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	return t
}

// PriceHistory returns the daily series of every candidate whose fetch
// succeeded. Tickers the provider has no data for are left out. Any other
// fetch error is returned and nothing is cached. The result must not be modified.
func (t *Tracker) PriceHistory(ctx context.Context) (*model.PriceHistory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priceHistoryLocked(ctx)
}

// Summary returns one metrics row per ticker in PriceHistory, indexed from 0.
// The result must not be modified.
func (t *Tracker) Summary(ctx context.Context) (*model.SummaryTable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.summary != nil {
		return t.summary, nil
	}
	history, err := t.priceHistoryLocked(ctx)
	if err != nil {
		return nil, err
	}

	table := &model.SummaryTable{
		GeneratedAt: t.now(),
		Rows:        make([]model.TickerMetrics, 0, history.Len()),
	}
	for _, ticker := range history.Order {
		row, err := ExtractMetrics(history.Series[ticker], t.osdThresh)
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		row.Index = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}

	t.log.Info("summary computed", zap.Int("rows", table.Len()))
	t.summary = table
	return t.summary, nil
}

func (t *Tracker) priceHistoryLocked(ctx context.Context) (*model.PriceHistory, error) {
	if t.history != nil {
		return t.history, nil
	}

	ipos, err := t.lister.RecentIPOs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recent ipos: %w", err)
	}
	tickers := uniqueTickers(ipos)
	start := t.now().Add(-t.lookback)

	results, err := t.fetchAll(ctx, tickers, start)
	if err != nil {
		return nil, err
	}

	history := &model.PriceHistory{Series: make(map[string]model.PriceSeries, len(tickers))}
	for i, ticker := range tickers {
		res := results[i]
		if res.err != nil {
			t.log.Debug("skipping ticker", zap.String("ticker", ticker), zap.Error(res.err))
			continue
		}
		history.Order = append(history.Order, ticker)
		history.Series[ticker] = model.PriceSeries{Ticker: ticker, Bars: res.bars}
	}

	t.log.Info("price history built",
		zap.String("source", t.fetcher.Name()),
		zap.Int("candidates", len(tickers)),
		zap.Int("fetched", history.Len()),
		zap.Time("start", start))
	t.history = history
	return t.history, nil
}

type fetchResult struct {
	bars []model.OHLCV
	err  error
}

// fetchAll fetches every ticker. Unavailable tickers and empty series are
// recorded in their result slot; the first other error aborts the whole call.
func (t *Tracker) fetchAll(ctx context.Context, tickers []string, start time.Time) ([]fetchResult, error) {
	results := make([]fetchResult, len(tickers))

	fetchOne := func(ctx context.Context, i int) error {
		bars, err := t.fetcher.FetchDailyBars(ctx, tickers[i], start)
		if err == nil && len(bars) == 0 {
			err = fmt.Errorf("%s: empty series: %w", tickers[i], collector.ErrDataUnavailable)
		}
		if err != nil && !errors.Is(err, collector.ErrDataUnavailable) {
			return fmt.Errorf("fetch %s: %w", tickers[i], err)
		}
		results[i] = fetchResult{bars: bars, err: err}
		return nil
	}

	if t.concurrency == 1 {
		for i := range tickers {
			if err := fetchOne(ctx, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		sem      = make(chan struct{}, t.concurrency)
	)
	for i := range tickers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			if err := fetchOne(ctx, i); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func uniqueTickers(ipos []model.RecentIPO) []string {
	seen := make(map[string]bool, len(ipos))
	tickers := make([]string, 0, len(ipos))
	for _, ipo := range ipos {
		if ipo.Ticker == "" || seen[ipo.Ticker] {
			continue
		}
		seen[ipo.Ticker] = true
		tickers = append(tickers, ipo.Ticker)
	}
	return tickers
}
