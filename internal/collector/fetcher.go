package collector

import (
	"context"
	"errors"
	"time"

	"IPOSentinel/internal/model"
)

// ErrDataUnavailable is returned when the provider has no data for a ticker:
// unknown symbol, delisted, or outside the provider's coverage.
var ErrDataUnavailable = errors.New("remote data unavailable")

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchDailyBars returns daily bars from start up to now, oldest first.
	FetchDailyBars(ctx context.Context, ticker string, start time.Time) ([]model.OHLCV, error)
	Name() string
}

// Lister supplies the candidate tickers that listed recently.
type Lister interface {
	RecentIPOs(ctx context.Context) ([]model.RecentIPO, error)
}
