package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"IPOSentinel/internal/model"
)

// barsGetter is the part of the alpaca market data client used here.
type barsGetter interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client barsGetter
	Feed   marketdata.Feed
	Now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher bound to the given API credentials.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		Feed: marketdata.IEX,
		Now:  time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchDailyBars fetches split-adjusted daily bars between start and now.
func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, ticker string, start time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := f.Client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        f.Now(),
		Feed:       f.Feed,
	})
	if err != nil {
		if isUnknownSymbol(err) {
			return nil, fmt.Errorf("alpaca %s: %v: %w", ticker, err, ErrDataUnavailable)
		}
		return nil, fmt.Errorf("alpaca get bars %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alpaca %s: no bars returned: %w", ticker, ErrDataUnavailable)
	}

	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return out, nil
}

// isUnknownSymbol reports whether the API rejected the symbol itself.
// The market data client returns *alpaca.APIError for non-2xx responses; an
// invalid symbol comes back as 422, or as 404 naming the symbol. Errors of
// any other type fall back to matching the message.
func isUnknownSymbol(err error) bool {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		switch apiErr.StatusCode {
		case http.StatusUnprocessableEntity:
			return true
		case http.StatusNotFound:
			return strings.Contains(msg, "symbol")
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid symbol")
}
