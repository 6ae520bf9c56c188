package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the daily bars of one ticker in chronological order.
// Index 0 is the first trading day inside the lookback window.
type PriceSeries struct {
	Ticker string
	Bars   []OHLCV
}

// Len returns the number of trading days in the series.
func (s PriceSeries) Len() int { return len(s.Bars) }

// PriceHistory maps tickers to their series. Order keeps the candidate
// order of the tickers whose fetch succeeded.
type PriceHistory struct {
	Order  []string
	Series map[string]PriceSeries
}

// Len returns the number of tickers with data.
func (h *PriceHistory) Len() int { return len(h.Order) }

// Get returns the series for ticker, if present.
func (h *PriceHistory) Get(ticker string) (PriceSeries, bool) {
	s, ok := h.Series[ticker]
	return s, ok
}
