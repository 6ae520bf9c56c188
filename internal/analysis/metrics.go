package analysis

import (
	"fmt"

	"IPOSentinel/internal/calculator"
	"IPOSentinel/internal/model"
)

// DefaultOSDThreshold is the number of trailing trading days in which a
// peak is still considered ongoing.
const DefaultOSDThreshold = 3

// ExtractMetrics computes the performance figures of one ticker's series.
// The returned row has Index 0; the aggregator assigns the final index.
func ExtractMetrics(series model.PriceSeries, osdThresh int) (model.TickerMetrics, error) {
	bars := series.Bars
	n := len(bars)
	if n == 0 {
		return model.TickerMetrics{}, fmt.Errorf("%s: %w", series.Ticker, calculator.ErrNoBars)
	}

	open := bars[0].Open
	closeLast := bars[n-1].Close

	overall, err := calculator.PercentChange(open, closeLast)
	if err != nil {
		return model.TickerMetrics{}, fmt.Errorf("%s overall change: %w", series.Ticker, err)
	}

	osd, err := calculator.OptimalSellDay(bars)
	if err != nil {
		return model.TickerMetrics{}, fmt.Errorf("%s optimal sell day: %w", series.Ticker, err)
	}
	peakGain, err := calculator.PercentChange(open, bars[osd].High)
	if err != nil {
		return model.TickerMetrics{}, fmt.Errorf("%s peak gain: %w", series.Ticker, err)
	}

	_, low, err := calculator.PeriodRange(bars)
	if err != nil {
		return model.TickerMetrics{}, fmt.Errorf("%s range: %w", series.Ticker, err)
	}
	drawdown, err := calculator.PercentChange(open, low)
	if err != nil {
		return model.TickerMetrics{}, fmt.Errorf("%s drawdown: %w", series.Ticker, err)
	}

	return model.TickerMetrics{
		Ticker:           series.Ticker,
		PctOverallChange: overall,
		OSD:              osd,
		OSDMaxPctGain:    peakGain,
		OSDOngoing:       n-osdThresh <= osd,
		Bars:             n,
		FirstDate:        bars[0].Time,
		LastDate:         bars[n-1].Time,
		MaxDrawdownPct:   drawdown,
	}, nil
}
