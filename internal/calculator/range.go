package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"IPOSentinel/internal/model"
)

// ErrNoBars is returned when a calculation needs at least one bar.
var ErrNoBars = errors.New("no bars provided")

// OptimalSellDay returns the index of the bar with the highest High.
// Ties resolve to the earliest bar.
func OptimalSellDay(bars []model.OHLCV) (int, error) {
	if len(bars) == 0 {
		return 0, ErrNoBars
	}
	return floats.MaxIdx(extractHighs(bars)), nil
}

// PeriodRange returns the highest High and the lowest Low across all bars.
func PeriodRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNoBars
	}
	lows := make([]float64, len(bars))
	for i, b := range bars {
		lows[i] = b.Low
	}
	return floats.Max(extractHighs(bars)), floats.Min(lows), nil
}

func extractHighs(bars []model.OHLCV) []float64 {
	highs := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
	}
	return highs
}
