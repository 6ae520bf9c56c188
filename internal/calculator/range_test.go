package calculator

import (
	"errors"
	"testing"

	"IPOSentinel/internal/model"
)

func barsWithHighs(highs ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(highs))
	for i, h := range highs {
		bars[i] = model.OHLCV{Open: 10, High: h, Low: h - 1, Close: h - 0.5}
	}
	return bars
}

func TestOptimalSellDay(t *testing.T) {
	tests := []struct {
		name  string
		highs []float64
		want  int
	}{
		{"single bar", []float64{12}, 0},
		{"peak at start", []float64{15, 12, 11}, 0},
		{"peak in middle", []float64{10, 14, 18, 13}, 2},
		{"peak at end", []float64{10, 11, 12, 13}, 3},
		{"tie resolves to first", []float64{10, 20, 15, 20, 20}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := barsWithHighs(tt.highs...)
			got, err := OptimalSellDay(bars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
			if got < 0 || got >= len(bars) {
				t.Fatalf("index %d out of range", got)
			}
			for _, b := range bars {
				if b.High > bars[got].High {
					t.Errorf("bar high %.2f exceeds peak %.2f", b.High, bars[got].High)
				}
			}
		})
	}
}

func TestOptimalSellDay_Empty(t *testing.T) {
	if _, err := OptimalSellDay(nil); !errors.Is(err, ErrNoBars) {
		t.Errorf("expected ErrNoBars, got %v", err)
	}
}

func TestPeriodRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 12, Low: 9},
		{High: 15, Low: 11},
		{High: 13, Low: 8},
	}
	high, low, err := PeriodRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 15 || low != 8 {
		t.Errorf("expected 15/8, got %.1f/%.1f", high, low)
	}
	if _, _, err := PeriodRange(nil); !errors.Is(err, ErrNoBars) {
		t.Errorf("expected ErrNoBars, got %v", err)
	}
}
