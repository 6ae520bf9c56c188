package model

import "time"

// TickerMetrics holds the derived performance figures of one ticker.
type TickerMetrics struct {
	Index            int       `json:"index"`
	Ticker           string    `json:"ticker"`
	PctOverallChange float64   `json:"pct_overall_change"`
	OSD              int       `json:"osd"`
	OSDMaxPctGain    float64   `json:"osd_max_pct_gain"`
	OSDOngoing       bool      `json:"osd_ongoing"`
	Bars             int       `json:"bars"`
	FirstDate        time.Time `json:"first_date"`
	LastDate         time.Time `json:"last_date"`
	MaxDrawdownPct   float64   `json:"max_drawdown_pct"`
}

// SummaryTable is the per-ticker metric set of one run, indexed from 0.
type SummaryTable struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        []TickerMetrics `json:"rows"`
}

// Len returns the number of rows.
func (t *SummaryTable) Len() int { return len(t.Rows) }
