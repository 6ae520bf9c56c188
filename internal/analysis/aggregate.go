package analysis

import (
	"gonum.org/v1/gonum/stat"

	"IPOSentinel/internal/model"
)

// Aggregate condenses a summary table into cohort-level figures.
type Aggregate struct {
	Tickers       int
	Gainers       int
	Ongoing       int
	MeanPctChange float64
	MeanPeakGain  float64
	MeanSellDay   float64
}

// AggregateSummary computes cohort figures over every row of table.
// An empty table yields a zero Aggregate.
func AggregateSummary(table *model.SummaryTable) Aggregate {
	agg := Aggregate{Tickers: table.Len()}
	if agg.Tickers == 0 {
		return agg
	}
	changes := make([]float64, agg.Tickers)
	peaks := make([]float64, agg.Tickers)
	days := make([]float64, agg.Tickers)
	for i, row := range table.Rows {
		changes[i] = row.PctOverallChange
		peaks[i] = row.OSDMaxPctGain
		days[i] = float64(row.OSD)
		if row.PctOverallChange > 0 {
			agg.Gainers++
		}
		if row.OSDOngoing {
			agg.Ongoing++
		}
	}
	agg.MeanPctChange = stat.Mean(changes, nil)
	agg.MeanPeakGain = stat.Mean(peaks, nil)
	agg.MeanSellDay = stat.Mean(days, nil)
	return agg
}
