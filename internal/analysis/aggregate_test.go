package analysis

import (
	"math"
	"testing"

	"IPOSentinel/internal/model"
)

func TestAggregateSummary(t *testing.T) {
	table := &model.SummaryTable{Rows: []model.TickerMetrics{
		{Ticker: "A", PctOverallChange: 10, OSDMaxPctGain: 30, OSD: 4, OSDOngoing: true},
		{Ticker: "B", PctOverallChange: -20, OSDMaxPctGain: 5, OSD: 0},
		{Ticker: "C", PctOverallChange: 40, OSDMaxPctGain: 55, OSD: 8, OSDOngoing: true},
	}}
	agg := AggregateSummary(table)
	if agg.Tickers != 3 || agg.Gainers != 2 || agg.Ongoing != 2 {
		t.Errorf("unexpected counts %+v", agg)
	}
	if math.Abs(agg.MeanPctChange-10.0) > 1e-9 {
		t.Errorf("expected mean change 10, got %.4f", agg.MeanPctChange)
	}
	if math.Abs(agg.MeanPeakGain-30.0) > 1e-9 || math.Abs(agg.MeanSellDay-4.0) > 1e-9 {
		t.Errorf("unexpected means %+v", agg)
	}
}

func TestAggregateSummary_Empty(t *testing.T) {
	agg := AggregateSummary(&model.SummaryTable{})
	if agg != (Aggregate{}) {
		t.Errorf("expected zero aggregate, got %+v", agg)
	}
}
