package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"IPOSentinel/internal/model"
)

func sampleTable() *model.SummaryTable {
	return &model.SummaryTable{
		GeneratedAt: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Rows: []model.TickerMetrics{
			{Index: 0, Ticker: "ABCD", PctOverallChange: 12.5, OSD: 8, OSDMaxPctGain: 40, OSDOngoing: true, Bars: 10},
			{Index: 1, Ticker: "WXYZ", PctOverallChange: -20, OSD: 0, OSDMaxPctGain: 2.5, Bars: 12},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, sampleTable()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TICKER", "ABCD", "+12.50", "-20.00", "2 tickers", "1 peaks ongoing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, sampleTable()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded model.SummaryTable
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Len() != 2 || decoded.Rows[0].Ticker != "ABCD" || !decoded.Rows[0].OSDOngoing {
		t.Errorf("unexpected decoded table %+v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}
