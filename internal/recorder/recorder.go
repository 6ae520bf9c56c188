package recorder

import "IPOSentinel/internal/model"

// SummarySnapshot is one computed summary together with its run metadata.
type SummarySnapshot struct {
	RunID   string
	Source  string // price data provider name
	Trigger string // "SCHEDULED", "MANUAL" or "CLI"
	Table   *model.SummaryTable
}

// Recorder persists computed summaries for later comparison.
type Recorder interface {
	RecordSummary(snap *SummarySnapshot) error
	// LatestSummary returns the most recently recorded snapshot, or nil if none.
	LatestSummary() (*SummarySnapshot, error)
	Close() error
}
