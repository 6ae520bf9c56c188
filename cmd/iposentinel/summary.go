package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"IPOSentinel/internal/analysis"
	"IPOSentinel/internal/model"
	"IPOSentinel/internal/recorder"
)

var (
	jsonOutput bool
	recordRun  bool
)

var summaryCMD = &cobra.Command{
	Use:   "summary",
	Short: "Compute and print the recent IPO summary once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		factory, source := a.trackerFactory()
		table, err := factory().Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("compute summary: %w", err)
		}

		if recordRun {
			rec := a.recorder()
			defer rec.Close()
			if err := rec.RecordSummary(&recorder.SummarySnapshot{
				RunID:   uuid.NewString(),
				Source:  source,
				Trigger: "CLI",
				Table:   table,
			}); err != nil {
				a.log.Error("record summary", zap.Error(err))
			}
		}

		if jsonOutput {
			return writeJSON(os.Stdout, table)
		}
		return writeTable(os.Stdout, table)
	},
}

func init() {
	summaryCMD.Flags().BoolVar(&jsonOutput, "json", false, "print the summary as JSON")
	summaryCMD.Flags().BoolVar(&recordRun, "record", false, "store the summary in the configured SQLite database")
}

func writeJSON(w io.Writer, table *model.SummaryTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = w.Write(pretty.Pretty(raw))
	return err
}

func writeTable(w io.Writer, table *model.SummaryTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTICKER\tCHANGE%\tOSD\tOSD_GAIN%\tONGOING\tBARS\t")
	for _, r := range table.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%+.2f\t%d\t%+.2f\t%v\t%d\t\n",
			r.Index, r.Ticker, r.PctOverallChange, r.OSD, r.OSDMaxPctGain, r.OSDOngoing, r.Bars)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	agg := analysis.AggregateSummary(table)
	_, err := fmt.Fprintf(w, "\n%d tickers, mean change %+.2f%%, mean peak gain %+.2f%%, %d peaks ongoing\n",
		agg.Tickers, agg.MeanPctChange, agg.MeanPeakGain, agg.Ongoing)
	return err
}
