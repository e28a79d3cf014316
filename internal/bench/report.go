package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/scylladb/termtables"
)

// Output formats accepted by WriteReports.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// RenderTable formats reports as a terminal table.
func RenderTable(reports []*Report) string {
	view := termtables.CreateTable()
	view.AddHeaders("Scenario", "Backend", "Total", "P50 (ms)", "P95 (ms)", "P99 (ms)", "Server mean (ms)", "Req/s", "Errors")

	for _, r := range reports {
		view.AddRow(
			r.Scenario,
			r.Backend,
			r.LastTotal,
			ms(r.Latency.P50),
			ms(r.Latency.P95),
			ms(r.Latency.P99),
			ms(r.ServerTimeMean),
			fmt.Sprintf("%.0f", r.RequestsPerSecond),
			r.ErrorCount,
		)
	}

	return view.Render()
}

// WriteReports writes reports to w in the given format.
func WriteReports(w io.Writer, reports []*Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case FormatTable, "":
		_, err := fmt.Fprintln(w, RenderTable(reports))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d)/float64(time.Millisecond))
}
