package outreach

import (
	"fmt"
	"io"
)

// Report summarises one run.
type Report struct {
	RunID          string `json:"run_id"`
	Pending        int    `json:"pending"`
	Sent           int    `json:"sent"`
	Drafted        int    `json:"drafted"`
	NotCooperating int    `json:"not_cooperating"`
	Added          int    `json:"added"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
}

// Print writes the summary shown at the end of a command.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\nRun %s\n", r.RunID)
	fmt.Fprintf(w, "  pending          %d\n", r.Pending)
	fmt.Fprintf(w, "  sent             %d\n", r.Sent)
	fmt.Fprintf(w, "  drafted          %d\n", r.Drafted)
	fmt.Fprintf(w, "  not cooperating  %d\n", r.NotCooperating)
	fmt.Fprintf(w, "  notaries added   %d\n", r.Added)
	fmt.Fprintf(w, "  skipped          %d\n", r.Skipped)
	fmt.Fprintf(w, "  failed           %d\n", r.Failed)
}
