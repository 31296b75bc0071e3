package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ldgenealogie/outreach-cli/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled outreach actions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("history"); err != nil {
			return err
		}
		st, err := journal.Open(ctx, cfg.Journal)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("history: journal is disabled (journal.driver is none)")
		}
		defer st.Close() //nolint:errcheck

		runID, _ := cmd.Flags().GetString("run")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := st.List(ctx, journal.Filter{RunID: runID, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "history")
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No journal entries found.")
			return nil
		}

		formatHistory(os.Stdout, entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "max number of entries to display")
	historyCmd.Flags().String("run", "", "only show entries of this run id")
	rootCmd.AddCommand(historyCmd)
}

// formatHistory writes a tabular list of journal entries to w.
func formatHistory(out io.Writer, entries []journal.Entry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN\tROW\tCASE\tNOTARY\tACTION\tOUTCOME\tCREATED")
	_, _ = fmt.Fprintln(w, "---\t---\t----\t------\t------\t-------\t-------")

	for _, e := range entries {
		outcome := e.Outcome
		if e.Error != "" {
			outcome = "error: " + truncate(e.Error, 40)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			truncate(e.RunID, 8),
			e.CaseRow,
			truncate(e.CaseName, 30),
			truncate(e.NotaryName, 30),
			e.Action,
			outcome,
			e.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
