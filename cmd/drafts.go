package main

import (
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ldgenealogie/outreach-cli/internal/outreach"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// draftsOptions are the flags of the client and invoice commands.
type draftsOptions struct {
	env      envFlags
	rows     string
	sheet    string
	workbook string
}

var (
	clientOpts  draftsOptions
	invoiceOpts draftsOptions
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Draft the settlement email for invoice sheet rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDrafts(cmd, "client", &clientOpts)
	},
}

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Draft the invoice email for invoice sheet rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDrafts(cmd, "invoice", &invoiceOpts)
	},
}

func runDrafts(cmd *cobra.Command, kind string, o *draftsOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rows := parseRows(o.rows)
	if len(rows) == 0 {
		return eris.Errorf("%s: no valid row numbers in --rows %q", kind, o.rows)
	}

	o.env.workbooks = o.workbook != ""
	env, err := initEnv(ctx, kind, o.env, os.Stdout)
	if err != nil {
		return err
	}
	defer env.Close()

	var s sheet.Sheet
	switch {
	case o.workbook != "":
		s, err = env.openWorkbook(o.workbook)
	case o.sheet != "":
		s, err = env.openSheet(ctx, o.sheet)
	default:
		s, err = env.openSheet(ctx, cfg.Google.InvoiceSheetID)
	}
	if err != nil {
		return eris.Wrapf(err, "%s: open invoice sheet", kind)
	}

	runner := outreach.NewDrafts(s, env.Composer, env.Mailer, env.Options...)
	var report *outreach.Report
	if kind == "client" {
		report, err = runner.Client(ctx, rows)
	} else {
		report, err = runner.Invoice(ctx, rows)
	}
	if report != nil {
		report.Print(os.Stdout)
	}
	return err
}

// parseRows reads a comma or space separated list of row numbers. Entries
// that are not positive integers are skipped with a warning.
func parseRows(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	rows := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			zap.L().Warn("ignoring invalid row number", zap.String("value", f))
			continue
		}
		rows = append(rows, n)
	}
	return rows
}

func init() {
	for _, c := range []struct {
		cmd  *cobra.Command
		opts *draftsOptions
	}{{clientCmd, &clientOpts}, {invoiceCmd, &invoiceOpts}} {
		registerEnvFlags(c.cmd, &c.opts.env)
		c.cmd.Flags().StringVar(&c.opts.rows, "rows", "", "row numbers to draft, e.g. 7,9,12 (required)")
		c.cmd.Flags().StringVar(&c.opts.sheet, "sheet", "", "invoice sheet url or id (default google.invoice_sheet_id)")
		c.cmd.Flags().StringVar(&c.opts.workbook, "workbook", "", "local .xlsx invoice workbook instead of a Google sheet")
		_ = c.cmd.MarkFlagRequired("rows")
		rootCmd.AddCommand(c.cmd)
	}
}
