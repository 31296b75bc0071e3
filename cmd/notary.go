package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ldgenealogie/outreach-cli/internal/outreach"
	"github.com/ldgenealogie/outreach-cli/internal/registry"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

var (
	notaryFlags            envFlags
	notaryWorkbook         string
	notaryRegistryWorkbook string
)

var notaryCmd = &cobra.Command{
	Use:   "notary [sheet-url-or-id]",
	Short: "Contact the notaries of every pending case",
	Long: "Reads the case sheet, matches each pending case's notary against the registry, " +
		"then sends the next email, creates a draft when attempts are exhausted, or skips " +
		"notaries that refused to cooperate. Outcomes are written back to both sheets.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		notaryFlags.workbooks = notaryWorkbook != ""
		if notaryFlags.workbooks == (len(args) == 1) {
			return eris.New("notary: give either a case sheet url/id or --workbook")
		}
		if notaryFlags.workbooks && notaryRegistryWorkbook == "" {
			return eris.New("notary: --registry-workbook is required with --workbook")
		}

		env, err := initEnv(ctx, "notary", notaryFlags, os.Stdout)
		if err != nil {
			return err
		}
		defer env.Close()

		cases, reg, err := openNotarySheets(ctx, env, args)
		if err != nil {
			return err
		}

		runner := outreach.NewNotary(cases, registry.New(reg), env.Composer, env.Mailer, env.Options...)
		report, err := runner.Run(ctx)
		if report != nil {
			report.Print(os.Stdout)
		}
		return err
	},
}

func openNotarySheets(ctx context.Context, env *outreachEnv, args []string) (sheet.Sheet, sheet.Sheet, error) {
	if notaryFlags.workbooks {
		cases, err := env.openWorkbook(notaryWorkbook)
		if err != nil {
			return nil, nil, err
		}
		reg, err := env.openWorkbook(notaryRegistryWorkbook)
		if err != nil {
			return nil, nil, err
		}
		return cases, reg, nil
	}

	cases, err := env.openSheet(ctx, args[0])
	if err != nil {
		return nil, nil, eris.Wrap(err, "notary: open case sheet")
	}
	reg, err := env.openSheet(ctx, cfg.Google.RegistrySheetID)
	if err != nil {
		return nil, nil, eris.Wrap(err, "notary: open registry")
	}
	return cases, reg, nil
}

func init() {
	registerEnvFlags(notaryCmd, &notaryFlags)
	notaryCmd.Flags().StringVar(&notaryWorkbook, "workbook", "", "local .xlsx case workbook instead of a Google sheet")
	notaryCmd.Flags().StringVar(&notaryRegistryWorkbook, "registry-workbook", "", "local .xlsx notary registry (with --workbook)")
	rootCmd.AddCommand(notaryCmd)
}

// registerEnvFlags adds the flags every outreach command shares.
func registerEnvFlags(cmd *cobra.Command, f *envFlags) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "write messages as .eml files instead of calling Gmail")
	cmd.Flags().StringVar(&f.outbox, "out", "outbox", "directory for --dry-run messages")
	cmd.Flags().BoolVar(&f.noPacing, "no-pacing", false, "skip the waits between actions")
}
