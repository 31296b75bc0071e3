package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/ldgenealogie/outreach-cli/internal/compose"
	"github.com/ldgenealogie/outreach-cli/internal/contact"
	"github.com/ldgenealogie/outreach-cli/internal/journal"
	"github.com/ldgenealogie/outreach-cli/internal/mail"
	"github.com/ldgenealogie/outreach-cli/internal/outreach"
	"github.com/ldgenealogie/outreach-cli/internal/pacing"
	"github.com/ldgenealogie/outreach-cli/internal/resilience"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// envFlags are the flags shared by the outreach commands.
type envFlags struct {
	dryRun    bool
	outbox    string
	noPacing  bool
	workbooks bool
}

// outreachEnv holds the collaborators of one command.
type outreachEnv struct {
	Mailer   mail.Mailer
	Composer *compose.Composer
	Journal  journal.Store
	Options  []outreach.Option

	sheets    *sheets.Service
	workbooks []*sheet.Workbook
}

// initEnv wires mail, templates, journal and pacing for mode.
func initEnv(ctx context.Context, mode string, flags envFlags, out io.Writer) (*outreachEnv, error) {
	validate := mode
	if flags.workbooks {
		validate = "offline"
	}
	if err := cfg.Validate(validate); err != nil {
		return nil, err
	}

	env := &outreachEnv{}

	from := cfg.Sender.Email
	if flags.dryRun {
		d, err := mail.NewDryRun(flags.outbox)
		if err != nil {
			return nil, err
		}
		env.Mailer = d
	} else {
		svc, err := mail.NewService(ctx, cfg.Google.CredentialsFile)
		if err != nil {
			return nil, err
		}
		g := mail.NewGmail(svc)
		if from == "" {
			if from, err = g.Profile(ctx); err != nil {
				return nil, eris.Wrap(err, "resolve sender address")
			}
		}
		env.Mailer = g
	}
	zap.L().Info("sender", zap.String("email", from), zap.Bool("dry_run", flags.dryRun))

	tpl, err := compose.LoadTemplates(cfg.Templates.Path)
	if err != nil {
		return nil, err
	}
	var composeOpts []compose.Option
	if _, err := os.Stat(cfg.Sender.AttachmentPath); errors.Is(err, os.ErrNotExist) {
		zap.L().Warn("notary attachment not found, sending without it", zap.String("path", cfg.Sender.AttachmentPath))
	} else {
		att, err := compose.LoadAttachment(cfg.Sender.AttachmentPath, cfg.Sender.AttachmentName)
		if err != nil {
			return nil, err
		}
		composeOpts = append(composeOpts, compose.WithNotaryAttachment(att))
	}
	if env.Composer, err = compose.New(tpl, cfg.Sender, from, composeOpts...); err != nil {
		return nil, err
	}

	if env.Journal, err = journal.Open(ctx, cfg.Journal); err != nil {
		return nil, err
	}

	var pacer pacing.Pacer = pacing.NewCountdown(out)
	if flags.noPacing {
		pacer = pacing.Instant{}
	}
	env.Options = []outreach.Option{
		outreach.WithPacer(pacer),
		outreach.WithPolicy(contact.PolicyFromConfig(cfg.Pacing)),
		outreach.WithOutput(out),
	}
	if env.Journal != nil {
		env.Options = append(env.Options, outreach.WithJournal(env.Journal))
	}
	return env, nil
}

// openSheet opens the first worksheet of a Google spreadsheet given by URL or id.
func (e *outreachEnv) openSheet(ctx context.Context, urlOrID string) (sheet.Sheet, error) {
	id, err := sheet.ParseSpreadsheetID(urlOrID)
	if err != nil {
		return nil, err
	}
	if e.sheets == nil {
		if e.sheets, err = sheet.NewService(ctx, cfg.Google.CredentialsFile); err != nil {
			return nil, err
		}
	}
	return sheet.OpenGoogle(ctx, e.sheets, id, 0,
		sheet.WithLimiter(sheet.PerMinute(cfg.Google.RequestsPerMinute)),
		sheet.WithRetry(resilience.FromConfig(cfg.Retry)),
	)
}

// openWorkbook opens the first worksheet of a local xlsx file. It is saved on Close.
func (e *outreachEnv) openWorkbook(path string) (sheet.Sheet, error) {
	w, err := sheet.OpenWorkbook(path, 0)
	if err != nil {
		return nil, err
	}
	e.workbooks = append(e.workbooks, w)
	return w, nil
}

// Close saves open workbooks and closes the journal.
func (e *outreachEnv) Close() {
	for _, w := range e.workbooks {
		if err := w.Save(); err != nil {
			zap.L().Error("save workbook", zap.String("workbook", w.Title()), zap.Error(err))
		}
	}
	if e.Journal != nil {
		_ = e.Journal.Close()
	}
}
