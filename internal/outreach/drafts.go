package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ldgenealogie/outreach-cli/internal/compose"
	"github.com/ldgenealogie/outreach-cli/internal/contact"
	"github.com/ldgenealogie/outreach-cli/internal/grid"
	"github.com/ldgenealogie/outreach-cli/internal/journal"
	"github.com/ldgenealogie/outreach-cli/internal/mail"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// Invoice sheet header rows. Data starts below them.
const (
	InvoicePrimaryHeaderRow   = 4
	InvoiceSecondaryHeaderRow = 5
)

// Invoice sheet headings.
const (
	HeadingName          = "Nom/Prénom"
	HeadingAmountFound   = "Somme retrouvée"
	HeadingCommission    = "Commission TTC (notaire déj payé)"
	HeadingAmountDue     = "Somme à verser (incl cas spécifique EON)"
	HeadingGroupLD       = "LD"
	HeadingInvoiceNumber = "# Factures LD"
	HeadingCommissionHT  = "Commission HT"
	HeadingVAT           = "TVA Commission"
	HeadingCommissionTTC = "Commission TTC"
	HeadingPaymentDate   = "Date paiement"
)

// DraftComposer builds the client and closing messages.
type DraftComposer interface {
	Client(d compose.ClientData) (*compose.Message, error)
	Invoice(d compose.InvoiceData) (*compose.Message, error)
}

// draftFunc turns one resolved invoice row into a message.
type draftFunc func(h grid.Headers, row []string) (*compose.Message, string, error)

// Drafts creates Gmail drafts for selected rows of the invoice sheet.
type Drafts struct {
	base
	sheet    sheet.Sheet
	composer DraftComposer
	mailer   mail.Mailer
}

// NewDrafts creates the client and invoice draft runner.
func NewDrafts(s sheet.Sheet, composer DraftComposer, mailer mail.Mailer, opts ...Option) *Drafts {
	return &Drafts{
		base:     newBase(opts),
		sheet:    s,
		composer: composer,
		mailer:   mailer,
	}
}

// Client drafts the settlement message of every row in rows.
func (r *Drafts) Client(ctx context.Context, rows []int) (*Report, error) {
	return r.run(ctx, "client", rows, r.clientMessage)
}

// Invoice drafts the closing message of every row in rows.
func (r *Drafts) Invoice(ctx context.Context, rows []int) (*Report, error) {
	return r.run(ctx, "invoice", rows, r.invoiceMessage)
}

func (r *Drafts) run(ctx context.Context, kind string, rows []int, build draftFunc) (*Report, error) {
	report := &Report{RunID: uuid.New().String(), Pending: len(rows)}
	log := zap.L().With(zap.String("run_id", report.RunID), zap.String("kind", kind))

	merges, err := r.sheet.Merges(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "outreach: load %s headers", kind)
	}
	headers, err := grid.LoadHeadersWith(ctx, r.sheet, merges, InvoicePrimaryHeaderRow, InvoiceSecondaryHeaderRow)
	if err != nil {
		return nil, eris.Wrapf(err, "outreach: load %s headers", kind)
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, eris.Wrapf(err, "outreach: %s drafts", kind)
		}
		fmt.Fprintf(r.out, "\nCreating Draft for row %d\n", row)

		entry := journal.Entry{RunID: report.RunID, CaseRow: row, Action: contact.ActionDraft.String()}
		name, err := r.draft(ctx, headers, merges, row, build)
		entry.CaseName = name
		if err != nil {
			report.Failed++
			entry.Error = err.Error()
			log.Error("outreach: draft failed", zap.Int("row", row), zap.Error(err))
			fmt.Fprintf(r.out, "%d ERROR : %v\n", row, err)
		} else {
			report.Drafted++
			entry.Outcome = kind + " draft"
			fmt.Fprintf(r.out, "%d Success\n", row)
		}
		r.record(ctx, entry)
	}
	return report, nil
}

func (r *Drafts) draft(ctx context.Context, h grid.Headers, merges []sheet.Merge, row int, build draftFunc) (string, error) {
	if row <= InvoiceSecondaryHeaderRow {
		return "", eris.Errorf("outreach: row %d is inside the header", row)
	}
	values, err := grid.ResolveRowWith(ctx, r.sheet, row, merges)
	if err != nil {
		return "", err
	}
	msg, name, err := build(h, values)
	if err != nil {
		return name, err
	}

	if err := r.pacer.Wait(ctx, "Creating Draft in", r.policy.Draft); err != nil {
		return name, err
	}
	raw, err := msg.Bytes()
	if err != nil {
		return name, err
	}
	return name, r.mailer.Draft(ctx, raw)
}

func (r *Drafts) clientMessage(h grid.Headers, row []string) (*compose.Message, string, error) {
	var d compose.ClientData
	err := lookup(h, row,
		field{&d.PersonFullName, HeadingName, ""},
		field{&d.AmountFound, HeadingAmountFound, ""},
		field{&d.Commission, HeadingCommission, ""},
		field{&d.AmountDue, HeadingAmountDue, ""},
	)
	if err != nil {
		return nil, d.PersonFullName, err
	}
	msg, err := r.composer.Client(d)
	return msg, d.PersonFullName, err
}

func (r *Drafts) invoiceMessage(h grid.Headers, row []string) (*compose.Message, string, error) {
	var d compose.InvoiceData
	var paid string
	err := lookup(h, row,
		field{&d.PersonFullName, HeadingName, ""},
		field{&d.InvoiceNumber, HeadingInvoiceNumber, HeadingGroupLD},
		field{&d.CommissionHT, HeadingCommissionHT, HeadingGroupLD},
		field{&d.VAT, HeadingVAT, HeadingGroupLD},
		field{&d.CommissionTTC, HeadingCommissionTTC, HeadingGroupLD},
		field{&paid, HeadingPaymentDate, HeadingGroupLD},
	)
	if err != nil {
		return nil, d.PersonFullName, err
	}

	if t, perr := time.Parse(contact.DateLayout, strings.TrimSpace(paid)); perr == nil {
		d.PaymentDate = compose.LongDate(t)
	} else {
		zap.L().Warn("outreach: no payment date", zap.String("case", d.PersonFullName), zap.String("value", paid))
	}

	zap.L().Info("outreach: invoice",
		zap.String("case", d.PersonFullName),
		zap.String("invoice", d.InvoiceNumber),
		zap.String("commission_ht", d.CommissionHT),
		zap.String("vat", d.VAT),
		zap.String("commission_ttc", d.CommissionTTC),
		zap.String("paid", d.PaymentDate),
	)
	msg, err := r.composer.Invoice(d)
	return msg, d.PersonFullName, err
}

type field struct {
	dst       *string
	secondary string
	primary   string
}

// lookup fills every field from row. The first missing column fails the row.
func lookup(h grid.Headers, row []string, fields ...field) error {
	for _, f := range fields {
		var (
			v   string
			err error
		)
		if f.primary != "" {
			v, err = h.Value(row, f.secondary, f.primary)
		} else {
			v, err = h.Value(row, f.secondary)
		}
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(v)
	}
	return nil
}
