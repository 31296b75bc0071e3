package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ldgenealogie/outreach-cli/internal/compose"
	"github.com/ldgenealogie/outreach-cli/internal/contact"
	"github.com/ldgenealogie/outreach-cli/internal/journal"
	"github.com/ldgenealogie/outreach-cli/internal/mail"
	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/names"
	"github.com/ldgenealogie/outreach-cli/internal/registry"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// NotaryComposer builds the message sent to a notary.
type NotaryComposer interface {
	Notary(to string, d compose.NotaryData) (*compose.Message, error)
}

// Notary contacts the notaries of every case flagged for outreach.
type Notary struct {
	base
	cases    sheet.Sheet
	registry *registry.Registry
	composer NotaryComposer
	mailer   mail.Mailer
}

// NewNotary creates the notary outreach runner.
func NewNotary(cases sheet.Sheet, reg *registry.Registry, composer NotaryComposer, mailer mail.Mailer, opts ...Option) *Notary {
	return &Notary{
		base:     newBase(opts),
		cases:    cases,
		registry: reg,
		composer: composer,
		mailer:   mailer,
	}
}

// outcome is what happened to one case.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeNotCooperating
	outcomeSent
	outcomeDrafted
	outcomeFailed
)

// Run processes the pending cases in sheet order. Per-case failures are
// logged and counted; only a failure to read the case sheet or a cancelled
// context stops the run.
func (n *Notary) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("run_id", report.RunID), zap.String("sheet", n.cases.Title()))
	log.Info("outreach: notary run starting")

	rows, err := n.cases.Rows(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "outreach: read case sheet")
	}

	for i, values := range rows {
		c := model.CaseFromRow(i+1, values)
		if !c.IsPending() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, eris.Wrap(err, "outreach: notary run")
		}
		report.Pending++

		entry := journal.Entry{RunID: report.RunID, CaseRow: c.Row, CaseName: c.FullName, NotaryName: c.NotaryName}
		res, added, err := n.process(ctx, c, &entry)
		if added {
			report.Added++
		}
		switch res {
		case outcomeSkipped:
			report.Skipped++
		case outcomeNotCooperating:
			report.NotCooperating++
		case outcomeSent:
			report.Sent++
		case outcomeDrafted:
			report.Drafted++
		case outcomeFailed:
			report.Failed++
		}
		if err != nil {
			entry.Error = err.Error()
			log.Error("outreach: case failed", zap.Int("row", c.Row), zap.String("case", c.FullName), zap.Error(err))
			fmt.Fprintf(n.out, "\nRow %d : ERROR %v\n", c.Row, err)
		}
		n.record(context.WithoutCancel(ctx), entry)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, eris.Wrap(ctxErr, "outreach: notary run")
		}
	}

	log.Info("outreach: notary run finished",
		zap.Int("pending", report.Pending),
		zap.Int("sent", report.Sent),
		zap.Int("drafted", report.Drafted),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// process runs one contact cycle for c. Nothing is committed to either sheet
// unless the message went out, except the outcome notes of new and refusing
// notaries.
func (n *Notary) process(ctx context.Context, c model.Case, entry *journal.Entry) (outcome, bool, error) {
	log := zap.L().With(zap.Int("row", c.Row), zap.String("case", c.FullName), zap.String("notary", c.NotaryName))

	person, err := names.Split(c.FullName)
	if err != nil {
		log.Warn("outreach: case skipped, no family name in case name")
		entry.Action, entry.Outcome = contact.ActionSkip.String(), "no family name in case name"
		return outcomeSkipped, false, nil
	}
	notary, err := names.Split(c.NotaryName)
	if err != nil {
		log.Warn("outreach: case skipped, no family name in notary name")
		entry.Action, entry.Outcome = contact.ActionSkip.String(), "no family name in notary name"
		return outcomeSkipped, false, nil
	}
	key := notary.Key()

	added := false
	rec, err := n.registry.Find(ctx, key)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		rec, err = n.registry.Add(ctx, contact.Enroll(c, notary))
		if err != nil {
			return outcomeFailed, false, err
		}
		added = true
		if err := n.cases.UpdateCell(ctx, c.Row, model.CaseColOutcome, model.OutcomeNewNotary); err != nil {
			return outcomeFailed, added, eris.Wrap(err, "outreach: write case outcome")
		}
	case err != nil:
		return outcomeFailed, false, err
	}

	d := contact.Decide(rec)
	entry.Action = d.Action.String()
	log.Info("outreach: decision",
		zap.String("action", d.Action.String()),
		zap.Int("registry_row", rec.Row),
		zap.Strings("attempts", rec.Attempts[:]),
		zap.String("cooperation", string(rec.Cooperation)),
	)

	if d.Action == contact.ActionSkip {
		entry.Outcome = d.Note
		if err := n.cases.UpdateCell(ctx, c.Row, model.CaseColOutcome, d.Note); err != nil {
			return outcomeFailed, added, eris.Wrap(err, "outreach: write case outcome")
		}
		return outcomeNotCooperating, added, nil
	}

	to := c.NotaryEmail()
	if to == "" && d.Action == contact.ActionSend {
		return outcomeFailed, added, eris.Errorf("outreach: row %d has no notary email", c.Row)
	}
	n.banner(c, person, notary, rec, to)

	label := "Sending Email in"
	if d.Action == contact.ActionDraft {
		label = "Creating Draft in"
	}
	if err := n.pacer.Wait(ctx, label, n.policy.Delay(d, n.rng)); err != nil {
		return outcomeFailed, added, err
	}

	msg, err := n.composer.Notary(to, compose.NotaryData{
		PersonFullName: c.FullName,
		PersonLastName: person.Last,
		NotaryLastName: notary.Last,
		ReferenceDate:  c.ReferenceDate,
	})
	if err != nil {
		return outcomeFailed, added, err
	}
	raw, err := msg.Bytes()
	if err != nil {
		return outcomeFailed, added, err
	}

	res := outcomeSent
	if d.Action == contact.ActionDraft {
		res = outcomeDrafted
		err = n.mailer.Draft(ctx, raw)
	} else {
		err = n.mailer.Send(ctx, raw)
	}
	if err != nil {
		return outcomeFailed, added, err
	}

	// The message is out: finish the cycle even if the run is interrupted.
	// Cancellation is picked up by Run once the case is recorded.
	runCtx := ctx
	ctx = context.WithoutCancel(ctx)
	if err := n.commit(ctx, c, key, rec, d); err != nil {
		return outcomeFailed, added, err
	}
	status, _ := d.CaseStatus()
	entry.Outcome = string(status)
	fmt.Fprintln(n.out, "\nSuccess")

	_ = n.pacer.Wait(runCtx, "Next case in", n.policy.AfterSend)
	if err := n.registry.SetContactEmail(ctx, key, to); err != nil {
		return res, added, err
	}
	return res, added, nil
}

// commit writes the state reached after a confirmed send or draft. The case
// row goes first so that a failed registry write cannot trigger a resend.
func (n *Notary) commit(ctx context.Context, c model.Case, key names.Key, rec model.Notary, d contact.Decision) error {
	status, _ := d.CaseStatus()
	if err := n.cases.UpdateCell(ctx, c.Row, model.CaseColStatus, string(status)); err != nil {
		return eris.Wrap(err, "outreach: write case status")
	}
	if d.Note != "" {
		if err := n.cases.UpdateCell(ctx, c.Row, model.CaseColOutcome, d.Note); err != nil {
			return eris.Wrap(err, "outreach: write case outcome")
		}
	}

	if d.Action != contact.ActionSend {
		return nil
	}
	after := d.Apply(rec, n.now())
	if err := n.registry.RecordAttempt(ctx, key, d.Slot, after.Attempts[d.Slot]); err != nil {
		return err
	}
	if d.Promote {
		if err := n.registry.SetCooperation(ctx, key, after.Cooperation); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notary) banner(c model.Case, person, notary names.Person, rec model.Notary, to string) {
	fmt.Fprintf(n.out, "\n%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(n.out, "Registry Row      :    %d\n", rec.Row)
	fmt.Fprintf(n.out, "All Contact Date  :    %s\n", strings.Join(rec.Attempts[:], ", "))
	fmt.Fprintf(n.out, "Case Row          :    %d\n\n", c.Row)
	fmt.Fprintf(n.out, "Person Name       :    %s\n", c.FullName)
	fmt.Fprintf(n.out, "Person Last Name  :    %s\n\n", person.Last)
	fmt.Fprintf(n.out, "Notary Name       :    %s\n", c.NotaryName)
	fmt.Fprintf(n.out, "Notary Last Name  :    %s\n\n", notary.Last)
	fmt.Fprintf(n.out, "Reference Date    :    %s\n", c.ReferenceDate)
	fmt.Fprintf(n.out, "To                :    %s\n\n", to)
}
