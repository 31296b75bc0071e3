package outreach

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ldgenealogie/outreach-cli/internal/compose"
	"github.com/ldgenealogie/outreach-cli/internal/config"
	"github.com/ldgenealogie/outreach-cli/internal/journal"
	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

var today = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func caseRow(name, notary, emails, status string) []string {
	r := make([]string, model.CaseColOutcome)
	r[model.CaseColFullName-1] = name
	r[model.CaseColReferenceDate-1] = "12/03/2021"
	r[model.CaseColNotaryName-1] = notary
	r[model.CaseColNotaryOffice-1] = "Étude du centre"
	r[model.CaseColNotaryContact-1] = "accueil@etude.fr"
	r[model.CaseColNotaryEmails-1] = emails
	r[model.CaseColStatus-1] = status
	return r
}

func caseHeader() []string {
	return []string{"Nom", "", "", "", "Date acte", "Notaire", "Étude", "Contact", "Emails", "", "Statut", "Note"}
}

func registryHeader() []string {
	return []string{"", "Prénom", "Nom", "", "", "", "Notaire", "Étude", "Emails", "Contact", "Statut", "Mail 1", "Mail 2", "Mail 3"}
}

func registryRow(first, last string, c model.Cooperation, log ...string) []string {
	n := model.Notary{FirstName: first, LastName: last, Cooperation: c, Attempts: model.EmptyAttemptLog()}
	copy(n.Attempts[:], log)
	return n.Values()
}

func newComposer(t *testing.T) *compose.Composer {
	t.Helper()
	tpl, err := compose.DefaultTemplates()
	require.NoError(t, err)
	c, err := compose.New(tpl, config.SenderConfig{Name: "Camille Laurent", Phone: "6 12 34 56 78"}, "camille@ldgenealogie.fr")
	require.NoError(t, err)
	return c
}

type wait struct {
	label string
	d     time.Duration
}

type recordingPacer struct {
	mu    sync.Mutex
	waits []wait
}

func (p *recordingPacer) Wait(_ context.Context, label string, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, wait{label, d})
	return nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *memJournal) Migrate(context.Context) error { return nil }
func (j *memJournal) Close() error                  { return nil }

func (j *memJournal) Record(ctx context.Context, e journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) List(context.Context, journal.Filter) ([]journal.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]journal.Entry(nil), j.entries...), nil
}

// liveSheet fails every call once its context is done, as the rate-limited
// Google backend does. failWrites makes every write fail.
type liveSheet struct {
	*sheet.Memory
	failWrites bool
}

func (l *liveSheet) Row(ctx context.Context, row int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Memory.Row(ctx, row)
}

func (l *liveSheet) Cell(ctx context.Context, row, col int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.Memory.Cell(ctx, row, col)
}

func (l *liveSheet) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Memory.Rows(ctx)
}

func (l *liveSheet) Column(ctx context.Context, col int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Memory.Column(ctx, col)
}

func (l *liveSheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.failWrites {
		return errors.New("sheet: update cell: 503")
	}
	return l.Memory.UpdateCell(ctx, row, col, value)
}

func (l *liveSheet) InsertRow(ctx context.Context, row int, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.failWrites {
		return errors.New("sheet: insert row: 503")
	}
	return l.Memory.InsertRow(ctx, row, values)
}

func (l *liveSheet) Merges(ctx context.Context) ([]sheet.Merge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.Memory.Merges(ctx)
}
