// Package outreach runs the outreach commands over the case and invoice
// spreadsheets.
package outreach

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/ldgenealogie/outreach-cli/internal/contact"
	"github.com/ldgenealogie/outreach-cli/internal/journal"
	"github.com/ldgenealogie/outreach-cli/internal/pacing"
)

// Option configures a runner.
type Option func(*base)

// WithPacer replaces the countdown used for pacing waits.
func WithPacer(p pacing.Pacer) Option {
	return func(b *base) { b.pacer = p }
}

// WithPolicy replaces the default pacing delays.
func WithPolicy(p contact.Policy) Option {
	return func(b *base) { b.policy = p }
}

// WithJournal records every case action in s.
func WithJournal(s journal.Store) Option {
	return func(b *base) { b.journal = s }
}

// WithOutput sets where operator progress is printed.
func WithOutput(w io.Writer) Option {
	return func(b *base) { b.out = w }
}

// WithClock overrides the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithRand overrides the random source of send delays.
func WithRand(r *rand.Rand) Option {
	return func(b *base) { b.rng = r }
}

// base holds what every runner shares.
type base struct {
	pacer   pacing.Pacer
	policy  contact.Policy
	journal journal.Store
	out     io.Writer
	now     func() time.Time
	rng     *rand.Rand
}

func newBase(opts []Option) base {
	b := base{
		pacer:  pacing.Instant{},
		policy: contact.DefaultPolicy(),
		out:    io.Discard,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// record journals e. Journal failures never fail the case.
func (b *base) record(ctx context.Context, e journal.Entry) {
	if b.journal == nil {
		return
	}
	if err := b.journal.Record(ctx, e); err != nil {
		zap.L().Warn("outreach: journal write failed", zap.Int("row", e.CaseRow), zap.Error(err))
	}
}
