// Package journal records every outreach action for later review.
package journal

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ldgenealogie/outreach-cli/internal/config"
)

// Entry is one journaled case action.
type Entry struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	CaseRow    int       `json:"case_row"`
	CaseName   string    `json:"case_name"`
	NotaryName string    `json:"notary_name"`
	Action     string    `json:"action"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows List. A zero Limit means 100.
type Filter struct {
	RunID string `json:"run_id,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Store persists journal entries.
type Store interface {
	Migrate(ctx context.Context) error
	// Record stores e, assigning ID and CreatedAt when empty.
	Record(ctx context.Context, e Entry) error
	// List returns entries newest first.
	List(ctx context.Context, f Filter) ([]Entry, error)
	Close() error
}

// Open connects the configured backend and migrates it. The "none" driver
// returns a nil Store.
func Open(ctx context.Context, cfg config.JournalConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "none", "":
		return nil, nil
	case "sqlite":
		s, err = NewSQLite(cfg.DSN)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DSN)
	default:
		return nil, eris.Errorf("journal: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

func limitOf(f Filter) int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}
