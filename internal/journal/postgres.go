package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the journal uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Postgres stores the journal in a shared database.
type Postgres struct {
	pool Pool
}

// NewPostgres connects a small pool to connString.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &Postgres{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS outreach_journal (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	case_row    INTEGER NOT NULL,
	case_name   TEXT NOT NULL,
	notary_name TEXT NOT NULL,
	action      TEXT NOT NULL,
	outcome     TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outreach_journal_run_id ON outreach_journal(run_id);
CREATE INDEX IF NOT EXISTS idx_outreach_journal_created_at ON outreach_journal(created_at);
`

func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) Record(ctx context.Context, e Entry) error {
	e = stamp(e)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_journal (id, run_id, case_row, case_name, notary_name, action, outcome, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.RunID, e.CaseRow, e.CaseName, e.NotaryName, e.Action, e.Outcome, e.Error, e.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: record row %d", e.CaseRow)
}

func (s *Postgres) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT id, run_id, case_row, case_name, notary_name, action, outcome, error, created_at FROM outreach_journal WHERE true`
	args := []any{}
	argIdx := 1

	if f.RunID != "" {
		query += fmt.Sprintf(` AND run_id = $%d`, argIdx)
		args = append(args, f.RunID)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, case_row DESC LIMIT $%d`, argIdx)
	args = append(args, limitOf(f))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list journal")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.CaseRow, &e.CaseName, &e.NotaryName, &e.Action, &e.Outcome, &e.Error, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan journal entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list journal iterate")
}
