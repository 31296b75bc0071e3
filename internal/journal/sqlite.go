package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLite stores the journal in a local database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at dsn in WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS journal (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	case_row    INTEGER NOT NULL,
	case_name   TEXT NOT NULL,
	notary_name TEXT NOT NULL,
	action      TEXT NOT NULL,
	outcome     TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_journal_run_id ON journal(run_id);
CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal(created_at);
`

func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Record(ctx context.Context, e Entry) error {
	e = stamp(e)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (id, run_id, case_row, case_name, notary_name, action, outcome, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.CaseRow, e.CaseName, e.NotaryName, e.Action, e.Outcome, e.Error, e.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: record row %d", e.CaseRow)
}

func (s *SQLite) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT id, run_id, case_row, case_name, notary_name, action, outcome, error, created_at FROM journal WHERE 1=1`
	var args []any

	if f.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, f.RunID)
	}
	query += ` ORDER BY created_at DESC, case_row DESC LIMIT ?`
	args = append(args, limitOf(f))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list journal")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.CaseRow, &e.CaseName, &e.NotaryName, &e.Action, &e.Outcome, &e.Error, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan journal entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list journal iterate")
}

func stamp(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}
