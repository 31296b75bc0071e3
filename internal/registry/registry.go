// Package registry reads and updates the notary registry sheet. Notaries are
// matched by canonical first/last name; there is no stable row identifier,
// so every write re-resolves the row of its notary first.
package registry

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/names"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// ErrNotFound is returned when no registry row carries the requested name.
var ErrNotFound = errors.New("registry: notary not found")

// Registry is the notary registry worksheet.
type Registry struct {
	sheet sheet.Sheet
	// index maps a name to the first row holding it. nil means stale.
	index map[names.Key]int
}

// New wraps the registry worksheet.
func New(s sheet.Sheet) *Registry {
	return &Registry{sheet: s}
}

// Find returns the first registry row, scanning from row 1, whose first and
// last names canonicalize to key.
func (r *Registry) Find(ctx context.Context, key names.Key) (model.Notary, error) {
	row, values, err := r.locate(ctx, key)
	if err != nil {
		return model.Notary{}, err
	}
	return model.NotaryFromRow(row, values), nil
}

// Add appends a notary below the last named row.
func (r *Registry) Add(ctx context.Context, n model.Notary) (model.Notary, error) {
	last := 0
	for _, col := range []int{model.RegistryColFirstName, model.RegistryColLastName} {
		values, err := r.sheet.Column(ctx, col)
		if err != nil {
			return model.Notary{}, eris.Wrap(err, "registry: find end of sheet")
		}
		last = max(last, len(values))
	}

	n.Row = last + 1
	if err := r.sheet.InsertRow(ctx, n.Row, n.Values()); err != nil {
		return model.Notary{}, eris.Wrapf(err, "registry: add %s %s", n.FirstName, n.LastName)
	}
	r.index = nil

	zap.L().Info("registry: notary added",
		zap.Int("row", n.Row),
		zap.String("first_name", n.FirstName),
		zap.String("last_name", n.LastName),
	)
	return n, nil
}

// RecordAttempt writes date into the zero-based attempt slot of the notary.
func (r *Registry) RecordAttempt(ctx context.Context, key names.Key, slot int, date string) error {
	if slot < 0 || slot >= model.AttemptSlots {
		return eris.Errorf("registry: attempt slot %d out of range", slot)
	}
	return r.write(ctx, key, model.RegistryColFirstAttempt+slot, date)
}

// SetCooperation writes the cooperation status of the notary.
func (r *Registry) SetCooperation(ctx context.Context, key names.Key, c model.Cooperation) error {
	return r.write(ctx, key, model.RegistryColCooperation, string(c))
}

// SetContactEmail writes the last address the notary was contacted at.
func (r *Registry) SetContactEmail(ctx context.Context, key names.Key, email string) error {
	return r.write(ctx, key, model.RegistryColContactEmail, email)
}

func (r *Registry) write(ctx context.Context, key names.Key, col int, value string) error {
	row, _, err := r.locate(ctx, key)
	if err != nil {
		return eris.Wrapf(err, "registry: write column %d", col)
	}
	if err := r.sheet.UpdateCell(ctx, row, col, value); err != nil {
		return eris.Wrapf(err, "registry: write row %d column %d", row, col)
	}
	return nil
}

// locate resolves the current row of key. An indexed row is trusted only
// after re-reading it; a moved or missing entry triggers a fresh scan.
func (r *Registry) locate(ctx context.Context, key names.Key) (int, []string, error) {
	if row, ok := r.index[key]; ok {
		values, err := r.sheet.Row(ctx, row)
		if err != nil {
			return 0, nil, eris.Wrapf(err, "registry: read row %d", row)
		}
		if keyOfRow(values) == key {
			return row, values, nil
		}
		zap.L().Debug("registry: row moved, rescanning", zap.Int("row", row))
	}

	rows, err := r.sheet.Rows(ctx)
	if err != nil {
		return 0, nil, eris.Wrap(err, "registry: read sheet")
	}
	r.index = buildIndex(rows)

	row, ok := r.index[key]
	if !ok {
		return 0, nil, ErrNotFound
	}
	return row, rows[row-1], nil
}

func buildIndex(rows [][]string) map[names.Key]int {
	idx := make(map[names.Key]int, len(rows))
	for i, values := range rows {
		k := keyOfRow(values)
		if _, seen := idx[k]; !seen {
			idx[k] = i + 1
		}
	}
	return idx
}

func keyOfRow(values []string) names.Key {
	return names.KeyOf(
		model.CellAt(values, model.RegistryColFirstName),
		model.CellAt(values, model.RegistryColLastName),
	)
}
