// Package grid turns raw spreadsheet rows into flat, merge-aware value lists
// and locates columns under two-level headers.
package grid

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// AnchorFunc returns the value of a 1-based cell.
type AnchorFunc func(row, col int) (string, error)

// ResolveRow fetches one row and fills every merged range crossing it with
// the range's anchor value. Each call costs a metadata and a row fetch; use
// ResolveRowWith to resolve many rows against one merge list.
func ResolveRow(ctx context.Context, s sheet.Sheet, row int) ([]string, error) {
	merges, err := s.Merges(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: resolve row %d", row)
	}
	return ResolveRowWith(ctx, s, row, merges)
}

// ResolveRowWith is ResolveRow with merges already fetched.
func ResolveRowWith(ctx context.Context, s sheet.Sheet, row int, merges []sheet.Merge) ([]string, error) {
	raw, err := s.Row(ctx, row)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: resolve row %d", row)
	}

	values, err := ApplyMerges(row, raw, merges, func(r, c int) (string, error) {
		if r == row {
			if c <= len(raw) {
				return raw[c-1], nil
			}
			return "", nil
		}
		return s.Cell(ctx, r, c)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "grid: resolve row %d", row)
	}
	return values, nil
}

// ApplyMerges pads raw to the widest merge and overwrites the columns of
// every merge containing row with the merge's anchor value (first row, first
// column). raw is not modified.
func ApplyMerges(row int, raw []string, merges []sheet.Merge, anchor AnchorFunc) ([]string, error) {
	width := len(raw)
	for _, m := range merges {
		if m.EndCol > width {
			width = m.EndCol
		}
	}

	values := make([]string, width)
	copy(values, raw)

	for _, m := range merges {
		if !m.ContainsRow(row) {
			continue
		}
		v, err := anchor(m.StartRow+1, m.StartCol+1)
		if err != nil {
			return nil, eris.Wrapf(err, "grid: anchor %d,%d", m.StartRow+1, m.StartCol+1)
		}
		for c := m.StartCol; c < m.EndCol; c++ {
			values[c] = v
		}
	}
	return values, nil
}
