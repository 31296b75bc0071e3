package grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

// ErrColumnNotFound is returned when no column carries the requested heading.
var ErrColumnNotFound = errors.New("grid: column not found")

// FindColumn returns the zero-based index of the first column whose
// secondary heading equals target and, when primaryTarget is set, whose
// primary heading equals it too. The header rows are column-aligned.
func FindColumn(primary, secondary []string, target string, primaryTarget *string) (int, bool) {
	for i, s := range secondary {
		if s != target {
			continue
		}
		if primaryTarget == nil {
			return i, true
		}
		if i < len(primary) && primary[i] == *primaryTarget {
			return i, true
		}
	}
	return 0, false
}

// Headers pairs a grouping header row with the specific header row below it.
type Headers struct {
	Primary   []string
	Secondary []string
}

// LoadHeaders resolves both header rows of s.
func LoadHeaders(ctx context.Context, s sheet.Sheet, primaryRow, secondaryRow int) (Headers, error) {
	merges, err := s.Merges(ctx)
	if err != nil {
		return Headers{}, eris.Wrap(err, "grid: load headers")
	}
	return LoadHeadersWith(ctx, s, merges, primaryRow, secondaryRow)
}

// LoadHeadersWith resolves both header rows against merges fetched by the caller.
func LoadHeadersWith(ctx context.Context, s sheet.Sheet, merges []sheet.Merge, primaryRow, secondaryRow int) (Headers, error) {
	var h Headers
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		h.Primary, err = ResolveRowWith(gctx, s, primaryRow, merges)
		return err
	})
	g.Go(func() error {
		var err error
		h.Secondary, err = ResolveRowWith(gctx, s, secondaryRow, merges)
		return err
	})
	if err := g.Wait(); err != nil {
		return Headers{}, eris.Wrap(err, "grid: load headers")
	}
	return h, nil
}

// Column locates secondary, optionally under the primary group heading.
func (h Headers) Column(secondary string, primary ...string) (int, error) {
	var want *string
	if len(primary) > 0 {
		want = &primary[0]
	}
	idx, ok := FindColumn(h.Primary, h.Secondary, secondary, want)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, describe(secondary, want))
	}
	return idx, nil
}

// Value reads the cell of row under the located column. A short row reads
// as an empty cell; a missing column is an error.
func (h Headers) Value(row []string, secondary string, primary ...string) (string, error) {
	idx, err := h.Column(secondary, primary...)
	if err != nil {
		return "", err
	}
	if idx >= len(row) {
		return "", nil
	}
	return row[idx], nil
}

func describe(secondary string, primary *string) string {
	if primary == nil {
		return fmt.Sprintf("%q", secondary)
	}
	return fmt.Sprintf("%q under %q", secondary, *primary)
}
