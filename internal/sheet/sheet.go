// Package sheet abstracts the spreadsheet service: 1-based cell and row
// access, whole-sheet reads, row insertion and merged-range metadata.
// Google Sheets, xlsx workbooks and an in-memory grid implement it.
package sheet

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Merge is a merged range in zero-based, half-open grid coordinates.
type Merge struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// ContainsRow reports whether the 1-based row lies inside the merge.
func (m Merge) ContainsRow(row int) bool {
	return m.StartRow < row && row <= m.EndRow
}

// Sheet is one worksheet of a spreadsheet. Rows and columns are 1-based.
type Sheet interface {
	// Title names the spreadsheet for operator display.
	Title() string
	// Row returns the values of one row; trailing empty cells may be trimmed.
	Row(ctx context.Context, row int) ([]string, error)
	Cell(ctx context.Context, row, col int) (string, error)
	// Rows returns every row of the sheet in order.
	Rows(ctx context.Context) ([][]string, error)
	// Column returns one column top to bottom with trailing empties trimmed.
	Column(ctx context.Context, col int) ([]string, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
	// InsertRow shifts rows at and below row down by one and writes values
	// into the new row, which inherits formatting from the row above.
	InsertRow(ctx context.Context, row int, values []string) error
	Merges(ctx context.Context) ([]Merge, error)
}

var (
	spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	spreadsheetIDRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)
)

// ParseSpreadsheetID accepts a Google Sheets URL or a bare spreadsheet id.
func ParseSpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := spreadsheetURLRe.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if spreadsheetIDRe.MatchString(s) {
		return s, nil
	}
	return "", eris.Errorf("sheet: %q is not a spreadsheet url or id", s)
}

func trimTrailing(values []string) []string {
	n := len(values)
	for n > 0 && values[n-1] == "" {
		n--
	}
	return values[:n]
}

func checkAddress(row, col int) error {
	if row < 1 || col < 1 {
		return eris.Errorf("sheet: invalid address row=%d col=%d", row, col)
	}
	return nil
}
