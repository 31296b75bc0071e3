package sheet

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook is a worksheet of a local xlsx file, used for offline runs
// against exported spreadsheets. Writes stay in memory until Save.
type Workbook struct {
	mu    sync.Mutex
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// OpenWorkbook opens the worksheet at index (zero-based) of an xlsx file.
func OpenWorkbook(path string, index int) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open workbook")
	}
	if index < 0 || index >= len(f.Sheets) {
		return nil, eris.Errorf("sheet: worksheet %d out of range (workbook has %d)", index, len(f.Sheets))
	}
	return &Workbook{path: path, file: f, sheet: f.Sheets[index]}, nil
}

// Title implements Sheet.
func (w *Workbook) Title() string {
	return strings.TrimSuffix(filepath.Base(w.path), filepath.Ext(w.path))
}

// Row implements Sheet.
func (w *Workbook) Row(_ context.Context, row int) ([]string, error) {
	if err := checkAddress(row, 1); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if row > len(w.sheet.Rows) {
		return []string{}, nil
	}
	return trimTrailing(rowStrings(w.sheet.Rows[row-1])), nil
}

// Cell implements Sheet.
func (w *Workbook) Cell(_ context.Context, row, col int) (string, error) {
	if err := checkAddress(row, col); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if row > len(w.sheet.Rows) {
		return "", nil
	}
	r := w.sheet.Rows[row-1]
	if r == nil || col > len(r.Cells) {
		return "", nil
	}
	return r.Cells[col-1].String(), nil
}

// Rows implements Sheet.
func (w *Workbook) Rows(_ context.Context) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]string, len(w.sheet.Rows))
	for i, r := range w.sheet.Rows {
		out[i] = rowStrings(r)
	}
	return out, nil
}

// Column implements Sheet.
func (w *Workbook) Column(_ context.Context, col int) ([]string, error) {
	if err := checkAddress(1, col); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.sheet.Rows))
	for i, r := range w.sheet.Rows {
		if r != nil && col <= len(r.Cells) {
			out[i] = r.Cells[col-1].String()
		}
	}
	return trimTrailing(out), nil
}

// UpdateCell implements Sheet.
func (w *Workbook) UpdateCell(_ context.Context, row, col int, value string) error {
	if err := checkAddress(row, col); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sheet.Cell(row-1, col-1).SetString(value)
	return nil
}

// InsertRow implements Sheet.
func (w *Workbook) InsertRow(_ context.Context, row int, values []string) error {
	if err := checkAddress(row, 1); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.sheet.Rows) < row-1 {
		w.sheet.AddRow()
	}

	// AddRow appends; move the new row into place.
	added := w.sheet.AddRow()
	rows := w.sheet.Rows
	copy(rows[row:], rows[row-1:len(rows)-1])
	rows[row-1] = added

	for _, v := range values {
		added.AddCell().SetString(v)
	}
	return nil
}

// Merges implements Sheet. xlsx stores merges on the anchor cell as the
// number of extra cells spanned.
func (w *Workbook) Merges(_ context.Context) ([]Merge, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var merges []Merge
	for r, row := range w.sheet.Rows {
		if row == nil {
			continue
		}
		for c, cell := range row.Cells {
			if cell.HMerge == 0 && cell.VMerge == 0 {
				continue
			}
			merges = append(merges, Merge{
				StartRow: r,
				EndRow:   r + cell.VMerge + 1,
				StartCol: c,
				EndCol:   c + cell.HMerge + 1,
			})
		}
	}
	return merges, nil
}

// Save writes the workbook back to its file.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return eris.Wrap(w.file.Save(w.path), "sheet: save workbook")
}

func rowStrings(r *xlsx.Row) []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.String()
	}
	return out
}
