package sheet

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-memory sheet. It mimics the Google backend: rows come
// back with trailing empties trimmed and merged cells other than the anchor
// are stored empty.
type Memory struct {
	mu     sync.Mutex
	title  string
	rows   [][]string
	merges []Merge
}

// NewMemory builds a sheet from row values (row 1 first).
func NewMemory(title string, rows [][]string, merges ...Merge) *Memory {
	m := &Memory{title: title, merges: slices.Clone(merges)}
	for _, r := range rows {
		m.rows = append(m.rows, slices.Clone(r))
	}
	return m
}

// Title implements Sheet.
func (m *Memory) Title() string { return m.title }

// Row implements Sheet.
func (m *Memory) Row(_ context.Context, row int) ([]string, error) {
	if err := checkAddress(row, 1); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if row > len(m.rows) {
		return []string{}, nil
	}
	return slices.Clone(trimTrailing(m.rows[row-1])), nil
}

// Cell implements Sheet.
func (m *Memory) Cell(_ context.Context, row, col int) (string, error) {
	if err := checkAddress(row, col); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if row > len(m.rows) || col > len(m.rows[row-1]) {
		return "", nil
	}
	return m.rows[row-1][col-1], nil
}

// Rows implements Sheet.
func (m *Memory) Rows(_ context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

// Column implements Sheet.
func (m *Memory) Column(_ context.Context, col int) ([]string, error) {
	if err := checkAddress(1, col); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		if col <= len(r) {
			out[i] = r[col-1]
		}
	}
	return trimTrailing(out), nil
}

// UpdateCell implements Sheet, growing the grid as needed.
func (m *Memory) UpdateCell(_ context.Context, row, col int, value string) error {
	if err := checkAddress(row, col); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.rows) < row {
		m.rows = append(m.rows, nil)
	}
	r := m.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	m.rows[row-1] = r
	return nil
}

// InsertRow implements Sheet.
func (m *Memory) InsertRow(_ context.Context, row int, values []string) error {
	if err := checkAddress(row, 1); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.rows) < row-1 {
		m.rows = append(m.rows, nil)
	}
	m.rows = slices.Insert(m.rows, row-1, slices.Clone(values))
	return nil
}

// Merges implements Sheet.
func (m *Memory) Merges(_ context.Context) ([]Merge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.merges), nil
}

// Snapshot returns a copy of the current grid.
func (m *Memory) Snapshot() [][]string {
	rows, _ := m.Rows(context.Background())
	return rows
}
