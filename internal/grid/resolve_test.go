package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

func TestApplyMerges_AnchorWinsOverRawValues(t *testing.T) {
	merges := []sheet.Merge{{StartRow: 3, EndRow: 4, StartCol: 1, EndCol: 4}}
	raw := []string{"a", "anchor", "stale", "junk", "e"}

	got, err := ApplyMerges(4, raw, merges, func(r, c int) (string, error) {
		assert.Equal(t, 4, r)
		assert.Equal(t, 2, c)
		return "anchor", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "anchor", "anchor", "anchor", "e"}, got)
	assert.Equal(t, "stale", raw[2], "input must not be modified")
}

func TestApplyMerges_PadsToWidestMerge(t *testing.T) {
	merges := []sheet.Merge{
		{StartRow: 0, EndRow: 1, StartCol: 0, EndCol: 2},
		{StartRow: 9, EndRow: 10, StartCol: 4, EndCol: 7},
	}

	got, err := ApplyMerges(1, []string{"Client"}, merges, func(int, int) (string, error) {
		return "Client", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Client", "", "", "", "", ""}, got)
}

func TestApplyMerges_RowOutsideMerge(t *testing.T) {
	merges := []sheet.Merge{{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 2}}

	got, err := ApplyMerges(3, []string{"x", "y"}, merges, func(int, int) (string, error) {
		t.Fatal("anchor must not be read")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestApplyMerges_NoMerges(t *testing.T) {
	got, err := ApplyMerges(1, []string{"x"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)
}

func TestApplyMerges_AnchorError(t *testing.T) {
	merges := []sheet.Merge{{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 2}}
	_, err := ApplyMerges(2, nil, merges, func(int, int) (string, error) {
		return "", errors.New("boom")
	})
	assert.Error(t, err)
}

func TestResolveRow_VerticalMergeReadsAnchorRow(t *testing.T) {
	s := sheet.NewMemory("Factures", [][]string{
		{"title"},
		{"Client", "", "LD", "", ""},
		{"", "", "", "", "loose"},
	},
		sheet.Merge{StartRow: 1, EndRow: 3, StartCol: 0, EndCol: 2},
		sheet.Merge{StartRow: 1, EndRow: 2, StartCol: 2, EndCol: 4},
	)

	row2, err := ResolveRow(context.Background(), s, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Client", "LD", "LD"}, row2)

	row3, err := ResolveRow(context.Background(), s, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Client", "", "", "loose"}, row3)
}
