package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

var (
	primary   = []string{"Client", "Client", "Client", "LD", "LD", "Notaire", "Notaire"}
	secondary = []string{"Nom/Prénom", "Somme retrouvée", "Commission TTC", "# Factures LD", "Commission TTC", "Nom", "Date paiement"}
)

func strPtr(s string) *string { return &s }

func TestFindColumn(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		primary *string
		want    int
		ok      bool
	}{
		{"first match without group", "Commission TTC", nil, 2, true},
		{"group disambiguates", "Commission TTC", strPtr("LD"), 4, true},
		{"group matches first occurrence", "Commission TTC", strPtr("Client"), 2, true},
		{"group mismatch", "Nom/Prénom", strPtr("LD"), 0, false},
		{"absent heading", "TVA", nil, 0, false},
		{"absent heading with group", "TVA", strPtr("LD"), 0, false},
		{"empty group is a real filter", "Nom", strPtr(""), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindColumn(primary, secondary, tt.target, tt.primary)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindColumn_MatchAtIndexZeroIsFound(t *testing.T) {
	idx, ok := FindColumn(primary, secondary, "Nom/Prénom", nil)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestHeadersValue(t *testing.T) {
	h := Headers{Primary: primary, Secondary: secondary}
	row := []string{"Jean DUPONT", "1 200,00 €", "360,00 €", "F-2024-031", "300,00 €"}

	v, err := h.Value(row, "Commission TTC", "LD")
	require.NoError(t, err)
	assert.Equal(t, "300,00 €", v)

	v, err = h.Value(row, "Date paiement", "Notaire")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = h.Value(row, "TVA Commission", "LD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnNotFound))
	assert.Contains(t, err.Error(), `"TVA Commission" under "LD"`)
}

func TestLoadHeaders(t *testing.T) {
	s := sheet.NewMemory("Factures", [][]string{
		{}, {}, {},
		{"Client", "", "LD", ""},
		{"Nom/Prénom", "Somme retrouvée", "# Factures LD", "Commission TTC"},
	},
		sheet.Merge{StartRow: 3, EndRow: 4, StartCol: 0, EndCol: 2},
		sheet.Merge{StartRow: 3, EndRow: 4, StartCol: 2, EndCol: 4},
	)

	h, err := LoadHeaders(context.Background(), s, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Client", "LD", "LD"}, h.Primary)

	idx, err := h.Column("Commission TTC", "LD")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestLoadHeadersWith_UsesGivenMerges(t *testing.T) {
	s := sheet.NewMemory("Factures", [][]string{
		{}, {}, {},
		{"Client", "", "LD", ""},
		{"Nom/Prénom", "Somme retrouvée", "# Factures LD", "Commission TTC"},
	})
	merges := []sheet.Merge{{StartRow: 3, EndRow: 4, StartCol: 2, EndCol: 4}}

	h, err := LoadHeadersWith(context.Background(), s, merges, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "", "LD", "LD"}, h.Primary)
}
