package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/names"
	"github.com/ldgenealogie/outreach-cli/internal/sheet"
)

func registryRow(first, last, coop string, log ...string) []string {
	n := model.Notary{FirstName: first, LastName: last, Cooperation: model.Cooperation(coop)}
	copy(n.Attempts[:], log)
	return n.Values()
}

func newRegistry() (*Registry, *sheet.Memory) {
	s := sheet.NewMemory("Notaires", [][]string{
		{"", "Prénom", "Nom", "", "", "", "Notaire", "", "Emails", "Contact", "Statut", "Mail 1", "Mail 2", "Mail 3"},
		registryRow("Hélène", "LEFÈVRE", "Not contacted", "-", "-", "-"),
		registryRow("Marie-Claire", "MARTIN", "Contacted / pending answer", "01/02/2024", "-", "-"),
		registryRow("Marie Claire", "Martin", "Not cooperating", "-", "-", "-"),
	})
	return New(s), s
}

func TestFind_CanonicalMatch(t *testing.T) {
	r, _ := newRegistry()

	n, err := r.Find(context.Background(), names.KeyOf("Helene", "Lefevre"))
	require.NoError(t, err)
	assert.Equal(t, 2, n.Row)
	assert.Equal(t, "Hélène", n.FirstName)
	assert.Equal(t, model.CooperationNotContacted, n.Cooperation)
}

func TestFind_FirstMatchWins(t *testing.T) {
	r, _ := newRegistry()

	n, err := r.Find(context.Background(), names.KeyOf("MARIE CLAIRE", "MARTIN"))
	require.NoError(t, err)
	assert.Equal(t, 3, n.Row)
	assert.Equal(t, model.CooperationPending, n.Cooperation)
	assert.Equal(t, "01/02/2024", n.Attempts[0])
}

func TestFind_NotFound(t *testing.T) {
	r, _ := newRegistry()

	_, err := r.Find(context.Background(), names.KeyOf("Paul", "DURAND"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFind_SeesRowsAddedByOthers(t *testing.T) {
	ctx := context.Background()
	r, s := newRegistry()

	_, err := r.Find(ctx, names.KeyOf("Paul", "DURAND"))
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.InsertRow(ctx, 5, registryRow("Paul", "DURAND", "Not contacted")))

	n, err := r.Find(ctx, names.KeyOf("Paul", "DURAND"))
	require.NoError(t, err)
	assert.Equal(t, 5, n.Row)
}

func TestAdd_AppendsAfterLastNamedRow(t *testing.T) {
	ctx := context.Background()
	r, s := newRegistry()

	n, err := r.Add(ctx, model.Notary{
		FirstName:   "Paul",
		LastName:    "DURAND",
		FullName:    "Paul DURAND",
		Cooperation: model.CooperationNotContacted,
		Attempts:    model.EmptyAttemptLog(),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n.Row)

	rows := s.Snapshot()
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"-", "-", "-"}, rows[4][11:14])

	found, err := r.Find(ctx, names.KeyOf("Paul", "Durand"))
	require.NoError(t, err)
	assert.Equal(t, 5, found.Row)
}

func TestWrites_FollowRowsShiftedByConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	r, s := newRegistry()
	key := names.KeyOf("Hélène", "LEFÈVRE")

	n, err := r.Find(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 2, n.Row)

	// Another operator inserts a notary above while this run is in flight.
	require.NoError(t, s.InsertRow(ctx, 2, registryRow("Zoé", "ARNAUD", "Not contacted", "-", "-", "-")))

	require.NoError(t, r.RecordAttempt(ctx, key, 0, "18/10/2026"))
	require.NoError(t, r.SetCooperation(ctx, key, model.CooperationPending))
	require.NoError(t, r.SetContactEmail(ctx, key, "helene@etude.fr"))

	rows := s.Snapshot()
	assert.Equal(t, "ARNAUD", rows[1][2])
	assert.Equal(t, "-", rows[1][11], "inserted row must be untouched")
	assert.Equal(t, "Not contacted", rows[1][10])

	assert.Equal(t, "LEFÈVRE", rows[2][2])
	assert.Equal(t, "18/10/2026", rows[2][11])
	assert.Equal(t, "Contacted / pending answer", rows[2][10])
	assert.Equal(t, "helene@etude.fr", rows[2][9])
}

func TestWrite_NotaryVanished(t *testing.T) {
	ctx := context.Background()
	r, s := newRegistry()
	key := names.KeyOf("Hélène", "LEFÈVRE")

	_, err := r.Find(ctx, key)
	require.NoError(t, err)
	require.NoError(t, s.UpdateCell(ctx, 2, 3, "RENAMED"))

	err = r.SetContactEmail(ctx, key, "x@y.fr")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordAttempt_SlotRange(t *testing.T) {
	r, _ := newRegistry()
	err := r.RecordAttempt(context.Background(), names.KeyOf("Hélène", "LEFÈVRE"), 3, "18/10/2026")
	assert.Error(t, err)
}
