package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/names"
)

var today = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func notary(c model.Cooperation, log ...string) model.Notary {
	n := model.Notary{FirstName: "Marie", LastName: "MARTIN", Cooperation: c, Attempts: model.EmptyAttemptLog()}
	copy(n.Attempts[:], log)
	return n
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		notary  model.Notary
		action  Action
		note    string
		slot    int
		promote bool
	}{
		{"new notary", notary(model.CooperationNotContacted), ActionSend, "", 0, true},
		{"second attempt", notary(model.CooperationPending, "01/09/2026"), ActionSend, "", 1, false},
		{"third attempt", notary(model.CooperationPending, "01/09/2026", "15/09/2026"), ActionSend, "", 2, false},
		{"blank slot counts as empty", notary(model.CooperationPending, "01/09/2026", " "), ActionSend, "", 1, false},
		{"exhausted", notary(model.CooperationPending, "01/09/2026", "15/09/2026", "01/10/2026"), ActionDraft, model.OutcomeExhausted, -1, false},
		{"refused", notary(model.CooperationRefused), ActionSkip, model.OutcomeNotCooperating, -1, false},
		{"refused with padding", notary(" Not cooperating "), ActionSkip, model.OutcomeNotCooperating, -1, false},
		{"refused and exhausted", notary(model.CooperationRefused, "a", "b", "c"), ActionSkip, model.OutcomeNotCooperating, -1, false},
		{"unknown status sends", notary("Rappeler", "01/09/2026"), ActionSend, "", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.notary)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.note, d.Note)
			assert.Equal(t, tt.slot, d.Slot)
			assert.Equal(t, tt.promote, d.Promote)
		})
	}
}

func TestApply_SendFillsNextSlotOnly(t *testing.T) {
	for k := 0; k < model.AttemptSlots; k++ {
		log := []string{"01/01/2026", "02/01/2026", "03/01/2026"}[:k]
		before := notary(model.CooperationPending, log...)

		d := Decide(before)
		require.Equal(t, ActionSend, d.Action)
		after := d.Apply(before, today)

		assert.Equal(t, k+1, after.Attempts.Count())
		assert.Equal(t, "18/10/2026", after.Attempts[k])
		for i := 0; i < k; i++ {
			assert.Equal(t, before.Attempts[i], after.Attempts[i])
		}
		for i := k + 1; i < model.AttemptSlots; i++ {
			assert.Equal(t, model.EmptySlot, after.Attempts[i])
		}
	}
}

func TestApply_PromotesOnlyFromNotContacted(t *testing.T) {
	first := notary(model.CooperationNotContacted)
	after := Decide(first).Apply(first, today)
	assert.Equal(t, model.CooperationPending, after.Cooperation)

	unknown := notary("Rappeler")
	after = Decide(unknown).Apply(unknown, today)
	assert.Equal(t, model.Cooperation("Rappeler"), after.Cooperation)
}

func TestExhaustedStaysDraft(t *testing.T) {
	n := notary(model.CooperationPending, "01/09/2026", "15/09/2026", "01/10/2026")
	for i := 0; i < 5; i++ {
		d := Decide(n)
		require.Equal(t, ActionDraft, d.Action)
		n = d.Apply(n, today.AddDate(0, 0, i))
	}
	assert.Equal(t, model.AttemptLog{"01/09/2026", "15/09/2026", "01/10/2026"}, n.Attempts)
}

func TestRefusedNeverActs(t *testing.T) {
	n := notary(model.CooperationRefused, "01/09/2026")
	d := Decide(n)
	assert.Equal(t, ActionSkip, d.Action)
	assert.Equal(t, n, d.Apply(n, today))

	_, ok := d.CaseStatus()
	assert.False(t, ok)
}

func TestCaseStatus(t *testing.T) {
	s, ok := Decision{Action: ActionSend}.CaseStatus()
	assert.True(t, ok)
	assert.Equal(t, model.StatusSent, s)

	s, ok = Decision{Action: ActionDraft}.CaseStatus()
	assert.True(t, ok)
	assert.Equal(t, model.StatusDraft, s)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "send", ActionSend.String())
	assert.Equal(t, "draft", ActionDraft.String())
	assert.Equal(t, "skip", ActionSkip.String())
	assert.Equal(t, "unknown", Action(42).String())
}

func TestEnroll(t *testing.T) {
	c := model.CaseFromRow(4, []string{
		"Jean DUPONT", "", "", "", "12/03/2021", "Marie MARTIN", "Étude Martin", "contact@martin.fr", "a@martin.fr\nb@martin.fr",
	})
	p, err := names.Split(c.NotaryName)
	require.NoError(t, err)

	n := Enroll(c, p)
	assert.Equal(t, "Marie", n.FirstName)
	assert.Equal(t, "MARTIN", n.LastName)
	assert.Equal(t, "Marie MARTIN", n.FullName)
	assert.Equal(t, "Étude Martin", n.Office)
	assert.Equal(t, "a@martin.fr\nb@martin.fr", n.Emails)
	assert.Equal(t, "contact@martin.fr", n.ContactEmail)
	assert.Equal(t, model.CooperationNotContacted, n.Cooperation)
	assert.Equal(t, model.EmptyAttemptLog(), n.Attempts)
	assert.Zero(t, n.Row)
}

func TestDecide_PaddedStatuses(t *testing.T) {
	d := Decide(notary("Not contacted "))
	assert.Equal(t, ActionSend, d.Action)
	assert.True(t, d.Promote)
	assert.Equal(t, model.CooperationPending, d.Apply(notary("Not contacted "), today).Cooperation)

	assert.Equal(t, ActionSkip, Decide(notary(" Not cooperating ")).Action)
}
