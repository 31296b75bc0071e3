// Package contact decides what to do with a notary on each outreach cycle.
// Everything here is pure: callers perform the I/O and commit the returned
// state only after the message went out.
package contact

import (
	"time"

	"github.com/ldgenealogie/outreach-cli/internal/model"
	"github.com/ldgenealogie/outreach-cli/internal/names"
)

// DateLayout is the format of attempt dates in the registry.
const DateLayout = "02/01/2006"

// Action is the outreach step due for a notary.
type Action int

const (
	ActionSend Action = iota
	ActionDraft
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionSend:
		return "send"
	case ActionDraft:
		return "draft"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action
	// Note is the outcome written to the case row, if any.
	Note string
	// Slot is the zero-based attempt slot a send fills. Only set for ActionSend.
	Slot int
	// Promote is set when a successful send moves the notary to
	// contacted-pending.
	Promote bool
}

// Decide returns the next step for n.
func Decide(n model.Notary) Decision {
	if n.Cooperation.Terminal() {
		return Decision{Action: ActionSkip, Note: model.OutcomeNotCooperating, Slot: -1}
	}
	if n.Attempts.Exhausted() {
		return Decision{Action: ActionDraft, Note: model.OutcomeExhausted, Slot: -1}
	}
	return Decision{
		Action:  ActionSend,
		Slot:    n.Attempts.FirstEmpty(),
		Promote: n.Cooperation.Is(model.CooperationNotContacted),
	}
}

// Apply returns the registry state after the decision was carried out
// successfully on today. Only sends change the record.
func (d Decision) Apply(n model.Notary, today time.Time) model.Notary {
	if d.Action != ActionSend || d.Slot < 0 || d.Slot >= model.AttemptSlots {
		return n
	}
	n.Attempts[d.Slot] = today.Format(DateLayout)
	if d.Promote {
		n.Cooperation = model.CooperationPending
	}
	return n
}

// CaseStatus is the outreach flag written to the case row on success.
// Skips leave the flag alone.
func (d Decision) CaseStatus() (model.OutreachStatus, bool) {
	switch d.Action {
	case ActionSend:
		return model.StatusSent, true
	case ActionDraft:
		return model.StatusDraft, true
	default:
		return "", false
	}
}

// Enroll builds the registry record of a notary seen for the first time on c.
func Enroll(c model.Case, notary names.Person) model.Notary {
	return model.Notary{
		FirstName:    notary.First,
		LastName:     notary.Last,
		FullName:     c.NotaryName,
		Office:       c.NotaryOffice,
		Emails:       c.NotaryEmails,
		ContactEmail: c.NotaryContact,
		Cooperation:  model.CooperationNotContacted,
		Attempts:     model.EmptyAttemptLog(),
	}
}
