package model

import "strings"

// Cooperation is a notary's cooperation status in the registry.
// CooperationRefused is absorbing: nothing in this tool moves a notary out
// of it, only a manual edit of the registry does.
type Cooperation string

const (
	CooperationNotContacted Cooperation = "Not contacted"
	CooperationPending      Cooperation = "Contacted / pending answer"
	CooperationRefused      Cooperation = "Not cooperating"
)

// Is compares statuses, ignoring surrounding whitespace left by hand edits.
func (c Cooperation) Is(other Cooperation) bool {
	return strings.TrimSpace(string(c)) == strings.TrimSpace(string(other))
}

// Terminal reports whether the status blocks every further contact.
func (c Cooperation) Terminal() bool {
	return c.Is(CooperationRefused)
}

// Registry sheet columns (1-based).
const (
	RegistryColFirstName    = 2
	RegistryColLastName     = 3
	RegistryColFullName     = 7
	RegistryColOffice       = 8
	RegistryColEmails       = 9
	RegistryColContactEmail = 10
	RegistryColCooperation  = 11
	RegistryColFirstAttempt = 12
	RegistryWidth           = RegistryColFirstAttempt + AttemptSlots - 1
)

// AttemptSlots is the number of contact attempts before a human takes over.
const AttemptSlots = 3

// EmptySlot marks an unused attempt slot.
const EmptySlot = "-"

// AttemptLog holds the contact dates of a notary, filled left to right.
type AttemptLog [AttemptSlots]string

// EmptyAttemptLog returns a log with every slot unused.
func EmptyAttemptLog() AttemptLog {
	return AttemptLog{EmptySlot, EmptySlot, EmptySlot}
}

// Filled reports whether slot i (zero-based) holds a date. Blank cells count
// as empty, like the "-" sentinel.
func (l AttemptLog) Filled(i int) bool {
	v := strings.TrimSpace(l[i])
	return v != "" && v != EmptySlot
}

// Count returns the number of filled slots.
func (l AttemptLog) Count() int {
	n := 0
	for i := range l {
		if l.Filled(i) {
			n++
		}
	}
	return n
}

// FirstEmpty returns the zero-based index of the first unused slot, or -1.
func (l AttemptLog) FirstEmpty() int {
	for i := range l {
		if !l.Filled(i) {
			return i
		}
	}
	return -1
}

// Exhausted reports whether the final attempt has been made.
func (l AttemptLog) Exhausted() bool {
	return l.Filled(AttemptSlots - 1)
}

// Notary is one row of the notary registry.
type Notary struct {
	Row          int         `json:"row"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	FullName     string      `json:"full_name"`
	Office       string      `json:"office"`
	Emails       string      `json:"emails"`
	ContactEmail string      `json:"contact_email"`
	Cooperation  Cooperation `json:"cooperation"`
	Attempts     AttemptLog  `json:"attempts"`
}

// NotaryFromRow maps a raw registry row.
func NotaryFromRow(row int, values []string) Notary {
	n := Notary{
		Row:          row,
		FirstName:    CellAt(values, RegistryColFirstName),
		LastName:     CellAt(values, RegistryColLastName),
		FullName:     CellAt(values, RegistryColFullName),
		Office:       CellAt(values, RegistryColOffice),
		Emails:       CellAt(values, RegistryColEmails),
		ContactEmail: CellAt(values, RegistryColContactEmail),
		Cooperation:  Cooperation(CellAt(values, RegistryColCooperation)),
	}
	for i := range n.Attempts {
		n.Attempts[i] = CellAt(values, RegistryColFirstAttempt+i)
	}
	return n
}

// Values renders the notary in registry column order.
func (n Notary) Values() []string {
	values := make([]string, RegistryWidth)
	values[RegistryColFirstName-1] = n.FirstName
	values[RegistryColLastName-1] = n.LastName
	values[RegistryColFullName-1] = n.FullName
	values[RegistryColOffice-1] = n.Office
	values[RegistryColEmails-1] = n.Emails
	values[RegistryColContactEmail-1] = n.ContactEmail
	values[RegistryColCooperation-1] = string(n.Cooperation)
	for i, d := range n.Attempts {
		values[RegistryColFirstAttempt-1+i] = d
	}
	return values
}
