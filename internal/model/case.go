package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Case sheet columns (1-based). The case sheet is addressed by position,
// not by header text.
const (
	CaseColFullName      = 1
	CaseColReferenceDate = 5
	CaseColNotaryName    = 6
	CaseColNotaryOffice  = 7
	CaseColNotaryContact = 8
	CaseColNotaryEmails  = 9
	CaseColStatus        = 11
	CaseColOutcome       = 12
)

// OutreachStatus is the value of the case sheet's outreach flag column.
type OutreachStatus string

const (
	StatusPending OutreachStatus = "à envoyer"
	StatusDraft   OutreachStatus = "draft"
	StatusSent    OutreachStatus = "envoyé"
)

// Outcome notes written to the case sheet.
const (
	OutcomeNewNotary      = "New Notary added"
	OutcomeNotCooperating = "Not cooperating"
	OutcomeExhausted      = "3 emails sent already"
)

// Case is one row of the case spreadsheet.
type Case struct {
	Row           int            `json:"row"`
	FullName      string         `json:"full_name"`
	ReferenceDate string         `json:"reference_date"`
	NotaryName    string         `json:"notary_name"`
	NotaryOffice  string         `json:"notary_office"`
	NotaryContact string         `json:"notary_contact"`
	NotaryEmails  string         `json:"notary_emails"`
	Status        OutreachStatus `json:"status"`
	Outcome       string         `json:"outcome"`
}

// CaseFromRow maps a raw case sheet row. Short rows read as empty cells.
func CaseFromRow(row int, values []string) Case {
	return Case{
		Row:           row,
		FullName:      strings.TrimSpace(CellAt(values, CaseColFullName)),
		ReferenceDate: CellAt(values, CaseColReferenceDate),
		NotaryName:    strings.TrimSpace(CellAt(values, CaseColNotaryName)),
		NotaryOffice:  CellAt(values, CaseColNotaryOffice),
		NotaryContact: CellAt(values, CaseColNotaryContact),
		NotaryEmails:  CellAt(values, CaseColNotaryEmails),
		Status:        OutreachStatus(CellAt(values, CaseColStatus)),
		Outcome:       CellAt(values, CaseColOutcome),
	}
}

// NotaryEmail returns the first of the newline-separated notary addresses.
func (c Case) NotaryEmail() string {
	first, _, _ := strings.Cut(c.NotaryEmails, "\n")
	return strings.TrimSpace(first)
}

// IsPending reports whether the case is flagged for outreach. Composed and
// decomposed accents compare equal.
func (c Case) IsPending() bool {
	return norm.NFC.String(strings.TrimSpace(string(c.Status))) == norm.NFC.String(string(StatusPending))
}

// CellAt returns the 1-based column of a row, or "" past its end.
func CellAt(values []string, col int) string {
	if col < 1 || col > len(values) {
		return ""
	}
	return values[col-1]
}
