// Package names canonicalizes person names so the same person typed in two
// independently maintained sheets compares equal.
package names

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNoFamilyName is returned when a full name has no all-capitals token.
var ErrNoFamilyName = errors.New("names: no family name in capitals")

// separators are dropped before comparison.
var separators = strings.NewReplacer(
	" ", "", ",", "", "-", "", "\n", "", "\r", "", "\t", "",
	"'", "", "’", "",
)

// ligatures have no decomposition; fold them by hand.
var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE", "ß", "ss",
	"ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "đ", "d", "Đ", "D",
)

// Canonical reduces s to a separator-free, accent-free, lower-case ASCII
// form. Canonical(Canonical(s)) == Canonical(s).
func Canonical(s string) string {
	s = separators.Replace(s)
	s = ligatures.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if r <= unicode.MaxASCII {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Same reports whether a and b name the same person.
func Same(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Key identifies a person by canonical first and last name.
type Key struct {
	First string
	Last  string
}

// KeyOf canonicalizes a first/last name pair.
func KeyOf(first, last string) Key {
	return Key{First: Canonical(first), Last: Canonical(last)}
}

// FamilyName joins the tokens written entirely in capitals, which is how the
// case sheets mark family names ("Jean-Pierre DE LA FONTAINE" -> "DE LA FONTAINE").
func FamilyName(full string) string {
	var family []string
	for _, tok := range strings.Fields(full) {
		if isUpperToken(tok) {
			family = append(family, tok)
		}
	}
	return strings.Join(family, " ")
}

// Person is a full name split into given and family names.
type Person struct {
	Full  string
	First string
	Last  string
}

// Key returns the canonical key of the person.
func (p Person) Key() Key {
	return KeyOf(p.First, p.Last)
}

// Split separates the capitalised family name from the given names.
func Split(full string) (Person, error) {
	full = strings.TrimSpace(full)
	p := Person{Full: full}

	var first, last []string
	for _, tok := range strings.Fields(full) {
		if isUpperToken(tok) {
			last = append(last, tok)
		} else {
			first = append(first, tok)
		}
	}
	if len(last) == 0 {
		return p, ErrNoFamilyName
	}
	p.First = strings.Join(first, " ")
	p.Last = strings.Join(last, " ")
	return p, nil
}

// isUpperToken requires at least one cased letter and no lower-case one.
func isUpperToken(tok string) bool {
	cased := false
	for _, r := range tok {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
