package names

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Marie", "marie"},
		{"MARTIN", "martin"},
		{"Jean-Luc O'Brien", "jeanlucobrien"},
		{"JEANLUC OBRIEN", "jeanlucobrien"},
		{"Hélène", "helene"},
		{"HÉLÈNE", "helene"},
		{"Anne-Sophie,\nDE LA FONTAINE", "annesophiedelafontaine"},
		{"Cœur", "coeur"},
		{"Strauß", "strauss"},
		{"François", "francois"},
		{"d’Arc", "darc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.in), "input %q", tt.in)
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	for _, in := range []string{"Jean-Luc O'Brien", "ÉLODIE Müller-Lüdenscheidt", "Œdipe, Ægir", "  x\ty  ", "Zoë"} {
		once := Canonical(in)
		assert.Equal(t, once, Canonical(once), "input %q", in)
	}
}

func TestCanonical_DecomposedInputMatchesComposed(t *testing.T) {
	assert.Equal(t, Canonical("H\u00e9l\u00e8ne"), Canonical("He\u0301le\u0300ne"))
}

func TestSame(t *testing.T) {
	assert.True(t, Same("Jean-Luc O'Brien", "JEANLUC OBRIEN"))
	assert.True(t, Same("Marie-Hélène", "marie helene"))
	assert.False(t, Same("Marie", "Maria"))
}

func TestFamilyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jean DUPONT", "DUPONT"},
		{"Jean-Pierre DE LA FONTAINE", "DE LA FONTAINE"},
		{"Marie MARTIN épouse DURAND", "MARTIN DURAND"},
		{"HÉLÈNE Petit", "HÉLÈNE"},
		{"O'BRIEN Sean", "O'BRIEN"},
		{"jean dupont", ""},
		{"Jean 1942", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FamilyName(tt.in), "input %q", tt.in)
	}
}

func TestSplit(t *testing.T) {
	p, err := Split("  Marie-Claire MARTIN  ")
	require.NoError(t, err)
	assert.Equal(t, "Marie-Claire MARTIN", p.Full)
	assert.Equal(t, "Marie-Claire", p.First)
	assert.Equal(t, "MARTIN", p.Last)
	assert.Equal(t, Key{First: "marieclaire", Last: "martin"}, p.Key())

	p, err = Split("Jean Paul DE LA TOUR")
	require.NoError(t, err)
	assert.Equal(t, "Jean Paul", p.First)
	assert.Equal(t, "DE LA TOUR", p.Last)
}

func TestSplit_NoFamilyName(t *testing.T) {
	_, err := Split("Marie Martin")
	assert.True(t, errors.Is(err, ErrNoFamilyName))

	_, err = Split("")
	assert.True(t, errors.Is(err, ErrNoFamilyName))
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, KeyOf("Marie", "MARTIN"), KeyOf("marie", "Martin"))
	assert.NotEqual(t, KeyOf("Marie", "MARTIN"), KeyOf("Martin", "MARIE"))
}
