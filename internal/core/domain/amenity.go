package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxAmenityNameLen = 50

// Amenity is a named feature a place can offer. Name is stored normalized,
// see NormalizeAmenityName.
type Amenity struct {
	Base
	Name string `json:"name"`
}

func NewAmenity(name string) (*Amenity, error) {
	name = NormalizeAmenityName(name)
	if err := validateAmenityName(name); err != nil {
		return nil, err
	}
	return &Amenity{Base: newBase(), Name: name}, nil
}

// NormalizeAmenityName trims, collapses inner whitespace to single spaces and
// title-cases every word, so "  wifi " and "WiFi" both become "Wifi".
// Spacing and punctuation still distinguish names: "Wi Fi" stays apart from "Wifi".
func NormalizeAmenityName(name string) string {
	name = strings.Join(strings.Fields(name), " ")

	var b strings.Builder
	b.Grow(len(name))
	prevLetter := false
	for _, r := range name {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

func (a *Amenity) Attribute(name string) (any, bool) {
	if name == "name" {
		return a.Name, true
	}
	return a.attribute(name)
}

// AmenityPatch is a partial update of an Amenity.
type AmenityPatch struct {
	Name *string
}

func (p AmenityPatch) Validate() error {
	if p.Name != nil {
		return validateAmenityName(NormalizeAmenityName(*p.Name))
	}
	return nil
}

func (p AmenityPatch) Apply(a *Amenity) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name != nil {
		a.Name = NormalizeAmenityName(*p.Name)
	}
	a.touch()
	return nil
}

func validateAmenityName(normalized string) error {
	if normalized == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(normalized) > maxAmenityNameLen {
		return invalid("name", "must be at most %d characters", maxAmenityNameLen)
	}
	return nil
}
