// Package sector enumerates the six tracked verticals and the display
// metadata attached to each. Lookups fail on unknown names instead of
// falling back to a default.
package sector

import (
	"errors"
	"strings"
)

// ErrUnknownSector is returned when a name or slug maps to no known sector.
var ErrUnknownSector = errors.New("unknown sector")

// Kind identifies a tracked sector.
type Kind int

// Known sectors. The zero value is deliberately invalid.
const (
	Healthcare Kind = iota + 1
	Education
	EnergyClimate
	Agriculture
	LaborEconomy
	Governance
)

// Meta is the presentation metadata for a sector kind.
type Meta struct {
	Kind  Kind   `json:"-"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var metas = [...]Meta{
	Healthcare:    {Kind: Healthcare, Slug: "healthcare", Name: "Healthcare", Color: "hsl(192, 55%, 48%)", Icon: "activity"},
	Education:     {Kind: Education, Slug: "education", Name: "Education", Color: "hsl(260, 45%, 55%)", Icon: "graduation-cap"},
	EnergyClimate: {Kind: EnergyClimate, Slug: "energy", Name: "Energy & Climate", Color: "hsl(25, 65%, 50%)", Icon: "zap"},
	Agriculture:   {Kind: Agriculture, Slug: "agriculture", Name: "Agriculture", Color: "hsl(155, 45%, 42%)", Icon: "sprout"},
	LaborEconomy:  {Kind: LaborEconomy, Slug: "labor", Name: "Labor & Economy", Color: "hsl(40, 55%, 48%)", Icon: "users"},
	Governance:    {Kind: Governance, Slug: "governance", Name: "Governance", Color: "hsl(225, 50%, 55%)", Icon: "building"},
}

// All returns every known sector kind in display order.
func All() []Kind {
	return []Kind{Healthcare, Education, EnergyClimate, Agriculture, LaborEconomy, Governance}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k >= Healthcare && k <= Governance }

// Meta returns the metadata for k. It panics on an invalid kind; callers get
// kinds only from this package's constructors.
func (k Kind) Meta() Meta {
	if !k.Valid() {
		panic("sector: invalid kind")
	}
	return metas[k]
}

// String returns the display name.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return metas[k].Name
}

// ByName resolves a stored sector name ("Energy & Climate") to its kind.
func ByName(name string) (Kind, error) {
	n := strings.TrimSpace(name)
	for _, k := range All() {
		if strings.EqualFold(metas[k].Name, n) {
			return k, nil
		}
	}
	return 0, ErrUnknownSector
}

// BySlug resolves a route slug ("energy") to its kind.
func BySlug(slug string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	for _, k := range All() {
		if metas[k].Slug == s {
			return k, nil
		}
	}
	return 0, ErrUnknownSector
}
