package datatype

import (
	"strings"

	"github.com/gofhir/model/pkg/issue"
)

// GetDisplayName returns a printable name: the official name, else the
// usual one, else the first. A name's text wins over its parts; otherwise
// the given names and the family name are joined with spaces.
func GetDisplayName(names []HumanName) string {
	if len(names) == 0 {
		return ""
	}
	name := names[0]
	if n, ok := findName(names, "official"); ok {
		name = n
	} else if n, ok := findName(names, "usual"); ok {
		name = n
	}
	if name.Text != "" {
		return name.Text
	}
	parts := make([]string, 0, len(name.Given)+1)
	for _, g := range name.Given {
		if g != "" {
			parts = append(parts, g)
		}
	}
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	return strings.Join(parts, " ")
}

func findName(names []HumanName, use string) (HumanName, bool) {
	for _, n := range names {
		if n.Use == use {
			return n, true
		}
	}
	return HumanName{}, false
}

// GetPrimaryPhone returns the preferred phone contact point.
func GetPrimaryPhone(telecom []ContactPoint) (ContactPoint, bool) {
	return primaryContact(telecom, "phone")
}

// GetPrimaryEmail returns the preferred email contact point.
func GetPrimaryEmail(telecom []ContactPoint) (ContactPoint, bool) {
	return primaryContact(telecom, "email")
}

// primaryContact picks the lowest explicit rank among contact points of the
// given system. Without ranks, home is preferred over work, then the first
// match.
func primaryContact(telecom []ContactPoint, system string) (ContactPoint, bool) {
	var (
		best     ContactPoint
		bestRank int
		found    bool
	)
	for _, cp := range telecom {
		if cp.System != system || cp.Rank == nil || cp.Rank.IsZero() {
			continue
		}
		if !found || cp.Rank.Value() < bestRank {
			best, bestRank, found = cp, cp.Rank.Value(), true
		}
	}
	if found {
		return best, true
	}
	for _, use := range []string{"home", "work", ""} {
		for _, cp := range telecom {
			if cp.System == system && (use == "" || cp.Use == use) {
				return cp, true
			}
		}
	}
	return ContactPoint{}, false
}

// IdentifierSet groups identifiers by system, keeping their order.
type IdentifierSet map[string][]Identifier

// IdentifiersBySystem groups ids by system. Identifiers without a system
// are grouped under "".
func IdentifiersBySystem(ids []Identifier) IdentifierSet {
	set := make(IdentifierSet)
	for _, id := range ids {
		set[id.System] = append(set[id.System], id)
	}
	return set
}

// BySystem returns the identifiers issued by system.
func (s IdentifierSet) BySystem(system string) []Identifier {
	return s[system]
}

// Find returns the first identifier issued by system.
func (s IdentifierSet) Find(system string) (Identifier, bool) {
	if ids := s[system]; len(ids) > 0 {
		return ids[0], true
	}
	return Identifier{}, false
}

// Value returns the value of the first identifier issued by system.
func (s IdentifierSet) Value(system string) string {
	id, _ := s.Find(system)
	return id.Value
}

// FindIdentifier returns the first identifier in ids issued by system.
func FindIdentifier(ids []Identifier, system string) (Identifier, bool) {
	for _, id := range ids {
		if id.System == system {
			return id, true
		}
	}
	return Identifier{}, false
}

// ValidateIdentifiers rejects a value repeated within one system. The same
// value under different systems is allowed.
func ValidateIdentifiers(ids []Identifier, path string) error {
	var col issue.Collector
	seen := make(map[[2]string]int, len(ids))
	for i, id := range ids {
		if id.Value == "" {
			continue
		}
		key := [2]string{id.System, id.Value}
		if _, dup := seen[key]; dup {
			col.Add(issue.Duplicate(issue.Index(path, i), "identifier", id.System+"|"+id.Value))
			continue
		}
		seen[key] = i
	}
	return col.Err()
}
