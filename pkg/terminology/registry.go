// Package terminology holds the process-wide code system registry and
// enforces value set bindings on coded elements.
//
// The registry is built once from FHIR CodeSystem and ValueSet resources and
// is never mutated afterwards, so lookups need no locking.
package terminology

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gofhir/fhir/r4"
)

// Concept is a single code defined by a code system.
type Concept struct {
	System  string
	Code    string
	Display string
}

type codeSystem struct {
	url      string
	version  string
	codes    map[string]Concept
	children map[string][]string // parent code -> child codes
}

type valueSet struct {
	url   string
	codes map[string]map[string]Concept // system -> code -> concept
}

func (vs *valueSet) add(c Concept) {
	if vs.codes[c.System] == nil {
		vs.codes[c.System] = make(map[string]Concept)
	}
	vs.codes[c.System][c.Code] = c
}

// Registry maps code system URIs to their codes and value set URLs to their
// expansions.
type Registry struct {
	systems   map[string]*codeSystem
	valueSets map[string]*valueSet
}

// Build creates a registry from the given resources. Code systems sharing a
// URL are merged, so a partial system (e.g. a LOINC subset) can be extended
// by a later source. Value sets are expanded eagerly against the loaded code
// systems.
func Build(codeSystems []*r4.CodeSystem, valueSets []*r4.ValueSet) (*Registry, error) {
	r := &Registry{
		systems:   make(map[string]*codeSystem),
		valueSets: make(map[string]*valueSet),
	}
	for _, cs := range codeSystems {
		if err := r.addCodeSystem(cs); err != nil {
			return nil, err
		}
	}
	for _, vs := range valueSets {
		if err := r.addValueSet(vs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) addCodeSystem(cs *r4.CodeSystem) error {
	if cs == nil || cs.Url == nil {
		return fmt.Errorf("codesystem is nil or has no URL")
	}
	url := *cs.Url
	data, ok := r.systems[url]
	if !ok {
		data = &codeSystem{
			url:      url,
			codes:    make(map[string]Concept),
			children: make(map[string][]string),
		}
		r.systems[url] = data
	}
	if cs.Version != nil {
		data.version = *cs.Version
	}
	extractConcepts(cs.Concept, "", data)
	return nil
}

// extractConcepts walks nested concepts, recording both structural nesting
// and subsumedBy properties as hierarchy.
func extractConcepts(concepts []r4.CodeSystemConcept, parent string, cs *codeSystem) {
	for i := range concepts {
		concept := &concepts[i]
		if concept.Code == nil {
			continue
		}
		code := *concept.Code
		display := ""
		if concept.Display != nil {
			display = *concept.Display
		}
		cs.codes[code] = Concept{System: cs.url, Code: code, Display: display}

		if parent != "" {
			cs.children[parent] = append(cs.children[parent], code)
		}
		for _, prop := range concept.Property {
			if prop.Code != nil && *prop.Code == "subsumedBy" && prop.ValueCode != nil {
				cs.children[*prop.ValueCode] = append(cs.children[*prop.ValueCode], code)
			}
		}

		if len(concept.Concept) > 0 {
			extractConcepts(concept.Concept, code, cs)
		}
	}
}

func (r *Registry) addValueSet(vs *r4.ValueSet) error {
	if vs == nil || vs.Url == nil {
		return fmt.Errorf("valueset is nil or has no URL")
	}
	url := stripVersion(*vs.Url)
	data, ok := r.valueSets[url]
	if !ok {
		data = &valueSet{url: url, codes: make(map[string]map[string]Concept)}
		r.valueSets[url] = data
	}

	// An expansion, when present, is authoritative.
	if vs.Expansion != nil {
		for i := range vs.Expansion.Contains {
			extractContains(&vs.Expansion.Contains[i], data)
		}
		return nil
	}
	if vs.Compose == nil {
		return nil
	}

	for i := range vs.Compose.Include {
		include := &vs.Compose.Include[i]
		if include.System == nil {
			continue
		}
		system := *include.System
		cs := r.systems[system]

		for j := range include.Concept {
			concept := &include.Concept[j]
			if concept.Code == nil {
				continue
			}
			c := Concept{System: system, Code: *concept.Code}
			if concept.Display != nil {
				c.Display = *concept.Display
			} else if cs != nil {
				c.Display = cs.codes[c.Code].Display
			}
			data.add(c)
		}

		if cs == nil {
			continue
		}

		// No concepts and no filters includes the whole code system.
		if len(include.Concept) == 0 && len(include.Filter) == 0 {
			for _, c := range cs.codes {
				data.add(c)
			}
			continue
		}

		for _, filter := range include.Filter {
			if filter.Property == nil || filter.Op == nil || filter.Value == nil {
				continue
			}
			if err := applyFilter(cs, *filter.Property, string(*filter.Op), *filter.Value, data); err != nil {
				return fmt.Errorf("valueset %s: %w", url, err)
			}
		}
	}
	return nil
}

func extractContains(contains *r4.ValueSetExpansionContains, data *valueSet) {
	if contains.Code != nil && contains.System != nil {
		c := Concept{System: *contains.System, Code: *contains.Code}
		if contains.Display != nil {
			c.Display = *contains.Display
		}
		data.add(c)
	}
	for i := range contains.Contains {
		extractContains(&contains.Contains[i], data)
	}
}

func applyFilter(cs *codeSystem, property, op, value string, data *valueSet) error {
	switch {
	case property == "concept" && (op == "is-a" || op == "descendent-of"):
		for _, code := range descendants(cs, value, op == "is-a") {
			if c, ok := cs.codes[code]; ok {
				data.add(c)
			}
		}
	case property == "code" && op == "regex":
		re, err := regexp.Compile("^(?:" + value + ")$")
		if err != nil {
			return fmt.Errorf("invalid regex filter %q: %w", value, err)
		}
		for code, c := range cs.codes {
			if re.MatchString(code) {
				data.add(c)
			}
		}
	case property == "code" && op == "=":
		if c, ok := cs.codes[value]; ok {
			data.add(c)
		}
	default:
		return fmt.Errorf("unsupported filter %s %s", property, op)
	}
	return nil
}

// descendants collects the codes below start. Abstract codes (leading "_")
// are skipped.
func descendants(cs *codeSystem, start string, includeSelf bool) []string {
	var result []string
	visited := make(map[string]bool)

	var collect func(code string)
	collect = func(code string) {
		if visited[code] {
			return
		}
		visited[code] = true
		if (includeSelf || code != start) && (code == "" || code[0] != '_') {
			result = append(result, code)
		}
		for _, child := range cs.children[code] {
			collect(child)
		}
	}

	collect(start)
	return result
}

// ContainsCode reports whether code is defined by the code system system.
func (r *Registry) ContainsCode(system, code string) bool {
	cs, ok := r.systems[stripVersion(system)]
	if !ok {
		return false
	}
	_, ok = cs.codes[code]
	return ok
}

// Lookup returns the concept for (system, code).
func (r *Registry) Lookup(system, code string) (Concept, bool) {
	cs, ok := r.systems[stripVersion(system)]
	if !ok {
		return Concept{}, false
	}
	c, ok := cs.codes[code]
	return c, ok
}

// HasSystem reports whether the code system is loaded.
func (r *Registry) HasSystem(system string) bool {
	_, ok := r.systems[stripVersion(system)]
	return ok
}

// SystemVersion returns the loaded version of a code system.
func (r *Registry) SystemVersion(system string) string {
	if cs, ok := r.systems[stripVersion(system)]; ok {
		return cs.version
	}
	return ""
}

// Systems returns the loaded code system URIs in sorted order.
func (r *Registry) Systems() []string {
	out := make([]string, 0, len(r.systems))
	for url := range r.systems {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

// ValueSets returns the loaded value set URLs in sorted order.
func (r *Registry) ValueSets() []string {
	out := make([]string, 0, len(r.valueSets))
	for url := range r.valueSets {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

// InValueSet reports whether (system, code) is a member of the value set.
// An empty system matches the code in any system of the value set. known is
// false when the value set is not loaded.
func (r *Registry) InValueSet(valueSetURL, system, code string) (member, known bool) {
	vs, ok := r.valueSets[stripVersion(valueSetURL)]
	if !ok {
		return false, false
	}
	if system != "" {
		_, member = vs.codes[system][code]
		return member, true
	}
	for _, codes := range vs.codes {
		if _, ok := codes[code]; ok {
			return true, true
		}
	}
	return false, true
}

// Expand returns the members of a value set sorted by system then code.
func (r *Registry) Expand(valueSetURL string) ([]Concept, bool) {
	vs, ok := r.valueSets[stripVersion(valueSetURL)]
	if !ok {
		return nil, false
	}
	var out []Concept
	for _, codes := range vs.codes {
		for _, c := range codes {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].Code < out[j].Code
	})
	return out, true
}

// CodeSystemCount returns the number of loaded code systems.
func (r *Registry) CodeSystemCount() int { return len(r.systems) }

// ValueSetCount returns the number of loaded value sets.
func (r *Registry) ValueSetCount() int { return len(r.valueSets) }

// stripVersion removes the "|version" suffix of a canonical URL.
func stripVersion(url string) string {
	if idx := strings.LastIndex(url, "|"); idx != -1 {
		return url[:idx]
	}
	return url
}
