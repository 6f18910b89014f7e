// Package datatype provides the FHIR R4 complex data types shared by all
// resources, the DomainResource base, and the factories that build
// well-formed values.
//
// Optional primitive-valued elements of type string, code and uri are plain
// strings: FHIR forbids empty strings, so "" means absent and omitempty
// drops it. Other optional primitives and all complex elements are
// pointers; repeating elements are nil slices when absent.
package datatype

import (
	"github.com/gofhir/model/pkg/primitive"
)

// Well-known systems.
const (
	SystemUCUM  = "http://unitsofmeasure.org"
	SystemLOINC = "http://loinc.org"
)

// Coding is a reference to a code defined by a terminology system.
type Coding struct {
	System       string `json:"system,omitempty"`
	Version      string `json:"version,omitempty"`
	Code         string `json:"code,omitempty"`
	Display      string `json:"display,omitempty"`
	UserSelected *bool  `json:"userSelected,omitempty"`
}

// CodeableConcept is a concept expressed by codings and/or text.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// HasCode reports whether any coding matches (system, code).
func (cc CodeableConcept) HasCode(system, code string) bool {
	for _, c := range cc.Coding {
		if c.System == system && c.Code == code {
			return true
		}
	}
	return false
}

// Identifier is a business identifier assigned within a system.
type Identifier struct {
	Use      string           `json:"use,omitempty"`
	Type     *CodeableConcept `json:"type,omitempty"`
	System   string           `json:"system,omitempty"`
	Value    string           `json:"value,omitempty"`
	Period   *Period          `json:"period,omitempty"`
	Assigner *Reference       `json:"assigner,omitempty"`
}

// Reference is a weak pointer to another resource. It is never resolved by
// this module.
type Reference struct {
	Reference  string      `json:"reference,omitempty"`
	Type       string      `json:"type,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
	Display    string      `json:"display,omitempty"`
}

// Period is a time range; either bound may be open.
type Period struct {
	Start *primitive.DateTime `json:"start,omitempty"`
	End   *primitive.DateTime `json:"end,omitempty"`
}

// Quantity is a measured amount.
type Quantity struct {
	Value      *primitive.Decimal `json:"value,omitempty"`
	Comparator string             `json:"comparator,omitempty"`
	Unit       string             `json:"unit,omitempty"`
	System     string             `json:"system,omitempty"`
	Code       string             `json:"code,omitempty"`
}

// Duration is a length of time, coded in UCUM.
type Duration Quantity

// HumanName is a person's name with its parts.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
	Prefix []string `json:"prefix,omitempty"`
	Suffix []string `json:"suffix,omitempty"`
	Period *Period  `json:"period,omitempty"`
}

// ContactPoint is a telecommunications contact detail.
type ContactPoint struct {
	System string                 `json:"system,omitempty"`
	Value  string                 `json:"value,omitempty"`
	Use    string                 `json:"use,omitempty"`
	Rank   *primitive.PositiveInt `json:"rank,omitempty"`
	Period *Period                `json:"period,omitempty"`
}

// Address is a postal or physical address.
type Address struct {
	Use        string   `json:"use,omitempty"`
	Type       string   `json:"type,omitempty"`
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Period     *Period  `json:"period,omitempty"`
}

// Attachment is inline or referenced content.
type Attachment struct {
	ContentType string                 `json:"contentType,omitempty"`
	Language    string                 `json:"language,omitempty"`
	Data        string                 `json:"data,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Size        *primitive.UnsignedInt `json:"size,omitempty"`
	Hash        string                 `json:"hash,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Creation    *primitive.DateTime    `json:"creation,omitempty"`
}

// Extension carries an additional element defined by url. It holds either
// nested extensions or exactly one value.
type Extension struct {
	URL                  string              `json:"url"`
	Extension            []Extension         `json:"extension,omitempty"`
	ValueBoolean         *bool               `json:"valueBoolean,omitempty"`
	ValueCode            string              `json:"valueCode,omitempty"`
	ValueString          string              `json:"valueString,omitempty"`
	ValueURI             string              `json:"valueUri,omitempty"`
	ValueInteger         *primitive.Integer  `json:"valueInteger,omitempty"`
	ValueDecimal         *primitive.Decimal  `json:"valueDecimal,omitempty"`
	ValueDate            *primitive.Date     `json:"valueDate,omitempty"`
	ValueDateTime        *primitive.DateTime `json:"valueDateTime,omitempty"`
	ValueCoding          *Coding             `json:"valueCoding,omitempty"`
	ValueCodeableConcept *CodeableConcept    `json:"valueCodeableConcept,omitempty"`
	ValueQuantity        *Quantity           `json:"valueQuantity,omitempty"`
	ValuePeriod          *Period             `json:"valuePeriod,omitempty"`
	ValueReference       *Reference          `json:"valueReference,omitempty"`
}

// valueCount returns how many value[x] variants are set.
func (e Extension) valueCount() int {
	n := 0
	for _, set := range []bool{
		e.ValueBoolean != nil, e.ValueCode != "", e.ValueString != "", e.ValueURI != "",
		e.ValueInteger != nil, e.ValueDecimal != nil, e.ValueDate != nil, e.ValueDateTime != nil,
		e.ValueCoding != nil, e.ValueCodeableConcept != nil, e.ValueQuantity != nil,
		e.ValuePeriod != nil, e.ValueReference != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// FindExtension returns the first extension with url.
func FindExtension(exts []Extension, url string) (Extension, bool) {
	for _, e := range exts {
		if e.URL == url {
			return e, true
		}
	}
	return Extension{}, false
}

// Meta is resource metadata maintained by the infrastructure.
type Meta struct {
	VersionID   string             `json:"versionId,omitempty"`
	LastUpdated *primitive.Instant `json:"lastUpdated,omitempty"`
	Source      string             `json:"source,omitempty"`
	Profile     []string           `json:"profile,omitempty"`
	Security    []Coding           `json:"security,omitempty"`
	Tag         []Coding           `json:"tag,omitempty"`
}

// Narrative is the human-readable XHTML summary of a resource.
type Narrative struct {
	Status string `json:"status"`
	Div    string `json:"div"`
}

// BackboneElement is embedded in every nested resource component.
type BackboneElement struct {
	ID                string      `json:"id,omitempty"`
	Extension         []Extension `json:"extension,omitempty"`
	ModifierExtension []Extension `json:"modifierExtension,omitempty"`
}
