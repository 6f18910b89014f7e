// Package practitioner implements the FHIR R4 Practitioner, PractitionerRole
// and Organization resources.
package practitioner

import (
	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// ResourceType is the FHIR resource type name of a Practitioner.
const ResourceType = "Practitioner"

// Practitioner is a person directly or indirectly involved in providing
// care.
type Practitioner struct {
	datatype.DomainResource
	Identifier    []datatype.Identifier      `json:"identifier,omitempty"`
	Active        *bool                      `json:"active,omitempty"`
	Name          []datatype.HumanName       `json:"name,omitempty"`
	Telecom       []datatype.ContactPoint    `json:"telecom,omitempty"`
	Address       []datatype.Address         `json:"address,omitempty"`
	Gender        string                     `json:"gender,omitempty"`
	BirthDate     *primitive.Date            `json:"birthDate,omitempty"`
	Photo         []datatype.Attachment      `json:"photo,omitempty"`
	Qualification []Qualification            `json:"qualification,omitempty"`
	Communication []datatype.CodeableConcept `json:"communication,omitempty"`
}

// Qualification is a certification, license or training.
type Qualification struct {
	datatype.BackboneElement
	Identifier []datatype.Identifier     `json:"identifier,omitempty"`
	Code       *datatype.CodeableConcept `json:"code,omitempty" validate:"required"`
	Period     *datatype.Period          `json:"period,omitempty"`
	Issuer     *datatype.Reference       `json:"issuer,omitempty"`
}

// ResourceType implements datatype.Resource.
func (p *Practitioner) ResourceType() string { return ResourceType }

// Check validates the whole resource.
func (p *Practitioner) Check() ([]issue.Issue, error) {
	var col issue.Collector
	p.CheckBase(ResourceType, &col)
	datatype.CheckIdentifiers(p.Identifier, "Practitioner.identifier", &col)
	datatype.CheckNames(p.Name, "Practitioner.name", &col)
	datatype.CheckTelecoms(p.Telecom, "Practitioner.telecom", &col)
	datatype.CheckAddresses(p.Address, "Practitioner.address", &col)
	datatype.CheckCode(terminology.AdministrativeGender, p.Gender, "Practitioner.gender", &col)
	for i, a := range p.Photo {
		a.Check(issue.Index("Practitioner.photo", i), &col)
	}
	for i := range p.Qualification {
		q := &p.Qualification[i]
		path := issue.Index("Practitioner.qualification", i)
		q.BackboneElement.Check(path, &col)
		cardinality.Struct(q, path, &col)
		datatype.CheckIdentifiers(q.Identifier, issue.Join(path, "identifier"), &col)
		datatype.CheckConcept(terminology.QualificationCode, q.Code, issue.Join(path, "code"), &col)
		datatype.CheckPeriod(q.Period, issue.Join(path, "period"), &col)
		datatype.CheckReference(q.Issuer, issue.Join(path, "issuer"), &col, "Organization")
	}
	datatype.CheckConcepts(terminology.Language, p.Communication, "Practitioner.communication", &col)
	return col.Warnings(), col.Err()
}

// Validate returns every error found, ignoring binding warnings.
func (p *Practitioner) Validate() error {
	_, err := p.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (p *Practitioner) Warnings() []issue.Issue {
	warnings, _ := p.Check()
	return warnings
}

// DisplayName returns the preferred printable name.
func (p *Practitioner) DisplayName() string {
	return datatype.GetDisplayName(p.Name)
}

// IsActive reports whether the record is in active use. An absent flag
// counts as active.
func (p *Practitioner) IsActive() bool {
	return p.Active == nil || *p.Active
}

// HasQualification reports whether any qualification carries (system, code).
func (p *Practitioner) HasQualification(system, code string) bool {
	for _, q := range p.Qualification {
		if q.Code != nil && q.Code.HasCode(system, code) {
			return true
		}
	}
	return false
}
