// Package patient implements the FHIR R4 Patient resource.
package patient

import (
	"time"

	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// ResourceType is the FHIR resource type name.
const ResourceType = "Patient"

// Patient holds demographics and administrative information about a person
// receiving care.
type Patient struct {
	datatype.DomainResource
	Identifier           []datatype.Identifier     `json:"identifier,omitempty"`
	Active               *bool                     `json:"active,omitempty"`
	Name                 []datatype.HumanName      `json:"name,omitempty"`
	Telecom              []datatype.ContactPoint   `json:"telecom,omitempty"`
	Gender               string                    `json:"gender,omitempty"`
	BirthDate            *primitive.Date           `json:"birthDate,omitempty"`
	DeceasedBoolean      *bool                     `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     *primitive.DateTime       `json:"deceasedDateTime,omitempty"`
	Address              []datatype.Address        `json:"address,omitempty"`
	MaritalStatus        *datatype.CodeableConcept `json:"maritalStatus,omitempty"`
	MultipleBirthBoolean *bool                     `json:"multipleBirthBoolean,omitempty"`
	MultipleBirthInteger *primitive.Integer        `json:"multipleBirthInteger,omitempty"`
	Photo                []datatype.Attachment     `json:"photo,omitempty"`
	Contact              []Contact                 `json:"contact,omitempty"`
	Communication        []Communication           `json:"communication,omitempty"`
	GeneralPractitioner  []datatype.Reference      `json:"generalPractitioner,omitempty"`
	ManagingOrganization *datatype.Reference       `json:"managingOrganization,omitempty"`
	Link                 []Link                    `json:"link,omitempty"`
}

// Contact is a guardian, partner or other party to contact for the patient.
type Contact struct {
	datatype.BackboneElement
	Relationship []datatype.CodeableConcept `json:"relationship,omitempty"`
	Name         *datatype.HumanName        `json:"name,omitempty"`
	Telecom      []datatype.ContactPoint    `json:"telecom,omitempty"`
	Address      *datatype.Address          `json:"address,omitempty"`
	Gender       string                     `json:"gender,omitempty"`
	Organization *datatype.Reference        `json:"organization,omitempty"`
	Period       *datatype.Period           `json:"period,omitempty"`
}

// Communication is a language the patient can use.
type Communication struct {
	datatype.BackboneElement
	Language  *datatype.CodeableConcept `json:"language,omitempty" validate:"required"`
	Preferred *bool                     `json:"preferred,omitempty"`
}

// Link relates this patient record to another one for the same person.
type Link struct {
	datatype.BackboneElement
	Other *datatype.Reference `json:"other,omitempty" validate:"required"`
	Type  string              `json:"type,omitempty" validate:"required"`
}

// Reference targets allowed by Patient elements.
var (
	practitionerTargets = []string{"Organization", "Practitioner", "PractitionerRole"}
	linkTargets         = []string{"Patient", "RelatedPerson"}
)

// ResourceType implements datatype.Resource.
func (p *Patient) ResourceType() string { return ResourceType }

// Check validates the whole resource.
func (p *Patient) Check() ([]issue.Issue, error) {
	var col issue.Collector
	p.CheckBase(ResourceType, &col)
	datatype.CheckIdentifiers(p.Identifier, "Patient.identifier", &col)
	datatype.CheckNames(p.Name, "Patient.name", &col)
	datatype.CheckTelecoms(p.Telecom, "Patient.telecom", &col)
	datatype.CheckCode(terminology.AdministrativeGender, p.Gender, "Patient.gender", &col)
	if p.DeceasedBoolean != nil && p.DeceasedDateTime != nil {
		col.Add(issue.Invariant("Patient.deceased[x]", "Only one of deceasedBoolean and deceasedDateTime may be present"))
	}
	if p.MultipleBirthBoolean != nil && p.MultipleBirthInteger != nil {
		col.Add(issue.Invariant("Patient.multipleBirth[x]", "Only one of multipleBirthBoolean and multipleBirthInteger may be present"))
	}
	if p.BirthDate != nil && !p.BirthDate.IsZero() && p.DeceasedDateTime != nil {
		birth, err := primitive.ParseDateTime(p.BirthDate.String())
		if err == nil && !primitive.NotAfter(birth, *p.DeceasedDateTime) {
			col.Add(issue.Invariant("Patient.deceasedDateTime", "Patient.deceasedDateTime is before birthDate"))
		}
	}
	datatype.CheckAddresses(p.Address, "Patient.address", &col)
	datatype.CheckConcept(terminology.MaritalStatus, p.MaritalStatus, "Patient.maritalStatus", &col)
	for i, a := range p.Photo {
		a.Check(issue.Index("Patient.photo", i), &col)
	}
	for i := range p.Contact {
		p.Contact[i].check(issue.Index("Patient.contact", i), &col)
	}
	for i := range p.Communication {
		c := &p.Communication[i]
		path := issue.Index("Patient.communication", i)
		c.BackboneElement.Check(path, &col)
		cardinality.Struct(c, path, &col)
		datatype.CheckConcept(terminology.Language, c.Language, issue.Join(path, "language"), &col)
	}
	datatype.CheckReferences(p.GeneralPractitioner, "Patient.generalPractitioner", &col, practitionerTargets...)
	datatype.CheckReference(p.ManagingOrganization, "Patient.managingOrganization", &col, "Organization")
	for i := range p.Link {
		l := &p.Link[i]
		path := issue.Index("Patient.link", i)
		l.BackboneElement.Check(path, &col)
		cardinality.Struct(l, path, &col)
		datatype.CheckReference(l.Other, issue.Join(path, "other"), &col, linkTargets...)
		datatype.CheckCode(terminology.LinkType, l.Type, issue.Join(path, "type"), &col)
	}
	return col.Warnings(), col.Err()
}

// check enforces pat-1: a contact needs details or an organization.
func (c *Contact) check(path string, col *issue.Collector) {
	c.BackboneElement.Check(path, col)
	if c.Name == nil && len(c.Telecom) == 0 && c.Address == nil && c.Organization == nil {
		col.Add(issue.Invariant(path, "SHALL at least contain a contact's details or a reference to an organization"))
	}
	datatype.CheckConcepts(terminology.ContactRelationship, c.Relationship, issue.Join(path, "relationship"), col)
	if c.Name != nil {
		c.Name.Check(issue.Join(path, "name"), col)
	}
	datatype.CheckTelecoms(c.Telecom, issue.Join(path, "telecom"), col)
	if c.Address != nil {
		c.Address.Check(issue.Join(path, "address"), col)
	}
	datatype.CheckCode(terminology.AdministrativeGender, c.Gender, issue.Join(path, "gender"), col)
	datatype.CheckReference(c.Organization, issue.Join(path, "organization"), col, "Organization")
	datatype.CheckPeriod(c.Period, issue.Join(path, "period"), col)
}

// Validate returns every error found, ignoring binding warnings.
func (p *Patient) Validate() error {
	_, err := p.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (p *Patient) Warnings() []issue.Issue {
	warnings, _ := p.Check()
	return warnings
}

// DisplayName returns the preferred printable name.
func (p *Patient) DisplayName() string {
	return datatype.GetDisplayName(p.Name)
}

// PrimaryPhone returns the preferred phone contact point.
func (p *Patient) PrimaryPhone() (datatype.ContactPoint, bool) {
	return datatype.GetPrimaryPhone(p.Telecom)
}

// PrimaryEmail returns the preferred email contact point.
func (p *Patient) PrimaryEmail() (datatype.ContactPoint, bool) {
	return datatype.GetPrimaryEmail(p.Telecom)
}

// Deceased reports whether the patient is known to have died.
func (p *Patient) Deceased() bool {
	return (p.DeceasedBoolean != nil && *p.DeceasedBoolean) || p.DeceasedDateTime != nil
}

// Age returns the patient's age in whole years on the given day. A partial
// birth date is taken at its first day. ok is false without a birth date or
// when on precedes it.
func (p *Patient) Age(on time.Time) (years int, ok bool) {
	if p.BirthDate == nil || p.BirthDate.IsZero() {
		return 0, false
	}
	birth := p.BirthDate.Time()
	y1, m1, d1 := birth.Date()
	y2, m2, d2 := on.Date()
	years = y2 - y1
	if m2 < m1 || (m2 == m1 && d2 < d1) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}
