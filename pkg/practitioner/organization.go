package practitioner

import (
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/terminology"
)

// OrganizationResourceType is the FHIR resource type name of an
// Organization.
const OrganizationResourceType = "Organization"

// Organization is a formally or informally recognized grouping of people
// or organizations.
type Organization struct {
	datatype.DomainResource
	Identifier []datatype.Identifier      `json:"identifier,omitempty"`
	Active     *bool                      `json:"active,omitempty"`
	Type       []datatype.CodeableConcept `json:"type,omitempty"`
	Name       string                     `json:"name,omitempty"`
	Alias      []string                   `json:"alias,omitempty"`
	Telecom    []datatype.ContactPoint    `json:"telecom,omitempty"`
	Address    []datatype.Address         `json:"address,omitempty"`
	PartOf     *datatype.Reference        `json:"partOf,omitempty"`
	Contact    []OrganizationContact      `json:"contact,omitempty"`
	Endpoint   []datatype.Reference       `json:"endpoint,omitempty"`
}

// OrganizationContact is a person to contact on behalf of the organization.
type OrganizationContact struct {
	datatype.BackboneElement
	Purpose *datatype.CodeableConcept `json:"purpose,omitempty"`
	Name    *datatype.HumanName       `json:"name,omitempty"`
	Telecom []datatype.ContactPoint   `json:"telecom,omitempty"`
	Address *datatype.Address         `json:"address,omitempty"`
}

// ResourceType implements datatype.Resource.
func (o *Organization) ResourceType() string { return OrganizationResourceType }

// Check validates the whole resource, including org-1 to org-3.
func (o *Organization) Check() ([]issue.Issue, error) {
	var col issue.Collector
	o.CheckBase(OrganizationResourceType, &col)
	if o.Name == "" && len(o.Identifier) == 0 {
		col.Add(issue.Invariant("Organization", "The organization SHALL at least have a name or an identifier, and possibly more than one"))
	}
	datatype.CheckIdentifiers(o.Identifier, "Organization.identifier", &col)
	datatype.CheckConcepts(terminology.OrganizationType, o.Type, "Organization.type", &col)
	for i, a := range o.Alias {
		if a == "" {
			col.Add(issue.Required(issue.Index("Organization.alias", i)))
		}
	}
	datatype.CheckTelecoms(o.Telecom, "Organization.telecom", &col)
	for i, cp := range o.Telecom {
		if cp.Use == "home" {
			col.Add(issue.Invariant(issue.Join(issue.Index("Organization.telecom", i), "use"), "The telecom of an organization can never be of use 'home'"))
		}
	}
	datatype.CheckAddresses(o.Address, "Organization.address", &col)
	for i, a := range o.Address {
		if a.Use == "home" {
			col.Add(issue.Invariant(issue.Join(issue.Index("Organization.address", i), "use"), "An address of an organization can never be of use 'home'"))
		}
	}
	datatype.CheckReference(o.PartOf, "Organization.partOf", &col, "Organization")
	if o.PartOf != nil && o.ID() != "" && o.PartOf.Reference == OrganizationResourceType+"/"+o.ID() {
		col.Add(issue.Invariant("Organization.partOf", "An organization cannot be part of itself"))
	}
	for i := range o.Contact {
		c := &o.Contact[i]
		path := issue.Index("Organization.contact", i)
		c.BackboneElement.Check(path, &col)
		if c.Purpose != nil {
			c.Purpose.Check(issue.Join(path, "purpose"), &col)
		}
		if c.Name != nil {
			c.Name.Check(issue.Join(path, "name"), &col)
		}
		datatype.CheckTelecoms(c.Telecom, issue.Join(path, "telecom"), &col)
		if c.Address != nil {
			c.Address.Check(issue.Join(path, "address"), &col)
		}
	}
	datatype.CheckReferences(o.Endpoint, "Organization.endpoint", &col, "Endpoint")
	return col.Warnings(), col.Err()
}

// Validate returns every error found, ignoring binding warnings.
func (o *Organization) Validate() error {
	_, err := o.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (o *Organization) Warnings() []issue.Issue {
	warnings, _ := o.Check()
	return warnings
}

// IsActive reports whether the organization is in active use. An absent
// flag counts as active.
func (o *Organization) IsActive() bool {
	return o.Active == nil || *o.Active
}

// Names returns the name followed by the aliases.
func (o *Organization) Names() []string {
	var names []string
	if o.Name != "" {
		names = append(names, o.Name)
	}
	return append(names, o.Alias...)
}
