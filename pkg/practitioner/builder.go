package practitioner

import (
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Option sets an element of a Practitioner under construction.
type Option func(*Practitioner)

// New builds a Practitioner with the given id, or a generated one when id
// is empty. The practitioner is returned only if it validates.
func New(id string, opts ...Option) (*Practitioner, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	p := &Practitioner{DomainResource: base}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WithIdentifier appends business identifiers such as an NPI.
func WithIdentifier(ids ...datatype.Identifier) Option {
	return func(p *Practitioner) { p.Identifier = append(p.Identifier, ids...) }
}

// WithActive sets whether the record is in active use.
func WithActive(active bool) Option {
	return func(p *Practitioner) { p.Active = &active }
}

// WithName appends names.
func WithName(names ...datatype.HumanName) Option {
	return func(p *Practitioner) { p.Name = append(p.Name, names...) }
}

// WithTelecom appends contact points.
func WithTelecom(cps ...datatype.ContactPoint) Option {
	return func(p *Practitioner) { p.Telecom = append(p.Telecom, cps...) }
}

// WithAddress appends addresses.
func WithAddress(addrs ...datatype.Address) Option {
	return func(p *Practitioner) { p.Address = append(p.Address, addrs...) }
}

// WithGender sets the administrative gender.
func WithGender(gender string) Option {
	return func(p *Practitioner) { p.Gender = gender }
}

// WithBirthDate sets the date of birth.
func WithBirthDate(d primitive.Date) Option {
	return func(p *Practitioner) { p.BirthDate = &d }
}

// WithPhoto appends images of the practitioner.
func WithPhoto(photos ...datatype.Attachment) Option {
	return func(p *Practitioner) { p.Photo = append(p.Photo, photos...) }
}

// WithQualification appends a qualification with an optional issuing
// organization.
func WithQualification(code datatype.CodeableConcept, issuer *datatype.Reference) Option {
	return func(p *Practitioner) {
		p.Qualification = append(p.Qualification, Qualification{Code: &code, Issuer: issuer})
	}
}

// WithCommunication appends languages the practitioner can use.
func WithCommunication(langs ...datatype.CodeableConcept) Option {
	return func(p *Practitioner) { p.Communication = append(p.Communication, langs...) }
}

// RoleOption sets an element of a PractitionerRole under construction.
type RoleOption func(*Role)

// NewRole builds a PractitionerRole. The role is returned only if it
// validates.
func NewRole(id string, opts ...RoleOption) (*Role, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	r := &Role{DomainResource: base}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// WithRoleIdentifier appends business identifiers.
func WithRoleIdentifier(ids ...datatype.Identifier) RoleOption {
	return func(r *Role) { r.Identifier = append(r.Identifier, ids...) }
}

// WithRoleActive sets whether the role is in active use.
func WithRoleActive(active bool) RoleOption {
	return func(r *Role) { r.Active = &active }
}

// WithRolePeriod sets when the practitioner holds the role.
func WithRolePeriod(p datatype.Period) RoleOption {
	return func(r *Role) { r.Period = &p }
}

// ForPractitioner sets the practitioner holding the role.
func ForPractitioner(ref datatype.Reference) RoleOption {
	return func(r *Role) { r.Practitioner = &ref }
}

// AtOrganization sets the organization the role is performed for.
func AtOrganization(ref datatype.Reference) RoleOption {
	return func(r *Role) { r.Organization = &ref }
}

// WithRoleCode appends the roles the practitioner may perform.
func WithRoleCode(codes ...datatype.CodeableConcept) RoleOption {
	return func(r *Role) { r.Code = append(r.Code, codes...) }
}

// WithSpecialty appends specialties.
func WithSpecialty(ccs ...datatype.CodeableConcept) RoleOption {
	return func(r *Role) { r.Specialty = append(r.Specialty, ccs...) }
}

// AtLocation appends the locations where the role is performed.
func AtLocation(refs ...datatype.Reference) RoleOption {
	return func(r *Role) { r.Location = append(r.Location, refs...) }
}

// WithHealthcareService appends services provided in the role.
func WithHealthcareService(refs ...datatype.Reference) RoleOption {
	return func(r *Role) { r.HealthcareService = append(r.HealthcareService, refs...) }
}

// WithRoleTelecom appends role-specific contact points.
func WithRoleTelecom(cps ...datatype.ContactPoint) RoleOption {
	return func(r *Role) { r.Telecom = append(r.Telecom, cps...) }
}

// WithAvailableTime adds a weekly window from start to end on days.
func WithAvailableTime(days []string, start, end primitive.Time) RoleOption {
	return func(r *Role) {
		r.AvailableTime = append(r.AvailableTime, AvailableTime{
			DaysOfWeek: days, AvailableStartTime: &start, AvailableEndTime: &end,
		})
	}
}

// WithAllDay adds a whole-day availability on days.
func WithAllDay(days ...string) RoleOption {
	return func(r *Role) {
		allDay := true
		r.AvailableTime = append(r.AvailableTime, AvailableTime{DaysOfWeek: days, AllDay: &allDay})
	}
}

// WithNotAvailable adds a described period of unavailability.
func WithNotAvailable(description string, during *datatype.Period) RoleOption {
	return func(r *Role) {
		r.NotAvailable = append(r.NotAvailable, NotAvailable{Description: description, During: during})
	}
}

// WithAvailabilityExceptions describes exceptions to the available times.
func WithAvailabilityExceptions(s string) RoleOption {
	return func(r *Role) { r.AvailabilityExceptions = s }
}

// OrganizationOption sets an element of an Organization under construction.
type OrganizationOption func(*Organization)

// NewOrganization builds an Organization. It needs a name or an
// identifier. The organization is returned only if it validates.
func NewOrganization(id, name string, opts ...OrganizationOption) (*Organization, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	o := &Organization{DomainResource: base, Name: name}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// WithOrganizationIdentifier appends business identifiers.
func WithOrganizationIdentifier(ids ...datatype.Identifier) OrganizationOption {
	return func(o *Organization) { o.Identifier = append(o.Identifier, ids...) }
}

// WithOrganizationActive sets whether the organization is in active use.
func WithOrganizationActive(active bool) OrganizationOption {
	return func(o *Organization) { o.Active = &active }
}

// WithOrganizationType appends kinds of organization.
func WithOrganizationType(ccs ...datatype.CodeableConcept) OrganizationOption {
	return func(o *Organization) { o.Type = append(o.Type, ccs...) }
}

// WithAlias appends alternative names.
func WithAlias(aliases ...string) OrganizationOption {
	return func(o *Organization) { o.Alias = append(o.Alias, aliases...) }
}

// WithOrganizationTelecom appends contact points.
func WithOrganizationTelecom(cps ...datatype.ContactPoint) OrganizationOption {
	return func(o *Organization) { o.Telecom = append(o.Telecom, cps...) }
}

// WithOrganizationAddress appends addresses.
func WithOrganizationAddress(addrs ...datatype.Address) OrganizationOption {
	return func(o *Organization) { o.Address = append(o.Address, addrs...) }
}

// WithPartOf sets the parent organization.
func WithPartOf(ref datatype.Reference) OrganizationOption {
	return func(o *Organization) { o.PartOf = &ref }
}

// WithContact appends a contact person.
func WithContact(c OrganizationContact) OrganizationOption {
	return func(o *Organization) { o.Contact = append(o.Contact, c) }
}

// WithEndpoint appends technical endpoints.
func WithEndpoint(refs ...datatype.Reference) OrganizationOption {
	return func(o *Organization) { o.Endpoint = append(o.Endpoint, refs...) }
}
