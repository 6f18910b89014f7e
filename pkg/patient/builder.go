package patient

import (
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Option sets an element of a Patient under construction.
type Option func(*Patient)

// New builds a Patient with the given id, or a generated one when id is
// empty. The patient is returned only if it validates.
func New(id string, opts ...Option) (*Patient, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	p := &Patient{DomainResource: base}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WithIdentifier appends business identifiers.
func WithIdentifier(ids ...datatype.Identifier) Option {
	return func(p *Patient) { p.Identifier = append(p.Identifier, ids...) }
}

// WithActive sets whether the record is in active use.
func WithActive(active bool) Option {
	return func(p *Patient) { p.Active = &active }
}

// WithName appends names.
func WithName(names ...datatype.HumanName) Option {
	return func(p *Patient) { p.Name = append(p.Name, names...) }
}

// WithTelecom appends contact points.
func WithTelecom(cps ...datatype.ContactPoint) Option {
	return func(p *Patient) { p.Telecom = append(p.Telecom, cps...) }
}

// WithGender sets the administrative gender.
func WithGender(gender string) Option {
	return func(p *Patient) { p.Gender = gender }
}

// WithBirthDate sets the date of birth.
func WithBirthDate(d primitive.Date) Option {
	return func(p *Patient) { p.BirthDate = &d }
}

// WithDeceased marks the patient as deceased without a date.
func WithDeceased(deceased bool) Option {
	return func(p *Patient) {
		p.DeceasedBoolean = &deceased
		p.DeceasedDateTime = nil
	}
}

// WithDeceasedAt records the date of death.
func WithDeceasedAt(dt primitive.DateTime) Option {
	return func(p *Patient) {
		p.DeceasedDateTime = &dt
		p.DeceasedBoolean = nil
	}
}

// WithAddress appends addresses.
func WithAddress(addrs ...datatype.Address) Option {
	return func(p *Patient) { p.Address = append(p.Address, addrs...) }
}

// WithMaritalStatus sets the marital status.
func WithMaritalStatus(cc datatype.CodeableConcept) Option {
	return func(p *Patient) { p.MaritalStatus = &cc }
}

// WithMultipleBirth records the birth order of a multiple birth.
func WithMultipleBirth(order primitive.Integer) Option {
	return func(p *Patient) {
		p.MultipleBirthInteger = &order
		p.MultipleBirthBoolean = nil
	}
}

// WithPhoto appends images of the patient.
func WithPhoto(photos ...datatype.Attachment) Option {
	return func(p *Patient) { p.Photo = append(p.Photo, photos...) }
}

// WithContact appends contact parties.
func WithContact(contacts ...Contact) Option {
	return func(p *Patient) { p.Contact = append(p.Contact, contacts...) }
}

// WithCommunication adds a language, optionally the preferred one.
func WithCommunication(language datatype.CodeableConcept, preferred bool) Option {
	return func(p *Patient) {
		c := Communication{Language: &language}
		if preferred {
			c.Preferred = &preferred
		}
		p.Communication = append(p.Communication, c)
	}
}

// WithGeneralPractitioner appends nominated care providers.
func WithGeneralPractitioner(refs ...datatype.Reference) Option {
	return func(p *Patient) { p.GeneralPractitioner = append(p.GeneralPractitioner, refs...) }
}

// WithManagingOrganization sets the custodian organization.
func WithManagingOrganization(ref datatype.Reference) Option {
	return func(p *Patient) { p.ManagingOrganization = &ref }
}

// WithLink links another patient record with the given link type.
func WithLink(other datatype.Reference, linkType string) Option {
	return func(p *Patient) {
		p.Link = append(p.Link, Link{Other: &other, Type: linkType})
	}
}
