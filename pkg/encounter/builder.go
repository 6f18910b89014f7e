package encounter

import (
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Option sets an element of an Encounter under construction.
type Option func(*Encounter)

// New builds an Encounter with the given status and class. An empty id
// gets a generated one. The encounter is returned only if it validates.
func New(id, status string, class datatype.Coding, opts ...Option) (*Encounter, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	e := &Encounter{DomainResource: base, Status: status, Class: &class}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// WithIdentifier appends business identifiers.
func WithIdentifier(ids ...datatype.Identifier) Option {
	return func(e *Encounter) { e.Identifier = append(e.Identifier, ids...) }
}

// WithType appends encounter types.
func WithType(types ...datatype.CodeableConcept) Option {
	return func(e *Encounter) { e.Type = append(e.Type, types...) }
}

// WithServiceType sets the broad category of service.
func WithServiceType(cc datatype.CodeableConcept) Option {
	return func(e *Encounter) { e.ServiceType = &cc }
}

// WithPriority sets the urgency.
func WithPriority(cc datatype.CodeableConcept) Option {
	return func(e *Encounter) { e.Priority = &cc }
}

// WithSubject sets the patient or group present.
func WithSubject(ref datatype.Reference) Option {
	return func(e *Encounter) { e.Subject = &ref }
}

// WithParticipant adds an individual with the given participation types.
func WithParticipant(individual datatype.Reference, types ...datatype.CodeableConcept) Option {
	return func(e *Encounter) {
		e.Participant = append(e.Participant, Participant{Type: types, Individual: &individual})
	}
}

// WithAppointment appends the appointments that scheduled this encounter.
func WithAppointment(refs ...datatype.Reference) Option {
	return func(e *Encounter) { e.Appointment = append(e.Appointment, refs...) }
}

// WithPeriod sets the start and end time.
func WithPeriod(p datatype.Period) Option {
	return func(e *Encounter) { e.Period = &p }
}

// WithLength sets the quantity of time the encounter lasted.
func WithLength(d datatype.Duration) Option {
	return func(e *Encounter) { e.Length = &d }
}

// WithReasonCode appends coded reasons for the encounter.
func WithReasonCode(reasons ...datatype.CodeableConcept) Option {
	return func(e *Encounter) { e.ReasonCode = append(e.ReasonCode, reasons...) }
}

// WithDiagnosis adds a diagnosis with an optional role and a rank; a rank
// below 1 is omitted.
func WithDiagnosis(condition datatype.Reference, use *datatype.CodeableConcept, rank int) Option {
	return func(e *Encounter) {
		d := Diagnosis{Condition: &condition, Use: use}
		if r, err := primitive.NewPositiveInt(rank); err == nil {
			d.Rank = &r
		}
		e.Diagnosis = append(e.Diagnosis, d)
	}
}

// WithHospitalization sets admission details.
func WithHospitalization(h Hospitalization) Option {
	return func(e *Encounter) { e.Hospitalization = &h }
}

// WithLocation adds a location with its status (planned, active, reserved
// or completed).
func WithLocation(location datatype.Reference, status string) Option {
	return func(e *Encounter) {
		e.Location = append(e.Location, Location{Location: &location, Status: status})
	}
}

// WithServiceProvider sets the responsible organization.
func WithServiceProvider(ref datatype.Reference) Option {
	return func(e *Encounter) { e.ServiceProvider = &ref }
}

// WithPartOf sets the enclosing encounter.
func WithPartOf(ref datatype.Reference) Option {
	return func(e *Encounter) { e.PartOf = &ref }
}
