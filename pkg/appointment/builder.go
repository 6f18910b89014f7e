package appointment

import (
	"time"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Option sets an element of an Appointment under construction.
type Option func(*Appointment)

// New builds an Appointment with the given status and participants. An
// empty id gets a generated one. The appointment is returned only if it
// validates.
func New(id, status string, participants []Participant, opts ...Option) (*Appointment, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	a := &Appointment{DomainResource: base, Status: status, Participant: participants}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Attendee returns a participant for actor with the given participation
// status, marked required.
func Attendee(actor datatype.Reference, status string) Participant {
	return Participant{Actor: &actor, Required: "required", Status: status}
}

// WithIdentifier appends business identifiers.
func WithIdentifier(ids ...datatype.Identifier) Option {
	return func(a *Appointment) { a.Identifier = append(a.Identifier, ids...) }
}

// WithTimes sets start and end, and the matching minutesDuration.
func WithTimes(start, end time.Time) Option {
	return func(a *Appointment) {
		s, e := primitive.InstantOf(start), primitive.InstantOf(end)
		a.Start, a.End = &s, &e
		if d := end.Sub(start); d > 0 && d%time.Minute == 0 {
			if m, err := primitive.NewPositiveInt(int(d / time.Minute)); err == nil {
				a.MinutesDuration = &m
			}
		}
	}
}

// WithMinutesDuration overrides the expected duration in minutes.
func WithMinutesDuration(minutes int) Option {
	return func(a *Appointment) {
		m, _ := primitive.NewPositiveInt(minutes)
		a.MinutesDuration = &m
	}
}

// WithServiceCategory appends broad service categories.
func WithServiceCategory(ccs ...datatype.CodeableConcept) Option {
	return func(a *Appointment) { a.ServiceCategory = append(a.ServiceCategory, ccs...) }
}

// WithServiceType appends the specific services to be performed.
func WithServiceType(ccs ...datatype.CodeableConcept) Option {
	return func(a *Appointment) { a.ServiceType = append(a.ServiceType, ccs...) }
}

// WithSpecialty appends required practitioner specialties.
func WithSpecialty(ccs ...datatype.CodeableConcept) Option {
	return func(a *Appointment) { a.Specialty = append(a.Specialty, ccs...) }
}

// WithAppointmentType sets the style of appointment.
func WithAppointmentType(cc datatype.CodeableConcept) Option {
	return func(a *Appointment) { a.AppointmentType = &cc }
}

// WithReasonCode appends coded reasons for the appointment.
func WithReasonCode(ccs ...datatype.CodeableConcept) Option {
	return func(a *Appointment) { a.ReasonCode = append(a.ReasonCode, ccs...) }
}

// WithReasonReference appends conditions or procedures motivating the visit.
func WithReasonReference(refs ...datatype.Reference) Option {
	return func(a *Appointment) { a.ReasonReference = append(a.ReasonReference, refs...) }
}

// WithPriority sets the scheduling priority; 0 is undefined.
func WithPriority(p int) Option {
	return func(a *Appointment) {
		u, _ := primitive.NewUnsignedInt(p)
		a.Priority = &u
	}
}

// WithDescription sets the short description shown in lists.
func WithDescription(s string) Option {
	return func(a *Appointment) { a.Description = s }
}

// WithSupportingInformation appends related resources.
func WithSupportingInformation(refs ...datatype.Reference) Option {
	return func(a *Appointment) { a.SupportingInformation = append(a.SupportingInformation, refs...) }
}

// WithSlot appends the slots this appointment fills.
func WithSlot(refs ...datatype.Reference) Option {
	return func(a *Appointment) { a.Slot = append(a.Slot, refs...) }
}

// WithCreated sets when the appointment was first recorded.
func WithCreated(t time.Time) Option {
	return func(a *Appointment) {
		dt := primitive.DateTimeOf(t)
		a.Created = &dt
	}
}

// WithComment sets free-text notes.
func WithComment(s string) Option {
	return func(a *Appointment) { a.Comment = s }
}

// WithPatientInstruction sets instructions for the patient.
func WithPatientInstruction(s string) Option {
	return func(a *Appointment) { a.PatientInstruction = s }
}

// WithBasedOn appends the service requests being fulfilled.
func WithBasedOn(refs ...datatype.Reference) Option {
	return func(a *Appointment) { a.BasedOn = append(a.BasedOn, refs...) }
}

// WithRequestedPeriod appends preferred time windows.
func WithRequestedPeriod(periods ...datatype.Period) Option {
	return func(a *Appointment) { a.RequestedPeriod = append(a.RequestedPeriod, periods...) }
}
