// Package appointment implements the FHIR R4 Appointment resource and its
// booking workflow.
package appointment

import (
	"strconv"
	"time"

	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// ResourceType is the FHIR resource type name.
const ResourceType = "Appointment"

// Appointment statuses.
const (
	StatusProposed       = "proposed"
	StatusPending        = "pending"
	StatusBooked         = "booked"
	StatusArrived        = "arrived"
	StatusFulfilled      = "fulfilled"
	StatusCancelled      = "cancelled"
	StatusNoShow         = "noshow"
	StatusEnteredInError = "entered-in-error"
	StatusCheckedIn      = "checked-in"
	StatusWaitlist       = "waitlist"
)

// Participation statuses.
const (
	ParticipantAccepted    = "accepted"
	ParticipantDeclined    = "declined"
	ParticipantTentative   = "tentative"
	ParticipantNeedsAction = "needs-action"
)

// Appointment is a booking of a healthcare event among patients,
// practitioners, related persons and devices.
type Appointment struct {
	datatype.DomainResource
	Identifier            []datatype.Identifier      `json:"identifier,omitempty"`
	Status                string                     `json:"status,omitempty"`
	CancelationReason     *datatype.CodeableConcept  `json:"cancelationReason,omitempty"`
	ServiceCategory       []datatype.CodeableConcept `json:"serviceCategory,omitempty"`
	ServiceType           []datatype.CodeableConcept `json:"serviceType,omitempty"`
	Specialty             []datatype.CodeableConcept `json:"specialty,omitempty"`
	AppointmentType       *datatype.CodeableConcept  `json:"appointmentType,omitempty"`
	ReasonCode            []datatype.CodeableConcept `json:"reasonCode,omitempty"`
	ReasonReference       []datatype.Reference       `json:"reasonReference,omitempty"`
	Priority              *primitive.UnsignedInt     `json:"priority,omitempty"`
	Description           string                     `json:"description,omitempty"`
	SupportingInformation []datatype.Reference       `json:"supportingInformation,omitempty"`
	Start                 *primitive.Instant         `json:"start,omitempty"`
	End                   *primitive.Instant         `json:"end,omitempty"`
	MinutesDuration       *primitive.PositiveInt     `json:"minutesDuration,omitempty"`
	Slot                  []datatype.Reference       `json:"slot,omitempty"`
	Created               *primitive.DateTime        `json:"created,omitempty"`
	Comment               string                     `json:"comment,omitempty"`
	PatientInstruction    string                     `json:"patientInstruction,omitempty"`
	BasedOn               []datatype.Reference       `json:"basedOn,omitempty"`
	Participant           []Participant              `json:"participant,omitempty"`
	RequestedPeriod       []datatype.Period          `json:"requestedPeriod,omitempty"`
}

// Participant is an individual or resource taking part in the appointment.
type Participant struct {
	datatype.BackboneElement
	Type     []datatype.CodeableConcept `json:"type,omitempty" validate:"required_without=Actor"`
	Actor    *datatype.Reference        `json:"actor,omitempty"`
	Required string                     `json:"required,omitempty"`
	Status   string                     `json:"status,omitempty" validate:"required"`
	Period   *datatype.Period           `json:"period,omitempty"`
}

var actorTargets = []string{
	"Patient", "Practitioner", "PractitionerRole", "RelatedPerson", "Device", "HealthcareService", "Location",
}

// unscheduled statuses may omit start and end.
var unscheduled = map[string]bool{
	StatusProposed:  true,
	StatusCancelled: true,
	StatusWaitlist:  true,
}

// ResourceType implements datatype.Resource.
func (a *Appointment) ResourceType() string { return ResourceType }

// Check validates the whole resource.
func (a *Appointment) Check() ([]issue.Issue, error) {
	var col issue.Collector
	a.CheckBase(ResourceType, &col)
	datatype.CheckIdentifiers(a.Identifier, "Appointment.identifier", &col)
	datatype.RequireCode(terminology.AppointmentStatus, a.Status, "Appointment.status", &col)
	datatype.CheckConcept(terminology.CancellationReason, a.CancelationReason, "Appointment.cancelationReason", &col)
	if a.CancelationReason != nil && a.Status != StatusCancelled && a.Status != StatusNoShow {
		col.Add(issue.Invariant("Appointment.cancelationReason", "Cancelation reason is only used for appointments that have been cancelled, or no-show"))
	}
	checkConcepts(a.ServiceCategory, "Appointment.serviceCategory", &col)
	checkConcepts(a.ServiceType, "Appointment.serviceType", &col)
	checkConcepts(a.Specialty, "Appointment.specialty", &col)
	if a.AppointmentType != nil {
		a.AppointmentType.Check("Appointment.appointmentType", &col)
	}
	checkConcepts(a.ReasonCode, "Appointment.reasonCode", &col)
	datatype.CheckReferences(a.ReasonReference, "Appointment.reasonReference", &col,
		"Condition", "Procedure", "Observation", "ImmunizationRecommendation")
	datatype.CheckReferences(a.SupportingInformation, "Appointment.supportingInformation", &col)
	a.checkTiming(&col)
	datatype.CheckReferences(a.Slot, "Appointment.slot", &col, "Slot")
	datatype.CheckReferences(a.BasedOn, "Appointment.basedOn", &col, "ServiceRequest")

	cardinality.Min(len(a.Participant), 1, "Appointment.participant", &col)
	for i := range a.Participant {
		a.Participant[i].check(issue.Index("Appointment.participant", i), &col)
	}
	for i := range a.RequestedPeriod {
		a.RequestedPeriod[i].Check(issue.Index("Appointment.requestedPeriod", i), &col)
	}
	return col.Warnings(), col.Err()
}

// checkTiming enforces app-2, app-3, end after start, and a
// minutesDuration consistent with the interval.
func (a *Appointment) checkTiming(col *issue.Collector) {
	if a.MinutesDuration != nil && a.MinutesDuration.IsZero() {
		col.Add(issue.Range("Appointment.minutesDuration", primitive.TypePositiveInt, "0"))
	}
	if (a.Start == nil) != (a.End == nil) {
		col.Add(issue.Invariant("Appointment", "Either start and end are specified, or neither"))
		return
	}
	if a.Start == nil {
		if a.Status != "" && !unscheduled[a.Status] {
			col.Add(issue.Invariant("Appointment", "Only proposed or cancelled appointments can be missing start/end dates"))
		}
		return
	}
	start, end := a.Start.Time(), a.End.Time()
	if !end.After(start) {
		col.Add(issue.Invariant("Appointment.end", "Appointment.end "+a.End.String()+" must be after start "+a.Start.String()))
		return
	}
	if a.MinutesDuration != nil {
		span := end.Sub(start)
		if span%time.Minute != 0 || int(span/time.Minute) != a.MinutesDuration.Value() {
			col.Add(issue.Invariant("Appointment.minutesDuration",
				"minutesDuration "+a.MinutesDuration.String()+" does not match the "+strconv.FormatFloat(span.Minutes(), 'f', -1, 64)+" minutes between start and end"))
		}
	}
}

func (p *Participant) check(path string, col *issue.Collector) {
	p.BackboneElement.Check(path, col)
	cardinality.Struct(p, path, col)
	checkConcepts(p.Type, issue.Join(path, "type"), col)
	datatype.CheckReference(p.Actor, issue.Join(path, "actor"), col, actorTargets...)
	datatype.CheckCode(terminology.ParticipantRequired, p.Required, issue.Join(path, "required"), col)
	datatype.CheckCode(terminology.ParticipationStatus, p.Status, issue.Join(path, "status"), col)
	datatype.CheckPeriod(p.Period, issue.Join(path, "period"), col)
}

func checkConcepts(ccs []datatype.CodeableConcept, path string, col *issue.Collector) {
	for i := range ccs {
		ccs[i].Check(issue.Index(path, i), col)
	}
}

// Validate returns every error found, ignoring binding warnings.
func (a *Appointment) Validate() error {
	_, err := a.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (a *Appointment) Warnings() []issue.Issue {
	warnings, _ := a.Check()
	return warnings
}

// Duration returns end − start when both are set.
func (a *Appointment) Duration() (time.Duration, bool) {
	if a.Start == nil || a.End == nil {
		return 0, false
	}
	return a.End.Time().Sub(a.Start.Time()), true
}

// ParticipantFor returns the participant whose actor is reference.
func (a *Appointment) ParticipantFor(reference string) (*Participant, bool) {
	for i := range a.Participant {
		if p := &a.Participant[i]; p.Actor != nil && p.Actor.Reference == reference {
			return p, true
		}
	}
	return nil, false
}
