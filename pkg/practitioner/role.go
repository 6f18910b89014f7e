package practitioner

import (
	"slices"
	"time"

	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// RoleResourceType is the FHIR resource type name of a PractitionerRole.
const RoleResourceType = "PractitionerRole"

// Days of the week.
const (
	Monday    = "mon"
	Tuesday   = "tue"
	Wednesday = "wed"
	Thursday  = "thu"
	Friday    = "fri"
	Saturday  = "sat"
	Sunday    = "sun"
)

// Weekdays are Monday to Friday.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekday = map[time.Weekday]string{
	time.Monday: Monday, time.Tuesday: Tuesday, time.Wednesday: Wednesday, time.Thursday: Thursday,
	time.Friday: Friday, time.Saturday: Saturday, time.Sunday: Sunday,
}

// Role is a PractitionerRole: the services a practitioner provides for an
// organization, where and when.
type Role struct {
	datatype.DomainResource
	Identifier             []datatype.Identifier      `json:"identifier,omitempty"`
	Active                 *bool                      `json:"active,omitempty"`
	Period                 *datatype.Period           `json:"period,omitempty"`
	Practitioner           *datatype.Reference        `json:"practitioner,omitempty"`
	Organization           *datatype.Reference        `json:"organization,omitempty"`
	Code                   []datatype.CodeableConcept `json:"code,omitempty"`
	Specialty              []datatype.CodeableConcept `json:"specialty,omitempty"`
	Location               []datatype.Reference       `json:"location,omitempty"`
	HealthcareService      []datatype.Reference       `json:"healthcareService,omitempty"`
	Telecom                []datatype.ContactPoint    `json:"telecom,omitempty"`
	AvailableTime          []AvailableTime            `json:"availableTime,omitempty"`
	NotAvailable           []NotAvailable             `json:"notAvailable,omitempty"`
	AvailabilityExceptions string                     `json:"availabilityExceptions,omitempty"`
	Endpoint               []datatype.Reference       `json:"endpoint,omitempty"`
}

// AvailableTime is a recurring weekly window when the practitioner is
// available.
type AvailableTime struct {
	datatype.BackboneElement
	DaysOfWeek         []string        `json:"daysOfWeek,omitempty"`
	AllDay             *bool           `json:"allDay,omitempty"`
	AvailableStartTime *primitive.Time `json:"availableStartTime,omitempty"`
	AvailableEndTime   *primitive.Time `json:"availableEndTime,omitempty"`
}

// NotAvailable is a period when the practitioner is unavailable.
type NotAvailable struct {
	datatype.BackboneElement
	Description string           `json:"description,omitempty" validate:"required"`
	During      *datatype.Period `json:"during,omitempty"`
}

// ResourceType implements datatype.Resource.
func (r *Role) ResourceType() string { return RoleResourceType }

// Check validates the whole resource.
func (r *Role) Check() ([]issue.Issue, error) {
	var col issue.Collector
	r.CheckBase(RoleResourceType, &col)
	datatype.CheckIdentifiers(r.Identifier, "PractitionerRole.identifier", &col)
	datatype.CheckPeriod(r.Period, "PractitionerRole.period", &col)
	datatype.CheckReference(r.Practitioner, "PractitionerRole.practitioner", &col, "Practitioner")
	datatype.CheckReference(r.Organization, "PractitionerRole.organization", &col, "Organization")
	datatype.CheckConcepts(terminology.PractitionerRoleCode, r.Code, "PractitionerRole.code", &col)
	for i := range r.Specialty {
		r.Specialty[i].Check(issue.Index("PractitionerRole.specialty", i), &col)
	}
	datatype.CheckReferences(r.Location, "PractitionerRole.location", &col, "Location")
	datatype.CheckReferences(r.HealthcareService, "PractitionerRole.healthcareService", &col, "HealthcareService")
	datatype.CheckTelecoms(r.Telecom, "PractitionerRole.telecom", &col)
	for i := range r.AvailableTime {
		r.AvailableTime[i].check(issue.Index("PractitionerRole.availableTime", i), &col)
	}
	for i := range r.NotAvailable {
		n := &r.NotAvailable[i]
		path := issue.Index("PractitionerRole.notAvailable", i)
		n.BackboneElement.Check(path, &col)
		cardinality.Struct(n, path, &col)
		datatype.CheckPeriod(n.During, issue.Join(path, "during"), &col)
	}
	datatype.CheckReferences(r.Endpoint, "PractitionerRole.endpoint", &col, "Endpoint")
	return col.Warnings(), col.Err()
}

func (a *AvailableTime) check(path string, col *issue.Collector) {
	a.BackboneElement.Check(path, col)
	for i, d := range a.DaysOfWeek {
		datatype.RequireCode(terminology.DaysOfWeek, d, issue.Index(issue.Join(path, "daysOfWeek"), i), col)
	}
	if a.isAllDay() && (a.AvailableStartTime != nil || a.AvailableEndTime != nil) {
		col.Add(issue.Invariant(path, "An all-day availability cannot have start or end times"))
	}
	if a.AvailableStartTime != nil && a.AvailableEndTime != nil &&
		a.AvailableStartTime.SinceMidnight() >= a.AvailableEndTime.SinceMidnight() {
		col.Add(issue.Invariant(issue.Join(path, "availableEndTime"),
			"availableEndTime "+a.AvailableEndTime.String()+" must be after availableStartTime "+a.AvailableStartTime.String()))
	}
}

func (a *AvailableTime) isAllDay() bool { return a.AllDay != nil && *a.AllDay }

// covers reports whether the window includes t, read in t's location.
func (a *AvailableTime) covers(t time.Time) bool {
	if len(a.DaysOfWeek) > 0 && !slices.Contains(a.DaysOfWeek, weekday[t.Weekday()]) {
		return false
	}
	if a.isAllDay() {
		return true
	}
	since := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	if a.AvailableStartTime != nil && since < a.AvailableStartTime.SinceMidnight() {
		return false
	}
	if a.AvailableEndTime != nil && since >= a.AvailableEndTime.SinceMidnight() {
		return false
	}
	return true
}

// Validate returns every error found, ignoring binding warnings.
func (r *Role) Validate() error {
	_, err := r.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (r *Role) Warnings() []issue.Issue {
	warnings, _ := r.Check()
	return warnings
}

// AvailableAt reports whether the role is active and available at t: t
// falls within the role period and one of the available times, and
// outside every not-available period. A role without available times is
// available whenever it is active.
func (r *Role) AvailableAt(t time.Time) bool {
	if r.Active != nil && !*r.Active {
		return false
	}
	if r.Period != nil && !within(*r.Period, t) {
		return false
	}
	for _, n := range r.NotAvailable {
		if n.During != nil && within(*n.During, t) {
			return false
		}
	}
	if len(r.AvailableTime) == 0 {
		return true
	}
	for i := range r.AvailableTime {
		if r.AvailableTime[i].covers(t) {
			return true
		}
	}
	return false
}

// within reports whether t lies in p. Open bounds are unbounded; a bound
// of date precision covers the whole day, month or year.
func within(p datatype.Period, t time.Time) bool {
	if p.Start != nil {
		if lo, _ := p.Start.Bounds(); t.Before(lo) {
			return false
		}
	}
	if p.End != nil {
		lo, hi := p.End.Bounds()
		if hi.Equal(lo) {
			return !t.After(hi)
		}
		return t.Before(hi)
	}
	return true
}
