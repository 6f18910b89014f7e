// Package encounter implements the FHIR R4 Encounter resource and its status
// workflow.
package encounter

import (
	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// ResourceType is the FHIR resource type name.
const ResourceType = "Encounter"

// Encounter statuses.
const (
	StatusPlanned        = "planned"
	StatusArrived        = "arrived"
	StatusTriaged        = "triaged"
	StatusInProgress     = "in-progress"
	StatusOnLeave        = "onleave"
	StatusFinished       = "finished"
	StatusCancelled      = "cancelled"
	StatusEnteredInError = "entered-in-error"
	StatusUnknown        = "unknown"
)

// Encounter is an interaction between a patient and healthcare providers.
type Encounter struct {
	datatype.DomainResource
	Identifier      []datatype.Identifier      `json:"identifier,omitempty"`
	Status          string                     `json:"status,omitempty"`
	StatusHistory   []StatusHistory            `json:"statusHistory,omitempty"`
	Class           *datatype.Coding           `json:"class,omitempty"`
	ClassHistory    []ClassHistory             `json:"classHistory,omitempty"`
	Type            []datatype.CodeableConcept `json:"type,omitempty"`
	ServiceType     *datatype.CodeableConcept  `json:"serviceType,omitempty"`
	Priority        *datatype.CodeableConcept  `json:"priority,omitempty"`
	Subject         *datatype.Reference        `json:"subject,omitempty"`
	EpisodeOfCare   []datatype.Reference       `json:"episodeOfCare,omitempty"`
	BasedOn         []datatype.Reference       `json:"basedOn,omitempty"`
	Participant     []Participant              `json:"participant,omitempty"`
	Appointment     []datatype.Reference       `json:"appointment,omitempty"`
	Period          *datatype.Period           `json:"period,omitempty"`
	Length          *datatype.Duration         `json:"length,omitempty"`
	ReasonCode      []datatype.CodeableConcept `json:"reasonCode,omitempty"`
	ReasonReference []datatype.Reference       `json:"reasonReference,omitempty"`
	Diagnosis       []Diagnosis                `json:"diagnosis,omitempty"`
	Account         []datatype.Reference       `json:"account,omitempty"`
	Hospitalization *Hospitalization           `json:"hospitalization,omitempty"`
	Location        []Location                 `json:"location,omitempty"`
	ServiceProvider *datatype.Reference        `json:"serviceProvider,omitempty"`
	PartOf          *datatype.Reference        `json:"partOf,omitempty"`
}

// StatusHistory records a past status and when it applied.
type StatusHistory struct {
	datatype.BackboneElement
	Status string           `json:"status,omitempty" validate:"required"`
	Period *datatype.Period `json:"period,omitempty" validate:"required"`
}

// ClassHistory records a past class and when it applied.
type ClassHistory struct {
	datatype.BackboneElement
	Class  *datatype.Coding `json:"class,omitempty" validate:"required"`
	Period *datatype.Period `json:"period,omitempty" validate:"required"`
}

// Participant is a person involved in the encounter other than the patient.
type Participant struct {
	datatype.BackboneElement
	Type       []datatype.CodeableConcept `json:"type,omitempty"`
	Period     *datatype.Period           `json:"period,omitempty"`
	Individual *datatype.Reference        `json:"individual,omitempty"`
}

// Diagnosis is a condition or procedure relevant to the encounter.
type Diagnosis struct {
	datatype.BackboneElement
	Condition *datatype.Reference       `json:"condition,omitempty" validate:"required"`
	Use       *datatype.CodeableConcept `json:"use,omitempty"`
	Rank      *primitive.PositiveInt    `json:"rank,omitempty"`
}

// Hospitalization holds details about an admission.
type Hospitalization struct {
	datatype.BackboneElement
	PreAdmissionIdentifier *datatype.Identifier       `json:"preAdmissionIdentifier,omitempty"`
	Origin                 *datatype.Reference        `json:"origin,omitempty"`
	AdmitSource            *datatype.CodeableConcept  `json:"admitSource,omitempty"`
	ReAdmission            *datatype.CodeableConcept  `json:"reAdmission,omitempty"`
	DietPreference         []datatype.CodeableConcept `json:"dietPreference,omitempty"`
	SpecialCourtesy        []datatype.CodeableConcept `json:"specialCourtesy,omitempty"`
	SpecialArrangement     []datatype.CodeableConcept `json:"specialArrangement,omitempty"`
	Destination            *datatype.Reference        `json:"destination,omitempty"`
	DischargeDisposition   *datatype.CodeableConcept  `json:"dischargeDisposition,omitempty"`
}

// Location is a place the patient has been during the encounter.
type Location struct {
	datatype.BackboneElement
	Location     *datatype.Reference       `json:"location,omitempty" validate:"required"`
	Status       string                    `json:"status,omitempty"`
	PhysicalType *datatype.CodeableConcept `json:"physicalType,omitempty"`
	Period       *datatype.Period          `json:"period,omitempty"`
}

// ResourceType implements datatype.Resource.
func (e *Encounter) ResourceType() string { return ResourceType }

// Check validates the whole resource.
func (e *Encounter) Check() ([]issue.Issue, error) {
	var col issue.Collector
	e.CheckBase(ResourceType, &col)
	datatype.CheckIdentifiers(e.Identifier, "Encounter.identifier", &col)
	datatype.RequireCode(terminology.EncounterStatus, e.Status, "Encounter.status", &col)
	for i := range e.StatusHistory {
		h := &e.StatusHistory[i]
		path := issue.Index("Encounter.statusHistory", i)
		h.BackboneElement.Check(path, &col)
		cardinality.Struct(h, path, &col)
		datatype.CheckCode(terminology.EncounterStatus, h.Status, issue.Join(path, "status"), &col)
		datatype.CheckPeriod(h.Period, issue.Join(path, "period"), &col)
	}
	if e.Class == nil {
		col.Add(issue.Required("Encounter.class"))
	} else {
		datatype.CheckCoding(terminology.EncounterClass, *e.Class, "Encounter.class", &col)
	}
	for i := range e.ClassHistory {
		h := &e.ClassHistory[i]
		path := issue.Index("Encounter.classHistory", i)
		h.BackboneElement.Check(path, &col)
		cardinality.Struct(h, path, &col)
		if h.Class != nil {
			datatype.CheckCoding(terminology.EncounterClass, *h.Class, issue.Join(path, "class"), &col)
		}
		datatype.CheckPeriod(h.Period, issue.Join(path, "period"), &col)
	}
	checkConcepts(e.Type, "Encounter.type", &col)
	checkConcept(e.ServiceType, "Encounter.serviceType", &col)
	checkConcept(e.Priority, "Encounter.priority", &col)
	datatype.CheckReference(e.Subject, "Encounter.subject", &col, "Patient", "Group")
	datatype.CheckReferences(e.EpisodeOfCare, "Encounter.episodeOfCare", &col, "EpisodeOfCare")
	datatype.CheckReferences(e.BasedOn, "Encounter.basedOn", &col, "ServiceRequest")
	for i := range e.Participant {
		e.Participant[i].check(issue.Index("Encounter.participant", i), &col)
	}
	datatype.CheckReferences(e.Appointment, "Encounter.appointment", &col, "Appointment")
	datatype.CheckPeriod(e.Period, "Encounter.period", &col)
	if e.Length != nil {
		e.Length.Check("Encounter.length", &col)
	}
	checkConcepts(e.ReasonCode, "Encounter.reasonCode", &col)
	datatype.CheckReferences(e.ReasonReference, "Encounter.reasonReference", &col,
		"Condition", "Procedure", "Observation", "ImmunizationRecommendation")
	for i := range e.Diagnosis {
		d := &e.Diagnosis[i]
		path := issue.Index("Encounter.diagnosis", i)
		d.BackboneElement.Check(path, &col)
		cardinality.Struct(d, path, &col)
		datatype.CheckReference(d.Condition, issue.Join(path, "condition"), &col, "Condition", "Procedure")
		datatype.CheckConcept(terminology.DiagnosisRole, d.Use, issue.Join(path, "use"), &col)
	}
	datatype.CheckReferences(e.Account, "Encounter.account", &col, "Account")
	if e.Hospitalization != nil {
		e.Hospitalization.check("Encounter.hospitalization", &col)
	}
	for i := range e.Location {
		l := &e.Location[i]
		path := issue.Index("Encounter.location", i)
		l.BackboneElement.Check(path, &col)
		cardinality.Struct(l, path, &col)
		datatype.CheckReference(l.Location, issue.Join(path, "location"), &col, "Location")
		datatype.CheckCode(terminology.EncounterLocation, l.Status, issue.Join(path, "status"), &col)
		checkConcept(l.PhysicalType, issue.Join(path, "physicalType"), &col)
		datatype.CheckPeriod(l.Period, issue.Join(path, "period"), &col)
	}
	datatype.CheckReference(e.ServiceProvider, "Encounter.serviceProvider", &col, "Organization")
	datatype.CheckReference(e.PartOf, "Encounter.partOf", &col, "Encounter")
	return col.Warnings(), col.Err()
}

func (p *Participant) check(path string, col *issue.Collector) {
	p.BackboneElement.Check(path, col)
	checkConcepts(p.Type, issue.Join(path, "type"), col)
	datatype.CheckPeriod(p.Period, issue.Join(path, "period"), col)
	datatype.CheckReference(p.Individual, issue.Join(path, "individual"), col,
		"Practitioner", "PractitionerRole", "RelatedPerson")
}

func (h *Hospitalization) check(path string, col *issue.Collector) {
	h.BackboneElement.Check(path, col)
	if h.PreAdmissionIdentifier != nil {
		h.PreAdmissionIdentifier.Check(issue.Join(path, "preAdmissionIdentifier"), col)
	}
	datatype.CheckReference(h.Origin, issue.Join(path, "origin"), col, "Location", "Organization")
	datatype.CheckConcept(terminology.AdmitSource, h.AdmitSource, issue.Join(path, "admitSource"), col)
	checkConcept(h.ReAdmission, issue.Join(path, "reAdmission"), col)
	checkConcepts(h.DietPreference, issue.Join(path, "dietPreference"), col)
	checkConcepts(h.SpecialCourtesy, issue.Join(path, "specialCourtesy"), col)
	checkConcepts(h.SpecialArrangement, issue.Join(path, "specialArrangement"), col)
	datatype.CheckReference(h.Destination, issue.Join(path, "destination"), col, "Location", "Organization")
	datatype.CheckConcept(terminology.DischargeDisposition, h.DischargeDisposition, issue.Join(path, "dischargeDisposition"), col)
}

// checkConcept validates an unbound concept.
func checkConcept(cc *datatype.CodeableConcept, path string, col *issue.Collector) {
	if cc != nil {
		cc.Check(path, col)
	}
}

func checkConcepts(ccs []datatype.CodeableConcept, path string, col *issue.Collector) {
	for i := range ccs {
		ccs[i].Check(issue.Index(path, i), col)
	}
}

// Validate returns every error found, ignoring binding warnings.
func (e *Encounter) Validate() error {
	_, err := e.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (e *Encounter) Warnings() []issue.Issue {
	warnings, _ := e.Check()
	return warnings
}
