package fhirmodel

import (
	"github.com/gofhir/model/pkg/appointment"
	"github.com/gofhir/model/pkg/encounter"
	"github.com/gofhir/model/pkg/patient"
	"github.com/gofhir/model/pkg/practitioner"
	"github.com/gofhir/model/pkg/questionnaire"
)

// Kind identifies one of the supported resource types.
type Kind int

// Supported resource kinds.
const (
	KindUnknown Kind = iota
	KindPatient
	KindEncounter
	KindAppointment
	KindQuestionnaire
	KindQuestionnaireResponse
	KindPractitioner
	KindPractitionerRole
	KindOrganization
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{
	KindPatient,
	KindEncounter,
	KindAppointment,
	KindQuestionnaire,
	KindQuestionnaireResponse,
	KindPractitioner,
	KindPractitionerRole,
	KindOrganization,
}

var kindNames = map[Kind]string{
	KindPatient:               patient.ResourceType,
	KindEncounter:             encounter.ResourceType,
	KindAppointment:           appointment.ResourceType,
	KindQuestionnaire:         questionnaire.ResourceType,
	KindQuestionnaireResponse: questionnaire.ResponseResourceType,
	KindPractitioner:          practitioner.ResourceType,
	KindPractitionerRole:      practitioner.RoleResourceType,
	KindOrganization:          practitioner.OrganizationResourceType,
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the FHIR resourceType of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind returns the kind for a resourceType name.
func ParseKind(resourceType string) (Kind, bool) {
	k, ok := kindsByName[resourceType]
	return k, ok
}

// KindOf returns the kind of r, or KindUnknown for nil.
func KindOf(r Resource) Kind {
	switch r.(type) {
	case *Patient:
		return KindPatient
	case *Encounter:
		return KindEncounter
	case *Appointment:
		return KindAppointment
	case *Questionnaire:
		return KindQuestionnaire
	case *QuestionnaireResponse:
		return KindQuestionnaireResponse
	case *Practitioner:
		return KindPractitioner
	case *PractitionerRole:
		return KindPractitionerRole
	case *Organization:
		return KindOrganization
	default:
		return KindUnknown
	}
}

// decodable is a resource that validates itself while decoding.
type decodable interface {
	Resource
	UnmarshalJSON([]byte) error
}

// empty returns a zero resource of kind k for decoding into.
func (k Kind) empty() decodable {
	switch k {
	case KindPatient:
		return new(Patient)
	case KindEncounter:
		return new(Encounter)
	case KindAppointment:
		return new(Appointment)
	case KindQuestionnaire:
		return new(Questionnaire)
	case KindQuestionnaireResponse:
		return new(QuestionnaireResponse)
	case KindPractitioner:
		return new(Practitioner)
	case KindPractitionerRole:
		return new(PractitionerRole)
	case KindOrganization:
		return new(Organization)
	default:
		return nil
	}
}
