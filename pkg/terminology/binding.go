package terminology

import (
	"github.com/gofhir/model/pkg/issue"
)

// Strength is the conformance strength of a value set binding.
type Strength string

// Binding strengths.
const (
	Required   Strength = "required"
	Extensible Strength = "extensible"
	Preferred  Strength = "preferred"
	Example    Strength = "example"
)

// Binding ties a coded element to a value set.
type Binding struct {
	ValueSet string
	Strength Strength
}

// Bindings used by the resource schemas.
var (
	AdministrativeGender  = Binding{"http://hl7.org/fhir/ValueSet/administrative-gender", Required}
	EncounterStatus       = Binding{"http://hl7.org/fhir/ValueSet/encounter-status", Required}
	EncounterClass        = Binding{"http://terminology.hl7.org/ValueSet/v3-ActEncounterCode", Extensible}
	EncounterLocation     = Binding{"http://hl7.org/fhir/ValueSet/encounter-location-status", Required}
	DiagnosisRole         = Binding{"http://hl7.org/fhir/ValueSet/diagnosis-role", Preferred}
	AdmitSource           = Binding{"http://hl7.org/fhir/ValueSet/encounter-admit-source", Preferred}
	DischargeDisposition  = Binding{"http://hl7.org/fhir/ValueSet/encounter-discharge-disposition", Example}
	AppointmentStatus     = Binding{"http://hl7.org/fhir/ValueSet/appointmentstatus", Required}
	CancellationReason    = Binding{"http://hl7.org/fhir/ValueSet/appointment-cancellation-reason", Example}
	ParticipationStatus   = Binding{"http://hl7.org/fhir/ValueSet/participationstatus", Required}
	ParticipantRequired   = Binding{"http://hl7.org/fhir/ValueSet/participantrequired", Required}
	ContactPointSystem    = Binding{"http://hl7.org/fhir/ValueSet/contact-point-system", Required}
	ContactPointUse       = Binding{"http://hl7.org/fhir/ValueSet/contact-point-use", Required}
	AddressUse            = Binding{"http://hl7.org/fhir/ValueSet/address-use", Required}
	AddressType           = Binding{"http://hl7.org/fhir/ValueSet/address-type", Required}
	NameUse               = Binding{"http://hl7.org/fhir/ValueSet/name-use", Required}
	IdentifierUse         = Binding{"http://hl7.org/fhir/ValueSet/identifier-use", Required}
	IdentifierType        = Binding{"http://hl7.org/fhir/ValueSet/identifier-type", Extensible}
	LinkType              = Binding{"http://hl7.org/fhir/ValueSet/link-type", Required}
	NarrativeStatus       = Binding{"http://hl7.org/fhir/ValueSet/narrative-status", Required}
	QuantityComparator    = Binding{"http://hl7.org/fhir/ValueSet/quantity-comparator", Required}
	UnitsOfTime           = Binding{"http://hl7.org/fhir/ValueSet/units-of-time", Required}
	DaysOfWeek            = Binding{"http://hl7.org/fhir/ValueSet/days-of-week", Required}
	MaritalStatus         = Binding{"http://hl7.org/fhir/ValueSet/marital-status", Extensible}
	ContactRelationship   = Binding{"http://hl7.org/fhir/ValueSet/patient-contactrelationship", Extensible}
	Language              = Binding{"http://hl7.org/fhir/ValueSet/languages", Preferred}
	PublicationStatus     = Binding{"http://hl7.org/fhir/ValueSet/publication-status", Required}
	QuestionnaireItemType = Binding{"http://hl7.org/fhir/ValueSet/item-type", Required}
	EnableWhenOperator    = Binding{"http://hl7.org/fhir/ValueSet/questionnaire-enable-operator", Required}
	EnableWhenBehavior    = Binding{"http://hl7.org/fhir/ValueSet/questionnaire-enable-behavior", Required}
	QuestionnaireAnswers  = Binding{"http://hl7.org/fhir/ValueSet/questionnaire-answers-status", Required}
	OrganizationType      = Binding{"http://hl7.org/fhir/ValueSet/organization-type", Example}
	PractitionerRoleCode  = Binding{"http://hl7.org/fhir/ValueSet/practitioner-role", Example}
	QualificationCode     = Binding{"http://terminology.hl7.org/ValueSet/v2-2.7-0360", Example}
	PHQ9AnswerList        = Binding{"http://loinc.org/vs/LL358-3", Preferred}
)

// Check evaluates (system, code) against b. A code outside a required value
// set is a BindingError; outside an extensible or preferred one it yields a
// warning issue. Empty codes and example bindings are not checked. An empty
// system matches the code in any system of the value set, which is how plain
// code elements are checked.
func (r *Registry) Check(b Binding, system, code, path string) (*issue.Issue, error) {
	if code == "" || b.ValueSet == "" || b.Strength == Example || b.Strength == "" {
		return nil, nil
	}
	member, known := r.InValueSet(b.ValueSet, system, code)
	if member {
		return nil, nil
	}
	display := code
	if system != "" {
		display = system + "#" + code
	}
	params := map[string]any{"code": display, "valueSet": b.ValueSet}
	if !known {
		iss := issue.NewIssueWithID(issue.DiagValueSetUnknown, params, path)
		return &iss, nil
	}

	switch b.Strength {
	case Required:
		return nil, issue.Binding(path, display, b.ValueSet)
	case Extensible:
		iss := issue.NewIssueWithID(issue.DiagBindingExtensible, params, path)
		return &iss, nil
	default:
		iss := issue.NewIssueWithID(issue.DiagBindingPreferred, params, path)
		return &iss, nil
	}
}

// Check evaluates a code against b using the process-wide registry.
func Check(b Binding, system, code, path string) (*issue.Issue, error) {
	return Default().Check(b, system, code, path)
}

// ContainsCode queries the process-wide registry.
func ContainsCode(system, code string) bool {
	return Default().ContainsCode(system, code)
}
