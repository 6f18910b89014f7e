package constraint

import "github.com/gofhir/model/pkg/issue"

// per1 applies the Period ordering invariant to every period at path.
func per1(path string) Constraint {
	return Constraint{
		Key:        "per-1",
		Severity:   issue.SeverityError,
		Human:      "If present, start SHALL have a lower value than end (" + path + ")",
		Expression: path + ".all(start.empty() or end.empty() or (start <= end))",
	}
}

// builtin holds the R4 invariants evaluated for each resource type.
var builtin = map[string][]Constraint{
	"Patient": {
		{
			Key:        "pat-1",
			Severity:   issue.SeverityError,
			Human:      "SHALL at least contain a contact's details or a reference to an organization",
			Expression: "contact.all(name.exists() or telecom.exists() or address.exists() or organization.exists())",
		},
		per1("contact.period"),
	},
	"Encounter": {
		per1("period"),
		per1("statusHistory.period"),
		per1("participant.period"),
		per1("location.period"),
	},
	"Appointment": {
		{
			Key:        "app-2",
			Severity:   issue.SeverityError,
			Human:      "Either start and end are specified, or neither",
			Expression: "start.exists() = end.exists()",
		},
		{
			Key:        "app-3",
			Severity:   issue.SeverityError,
			Human:      "Only proposed or cancelled appointments can be missing start/end dates",
			Expression: "(start.exists() and end.exists()) or (status in ('proposed' | 'cancelled' | 'waitlist'))",
		},
		{
			Key:        "app-4",
			Severity:   issue.SeverityError,
			Human:      "Cancelation reason is only used for appointments that have been cancelled, or no-show",
			Expression: "cancelationReason.exists().not() or (status = 'noshow' or status = 'cancelled')",
		},
		per1("requestedPeriod"),
		per1("participant.period"),
	},
	"Questionnaire": {
		{
			Key:        "que-2",
			Severity:   issue.SeverityError,
			Human:      "The link ids for groups and questions must be unique within the questionnaire",
			Expression: "descendants().linkId.isDistinct()",
		},
		{
			Key:        "que-1",
			Severity:   issue.SeverityError,
			Human:      "Group items must have nested items, display items cannot have nested items",
			Expression: "repeat(item).all((type = 'group' implies item.exists()) and (type = 'display' implies item.empty()))",
		},
		per1("effectivePeriod"),
	},
	"Organization": {
		{
			Key:        "org-1",
			Severity:   issue.SeverityError,
			Human:      "The organization SHALL at least have a name or an identifier, and possibly more than one",
			Expression: "(identifier.count() + name.count()) > 0",
		},
		{
			Key:        "org-2",
			Severity:   issue.SeverityError,
			Human:      "An address of an organization can never be of use 'home'",
			Expression: "address.where(use = 'home').empty()",
		},
		{
			Key:        "org-3",
			Severity:   issue.SeverityError,
			Human:      "The telecom of an organization can never be of use 'home'",
			Expression: "telecom.where(use = 'home').empty()",
		},
	},
	"PractitionerRole": {
		per1("period"),
	},
}
