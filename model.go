package fhirmodel

import (
	"github.com/gofhir/model/pkg/appointment"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/encounter"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/patient"
	"github.com/gofhir/model/pkg/practitioner"
	"github.com/gofhir/model/pkg/questionnaire"
)

// Data types.
type (
	Resource        = datatype.Resource
	DomainResource  = datatype.DomainResource
	Reference       = datatype.Reference
	Identifier      = datatype.Identifier
	CodeableConcept = datatype.CodeableConcept
	Coding          = datatype.Coding
	Period          = datatype.Period
	Quantity        = datatype.Quantity
	Duration        = datatype.Duration
	HumanName       = datatype.HumanName
	ContactPoint    = datatype.ContactPoint
	Address         = datatype.Address
	Attachment      = datatype.Attachment
	Extension       = datatype.Extension
	Meta            = datatype.Meta
	Narrative       = datatype.Narrative
)

// Resources.
type (
	Patient               = patient.Patient
	Encounter             = encounter.Encounter
	Appointment           = appointment.Appointment
	Questionnaire         = questionnaire.Questionnaire
	QuestionnaireResponse = questionnaire.Response
	Practitioner          = practitioner.Practitioner
	PractitionerRole      = practitioner.Role
	Organization          = practitioner.Organization
)

// Validation outcome.
type (
	Issue  = issue.Issue
	Result = issue.Result
)

// Factories and accessors.
var (
	CreateReference       = datatype.CreateReference
	CreateCoding          = datatype.CreateCoding
	CreateCodeableConcept = datatype.CreateCodeableConcept
	CreateHumanName       = datatype.CreateHumanName
	CreateContactPoint    = datatype.CreateContactPoint
	CreateAddress         = datatype.CreateAddress
	CreateIdentifier      = datatype.CreateIdentifier
	CreatePeriod          = datatype.CreatePeriod
	CreateQuantity        = datatype.CreateQuantity
	CreateDuration        = datatype.CreateDuration
	CreateAttachment      = datatype.CreateAttachment

	GetDisplayName      = datatype.GetDisplayName
	GetPrimaryPhone     = datatype.GetPrimaryPhone
	GetPrimaryEmail     = datatype.GetPrimaryEmail
	IdentifiersBySystem = datatype.IdentifiersBySystem
	FindIdentifier      = datatype.FindIdentifier
	ValidateIdentifiers = datatype.ValidateIdentifiers
)
