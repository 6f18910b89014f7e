package issue

import (
	"fmt"
	"strings"
)

// DiagnosticID identifies a specific diagnostic message.
type DiagnosticID string

// Diagnostic IDs for primitive formats.
const (
	DiagFormatInvalid DiagnosticID = "FORMAT_INVALID"
	DiagFormatRange   DiagnosticID = "FORMAT_RANGE"
	DiagFormatJSON    DiagnosticID = "FORMAT_WRONG_JSON_TYPE"
	DiagFormatDecode  DiagnosticID = "FORMAT_DECODE"
	DiagResourceType  DiagnosticID = "FORMAT_RESOURCE_TYPE"
)

// Diagnostic IDs for structure.
const (
	DiagStructureUnknownElement     DiagnosticID = "STRUCTURE_UNKNOWN_ELEMENT"
	DiagStructurePrimitiveExtension DiagnosticID = "STRUCTURE_PRIMITIVE_EXTENSION"
)

// Diagnostic IDs for cardinality.
const (
	DiagCardinalityRequired DiagnosticID = "CARDINALITY_REQUIRED"
	DiagCardinalityMin      DiagnosticID = "CARDINALITY_MIN"
	DiagCardinalityMax      DiagnosticID = "CARDINALITY_MAX"
	DiagCardinalityOneOf    DiagnosticID = "CARDINALITY_ONE_OF"
	DiagDuplicate           DiagnosticID = "DUPLICATE"
	DiagInvariant           DiagnosticID = "INVARIANT"
)

// Diagnostic IDs for bindings.
const (
	DiagBindingRequired   DiagnosticID = "BINDING_REQUIRED"
	DiagBindingExtensible DiagnosticID = "BINDING_EXTENSIBLE"
	DiagBindingPreferred  DiagnosticID = "BINDING_PREFERRED"
	DiagValueSetUnknown   DiagnosticID = "BINDING_VALUESET_UNKNOWN"
	DiagAnswerType        DiagnosticID = "ANSWER_TYPE_MISMATCH"
	DiagAnswerUnknownItem DiagnosticID = "ANSWER_UNKNOWN_LINKID"
)

// Diagnostic IDs for transitions and references.
const (
	DiagTransition          DiagnosticID = "TRANSITION_NOT_ALLOWED"
	DiagReferenceFormat     DiagnosticID = "REFERENCE_INVALID_FORMAT"
	DiagReferenceTargetType DiagnosticID = "REFERENCE_TARGET_TYPE"
)

// Diagnostic IDs for FHIRPath constraints.
const (
	DiagConstraintFailed       DiagnosticID = "CONSTRAINT_FAILED"
	DiagConstraintCompileError DiagnosticID = "CONSTRAINT_COMPILE_ERROR"
	DiagConstraintEvalError    DiagnosticID = "CONSTRAINT_EVAL_ERROR"
)

// DiagnosticTemplate defines the structure for a diagnostic message.
type DiagnosticTemplate struct {
	ID       DiagnosticID
	Severity Severity
	Code     Code
	Template string
}

// diagnosticTemplates maps diagnostic IDs to their templates.
// Templates use {placeholder} syntax for variable substitution.
var diagnosticTemplates = map[DiagnosticID]DiagnosticTemplate{
	DiagFormatInvalid: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Value '{value}' is not a valid {type}",
	},
	DiagFormatRange: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Value '{value}' is out of range for {type}",
	},
	DiagFormatJSON: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Error parsing JSON: the {type} value must be a {expected}",
	},
	DiagFormatDecode: {
		Severity: SeverityFatal,
		Code:     CodeStructure,
		Template: "Error parsing JSON",
	},
	DiagResourceType: {
		Severity: SeverityFatal,
		Code:     CodeStructure,
		Template: "Expected resourceType '{expected}', found '{actual}'",
	},
	DiagStructureUnknownElement: {
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Unknown element '{element}'",
	},
	DiagStructurePrimitiveExtension: {
		Severity: SeverityError,
		Code:     CodeNotSupported,
		Template: "Extensions on primitive element '{element}' are not supported",
	},
	DiagCardinalityRequired: {
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "Element '{path}' is required",
	},
	DiagCardinalityMin: {
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "Minimum cardinality of '{path}' is {min}, but found {count}",
	},
	DiagCardinalityMax: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Maximum cardinality of '{path}' is {max}, but found {count}",
	},
	DiagCardinalityOneOf: {
		Severity: SeverityError,
		Code:     CodeRequired,
		Template: "One of {elements} must be present",
	},
	DiagDuplicate: {
		Severity: SeverityError,
		Code:     CodeDuplicate,
		Template: "Duplicate {what} '{value}'",
	},
	DiagInvariant: {
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "{message}",
	},
	DiagBindingRequired: {
		Severity: SeverityError,
		Code:     CodeCodeInvalid,
		Template: "The value provided ('{code}') is not in the value set '{valueSet}' (required)",
	},
	DiagBindingExtensible: {
		Severity: SeverityWarning,
		Code:     CodeCodeInvalid,
		Template: "The value provided ('{code}') is not in the value set '{valueSet}' (extensible)",
	},
	DiagBindingPreferred: {
		Severity: SeverityWarning,
		Code:     CodeCodeInvalid,
		Template: "The value provided ('{code}') is not in the value set '{valueSet}' (preferred)",
	},
	DiagValueSetUnknown: {
		Severity: SeverityInformation,
		Code:     CodeNotFound,
		Template: "Value set '{valueSet}' is not loaded; '{code}' was not checked",
	},
	DiagAnswerType: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Answer of type {actual} does not match item '{linkId}' of type {expected}",
	},
	DiagAnswerUnknownItem: {
		Severity: SeverityError,
		Code:     CodeNotFound,
		Template: "No questionnaire item with linkId '{linkId}'",
	},
	DiagTransition: {
		Severity: SeverityError,
		Code:     CodeBusinessRule,
		Template: "{resource} status cannot change from '{from}' to '{to}'",
	},
	DiagReferenceFormat: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Invalid reference format: '{reference}'",
	},
	DiagReferenceTargetType: {
		Severity: SeverityError,
		Code:     CodeValue,
		Template: "Reference to type '{type}' is not allowed here, expected one of {allowed}",
	},
	DiagConstraintFailed: {
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "Constraint failed: {key}: '{human}'",
	},
	DiagConstraintCompileError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Constraint {key} could not be compiled: {error}",
	},
	DiagConstraintEvalError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Constraint {key} could not be evaluated: {error}",
	},
}

// FormatDiagnostic formats a diagnostic message using the template and parameters.
func FormatDiagnostic(id DiagnosticID, params map[string]any) string {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		return string(id)
	}
	return formatTemplate(tmpl.Template, params)
}

// GetDiagnosticTemplate returns the template for a diagnostic ID.
func GetDiagnosticTemplate(id DiagnosticID) (DiagnosticTemplate, bool) {
	tmpl, ok := diagnosticTemplates[id]
	if ok {
		tmpl.ID = id
	}
	return tmpl, ok
}

// formatTemplate replaces {placeholder} with values from params.
func formatTemplate(template string, params map[string]any) string {
	result := template
	for key, value := range params {
		result = strings.ReplaceAll(result, "{"+key+"}", fmt.Sprint(value))
	}
	return result
}

// NewIssueWithID builds an Issue from the catalog.
func NewIssueWithID(id DiagnosticID, params map[string]any, expression ...string) Issue {
	tmpl := diagnosticTemplates[id]
	return Issue{
		Severity:    tmpl.Severity,
		Code:        tmpl.Code,
		Diagnostics: FormatDiagnostic(id, params),
		Expression:  expression,
		MessageID:   string(id),
	}
}

// AddErrorWithID adds an error issue using a diagnostic ID.
func (r *Result) AddErrorWithID(id DiagnosticID, params map[string]any, expression ...string) {
	iss := NewIssueWithID(id, params, expression...)
	iss.Severity = SeverityError
	r.Issues = append(r.Issues, iss)
}

// AddWarningWithID adds a warning issue using a diagnostic ID.
func (r *Result) AddWarningWithID(id DiagnosticID, params map[string]any, expression ...string) {
	iss := NewIssueWithID(id, params, expression...)
	iss.Severity = SeverityWarning
	r.Issues = append(r.Issues, iss)
}
