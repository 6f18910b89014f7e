// Package issue defines validation issues aligned with FHIR OperationOutcome
// and the error kinds returned by resource construction.
package issue

// Severity represents the severity of a validation issue.
type Severity string

// Severity constants aligned with FHIR IssueSeverity.
const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Code represents the type of validation issue (IssueType).
type Code string

// Code constants aligned with FHIR IssueType.
const (
	CodeInvalid       Code = "invalid"
	CodeStructure     Code = "structure"
	CodeRequired      Code = "required"
	CodeValue         Code = "value"
	CodeInvariant     Code = "invariant"
	CodeProcessing    Code = "processing"
	CodeNotFound      Code = "not-found"
	CodeDuplicate     Code = "duplicate"
	CodeCodeInvalid   Code = "code-invalid"
	CodeBusinessRule  Code = "business-rule"
	CodeInformational Code = "informational"
	CodeNotSupported  Code = "not-supported"
)

// Issue represents a single validation issue.
type Issue struct {
	// Severity indicates the severity level (error, warning, etc.)
	Severity Severity `json:"severity"`

	// Code indicates the type of issue
	Code Code `json:"code"`

	// Diagnostics is the human-readable description of the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression contains FHIRPath expression(s) pointing to the issue location
	Expression []string `json:"expression,omitempty"`

	// Location is the position of the first expression in the source JSON
	Location *Location `json:"location,omitempty"`

	// MessageID is the identifier from the diagnostic catalog
	MessageID string `json:"-"`
}

// Location is a 1-based line and column in a JSON document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Path returns the first expression of the issue, or "".
func (i Issue) Path() string {
	if len(i.Expression) == 0 {
		return ""
	}
	return i.Expression[0]
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	if p := i.Path(); p != "" {
		return string(i.Severity) + ": " + i.Diagnostics + " at " + p
	}
	return string(i.Severity) + ": " + i.Diagnostics
}

// Result holds the collection of issues from validation.
type Result struct {
	Issues []Issue
}

// NewResult creates a new empty Result.
func NewResult() *Result {
	return &Result{}
}

// AddIssue adds an issue to the result.
func (r *Result) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// AddError adds an error-level issue.
func (r *Result) AddError(code Code, diagnostics string, expression ...string) {
	r.Issues = append(r.Issues, Issue{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  expression,
	})
}

// AddWarning adds a warning-level issue.
func (r *Result) AddWarning(code Code, diagnostics string, expression ...string) {
	r.Issues = append(r.Issues, Issue{
		Severity:    SeverityWarning,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  expression,
	})
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(func(s Severity) bool { return s == SeverityError || s == SeverityFatal })
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(func(s Severity) bool { return s == SeverityWarning })
}

func (r *Result) count(match func(Severity) bool) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, iss := range r.Issues {
		if match(iss.Severity) {
			n++
		}
	}
	return n
}

// Merge combines another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// Filter returns a new Result with only issues matching the given severity.
func (r *Result) Filter(severity Severity) *Result {
	filtered := NewResult()
	for _, iss := range r.Issues {
		if iss.Severity == severity {
			filtered.Issues = append(filtered.Issues, iss)
		}
	}
	return filtered
}

// EnrichLocations sets the Location of every issue that has an expression
// and no location yet. locate returns nil for paths it cannot place.
func (r *Result) EnrichLocations(locate func(expression string) *Location) {
	for i := range r.Issues {
		if r.Issues[i].Location != nil || len(r.Issues[i].Expression) == 0 {
			continue
		}
		r.Issues[i].Location = locate(r.Issues[i].Expression[0])
	}
}

// Escalate returns a copy of the result where warnings become errors.
func (r *Result) Escalate() *Result {
	out := &Result{Issues: make([]Issue, len(r.Issues))}
	copy(out.Issues, r.Issues)
	for i := range out.Issues {
		if out.Issues[i].Severity == SeverityWarning {
			out.Issues[i].Severity = SeverityError
		}
	}
	return out
}
