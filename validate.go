package fhirmodel

import (
	"errors"
	"sync"
	"time"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/issue"
)

// ErrInvalid is returned by Validate when only strict mode or the FHIRPath
// invariants found errors.
var ErrInvalid = errors.New("fhirmodel: resource is invalid")

var defaultEvaluator = sync.OnceValue(func() *constraint.Evaluator {
	return constraint.New()
})

// Validate checks r and returns every issue found: errors, binding
// warnings and, WithConstraints, FHIRPath invariant violations. The error
// is non-nil exactly when the result has errors; it is the resource's own
// error when it has one, so errors.Is against the issue kinds works.
func Validate(r Resource, opts ...Option) (*Result, error) {
	if r == nil {
		return nil, ErrNilResource
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	start := time.Now()
	result := issue.NewResult()
	warnings, checkErr := r.Check()
	result.Issues = append(result.Issues, ErrorIssues(checkErr)...)
	result.Issues = append(result.Issues, warnings...)

	if o.Constraints {
		data, err := Encode(r)
		if err != nil {
			return nil, err
		}
		e := o.Evaluator
		if e == nil {
			e = defaultEvaluator()
		}
		e.Validate(data, result)
	}
	if o.Strict {
		result = result.Escalate()
	}
	invalid := result.HasErrors()
	if o.Metrics != nil {
		o.Metrics.RecordValidation(KindOf(r), time.Since(start), result)
	}
	// Truncation only shortens the report; validity and metrics see every issue.
	if o.MaxIssues > 0 && len(result.Issues) > o.MaxIssues {
		result.Issues = result.Issues[:o.MaxIssues]
	}

	switch {
	case checkErr != nil:
		return result, checkErr
	case invalid:
		return result, ErrInvalid
	default:
		return result, nil
	}
}

// ErrorIssues converts a construction or decoding error into error-level
// issues, one per failure.
func ErrorIssues(err error) []Issue {
	if err == nil {
		return nil
	}
	var es issue.Errors
	if errors.As(err, &es) {
		return es.Result().Issues
	}
	var e *issue.Error
	if errors.As(err, &e) {
		return []Issue{e.Issue()}
	}
	return []Issue{{Severity: issue.SeverityError, Code: issue.CodeProcessing, Diagnostics: err.Error()}}
}
