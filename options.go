package fhirmodel

import "github.com/gofhir/model/pkg/constraint"

// Option configures Validate.
type Option func(*Options)

// Options holds the configuration of one Validate call.
type Options struct {
	// Strict reports binding warnings as errors.
	Strict bool

	// Constraints evaluates the FHIRPath invariants on the encoded
	// resource in addition to the Go checks.
	Constraints bool

	// MaxIssues truncates the result; 0 means unlimited.
	MaxIssues int

	// Evaluator runs the invariants. Nil uses a shared default.
	Evaluator *constraint.Evaluator

	// Metrics, when set, records the outcome.
	Metrics *Metrics
}

// DefaultOptions returns the default configuration: lenient bindings, no
// FHIRPath evaluation.
func DefaultOptions() *Options {
	return &Options{}
}

// WithStrict turns binding warnings into errors.
func WithStrict(enable bool) Option {
	return func(o *Options) {
		o.Strict = enable
	}
}

// WithConstraints enables FHIRPath invariant evaluation.
func WithConstraints(enable bool) Option {
	return func(o *Options) {
		o.Constraints = enable
	}
}

// WithMaxIssues limits the number of reported issues.
// Use 0 for unlimited.
func WithMaxIssues(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxIssues = n
		}
	}
}

// WithEvaluator sets the invariant evaluator. It implies WithConstraints.
func WithEvaluator(e *constraint.Evaluator) Option {
	return func(o *Options) {
		o.Evaluator = e
		o.Constraints = e != nil
	}
}

// WithMetrics records every validation outcome in m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// StrictOptions returns options for strict validation: all checks enabled
// and warnings treated as errors.
func StrictOptions() []Option {
	return []Option{
		WithConstraints(true),
		WithStrict(true),
	}
}
