package fhirmodel

import (
	"testing"

	"github.com/gofhir/model/pkg/constraint"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Strict || opts.Constraints {
		t.Error("strict mode and constraints should be off by default")
	}
	if opts.MaxIssues != 0 {
		t.Errorf("MaxIssues = %d; want 0", opts.MaxIssues)
	}
	if opts.Evaluator != nil || opts.Metrics != nil {
		t.Error("no evaluator or metrics by default")
	}
}

func TestOptions(t *testing.T) {
	e := constraint.New()
	m := NewMetrics()
	tests := []struct {
		name  string
		opt   Option
		check func(*Options) bool
	}{
		{"strict", WithStrict(true), func(o *Options) bool { return o.Strict }},
		{"constraints", WithConstraints(true), func(o *Options) bool { return o.Constraints }},
		{"max issues", WithMaxIssues(10), func(o *Options) bool { return o.MaxIssues == 10 }},
		{"negative max issues ignored", WithMaxIssues(-1), func(o *Options) bool { return o.MaxIssues == 0 }},
		{"evaluator", WithEvaluator(e), func(o *Options) bool { return o.Evaluator == e && o.Constraints }},
		{"nil evaluator", WithEvaluator(nil), func(o *Options) bool { return o.Evaluator == nil && !o.Constraints }},
		{"metrics", WithMetrics(m), func(o *Options) bool { return o.Metrics == m }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.opt(o)
			if !tt.check(o) {
				t.Errorf("option not applied: %+v", o)
			}
		})
	}
}

func TestStrictOptions(t *testing.T) {
	o := DefaultOptions()
	for _, opt := range StrictOptions() {
		opt(o)
	}
	if !o.Strict || !o.Constraints {
		t.Errorf("StrictOptions() = %+v", o)
	}
}
