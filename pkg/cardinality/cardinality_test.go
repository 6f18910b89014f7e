package cardinality

import (
	"errors"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name            string
		count, min, max int
		want            issue.DiagnosticID
	}{
		{"required present", 1, 1, 1, ""},
		{"required missing", 0, 1, 1, issue.DiagCardinalityRequired},
		{"min two", 1, 2, Unbounded, issue.DiagCardinalityMin},
		{"too many", 3, 0, 2, issue.DiagCardinalityMax},
		{"unbounded", 100, 0, Unbounded, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check("Appointment.participant", tt.count, tt.min, tt.max)
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var e *issue.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *issue.Error, got %v", err)
			}
			if e.ID != tt.want || e.Kind != issue.KindCardinality {
				t.Errorf("got %s (%v), want %s", e.ID, e.Kind, tt.want)
			}
		})
	}
}

func TestCollectorHelpers(t *testing.T) {
	var col issue.Collector
	Require(true, "Patient.gender", &col)
	Min(2, 1, "Appointment.participant", &col)
	Max(1, 1, "Encounter.subject", &col)
	OneOf("Organization", &col, true, "name", "identifier")
	if err := col.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	Require(false, "Questionnaire.status", &col)
	OneOf("Organization", &col, false, "name", "identifier")
	es, ok := col.Err().(issue.Errors)
	if !ok || len(es) != 2 {
		t.Fatalf("expected 2 errors, got %v", col.Err())
	}
	if es[0].Path != "Questionnaire.status" || es[1].ID != issue.DiagCardinalityOneOf {
		t.Errorf("unexpected errors: %v", es)
	}
}

type actor struct {
	Reference string `json:"reference,omitempty"`
}

type participant struct {
	Type   []string `json:"type,omitempty" validate:"required_without=Actor"`
	Actor  *actor   `json:"actor,omitempty"`
	Status string   `json:"status" validate:"required"`
}

type appointment struct {
	Participant []participant `json:"participant" validate:"min=1,dive"`
	Slot        []string      `json:"slot,omitempty" validate:"max=2"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name  string
		value appointment
		paths []string
	}{
		{
			name:  "valid",
			value: appointment{Participant: []participant{{Actor: &actor{Reference: "Patient/1"}, Status: "accepted"}}},
		},
		{
			name:  "no participants",
			value: appointment{},
			paths: []string{"Appointment.participant"},
		},
		{
			name: "nested required",
			value: appointment{Participant: []participant{
				{Actor: &actor{Reference: "Patient/1"}, Status: "accepted"},
				{Type: []string{"ATND"}},
			}},
			paths: []string{"Appointment.participant[1].status"},
		},
		{
			name:  "actor or type",
			value: appointment{Participant: []participant{{Status: "accepted"}}},
			paths: []string{"Appointment.participant[0]"},
		},
		{
			name: "too many slots",
			value: appointment{
				Participant: []participant{{Type: []string{"ATND"}, Status: "accepted"}},
				Slot:        []string{"a", "b", "c"},
			},
			paths: []string{"Appointment.slot"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var col issue.Collector
			Struct(&tt.value, "Appointment", &col)
			err := col.Err()
			if len(tt.paths) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var es issue.Errors
			switch e := err.(type) {
			case *issue.Error:
				es = issue.Errors{e}
			case issue.Errors:
				es = e
			default:
				t.Fatalf("expected errors at %v, got %v", tt.paths, err)
			}
			if len(es) != len(tt.paths) {
				t.Fatalf("got %d errors (%v), want %d", len(es), es, len(tt.paths))
			}
			for i, e := range es {
				if e.Path != tt.paths[i] {
					t.Errorf("error %d path = %q, want %q", i, e.Path, tt.paths[i])
				}
				if e.Kind != issue.KindCardinality {
					t.Errorf("error %d kind = %v", i, e.Kind)
				}
			}
		})
	}
}
