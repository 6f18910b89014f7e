package fhirmodel

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gofhir/model/pkg/constraint"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/patient"
	"github.com/gofhir/model/pkg/practitioner"
)

func newPatient(t *testing.T, opts ...patient.Option) *Patient {
	t.Helper()
	name, err := CreateHumanName([]string{"Jane"}, "Doe")
	if err != nil {
		t.Fatal(err)
	}
	p, err := patient.New("pat-1", append([]patient.Option{patient.WithName(name), patient.WithGender("female")}, opts...)...)
	if err != nil {
		t.Fatalf("patient.New: %v", err)
	}
	return p
}

func TestKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
		if r := k.empty(); KindOf(r) != k {
			t.Errorf("KindOf(empty %v) = %v", k, KindOf(r))
		}
	}
	if _, ok := ParseKind("Observation"); ok {
		t.Error("Observation is not supported")
	}
	if KindOf(nil) != KindUnknown {
		t.Error("KindOf(nil) should be unknown")
	}
	if KindUnknown.String() != "Unknown" {
		t.Errorf("KindUnknown.String() = %q", KindUnknown.String())
	}
}

func TestEncodeDecode(t *testing.T) {
	org, err := practitioner.NewOrganization("org-1", "General Hospital")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []Resource{newPatient(t), org} {
		t.Run(r.ResourceType(), func(t *testing.T) {
			data, err := Encode(r)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if KindOf(back) != KindOf(r) || back.ID() != r.ID() {
				t.Errorf("decoded %v/%s, want %v/%s", KindOf(back), back.ID(), KindOf(r), r.ID())
			}
			again, err := Encode(back)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, again) {
				t.Errorf("encode is not stable:\n%s\n%s", data, again)
			}
		})
	}

	if _, err := Encode(nil); !errors.Is(err, ErrNilResource) {
		t.Errorf("Encode(nil) error = %v", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind issue.Kind
	}{
		{"malformed", `{"resourceType":`, issue.KindFormat},
		{"no resourceType", `{"id":"x"}`, issue.KindCardinality},
		{"unsupported", `{"resourceType":"Observation","id":"x"}`, issue.KindFormat},
		{"invalid id", `{"resourceType":"Patient","id":"has space"}`, issue.KindFormat},
		{"gender", `{"resourceType":"Patient","id":"p","gender":"robot"}`, issue.KindBinding},
		{"organization without name", `{"resourceType":"Organization","id":"o"}`, issue.KindInvariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if r != nil {
				t.Error("failed decode returned a resource")
			}
			if kind, _ := issue.KindOf(err); kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", kind, tt.kind, err)
			}
		})
	}
}

func localMaritalStatus(t *testing.T) patient.Option {
	t.Helper()
	cc, err := CreateCodeableConcept([]Coding{{System: "http://example.org/local", Code: "X"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	return patient.WithMaritalStatus(cc)
}

func TestValidate(t *testing.T) {
	result, err := Validate(newPatient(t), WithConstraints(true))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(result.Issues) != 0 {
		t.Errorf("unexpected issues %v", result.Issues)
	}

	warned := newPatient(t, localMaritalStatus(t))
	result, err = Validate(warned)
	if err != nil {
		t.Fatalf("a warning must not fail validation: %v", err)
	}
	if result.WarningCount() != 1 {
		t.Errorf("WarningCount() = %d, want 1", result.WarningCount())
	}

	result, err = Validate(warned, WithStrict(true))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("strict error = %v, want ErrInvalid", err)
	}
	if result.ErrorCount() != 1 || result.WarningCount() != 0 {
		t.Errorf("strict result = %v", result.Issues)
	}
}

func TestValidateReportsResourceErrors(t *testing.T) {
	p := newPatient(t)
	p.Gender = "robot"
	result, err := Validate(p)
	if !errors.Is(err, issue.ErrBinding) {
		t.Fatalf("error = %v, want BindingError", err)
	}
	if result.ErrorCount() != 1 || result.Issues[0].Path() != "Patient.gender" {
		t.Errorf("issues = %v", result.Issues)
	}
}

func TestValidateWithEvaluator(t *testing.T) {
	e := constraint.New(constraint.WithConstraint("Patient", constraint.Constraint{
		Key:        "test-1",
		Severity:   issue.SeverityError,
		Human:      "A patient needs a birth date",
		Expression: "birthDate.exists()",
	}))
	result, err := Validate(newPatient(t), WithEvaluator(e))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
	if result.ErrorCount() != 1 {
		t.Errorf("issues = %v", result.Issues)
	}
	if _, err := Validate(nil); !errors.Is(err, ErrNilResource) {
		t.Errorf("Validate(nil) error = %v", err)
	}
}

func TestValidateMaxIssuesAndMetrics(t *testing.T) {
	p := newPatient(t, localMaritalStatus(t))
	p.Gender = "robot"
	m := NewMetrics()
	result, _ := Validate(p, WithMaxIssues(1), WithMetrics(m))
	if len(result.Issues) != 1 {
		t.Errorf("len(Issues) = %d, want 1", len(result.Issues))
	}
	if m.ValidationsTotal() != 1 || m.ValidationsValid() != 0 || m.ErrorsTotal() != 1 {
		t.Errorf("metrics = %+v", m.Snapshot())
	}
	if s, ok := m.KindStats(KindPatient); !ok || s.Invalid != 1 {
		t.Errorf("KindStats(Patient) = %+v, %v", s, ok)
	}
}

func TestValidateMaxIssuesKeepsValidity(t *testing.T) {
	e := constraint.New(constraint.WithConstraint("Patient", constraint.Constraint{
		Key:        "test-1",
		Severity:   issue.SeverityError,
		Human:      "A patient needs a birth date",
		Expression: "birthDate.exists()",
	}))
	warned := newPatient(t, localMaritalStatus(t))

	tests := []struct {
		name      string
		maxIssues int
		want      int
	}{
		{"unlimited", 0, 2},
		{"error truncated away", 1, 1},
		{"limit above count", 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics()
			result, err := Validate(warned, WithEvaluator(e), WithMaxIssues(tt.maxIssues), WithMetrics(m))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("error = %v, want ErrInvalid", err)
			}
			if len(result.Issues) != tt.want {
				t.Errorf("len(Issues) = %d, want %d", len(result.Issues), tt.want)
			}
			if result.Issues[0].Severity != issue.SeverityWarning {
				t.Errorf("first issue = %v, want the binding warning", result.Issues[0])
			}
			if m.ValidationsValid() != 0 || m.ErrorsTotal() != 1 {
				t.Errorf("metrics = %+v", m.Snapshot())
			}
		})
	}
}

func TestIndexResolve(t *testing.T) {
	p := newPatient(t)
	idx := NewIndex(p)
	ctx := context.Background()

	tests := []struct {
		ref  string
		want bool
	}{
		{"Patient/pat-1", true},
		{"Patient/pat-1/_history/3", true},
		{"https://fhir.example.org/r4/Patient/pat-1", true},
		{"Patient/pat-2", false},
		{"#pat-1", false},
		{"", false},
	}
	for _, tt := range tests {
		r, err := idx.Resolve(ctx, Reference{Reference: tt.ref})
		if tt.want {
			if err != nil || r != Resource(p) {
				t.Errorf("Resolve(%q) = %v, %v", tt.ref, r, err)
			}
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", tt.ref, err)
		}
	}

	if _, err := idx.Resolve(ctx, Reference{Reference: "not a reference"}); !errors.Is(err, issue.ErrReferenceShape) {
		t.Errorf("malformed reference error = %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := idx.Resolve(cancelled, Reference{Reference: "Patient/pat-1"}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v", err)
	}

	var _ Resolver = ResolverFunc(func(context.Context, Reference) (Resource, error) { return nil, ErrNotFound })
}
