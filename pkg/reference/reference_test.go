package reference

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		form    Form
		typ     string
		id      string
		version string
	}{
		{"relative", "Patient/123", FormRelative, "Patient", "123", ""},
		{"relative with history", "Observation/abc.1/_history/2", FormRelative, "Observation", "abc.1", "2"},
		{"absolute", "http://example.org/fhir/Practitioner/p-1", FormAbsolute, "Practitioner", "p-1", ""},
		{"absolute with history", "https://example.org/fhir/Patient/9/_history/3", FormAbsolute, "Patient", "9", "3"},
		{"contained", "#med1", FormContained, "", "med1", ""},
		{"urn uuid", "urn:uuid:6f1c3a4e-0d42-4a3c-9b1d-2f0e8e0c7a11", FormURN, "", "6f1c3a4e-0d42-4a3c-9b1d-2f0e8e0c7a11", ""},
		{"urn oid", "urn:oid:2.16.840.1.113883", FormURN, "", "2.16.840.1.113883", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.ref)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.ref, err)
			}
			if p.Form != tt.form || p.Type != tt.typ || p.ID != tt.id || p.Version != tt.version {
				t.Errorf("Parse(%q) = %+v", tt.ref, p)
			}
			if p.String() != tt.ref {
				t.Errorf("String() = %q, want %q", p.String(), tt.ref)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []string{
		"",
		"Patient",
		"Patient/",
		"/123",
		"patient/123",
		"Unicorn/123",
		"Patient/has space",
		"Patient/123/_history/",
		"#",
		"urn:uuid:not-a-uuid",
		"urn:oid:3.1",
		"ftp://example.org/Patient/1",
		"Patient/" + strings.Repeat("a", 65),
	}

	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			_, err := Parse(ref)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", ref)
			}
			if !errors.Is(err, issue.ErrReferenceShape) {
				t.Errorf("expected ReferenceShapeError, got %v", err)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	got, err := Format("Patient", "123")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if got != "Patient/123" {
		t.Errorf("Format = %q", got)
	}

	for _, in := range [][2]string{{"Patient", ""}, {"", "123"}, {"Nope", "1"}, {"Patient", "a/b"}} {
		if _, err := Format(in[0], in[1]); !errors.Is(err, issue.ErrReferenceShape) {
			t.Errorf("Format(%q, %q) error = %v, want ReferenceShapeError", in[0], in[1], err)
		}
	}
}

func TestNewUUID(t *testing.T) {
	ref := NewUUID()
	p, err := Parse(ref)
	if err != nil {
		t.Fatalf("Parse(NewUUID()) error: %v", err)
	}
	if p.Form != FormURN {
		t.Errorf("Form = %v, want urn", p.Form)
	}
}

func TestCheckTarget(t *testing.T) {
	allowed := []string{"Organization", "Practitioner", "PractitionerRole"}

	tests := []struct {
		name    string
		ref     string
		hint    string
		wantErr bool
	}{
		{"allowed relative", "Practitioner/1", "", false},
		{"allowed absolute", "http://x.org/fhir/Organization/o", "", false},
		{"disallowed", "Patient/1", "", true},
		{"contained without hint", "#o1", "", false},
		{"contained with allowed hint", "#o1", "Organization", false},
		{"contained with disallowed hint", "#o1", "Device", true},
		{"hint disagrees", "Practitioner/1", "Organization", true},
		{"hint only", "", "PractitionerRole", false},
		{"malformed", "Practitioner", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTarget("Patient.generalPractitioner[0]", tt.ref, tt.hint, allowed)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckTarget error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, issue.ErrReferenceShape) {
				t.Errorf("expected ReferenceShapeError, got %v", err)
			}
		})
	}
}

func TestIsResourceType(t *testing.T) {
	for _, name := range []string{"Patient", "QuestionnaireResponse", "PractitionerRole"} {
		if !IsResourceType(name) {
			t.Errorf("IsResourceType(%q) = false", name)
		}
	}
	for _, name := range []string{"DomainResource", "patient", "HumanName"} {
		if IsResourceType(name) {
			t.Errorf("IsResourceType(%q) = true", name)
		}
	}
}
