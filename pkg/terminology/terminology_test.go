package terminology

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

const (
	genderSystem = "http://hl7.org/fhir/administrative-gender"
	loinc        = "http://loinc.org"
)

func newTestRegistry(t *testing.T, sources ...Source) *Registry {
	t.Helper()
	r, err := New(sources...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func TestEmbeddedSeed(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		system string
		code   string
		want   bool
	}{
		{genderSystem, "female", true},
		{genderSystem, "dragon", false},
		{"http://hl7.org/fhir/encounter-status", "in-progress", true},
		{"http://hl7.org/fhir/appointmentstatus", "noshow", true},
		{"http://terminology.hl7.org/CodeSystem/v3-ActCode", "AMB", true},
		{"http://terminology.hl7.org/CodeSystem/v3-ActCode", "ACUTE", true},
		{loinc, "44249-1", true},
		{loinc, "69737-5", true},
		{loinc, "LA6571-9", true},
		{loinc, "0000-0", false},
		{"http://unknown.example.org", "x", false},
	}
	for _, tt := range tests {
		if got := r.ContainsCode(tt.system, tt.code); got != tt.want {
			t.Errorf("ContainsCode(%s, %s) = %v, want %v", tt.system, tt.code, got, tt.want)
		}
	}

	c, ok := r.Lookup(loinc, "44249-1")
	if !ok || c.Display == "" {
		t.Errorf("Lookup PHQ-9 panel = %+v, %v", c, ok)
	}
	if !slices.Contains(r.Systems(), loinc) {
		t.Errorf("Systems() missing %s", loinc)
	}
	if r.SystemVersion(loinc) == "" {
		t.Errorf("LOINC version not recorded")
	}
}

func TestValueSetExpansion(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name     string
		valueSet string
		system   string
		code     string
		want     bool
	}{
		{"item-type question child", QuestionnaireItemType.ValueSet, "", "integer", true},
		{"item-type listed concept", QuestionnaireItemType.ValueSet, "", "group", true},
		{"item-type abstract parent excluded", QuestionnaireItemType.ValueSet, "", "question", false},
		{"encounter class listed", EncounterClass.ValueSet, "http://terminology.hl7.org/CodeSystem/v3-ActCode", "VR", true},
		{"marital status null flavor", MaritalStatus.ValueSet, "http://terminology.hl7.org/CodeSystem/v3-NullFlavor", "UNK", true},
		{"marital status wrong system", MaritalStatus.ValueSet, "http://loinc.org", "M", false},
		{"versioned url", AdministrativeGender.ValueSet + "|4.0.1", "", "male", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, known := r.InValueSet(tt.valueSet, tt.system, tt.code)
			if !known {
				t.Fatalf("value set %s not loaded", tt.valueSet)
			}
			if member != tt.want {
				t.Errorf("InValueSet = %v, want %v", member, tt.want)
			}
		})
	}

	answers, ok := r.Expand(PHQ9AnswerList.ValueSet)
	if !ok {
		t.Fatal("answer list not loaded")
	}
	if len(answers) != 4 {
		t.Errorf("answer list has %d codes, want 4: %+v", len(answers), answers)
	}
}

func TestCheck(t *testing.T) {
	r := newTestRegistry(t)
	unknownVS := Binding{ValueSet: "http://example.org/ValueSet/missing", Strength: Required}

	tests := []struct {
		name     string
		binding  Binding
		system   string
		code     string
		wantErr  bool
		severity issue.Severity
	}{
		{"required known", AdministrativeGender, "", "female", false, ""},
		{"required unknown", AdministrativeGender, "", "dragon", true, ""},
		{"required unknown system", AdministrativeGender, "http://example.org", "female", true, ""},
		{"extensible unknown", MaritalStatus, "http://example.org/marital", "X", false, issue.SeverityWarning},
		{"preferred unknown", Language, "urn:ietf:bcp:47", "tlh", false, issue.SeverityWarning},
		{"example unchecked", OrganizationType, "http://example.org", "anything", false, ""},
		{"empty code", AdministrativeGender, "", "", false, ""},
		{"value set not loaded", unknownVS, "", "x", false, issue.SeverityInformation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iss, err := r.Check(tt.binding, tt.system, tt.code, "Patient.gender")
			if tt.wantErr {
				if !errors.Is(err, issue.ErrBinding) {
					t.Fatalf("expected BindingError, got %v", err)
				}
				var e *issue.Error
				if errors.As(err, &e) && e.Path != "Patient.gender" {
					t.Errorf("error path = %q", e.Path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.severity == "" {
				if iss != nil {
					t.Errorf("unexpected issue: %v", iss)
				}
				return
			}
			if iss == nil || iss.Severity != tt.severity {
				t.Fatalf("issue = %v, want severity %s", iss, tt.severity)
			}
			if iss.Path() != "Patient.gender" {
				t.Errorf("issue path = %q", iss.Path())
			}
		})
	}
}

func TestJSONSourceMerges(t *testing.T) {
	extra := []byte(`{
		"resourceType": "Bundle",
		"type": "collection",
		"entry": [
			{"resource": {"resourceType": "CodeSystem", "url": "http://loinc.org", "status": "active", "content": "fragment",
				"concept": [{"code": "8867-4", "display": "Heart rate"}]}},
			{"resource": {"resourceType": "ValueSet", "url": "http://example.org/ValueSet/vitals", "status": "active",
				"expansion": {"timestamp": "2024-01-01T00:00:00Z", "contains": [{"system": "http://loinc.org", "code": "8867-4"}]}}},
			{"resource": {"resourceType": "Patient", "id": "ignored"}}
		]
	}`)
	r := newTestRegistry(t, JSONSource(extra))

	if !r.ContainsCode(loinc, "8867-4") {
		t.Error("added LOINC code missing")
	}
	if !r.ContainsCode(loinc, "44249-1") {
		t.Error("seed LOINC code lost after merge")
	}
	if member, known := r.InValueSet("http://example.org/ValueSet/vitals", loinc, "8867-4"); !member || !known {
		t.Errorf("expansion membership = %v, %v", member, known)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	cs := `{"resourceType": "CodeSystem", "url": "http://example.org/cs/triage", "status": "active", "content": "complete",
		"concept": [{"code": "red"}, {"code": "amber"}, {"code": "green"}]}`
	vs := `{"resourceType": "ValueSet", "url": "http://example.org/vs/triage", "status": "active",
		"compose": {"include": [{"system": "http://example.org/cs/triage"}]}}`
	for name, body := range map[string]string{
		"CodeSystem-triage.json": cs,
		"ValueSet-triage.json":   vs,
		"package.json":           `{"name": "ignored"}`,
		"notes.txt":              "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	r := newTestRegistry(t, DirSource(dir))
	if !r.ContainsCode("http://example.org/cs/triage", "amber") {
		t.Error("code from directory missing")
	}
	if member, _ := r.InValueSet("http://example.org/vs/triage", "", "green"); !member {
		t.Error("include-all value set not expanded")
	}
}

func TestSourceErrors(t *testing.T) {
	if _, err := New(DirSource(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Error("expected error for missing directory")
	}
	if _, err := New(JSONSource([]byte(`{"resourceType": "Patient"}`))); err == nil {
		t.Error("expected error for unsupported resource")
	}
	if _, err := New(JSONSource([]byte(`not json`))); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := New(JSONSource([]byte(`{"resourceType": "CodeSystem", "status": "active", "content": "complete"}`))); err == nil {
		t.Error("expected error for CodeSystem without url")
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a == nil || a != b {
		t.Fatal("Default() should return the same registry")
	}
	if err := Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Init after Default = %v, want ErrAlreadyInitialized", err)
	}
	if !ContainsCode(genderSystem, "unknown") {
		t.Error("package-level ContainsCode failed")
	}
}
