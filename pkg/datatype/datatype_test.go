package datatype

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
)

func kindOf(t *testing.T, err error) issue.Kind {
	t.Helper()
	kind, ok := issue.KindOf(err)
	if !ok {
		t.Fatalf("error %v carries no kind", err)
	}
	return kind
}

func TestCreateReference(t *testing.T) {
	ref, err := CreateReference("Patient", "123")
	if err != nil {
		t.Fatalf("CreateReference: %v", err)
	}
	out, err := json.Marshal(ref)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"reference":"Patient/123"}` {
		t.Errorf("Marshal = %s", out)
	}

	ref, err = CreateReference("Practitioner", "dr-1", WithDisplay("Dr. Who"), WithType("Practitioner"))
	if err != nil {
		t.Fatalf("CreateReference with options: %v", err)
	}
	if ref.Display != "Dr. Who" || ref.Type != "Practitioner" {
		t.Errorf("options not applied: %+v", ref)
	}

	tests := []struct {
		name string
		typ  string
		id   string
		opts []ReferenceOption
	}{
		{"unknown type", "Patients", "123", nil},
		{"bad id", "Patient", "a b", nil},
		{"empty id", "Patient", "", nil},
		{"type mismatch", "Patient", "1", []ReferenceOption{WithType("Group")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateReference(tt.typ, tt.id, tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, issue.ErrReferenceShape) {
				t.Errorf("expected ReferenceShapeError, got %v", err)
			}
		})
	}
}

func TestCreateCodeableConcept(t *testing.T) {
	_, err := CreateCodeableConcept(nil, "")
	if err == nil {
		t.Fatal("expected error for empty concept")
	}
	if kindOf(t, err) != issue.KindCardinality {
		t.Errorf("expected CardinalityError, got %v", err)
	}

	cc, err := CreateCodeableConcept(nil, "Headache")
	if err != nil || cc.Text != "Headache" {
		t.Errorf("text-only concept: %+v, %v", cc, err)
	}

	coding, err := CreateCoding(SystemLOINC, "44261-6")
	if err != nil {
		t.Fatalf("CreateCoding: %v", err)
	}
	if coding.Display == "" {
		t.Error("expected display from the terminology registry")
	}
	cc, err = CreateCodeableConcept([]Coding{coding}, "")
	if err != nil || !cc.HasCode(SystemLOINC, "44261-6") {
		t.Errorf("coded concept: %+v, %v", cc, err)
	}
}

func TestCreateCoding(t *testing.T) {
	if _, err := CreateCoding("", "x"); err == nil || kindOf(t, err) != issue.KindCardinality {
		t.Errorf("missing system: %v", err)
	}
	if _, err := CreateCoding("http://example.org", " bad"); err == nil || kindOf(t, err) != issue.KindFormat {
		t.Errorf("bad code: %v", err)
	}
	c, err := CreateCoding("http://example.org/local", "abc", WithCodingDisplay("ABC"), WithUserSelected(true))
	if err != nil {
		t.Fatal(err)
	}
	if c.Display != "ABC" || c.UserSelected == nil || !*c.UserSelected {
		t.Errorf("options not applied: %+v", c)
	}
}

func TestCreateHumanName(t *testing.T) {
	h, err := CreateHumanName([]string{"John"}, "Smith")
	if err != nil {
		t.Fatalf("CreateHumanName: %v", err)
	}
	if h.Use != "official" {
		t.Errorf("default use = %q", h.Use)
	}

	if _, err := CreateHumanName(nil, ""); err == nil || kindOf(t, err) != issue.KindCardinality {
		t.Errorf("empty name: %v", err)
	}
	if _, err := CreateHumanName([]string{"A"}, "B", WithNameUse("nickname-ish")); err == nil || kindOf(t, err) != issue.KindBinding {
		t.Errorf("bad use: %v", err)
	}
	h, err = CreateHumanName(nil, "Curie", WithPrefix("Dr."), WithNameUse("maiden"))
	if err != nil || h.Prefix[0] != "Dr." || h.Use != "maiden" {
		t.Errorf("options: %+v, %v", h, err)
	}
}

func TestCreateContactPoint(t *testing.T) {
	tests := []struct {
		name   string
		system string
		value  string
		opts   []ContactOption
		kind   issue.Kind
	}{
		{"valid", "phone", "555-0100", []ContactOption{WithContactUse("home"), WithRank(1)}, 0},
		{"missing value", "phone", "", nil, issue.KindCardinality},
		{"bad system", "pager-ish", "1", nil, issue.KindBinding},
		{"bad use", "email", "a@example.org", []ContactOption{WithContactUse("vacation")}, issue.KindBinding},
		{"zero rank", "phone", "1", []ContactOption{WithRank(0)}, issue.KindFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := CreateContactPoint(tt.system, tt.value, tt.opts...)
			if tt.kind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cp.Rank == nil || cp.Rank.Value() != 1 {
					t.Errorf("rank not set: %+v", cp)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := kindOf(t, err); got != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", got, tt.kind, err)
			}
		})
	}
}

func TestCreateAddress(t *testing.T) {
	if _, err := CreateAddress(); err == nil || kindOf(t, err) != issue.KindCardinality {
		t.Errorf("empty address: %v", err)
	}
	a, err := CreateAddress(WithLine("1 Main St"), WithCity("Springfield"), WithAddressUse("home"), WithAddressType("physical"))
	if err != nil {
		t.Fatal(err)
	}
	if a.City != "Springfield" || len(a.Line) != 1 {
		t.Errorf("unexpected address %+v", a)
	}
	if _, err := CreateAddress(WithCountry("NL"), WithAddressType("street")); err == nil || kindOf(t, err) != issue.KindBinding {
		t.Errorf("bad type: %v", err)
	}
}

func TestCreateIdentifier(t *testing.T) {
	id, err := CreateIdentifier("http://hospital.example.org/mrn", "12345", WithIdentifierUse("usual"))
	if err != nil {
		t.Fatal(err)
	}
	if id.Use != "usual" {
		t.Errorf("use = %q", id.Use)
	}
	if _, err := CreateIdentifier("http://x", ""); err == nil || kindOf(t, err) != issue.KindCardinality {
		t.Errorf("missing value: %v", err)
	}
	if _, err := CreateIdentifier("not a uri", "1"); err == nil || kindOf(t, err) != issue.KindFormat {
		t.Errorf("bad system: %v", err)
	}
	practitioner, _ := CreateReference("Practitioner", "p1")
	if _, err := CreateIdentifier("http://x", "1", WithAssigner(practitioner)); err == nil || !errors.Is(err, issue.ErrReferenceShape) {
		t.Errorf("assigner must be an Organization: %v", err)
	}
}

func TestCreatePeriod(t *testing.T) {
	start := primitive.MustDateTime("2023-01-15T08:00:00Z")
	end := primitive.MustDateTime("2023-01-15T09:00:00Z")
	if _, err := CreatePeriod(&start, &end); err != nil {
		t.Errorf("ordered period: %v", err)
	}
	if _, err := CreatePeriod(&start, nil); err != nil {
		t.Errorf("open period: %v", err)
	}
	_, err := CreatePeriod(&end, &start)
	if err == nil {
		t.Fatal("expected error for reversed period")
	}
	if !errors.Is(err, issue.ErrInvariant) {
		t.Errorf("expected InvariantError, got %v", err)
	}
}

func TestCreateQuantityAndDuration(t *testing.T) {
	q, err := CreateQuantity(primitive.MustDecimal("98.6"), "[degF]", WithComparator("<"))
	if err != nil {
		t.Fatal(err)
	}
	if q.System != SystemUCUM || q.Unit != "[degF]" {
		t.Errorf("defaults not applied: %+v", q)
	}
	if _, err := CreateQuantity(primitive.MustDecimal("1"), "mg", WithComparator("~")); err == nil {
		t.Error("expected binding error for comparator")
	}

	d, err := CreateDuration(primitive.MustDecimal("30"), "min")
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "min" || d.System != SystemUCUM {
		t.Errorf("unexpected duration %+v", d)
	}
	if _, err := CreateDuration(primitive.MustDecimal("2"), "fortnight"); err == nil || kindOf(t, err) != issue.KindBinding {
		t.Errorf("bad unit: %v", err)
	}
}

func TestCreateAttachment(t *testing.T) {
	a, err := CreateAttachment("text/plain", WithData([]byte("hello")), WithTitle("note"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Data != "aGVsbG8=" || a.Size == nil || a.Size.Value() != 5 {
		t.Errorf("unexpected attachment %+v", a)
	}
	if _, err := CreateAttachment("", WithData([]byte("x"))); err == nil || kindOf(t, err) != issue.KindCardinality {
		t.Errorf("missing content type: %v", err)
	}
	if _, err := CreateAttachment("text/plain"); err == nil {
		t.Error("expected error without data or url")
	}
}

func TestGetDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		names []HumanName
		want  string
	}{
		{"given and family", []HumanName{{Given: []string{"John"}, Family: "Smith"}}, "John Smith"},
		{"official wins", []HumanName{
			{Use: "nickname", Given: []string{"Johnny"}},
			{Use: "usual", Given: []string{"Jack"}, Family: "Smith"},
			{Use: "official", Given: []string{"John", "Paul"}, Family: "Smith"},
		}, "John Paul Smith"},
		{"usual before first", []HumanName{
			{Use: "nickname", Given: []string{"Johnny"}},
			{Use: "usual", Given: []string{"Jack"}},
		}, "Jack"},
		{"text wins", []HumanName{{Text: "Dr. J. Smith", Family: "Smith"}}, "Dr. J. Smith"},
		{"family only", []HumanName{{Family: "Smith"}}, "Smith"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetDisplayName(tt.names); got != tt.want {
				t.Errorf("GetDisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func rank(n int) *primitive.PositiveInt {
	r, err := primitive.NewPositiveInt(n)
	if err != nil {
		panic(err)
	}
	return &r
}

func TestGetPrimaryContact(t *testing.T) {
	telecom := []ContactPoint{
		{System: "email", Value: "work@example.org", Use: "work"},
		{System: "phone", Value: "555-0001", Use: "work"},
		{System: "phone", Value: "555-0002", Use: "home"},
		{System: "phone", Value: "555-0003", Use: "mobile", Rank: rank(2)},
		{System: "email", Value: "home@example.org", Use: "home"},
	}
	phone, ok := GetPrimaryPhone(telecom)
	if !ok || phone.Value != "555-0003" {
		t.Errorf("ranked phone should win, got %+v", phone)
	}
	email, ok := GetPrimaryEmail(telecom)
	if !ok || email.Value != "home@example.org" {
		t.Errorf("home email should win, got %+v", email)
	}
	if _, ok := GetPrimaryPhone(telecom[:1]); ok {
		t.Error("expected no phone")
	}
	fallback, ok := GetPrimaryEmail([]ContactPoint{{System: "email", Value: "a@x", Use: "temp"}})
	if !ok || fallback.Value != "a@x" {
		t.Errorf("first match expected, got %+v", fallback)
	}
}

func TestIdentifiers(t *testing.T) {
	ids := []Identifier{
		{System: "http://a", Value: "1"},
		{System: "http://b", Value: "1"},
		{System: "http://a", Value: "2"},
	}
	set := IdentifiersBySystem(ids)
	if len(set.BySystem("http://a")) != 2 {
		t.Errorf("BySystem(a) = %v", set.BySystem("http://a"))
	}
	if set.Value("http://b") != "1" {
		t.Errorf("Value(b) = %q", set.Value("http://b"))
	}
	if _, ok := set.Find("http://c"); ok {
		t.Error("unexpected identifier for http://c")
	}
	if id, ok := FindIdentifier(ids, "http://a"); !ok || id.Value != "1" {
		t.Errorf("FindIdentifier = %+v", id)
	}
	if err := ValidateIdentifiers(ids, "Patient.identifier"); err != nil {
		t.Errorf("same value in different systems must be allowed: %v", err)
	}

	err := ValidateIdentifiers(append(ids, Identifier{System: "http://a", Value: "2"}), "Patient.identifier")
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	var e *issue.Error
	if !errors.As(err, &e) || e.Kind != issue.KindInvariant || e.Path != "Patient.identifier[3]" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExtensionCheck(t *testing.T) {
	yes := true
	tests := []struct {
		name  string
		ext   Extension
		valid bool
	}{
		{"value", Extension{URL: "http://x", ValueBoolean: &yes}, true},
		{"nested", Extension{URL: "http://x", Extension: []Extension{{URL: "a", ValueString: "b"}}}, true},
		{"both", Extension{URL: "http://x", ValueString: "a", Extension: []Extension{{URL: "a", ValueString: "b"}}}, false},
		{"neither", Extension{URL: "http://x"}, false},
		{"two values", Extension{URL: "http://x", ValueString: "a", ValueCode: "b"}, false},
		{"no url", Extension{ValueString: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var col issue.Collector
			tt.ext.Check("extension[0]", &col)
			if tt.valid != (col.Err() == nil) {
				t.Errorf("Check() error = %v, want valid=%v", col.Err(), tt.valid)
			}
		})
	}
}

func TestNarrativeCheck(t *testing.T) {
	var col issue.Collector
	Narrative{Status: "generated", Div: `<div xmlns="http://www.w3.org/1999/xhtml">ok</div>`}.Check("Patient.text", &col)
	if err := col.Err(); err != nil {
		t.Errorf("valid narrative: %v", err)
	}
	col = issue.Collector{}
	Narrative{Status: "bogus", Div: "<p>no</p>"}.Check("Patient.text", &col)
	if es, ok := col.Err().(issue.Errors); !ok || len(es) != 2 {
		t.Errorf("expected two errors, got %v", col.Err())
	}
}

type testResource struct {
	DomainResource
	Active *bool `json:"active,omitempty"`
}

func (r *testResource) ResourceType() string { return "Basic" }

func (r *testResource) Check() ([]issue.Issue, error) {
	var col issue.Collector
	r.CheckBase("Basic", &col)
	return col.Warnings(), col.Err()
}

func (r *testResource) MarshalJSON() ([]byte, error) {
	type plain testResource
	return MarshalResource(r, (*plain)(r))
}

func (r *testResource) UnmarshalJSON(data []byte) error {
	type plain testResource
	var tmp testResource
	if err := UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	*r = tmp
	return nil
}

func TestResourceJSON(t *testing.T) {
	base, err := NewDomainResource("ex-1")
	if err != nil {
		t.Fatal(err)
	}
	yes := true
	r := &testResource{DomainResource: base, Active: &yes}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"resourceType":"Basic","id":"ex-1","active":true}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}

	var back testResource
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID() != "ex-1" || back.Active == nil || !*back.Active {
		t.Errorf("round trip lost data: %+v", back)
	}

	empty := &testResource{}
	out, _ = json.Marshal(empty)
	if string(out) != `{"resourceType":"Basic"}` {
		t.Errorf("empty Marshal = %s", out)
	}
}

func TestUnmarshalResourceErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong type", `{"resourceType":"Patient","id":"1"}`},
		{"bad id", `{"resourceType":"Basic","id":"a b"}`},
		{"malformed", `{"resourceType":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r testResource
			err := r.UnmarshalJSON([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, issue.ErrFormat) {
				t.Errorf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestNewDomainResource(t *testing.T) {
	d, err := NewDomainResource("")
	if err != nil || len(d.ID()) != 36 {
		t.Errorf("generated id = %q, %v", d.ID(), err)
	}
	if _, err := NewDomainResource("has space"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestCheckContained(t *testing.T) {
	r := &testResource{}
	r.Contained = []json.RawMessage{
		json.RawMessage(`{"resourceType":"Organization","id":"org1"}`),
		json.RawMessage(`{"resourceType":"Organization","meta":{"versionId":"2"}}`),
	}
	_, err := r.Check()
	if err == nil {
		t.Fatal("expected errors for the second contained resource")
	}
	if !strings.Contains(err.Error(), "Basic.contained[1]") {
		t.Errorf("errors should point at contained[1]: %v", err)
	}
	if strings.Contains(err.Error(), "contained[0]") {
		t.Errorf("contained[0] is valid: %v", err)
	}
}
