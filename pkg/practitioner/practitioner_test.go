package practitioner

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
)

const v2Degree = "http://terminology.hl7.org/CodeSystem/v2-0360"

func newSmith(t *testing.T) *Practitioner {
	t.Helper()
	npi, err := datatype.CreateIdentifier("http://hl7.org/fhir/sid/us-npi", "1234567893")
	if err != nil {
		t.Fatal(err)
	}
	name, err := datatype.CreateHumanName([]string{"Adam"}, "Careful", datatype.WithPrefix("Dr"))
	if err != nil {
		t.Fatal(err)
	}
	md := datatype.CodeableConcept{Coding: []datatype.Coding{{System: v2Degree, Code: "MD"}}}
	p, err := New("dr-1",
		WithIdentifier(npi),
		WithActive(true),
		WithName(name),
		WithGender("male"),
		WithBirthDate(primitive.MustDate("1971-11-07")),
		WithQualification(md, &datatype.Reference{Reference: "Organization/univ"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew(t *testing.T) {
	p := newSmith(t)
	if p.ID() != "dr-1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if !p.IsActive() {
		t.Error("practitioner should be active")
	}
	if !p.HasQualification(v2Degree, "MD") {
		t.Error("expected MD qualification")
	}
	if p.HasQualification(v2Degree, "RN") {
		t.Error("unexpected RN qualification")
	}
	if got := p.DisplayName(); got == "" {
		t.Error("DisplayName() is empty")
	}
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		kind issue.Kind
	}{
		{"gender", []Option{WithGender("robot")}, issue.KindBinding},
		{"qualification without code", []Option{func(p *Practitioner) {
			p.Qualification = append(p.Qualification, Qualification{})
		}}, issue.KindCardinality},
		{"qualification issuer type", []Option{
			WithQualification(datatype.CodeableConcept{Text: "MD"}, &datatype.Reference{Reference: "Patient/pat-1"}),
		}, issue.KindReferenceShape},
		{"empty name", []Option{WithName(datatype.HumanName{})}, issue.KindCardinality},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New("", tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if p != nil {
				t.Error("failed construction returned a practitioner")
			}
			if kind, _ := issue.KindOf(err); kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", kind, tt.kind, err)
			}
		})
	}
}

func TestOrganization(t *testing.T) {
	org, err := NewOrganization("org-1", "General Hospital",
		WithAlias("GH"),
		WithOrganizationActive(true),
		WithPartOf(datatype.Reference{Reference: "Organization/network"}),
		WithOrganizationTelecom(datatype.ContactPoint{System: "phone", Value: "555-0199", Use: "work"}),
	)
	if err != nil {
		t.Fatalf("NewOrganization: %v", err)
	}
	if names := org.Names(); len(names) != 2 || names[0] != "General Hospital" || names[1] != "GH" {
		t.Errorf("Names() = %v", names)
	}

	id, err := datatype.CreateIdentifier("http://example.org/orgs", "42")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewOrganization("", "", WithOrganizationIdentifier(id)); err != nil {
		t.Errorf("identifier alone should satisfy org-1: %v", err)
	}
}

func TestOrganizationRejects(t *testing.T) {
	tests := []struct {
		name    string
		orgName string
		opts    []OrganizationOption
		kind    issue.Kind
		path    string
	}{
		{"no name or identifier", "", nil, issue.KindInvariant, "Organization"},
		{"home telecom", "GH", []OrganizationOption{
			WithOrganizationTelecom(datatype.ContactPoint{System: "phone", Value: "555", Use: "home"}),
		}, issue.KindInvariant, "Organization.telecom[0].use"},
		{"home address", "GH", []OrganizationOption{
			WithOrganizationAddress(datatype.Address{City: "Springfield", Use: "home"}),
		}, issue.KindInvariant, "Organization.address[0].use"},
		{"part of itself", "GH", []OrganizationOption{
			WithPartOf(datatype.Reference{Reference: "Organization/org-1"}),
		}, issue.KindInvariant, "Organization.partOf"},
		{"part of a patient", "GH", []OrganizationOption{
			WithPartOf(datatype.Reference{Reference: "Patient/pat-1"}),
		}, issue.KindReferenceShape, "Organization.partOf"},
		{"empty alias", "GH", []OrganizationOption{WithAlias("")}, issue.KindCardinality, "Organization.alias[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrganization("org-1", tt.orgName, tt.opts...)
			var e *issue.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *issue.Error, got %v", err)
			}
			if e.Kind != tt.kind || e.Path != tt.path {
				t.Errorf("got %v at %q, want %v at %q", e.Kind, e.Path, tt.kind, tt.path)
			}
		})
	}
}

func weekdayRole(t *testing.T, opts ...RoleOption) *Role {
	t.Helper()
	base := []RoleOption{
		ForPractitioner(datatype.Reference{Reference: "Practitioner/dr-1"}),
		AtOrganization(datatype.Reference{Reference: "Organization/org-1"}),
		AtLocation(datatype.Reference{Reference: "Location/clinic"}),
		WithAvailableTime(Weekdays, primitive.MustTime("09:00:00"), primitive.MustTime("17:00:00")),
		WithAllDay(Saturday),
	}
	r, err := NewRole("role-1", append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewRole: %v", err)
	}
	return r
}

func TestRoleRejects(t *testing.T) {
	nine, five := primitive.MustTime("09:00:00"), primitive.MustTime("17:00:00")
	tests := []struct {
		name string
		opts []RoleOption
		kind issue.Kind
	}{
		{"unknown day", []RoleOption{WithAvailableTime([]string{"monday"}, nine, five)}, issue.KindBinding},
		{"end before start", []RoleOption{WithAvailableTime(Weekdays, five, nine)}, issue.KindInvariant},
		{"end equals start", []RoleOption{WithAvailableTime(Weekdays, nine, nine)}, issue.KindInvariant},
		{"all day with times", []RoleOption{func(r *Role) {
			allDay := true
			r.AvailableTime = append(r.AvailableTime, AvailableTime{AllDay: &allDay, AvailableStartTime: &nine})
		}}, issue.KindInvariant},
		{"not available without description", []RoleOption{WithNotAvailable("", nil)}, issue.KindCardinality},
		{"practitioner type", []RoleOption{ForPractitioner(datatype.Reference{Reference: "Patient/pat-1"})}, issue.KindReferenceShape},
		{"location type", []RoleOption{AtLocation(datatype.Reference{Reference: "Organization/org-1"})}, issue.KindReferenceShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRole("", tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if r != nil {
				t.Error("failed construction returned a role")
			}
			if kind, _ := issue.KindOf(err); kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", kind, tt.kind, err)
			}
		})
	}
}

func TestAvailableAt(t *testing.T) {
	// 2023-03-01 is a Wednesday.
	wed := func(h, m int) time.Time { return time.Date(2023, 3, 1, h, m, 0, 0, time.UTC) }
	holiday := datatype.Period{
		Start: ptr(primitive.MustDateTime("2023-03-06")),
		End:   ptr(primitive.MustDateTime("2023-03-07")),
	}
	r := weekdayRole(t,
		WithNotAvailable("vacation", &holiday),
		WithRolePeriod(datatype.Period{Start: ptr(primitive.MustDateTime("2023-01"))}),
	)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday morning", wed(9, 0), true},
		{"weekday afternoon", wed(16, 59), true},
		{"before opening", wed(8, 59), false},
		{"at closing", wed(17, 0), false},
		{"saturday all day", time.Date(2023, 3, 4, 22, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2023, 3, 5, 10, 0, 0, 0, time.UTC), false},
		{"vacation start", time.Date(2023, 3, 6, 10, 0, 0, 0, time.UTC), false},
		{"vacation end covers the whole day", time.Date(2023, 3, 7, 16, 0, 0, 0, time.UTC), false},
		{"after vacation", time.Date(2023, 3, 8, 10, 0, 0, 0, time.UTC), true},
		{"before the role period", time.Date(2022, 12, 28, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.AvailableAt(tt.at); got != tt.want {
				t.Errorf("AvailableAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	inactive := weekdayRole(t, WithRoleActive(false))
	if inactive.AvailableAt(wed(10, 0)) {
		t.Error("inactive role should never be available")
	}
	anytime, err := NewRole("")
	if err != nil {
		t.Fatal(err)
	}
	if !anytime.AvailableAt(wed(3, 0)) {
		t.Error("role without available times should be available")
	}
}

func ptr[T any](v T) *T { return &v }

func TestJSONRoundTrip(t *testing.T) {
	p := newSmith(t)
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Practitioner
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID() != "dr-1" || !back.HasQualification(v2Degree, "MD") {
		t.Errorf("round trip lost data: %s", data)
	}

	r := weekdayRole(t)
	data, err = json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal role: %v", err)
	}
	var role Role
	if err := json.Unmarshal(data, &role); err != nil {
		t.Fatalf("Unmarshal role: %v", err)
	}
	if len(role.AvailableTime) != 2 || role.AvailableTime[0].AvailableEndTime.String() != "17:00:00" {
		t.Errorf("availableTime = %+v", role.AvailableTime)
	}
}

func TestUnmarshalValidates(t *testing.T) {
	tests := []struct {
		name   string
		target interface{ UnmarshalJSON([]byte) error }
		data   string
	}{
		{"organization home address", new(Organization),
			`{"resourceType":"Organization","id":"o","name":"GH","address":[{"city":"X","use":"home"}]}`},
		{"organization without name", new(Organization), `{"resourceType":"Organization","id":"o"}`},
		{"role bad day", new(Role), `{"resourceType":"PractitionerRole","id":"r","availableTime":[{"daysOfWeek":["funday"]}]}`},
		{"wrong resource type", new(Practitioner), `{"resourceType":"Patient","id":"p"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := json.Unmarshal([]byte(tt.data), tt.target); err == nil {
				t.Error("expected error")
			}
		})
	}
}
