package structural

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/issue"
)

type coding struct {
	System string `json:"system,omitempty"`
	Code   string `json:"code,omitempty"`
}

type base struct {
	id        string
	Extension []json.RawMessage `json:"extension,omitempty"`
}

type stamp struct{ lit string }

func (s *stamp) UnmarshalJSON(data []byte) error {
	s.lit = string(data)
	return nil
}

type sample struct {
	base
	Active *bool    `json:"active,omitempty"`
	Code   []coding `json:"code,omitempty"`
	When   *stamp   `json:"when,omitempty"`
	Note   string   `json:"-"`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
		id   issue.DiagnosticID
	}{
		{
			name: "known elements",
			data: `{"resourceType":"Sample","id":"s","active":true,"code":[{"system":"a","code":"b"}],"when":"2023","extension":[{"url":"u","anything":1}]}`,
		},
		{
			name: "opaque primitive",
			data: `{"resourceType":"Sample","when":{"whatever":true}}`,
		},
		{
			name: "malformed JSON is left to the decoder",
			data: `{"resourceType":`,
		},
		{
			name: "unknown root element",
			data: `{"resourceType":"Sample","activ":true}`,
			path: "Sample.activ",
			id:   issue.DiagStructureUnknownElement,
		},
		{
			name: "unknown nested element",
			data: `{"resourceType":"Sample","code":[{"code":"a"},{"code":"b","display":"B"}]}`,
			path: "Sample.code[1].display",
			id:   issue.DiagStructureUnknownElement,
		},
		{
			name: "ignored field",
			data: `{"resourceType":"Sample","Note":"x"}`,
			path: "Sample.Note",
			id:   issue.DiagStructureUnknownElement,
		},
		{
			name: "primitive extension",
			data: `{"resourceType":"Sample","active":true,"_active":{"extension":[{"url":"u"}]}}`,
			path: "Sample._active",
			id:   issue.DiagStructurePrimitiveExtension,
		},
		{
			name: "id extension",
			data: `{"resourceType":"Sample","id":"s","_id":{"id":"x"}}`,
			path: "Sample._id",
			id:   issue.DiagStructurePrimitiveExtension,
		},
		{
			name: "shadow of unknown element",
			data: `{"resourceType":"Sample","_nothing":{}}`,
			path: "Sample._nothing",
			id:   issue.DiagStructureUnknownElement,
		},
		{
			name: "resourceType only allowed at the root",
			data: `{"resourceType":"Sample","code":[{"resourceType":"Coding"}]}`,
			path: "Sample.code[0].resourceType",
			id:   issue.DiagStructureUnknownElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check([]byte(tt.data), new(sample), "Sample")
			if tt.path == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, issue.ErrFormat) {
				t.Fatalf("error = %v, want FormatError", err)
			}
			var e *issue.Error
			if !errors.As(err, &e) {
				t.Fatalf("error %v is not an *issue.Error", err)
			}
			if e.Path != tt.path || e.ID != tt.id {
				t.Errorf("got %s at %s, want %s at %s", e.ID, e.Path, tt.id, tt.path)
			}
		})
	}
}

func TestCheckReportsEveryElement(t *testing.T) {
	err := Check([]byte(`{"resourceType":"Sample","b":1,"a":2,"_when":{}}`), new(sample), "Sample")
	var es issue.Errors
	if !errors.As(err, &es) {
		t.Fatalf("error = %v, want issue.Errors", err)
	}
	want := []string{"Sample._when", "Sample.a", "Sample.b"}
	if len(es) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(es), len(want), err)
	}
	for i, e := range es {
		if e.Path != want[i] {
			t.Errorf("error[%d] at %s, want %s", i, e.Path, want[i])
		}
	}
}

func TestIndex(t *testing.T) {
	idx := indexOf(reflect.TypeFor[sample]())
	want := []string{"active", "code", "extension", "when"}
	if got := slices.Sorted(maps.Keys(idx)); !slices.Equal(got, want) {
		t.Errorf("elements = %v, want %v", got, want)
	}
	if again := indexOf(reflect.TypeFor[sample]()); reflect.ValueOf(again).Pointer() != reflect.ValueOf(idx).Pointer() {
		t.Error("index was rebuilt instead of read from the cache")
	}
}
