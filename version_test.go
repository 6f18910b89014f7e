package fhirmodel

import "testing"

func TestFHIRVersion(t *testing.T) {
	if R4.String() != "4.0.1" {
		t.Errorf("R4.String() = %q", R4.String())
	}
	tests := []struct {
		version FHIRVersion
		want    bool
	}{
		{R4, true},
		{"4.0.0", true},
		{"4.3.0", false},
		{"5.0.0", false},
		{"R4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.version.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v; want %v", tt.version, got, tt.want)
		}
	}
}
