package fhirmodel

// FHIRVersion is a FHIR release number.
type FHIRVersion string

// R4 is FHIR Release 4, the only release this module implements.
const R4 FHIRVersion = "4.0.1"

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid reports whether v is the implemented release. Only the
// major.minor part is compared, so technical corrections match.
func (v FHIRVersion) IsValid() bool {
	return len(v) >= 3 && v[:3] == R4[:3]
}

// Version is the release of this module. The build overrides it with
// -ldflags "-X github.com/gofhir/model.Version=...".
var Version = "dev"
