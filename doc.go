// Package fhirmodel is the entry point of the FHIR R4 clinical model.
//
// The resource types live in their own packages (patient, encounter,
// appointment, questionnaire, practitioner) on top of the shared primitive,
// datatype and terminology packages. This package ties them together:
//
//   - type aliases and factory re-exports, so most callers need one import
//   - Kind, a closed enumeration of the supported resource types
//   - Encode and Decode, which dispatch on resourceType
//   - Validate, which reports errors and binding warnings as an
//     OperationOutcome-style result
//
// # Quick Start
//
//	p, err := patient.New("pat-1",
//	    patient.WithName(name),
//	    patient.WithGender("female"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := fhirmodel.Encode(p)
//	r, err := fhirmodel.Decode(data)
//
//	result, err := fhirmodel.Validate(r, fhirmodel.WithConstraints(true))
//	for _, iss := range result.Issues {
//	    fmt.Println(iss)
//	}
//
// # Errors
//
// Construction and decoding are all-or-nothing: either a valid resource is
// returned or an error of one of the kinds in package issue. errors.Is
// matches the kind sentinels, for example
//
//	if errors.Is(err, issue.ErrBinding) { ... }
//
// and errors.As with *issue.Error yields the first failure with its path.
//
// # Concurrency
//
// Resources are plain values without internal locking. The terminology
// registry is initialized once and read-only afterwards, so distinct
// resources may be built, decoded and validated from any goroutine.
package fhirmodel
