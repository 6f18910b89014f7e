package encounter

import "github.com/gofhir/model/pkg/datatype"

// MarshalJSON encodes the encounter as FHIR R4 JSON.
func (e *Encounter) MarshalJSON() ([]byte, error) {
	type plain Encounter
	return datatype.MarshalResource(e, (*plain)(e))
}

// UnmarshalJSON decodes and validates an Encounter. e is left unchanged on
// failure.
func (e *Encounter) UnmarshalJSON(data []byte) error {
	type plain Encounter
	var tmp Encounter
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*e = tmp
	return nil
}
