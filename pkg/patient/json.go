package patient

import "github.com/gofhir/model/pkg/datatype"

// MarshalJSON encodes the patient as FHIR R4 JSON.
func (p *Patient) MarshalJSON() ([]byte, error) {
	type plain Patient
	return datatype.MarshalResource(p, (*plain)(p))
}

// UnmarshalJSON decodes and validates a Patient. p is left unchanged on
// failure.
func (p *Patient) UnmarshalJSON(data []byte) error {
	type plain Patient
	var tmp Patient
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*p = tmp
	return nil
}
