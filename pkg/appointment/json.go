package appointment

import "github.com/gofhir/model/pkg/datatype"

// MarshalJSON encodes the appointment as FHIR R4 JSON.
func (a *Appointment) MarshalJSON() ([]byte, error) {
	type plain Appointment
	return datatype.MarshalResource(a, (*plain)(a))
}

// UnmarshalJSON decodes and validates an Appointment. a is left unchanged
// on failure.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	type plain Appointment
	var tmp Appointment
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*a = tmp
	return nil
}
