package practitioner

import "github.com/gofhir/model/pkg/datatype"

// MarshalJSON encodes the practitioner as FHIR R4 JSON.
func (p *Practitioner) MarshalJSON() ([]byte, error) {
	type plain Practitioner
	return datatype.MarshalResource(p, (*plain)(p))
}

// UnmarshalJSON decodes and validates a Practitioner. p is left unchanged
// on failure.
func (p *Practitioner) UnmarshalJSON(data []byte) error {
	type plain Practitioner
	var tmp Practitioner
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*p = tmp
	return nil
}

// MarshalJSON encodes the role as FHIR R4 JSON.
func (r *Role) MarshalJSON() ([]byte, error) {
	type plain Role
	return datatype.MarshalResource(r, (*plain)(r))
}

// UnmarshalJSON decodes and validates a PractitionerRole.
func (r *Role) UnmarshalJSON(data []byte) error {
	type plain Role
	var tmp Role
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*r = tmp
	return nil
}

// MarshalJSON encodes the organization as FHIR R4 JSON.
func (o *Organization) MarshalJSON() ([]byte, error) {
	type plain Organization
	return datatype.MarshalResource(o, (*plain)(o))
}

// UnmarshalJSON decodes and validates an Organization.
func (o *Organization) UnmarshalJSON(data []byte) error {
	type plain Organization
	var tmp Organization
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*o = tmp
	return nil
}
