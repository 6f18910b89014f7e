package questionnaire

import "github.com/gofhir/model/pkg/datatype"

// MarshalJSON encodes the questionnaire as FHIR R4 JSON.
func (q *Questionnaire) MarshalJSON() ([]byte, error) {
	type plain Questionnaire
	return datatype.MarshalResource(q, (*plain)(q))
}

// UnmarshalJSON decodes and validates a Questionnaire. q is left unchanged
// on failure.
func (q *Questionnaire) UnmarshalJSON(data []byte) error {
	type plain Questionnaire
	var tmp Questionnaire
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*q = tmp
	return nil
}

// MarshalJSON encodes the response as FHIR R4 JSON.
func (r *Response) MarshalJSON() ([]byte, error) {
	type plain Response
	return datatype.MarshalResource(r, (*plain)(r))
}

// UnmarshalJSON decodes and validates a QuestionnaireResponse on its own.
// r is left unchanged on failure.
func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	var tmp Response
	if err := datatype.UnmarshalResource(data, &tmp, (*plain)(&tmp)); err != nil {
		return err
	}
	if _, err := tmp.Check(); err != nil {
		return err
	}
	*r = tmp
	return nil
}
