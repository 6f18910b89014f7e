package fhirmodel

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/issue"
)

// ErrNilResource is returned when a nil resource is encoded or validated.
var ErrNilResource = errors.New("fhirmodel: nil resource")

// Encode returns the FHIR R4 JSON of r. Absent optional elements and empty
// repeats are omitted.
func Encode(r Resource) ([]byte, error) {
	if r == nil {
		return nil, ErrNilResource
	}
	return json.Marshal(r)
}

// Decode parses FHIR R4 JSON into the resource named by its resourceType
// and validates it. Unsupported resource types are FormatErrors.
func Decode(data []byte) (Resource, error) {
	var head struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, issue.Decoding(err)
	}
	if head.ResourceType == "" {
		return nil, issue.Required("resourceType")
	}
	k, ok := ParseKind(head.ResourceType)
	if !ok {
		return nil, issue.ResourceType(supported(), head.ResourceType)
	}
	r := k.empty()
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return r, nil
}

func supported() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}
