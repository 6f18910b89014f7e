// Package primitive provides the FHIR R4 primitive types whose values are
// constrained by a lexical grammar. Every type is constructed through a Parse
// function that validates the literal; the zero value means "absent".
package primitive

import (
	"bytes"
	"regexp"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/issue"
)

// Type names as used in FHIR StructureDefinitions and diagnostics.
const (
	TypeDate        = "date"
	TypeDateTime    = "dateTime"
	TypeInstant     = "instant"
	TypeTime        = "time"
	TypeCode        = "code"
	TypeURI         = "uri"
	TypeCanonical   = "canonical"
	TypeID          = "id"
	TypeDecimal     = "decimal"
	TypeInteger     = "integer"
	TypePositiveInt = "positiveInt"
	TypeUnsignedInt = "unsignedInt"
)

// Grammars from the FHIR R4 primitive type definitions, anchored.
var (
	datePattern = `([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1]))?)?`
	zonePattern = `(Z|(\+|-)((0[0-9]|1[0-3]):[0-5][0-9]|14:00))`
	timePattern = `([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?`

	dateRe     = regexp.MustCompile(`^` + datePattern + `$`)
	dateTimeRe = regexp.MustCompile(`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1])(T` + timePattern + zonePattern + `)?)?)?$`)
	instantRe  = regexp.MustCompile(`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)-(0[1-9]|1[0-2])-(0[1-9]|[1-2][0-9]|3[0-1])T` + timePattern + zonePattern + `$`)
	timeRe     = regexp.MustCompile(`^` + timePattern + `$`)
	codeRe     = regexp.MustCompile(`^[^\s]+(\s[^\s]+)*$`)
	uriRe      = regexp.MustCompile(`^\S+$`)
	idRe       = regexp.MustCompile(`^[A-Za-z0-9\-\.]{1,64}$`)
	decimalRe  = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	integerRe  = regexp.MustCompile(`^(0|-?[1-9][0-9]*)$`)
)

var jsonNull = []byte("null")

// unmarshalString decodes a JSON string token for a string-valued primitive.
func unmarshalString(data []byte, typ string) (string, error) {
	if len(data) == 0 || data[0] != '"' {
		return "", issue.JSONType("", typ, "string")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", issue.Format("", typ, string(data))
	}
	return s, nil
}

// numberToken returns the raw literal of a JSON number token.
func numberToken(data []byte, typ string) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) || !(data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		return "", issue.JSONType("", typ, "number")
	}
	return string(data), nil
}

func marshalString(s string) ([]byte, error) {
	return json.Marshal(s)
}
