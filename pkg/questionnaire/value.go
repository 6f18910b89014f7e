package questionnaire

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
)

// Value type names, as they appear in the value[x] suffix.
const (
	ValueBoolean    = "boolean"
	ValueDecimal    = "decimal"
	ValueInteger    = "integer"
	ValueDate       = "date"
	ValueDateTime   = "dateTime"
	ValueTime       = "time"
	ValueString     = "string"
	ValueURI        = "uri"
	ValueAttachment = "Attachment"
	ValueCoding     = "Coding"
	ValueQuantity   = "Quantity"
	ValueReference  = "Reference"
)

var (
	allValueTypes = []string{
		ValueBoolean, ValueDecimal, ValueInteger, ValueDate, ValueDateTime, ValueTime,
		ValueString, ValueURI, ValueAttachment, ValueCoding, ValueQuantity, ValueReference,
	}
	optionValueTypes     = []string{ValueInteger, ValueDate, ValueTime, ValueString, ValueCoding, ValueReference}
	enableWhenValueTypes = []string{
		ValueBoolean, ValueDecimal, ValueInteger, ValueDate, ValueDateTime, ValueTime,
		ValueString, ValueCoding, ValueQuantity, ValueReference,
	}
)

// Value is the value[x] choice shared by answers, answer options and
// initial values. At most one field is set.
type Value struct {
	Boolean    *bool                `json:"valueBoolean,omitempty"`
	Decimal    *primitive.Decimal   `json:"valueDecimal,omitempty"`
	Integer    *primitive.Integer   `json:"valueInteger,omitempty"`
	Date       *primitive.Date      `json:"valueDate,omitempty"`
	DateTime   *primitive.DateTime  `json:"valueDateTime,omitempty"`
	Time       *primitive.Time      `json:"valueTime,omitempty"`
	String     string               `json:"valueString,omitempty"`
	URI        string               `json:"valueUri,omitempty"`
	Attachment *datatype.Attachment `json:"valueAttachment,omitempty"`
	Coding     *datatype.Coding     `json:"valueCoding,omitempty"`
	Quantity   *datatype.Quantity   `json:"valueQuantity,omitempty"`
	Reference  *datatype.Reference  `json:"valueReference,omitempty"`
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Boolean: &b} }

// IntValue returns an integer value.
func IntValue(n int32) Value {
	i := primitive.IntegerOf(n)
	return Value{Integer: &i}
}

// DecimalValue returns a decimal value.
func DecimalValue(d primitive.Decimal) Value { return Value{Decimal: &d} }

// DateValue returns a date value.
func DateValue(d primitive.Date) Value { return Value{Date: &d} }

// DateTimeValue returns a dateTime value.
func DateTimeValue(dt primitive.DateTime) Value { return Value{DateTime: &dt} }

// TimeValue returns a time value.
func TimeValue(t primitive.Time) Value { return Value{Time: &t} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{String: s} }

// URIValue returns a uri value.
func URIValue(s string) Value { return Value{URI: s} }

// AttachmentValue returns an attachment value.
func AttachmentValue(a datatype.Attachment) Value { return Value{Attachment: &a} }

// CodingValue returns a Coding value.
func CodingValue(c datatype.Coding) Value { return Value{Coding: &c} }

// QuantityValue returns a Quantity value.
func QuantityValue(q datatype.Quantity) Value { return Value{Quantity: &q} }

// ReferenceValue returns a Reference value.
func ReferenceValue(r datatype.Reference) Value { return Value{Reference: &r} }

// Types returns the names of the variants that are set.
func (v Value) Types() []string {
	var types []string
	for i, set := range []bool{
		v.Boolean != nil, v.Decimal != nil, v.Integer != nil, v.Date != nil, v.DateTime != nil, v.Time != nil,
		v.String != "", v.URI != "", v.Attachment != nil, v.Coding != nil, v.Quantity != nil, v.Reference != nil,
	} {
		if set {
			types = append(types, allValueTypes[i])
		}
	}
	return types
}

// Type returns the name of the single variant set, or "" when the value
// is empty or ambiguous.
func (v Value) Type() string {
	if types := v.Types(); len(types) == 1 {
		return types[0]
	}
	return ""
}

// IsEmpty reports whether no variant is set.
func (v Value) IsEmpty() bool { return len(v.Types()) == 0 }

// check validates a value whose JSON keys start with prefix. An empty value
// is left to the caller.
func (v Value) check(path, prefix string, allowed []string, col *issue.Collector) {
	types := v.Types()
	switch {
	case len(types) == 0:
		return
	case len(types) > 1:
		col.Add(issue.Invariant(path, prefix+"[x] must have a single type, found "+strings.Join(types, ", ")))
		return
	case !slices.Contains(allowed, types[0]):
		col.Add(issue.Invariant(issue.Join(path, prefix+upperFirst(types[0])),
			prefix+"[x] of type "+types[0]+" is not permitted here"))
		return
	}
	at := issue.Join(path, prefix+upperFirst(types[0]))
	switch {
	case v.URI != "":
		datatype.CheckURI(v.URI, at, col)
	case v.Attachment != nil:
		v.Attachment.Check(at, col)
	case v.Coding != nil:
		v.Coding.Check(at, col)
	case v.Quantity != nil:
		v.Quantity.Check(at, col)
	case v.Reference != nil:
		datatype.CheckReference(v.Reference, at, col)
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Equal reports whether v and o carry the same value. Codings match on
// system and code, quantities on value and unit code, numbers numerically.
func (v Value) Equal(o Value) bool {
	if a, ok := v.number(); ok {
		b, ok := o.number()
		if !ok || (v.Quantity == nil) != (o.Quantity == nil) {
			return false
		}
		if v.Quantity != nil && v.Quantity.Code != o.Quantity.Code {
			return false
		}
		return a.Equal(b)
	}
	switch {
	case v.Boolean != nil:
		return o.Boolean != nil && *v.Boolean == *o.Boolean
	case v.Date != nil:
		return o.Date != nil && v.Date.String() == o.Date.String()
	case v.DateTime != nil:
		return o.DateTime != nil && v.DateTime.Time().Equal(o.DateTime.Time()) && v.DateTime.Precision() == o.DateTime.Precision()
	case v.Time != nil:
		return o.Time != nil && v.Time.SinceMidnight() == o.Time.SinceMidnight()
	case v.String != "":
		return v.String == o.String
	case v.URI != "":
		return v.URI == o.URI
	case v.Coding != nil:
		return o.Coding != nil && v.Coding.Code == o.Coding.Code &&
			(v.Coding.System == "" || o.Coding.System == "" || v.Coding.System == o.Coding.System)
	case v.Reference != nil:
		return o.Reference != nil && v.Reference.Reference == o.Reference.Reference
	case v.Attachment != nil:
		return o.Attachment != nil && v.Attachment.URL == o.Attachment.URL && v.Attachment.Data == o.Attachment.Data
	}
	return false
}

// Compare orders v against o. ok is false when the values are not of
// comparable types.
func (v Value) Compare(o Value) (int, bool) {
	if a, ok := v.number(); ok {
		b, ok := o.number()
		if !ok {
			return 0, false
		}
		return a.Cmp(b), true
	}
	switch {
	case v.Date != nil && o.Date != nil:
		return v.Date.Time().Compare(o.Date.Time()), true
	case v.DateTime != nil && o.DateTime != nil:
		return v.DateTime.Time().Compare(o.DateTime.Time()), true
	case v.Time != nil && o.Time != nil:
		a, b := v.Time.SinceMidnight(), o.Time.SinceMidnight()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case v.String != "" && o.String != "":
		return strings.Compare(v.String, o.String), true
	}
	return 0, false
}

func (v Value) number() (decimal.Decimal, bool) {
	switch {
	case v.Decimal != nil:
		return v.Decimal.Value(), true
	case v.Integer != nil:
		return decimal.NewFromInt(int64(v.Integer.Value())), true
	case v.Quantity != nil && v.Quantity.Value != nil:
		return v.Quantity.Value.Value(), true
	}
	return decimal.Decimal{}, false
}
