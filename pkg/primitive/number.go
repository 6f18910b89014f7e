package primitive

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gofhir/model/pkg/issue"
)

// Decimal is a FHIR decimal. The literal is kept verbatim so that precision
// (including trailing zeros) survives a round trip.
type Decimal struct {
	lit string
}

// ParseDecimal validates s against the FHIR decimal grammar.
func ParseDecimal(s string) (Decimal, error) {
	if !decimalRe.MatchString(s) {
		return Decimal{}, issue.Format("", TypeDecimal, s)
	}
	return Decimal{lit: s}, nil
}

// MustDecimal is like ParseDecimal but panics on invalid input.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalOf converts a decimal value; its String form becomes the literal.
func DecimalOf(d decimal.Decimal) Decimal {
	return Decimal{lit: d.String()}
}

func (d Decimal) String() string { return d.lit }
func (d Decimal) IsZero() bool { return d.lit == "" }

// Value returns the numeric value.
func (d Decimal) Value() decimal.Decimal {
	if d.lit == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(d.lit)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// Precision returns the number of digits written after the decimal point.
func (d Decimal) Precision() int {
	v := d.Value()
	if v.Exponent() >= 0 {
		return 0
	}
	return int(-v.Exponent())
}

// MarshalJSON emits the literal as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.lit == "" {
		return []byte("0"), nil
	}
	return []byte(d.lit), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	lit, err := numberToken(data, TypeDecimal)
	if err != nil {
		return err
	}
	parsed, err := ParseDecimal(lit)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// parseInt32 validates an integer literal and returns its value.
func parseInt32(s, typ string, min int64) (int32, error) {
	if !integerRe.MatchString(s) {
		return 0, issue.Format("", typ, s)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < min {
		return 0, issue.Range("", typ, s)
	}
	return int32(v), nil
}

// Integer is a FHIR integer: a signed 32-bit value.
type Integer struct {
	v int32
}

// ParseInteger validates s against the FHIR integer grammar.
func ParseInteger(s string) (Integer, error) {
	v, err := parseInt32(s, TypeInteger, math.MinInt32)
	if err != nil {
		return Integer{}, err
	}
	return Integer{v: v}, nil
}

// IntegerOf wraps v.
func IntegerOf(v int32) Integer { return Integer{v: v} }

func (i Integer) Value() int     { return int(i.v) }
func (i Integer) String() string { return strconv.Itoa(int(i.v)) }

// MarshalJSON implements json.Marshaler.
func (i Integer) MarshalJSON() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalJSON implements json.Unmarshaler.
func (i *Integer) UnmarshalJSON(data []byte) error {
	lit, err := numberToken(data, TypeInteger)
	if err != nil {
		return err
	}
	parsed, err := ParseInteger(lit)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// PositiveInt is a FHIR positiveInt: 1..2147483647.
type PositiveInt struct {
	v int32
}

// ParsePositiveInt validates s against the FHIR positiveInt grammar and range.
func ParsePositiveInt(s string) (PositiveInt, error) {
	v, err := parseInt32(s, TypePositiveInt, 1)
	if err != nil {
		return PositiveInt{}, err
	}
	return PositiveInt{v: v}, nil
}

// NewPositiveInt checks the range of v.
func NewPositiveInt(v int) (PositiveInt, error) {
	return ParsePositiveInt(strconv.Itoa(v))
}

func (p PositiveInt) Value() int     { return int(p.v) }
func (p PositiveInt) String() string { return strconv.Itoa(int(p.v)) }
func (p PositiveInt) IsZero() bool   { return p.v == 0 }

// MarshalJSON implements json.Marshaler.
func (p PositiveInt) MarshalJSON() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalJSON implements json.Unmarshaler.
func (p *PositiveInt) UnmarshalJSON(data []byte) error {
	lit, err := numberToken(data, TypePositiveInt)
	if err != nil {
		return err
	}
	parsed, err := ParsePositiveInt(lit)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnsignedInt is a FHIR unsignedInt: 0..2147483647.
type UnsignedInt struct {
	v int32
}

// ParseUnsignedInt validates s against the FHIR unsignedInt grammar and range.
func ParseUnsignedInt(s string) (UnsignedInt, error) {
	v, err := parseInt32(s, TypeUnsignedInt, 0)
	if err != nil {
		return UnsignedInt{}, err
	}
	return UnsignedInt{v: v}, nil
}

// NewUnsignedInt checks the range of v.
func NewUnsignedInt(v int) (UnsignedInt, error) {
	return ParseUnsignedInt(strconv.Itoa(v))
}

func (u UnsignedInt) Value() int     { return int(u.v) }
func (u UnsignedInt) String() string { return strconv.Itoa(int(u.v)) }

// MarshalJSON implements json.Marshaler.
func (u UnsignedInt) MarshalJSON() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalJSON implements json.Unmarshaler.
func (u *UnsignedInt) UnmarshalJSON(data []byte) error {
	lit, err := numberToken(data, TypeUnsignedInt)
	if err != nil {
		return err
	}
	parsed, err := ParseUnsignedInt(lit)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
