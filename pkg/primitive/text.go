package primitive

import (
	"strings"

	"github.com/gofhir/model/pkg/issue"
)

// Code is a FHIR code: a token with no leading, trailing or repeated whitespace.
type Code struct {
	lit string
}

// ParseCode validates s against the FHIR code grammar.
func ParseCode(s string) (Code, error) {
	if !codeRe.MatchString(s) {
		return Code{}, issue.Format("", TypeCode, s)
	}
	return Code{lit: s}, nil
}

// MustCode is like ParseCode but panics on invalid input.
func MustCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Code) String() string { return c.lit }
func (c Code) IsZero() bool { return c.lit == "" }

// MarshalJSON implements json.Marshaler.
func (c Code) MarshalJSON() ([]byte, error) { return marshalString(c.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeCode)
	if err != nil {
		return err
	}
	parsed, err := ParseCode(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// URI is a FHIR uri: any non-empty string without whitespace.
type URI struct {
	lit string
}

// ParseURI validates s against the FHIR uri grammar.
func ParseURI(s string) (URI, error) {
	if !uriRe.MatchString(s) {
		return URI{}, issue.Format("", TypeURI, s)
	}
	return URI{lit: s}, nil
}

// MustURI is like ParseURI but panics on invalid input.
func MustURI(s string) URI {
	u, err := ParseURI(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) String() string { return u.lit }
func (u URI) IsZero() bool { return u.lit == "" }

// MarshalJSON implements json.Marshaler.
func (u URI) MarshalJSON() ([]byte, error) { return marshalString(u.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (u *URI) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeURI)
	if err != nil {
		return err
	}
	parsed, err := ParseURI(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Canonical is a uri that refers to a canonical resource, optionally pinned
// to a version with a "|version" suffix.
type Canonical struct {
	lit string
}

// ParseCanonical validates s as a canonical reference.
func ParseCanonical(s string) (Canonical, error) {
	if !uriRe.MatchString(s) || strings.HasPrefix(s, "|") || strings.HasSuffix(s, "|") || strings.Count(s, "|") > 1 {
		return Canonical{}, issue.Format("", TypeCanonical, s)
	}
	return Canonical{lit: s}, nil
}

// MustCanonical is like ParseCanonical but panics on invalid input.
func MustCanonical(s string) Canonical {
	c, err := ParseCanonical(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Canonical) String() string { return c.lit }
func (c Canonical) IsZero() bool { return c.lit == "" }

// URL returns the canonical without its version suffix.
func (c Canonical) URL() string {
	url, _, _ := strings.Cut(c.lit, "|")
	return url
}

// Version returns the pinned version, or "".
func (c Canonical) Version() string {
	_, v, _ := strings.Cut(c.lit, "|")
	return v
}

// MarshalJSON implements json.Marshaler.
func (c Canonical) MarshalJSON() ([]byte, error) { return marshalString(c.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Canonical) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeCanonical)
	if err != nil {
		return err
	}
	parsed, err := ParseCanonical(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidID reports whether s is a valid FHIR id (logical resource id).
func ValidID(s string) bool {
	return idRe.MatchString(s)
}

// CheckID returns a FormatError when s is not a valid FHIR id.
func CheckID(s string) error {
	if !ValidID(s) {
		return issue.Format("", TypeID, s)
	}
	return nil
}
