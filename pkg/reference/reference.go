// Package reference parses and formats FHIR reference strings. It only deals
// with the shape of a reference; nothing here dereferences a target.
package reference

import (
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/gofhir/model/pkg/issue"
)

// Form is the syntactic form of a reference string.
type Form int

// Reference forms.
const (
	FormRelative Form = iota + 1
	FormAbsolute
	FormContained
	FormURN
)

func (f Form) String() string {
	switch f {
	case FormRelative:
		return "relative"
	case FormAbsolute:
		return "absolute"
	case FormContained:
		return "contained"
	case FormURN:
		return "urn"
	default:
		return "unknown"
	}
}

// Reference format patterns.
var (
	// ResourceType/id or ResourceType/id/_history/vid.
	relativePattern = regexp.MustCompile(`^([A-Z][A-Za-z]+)/([A-Za-z0-9\-.]{1,64})(?:/_history/([A-Za-z0-9\-.]{1,64}))?$`)

	// Absolute URL ending in a relative reference.
	absolutePattern = regexp.MustCompile(`^(https?://\S+)/([A-Z][A-Za-z]+)/([A-Za-z0-9\-.]{1,64})(?:/_history/([A-Za-z0-9\-.]{1,64}))?$`)

	// Contained resource.
	containedPattern = regexp.MustCompile(`^#([A-Za-z0-9\-.]{1,64})$`)

	oidPattern = regexp.MustCompile(`^urn:oid:[012](\.(0|[1-9][0-9]*))+$`)
)

// Parsed is the decomposition of a reference string.
type Parsed struct {
	Form    Form
	Base    string // service base URL of an absolute reference
	Type    string // empty for contained and urn references
	ID      string
	Version string
	Raw     string
}

// String returns the reference as it was parsed.
func (p Parsed) String() string { return p.Raw }

// Local returns the relative Type/id form, or "" when the type is unknown.
func (p Parsed) Local() string {
	if p.Type == "" {
		return ""
	}
	return p.Type + "/" + p.ID
}

// Parse decomposes s. Accepted forms are Type/id, Type/id/_history/vid,
// absolute URLs ending in either of those, #id, urn:uuid: and urn:oid:.
func Parse(s string) (Parsed, error) {
	if m := relativePattern.FindStringSubmatch(s); m != nil {
		if !IsResourceType(m[1]) {
			return Parsed{}, issue.ReferenceShape("", s)
		}
		return Parsed{Form: FormRelative, Type: m[1], ID: m[2], Version: m[3], Raw: s}, nil
	}
	if m := absolutePattern.FindStringSubmatch(s); m != nil {
		if !IsResourceType(m[2]) {
			return Parsed{}, issue.ReferenceShape("", s)
		}
		return Parsed{Form: FormAbsolute, Base: m[1], Type: m[2], ID: m[3], Version: m[4], Raw: s}, nil
	}
	if m := containedPattern.FindStringSubmatch(s); m != nil {
		return Parsed{Form: FormContained, ID: m[1], Raw: s}, nil
	}
	if rest, ok := strings.CutPrefix(s, "urn:uuid:"); ok {
		if len(rest) != 36 {
			return Parsed{}, issue.ReferenceShape("", s)
		}
		if _, err := uuid.Parse(rest); err != nil {
			return Parsed{}, issue.ReferenceShape("", s)
		}
		return Parsed{Form: FormURN, ID: rest, Raw: s}, nil
	}
	if oidPattern.MatchString(s) {
		return Parsed{Form: FormURN, ID: strings.TrimPrefix(s, "urn:oid:"), Raw: s}, nil
	}
	return Parsed{}, issue.ReferenceShape("", s)
}

// Valid reports whether s is an acceptable reference string.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format builds the relative reference Type/id.
func Format(resourceType, id string) (string, error) {
	ref := resourceType + "/" + id
	p, err := Parse(ref)
	if err != nil || p.Form != FormRelative || p.Version != "" {
		return "", issue.ReferenceShape("", ref)
	}
	return ref, nil
}

// NewUUID returns a fresh urn:uuid: reference, used for not-yet-persisted
// resources in the same exchange.
func NewUUID() string {
	return "urn:uuid:" + uuid.NewString()
}

// CheckTarget verifies that a reference points at one of the allowed
// resource types. typeHint is the Reference.type element and is consulted
// when the string does not carry a type (contained and urn forms); when both
// carry a type they must agree. A reference whose type cannot be determined
// is accepted.
func CheckTarget(path, ref, typeHint string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	typ := typeHint
	if ref != "" {
		p, err := Parse(ref)
		if err != nil {
			return issue.ReferenceShape(path, ref)
		}
		if p.Type != "" {
			if typeHint != "" && typeHint != p.Type {
				return issue.ReferenceShape(path, ref)
			}
			typ = p.Type
		}
	}
	if typ == "" || slices.Contains(allowed, typ) {
		return nil
	}
	return issue.ReferenceTarget(path, typ, allowed)
}
