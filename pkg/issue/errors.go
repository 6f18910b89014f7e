package issue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a construction or validation failure.
type Kind int

// Failure kinds.
const (
	KindFormat Kind = iota + 1
	KindCardinality
	KindBinding
	KindTransition
	KindReferenceShape
	KindInvariant
)

// Sentinels for errors.Is matching against a Kind.
var (
	ErrFormat         = errors.New("FormatError")
	ErrCardinality    = errors.New("CardinalityError")
	ErrBinding        = errors.New("BindingError")
	ErrTransition     = errors.New("TransitionError")
	ErrReferenceShape = errors.New("ReferenceShapeError")
	ErrInvariant      = errors.New("InvariantError")
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) sentinel() error {
	switch k {
	case KindFormat:
		return ErrFormat
	case KindCardinality:
		return ErrCardinality
	case KindBinding:
		return ErrBinding
	case KindTransition:
		return ErrTransition
	case KindReferenceShape:
		return ErrReferenceShape
	case KindInvariant:
		return ErrInvariant
	default:
		return nil
	}
}

// Error is a single failure carrying its kind and the offending element path.
type Error struct {
	Kind    Kind
	Path    string
	ID      DiagnosticID
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// At returns a copy of e rooted under prefix.
func (e *Error) At(prefix string) *Error {
	cp := *e
	cp.Path = Join(prefix, e.Path)
	return &cp
}

// Issue converts the error into an OperationOutcome-style issue.
func (e *Error) Issue() Issue {
	code := CodeInvalid
	if tmpl, ok := diagnosticTemplates[e.ID]; ok {
		code = tmpl.Code
	}
	diag := e.Message
	if e.Err != nil {
		diag += ": " + e.Err.Error()
	}
	iss := Issue{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diag,
		MessageID:   string(e.ID),
	}
	if e.Path != "" {
		iss.Expression = []string{e.Path}
	}
	return iss
}

func newError(kind Kind, id DiagnosticID, params map[string]any, path string) *Error {
	return &Error{Kind: kind, Path: path, ID: id, Message: FormatDiagnostic(id, params)}
}

// Format reports a literal that does not match the lexical grammar of typ.
func Format(path, typ, literal string) *Error {
	return newError(KindFormat, DiagFormatInvalid, map[string]any{"value": truncate(literal), "type": typ}, path)
}

// Range reports a numeric literal outside the range of typ.
func Range(path, typ, literal string) *Error {
	return newError(KindFormat, DiagFormatRange, map[string]any{"value": truncate(literal), "type": typ}, path)
}

// JSONType reports a JSON token of the wrong kind for typ.
func JSONType(path, typ, expected string) *Error {
	return newError(KindFormat, DiagFormatJSON, map[string]any{"type": typ, "expected": expected}, path)
}

// ResourceType reports a resource whose resourceType is not the one decoded.
func ResourceType(expected, actual string) *Error {
	return newError(KindFormat, DiagResourceType, map[string]any{"expected": expected, "actual": actual}, "resourceType")
}

// Decoding passes through errors that already carry a kind and wraps any
// other decoding failure (malformed JSON, wrong token types) as a FormatError.
func Decoding(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	e := newError(KindFormat, DiagFormatDecode, nil, "")
	e.Err = err
	return e
}

// UnknownElement reports a JSON property that is not an element of the
// type being decoded.
func UnknownElement(path, element string) *Error {
	return newError(KindFormat, DiagStructureUnknownElement, map[string]any{"element": element}, path)
}

// PrimitiveExtension reports a "_element" sibling carrying extensions of a
// primitive element, which the typed model cannot hold.
func PrimitiveExtension(path, element string) *Error {
	return newError(KindFormat, DiagStructurePrimitiveExtension, map[string]any{"element": element}, path)
}

// Required reports a missing required element.
func Required(path string) *Error {
	return newError(KindCardinality, DiagCardinalityRequired, map[string]any{"path": path}, path)
}

// MinCount reports a repeating element with fewer than min entries.
func MinCount(path string, min, count int) *Error {
	return newError(KindCardinality, DiagCardinalityMin, map[string]any{"path": path, "min": min, "count": count}, path)
}

// MaxCount reports a repeating element with more than max entries.
func MaxCount(path string, max, count int) *Error {
	return newError(KindCardinality, DiagCardinalityMax, map[string]any{"path": path, "max": max, "count": count}, path)
}

// OneOf reports that none of the alternative elements is present.
func OneOf(path string, elements ...string) *Error {
	return newError(KindCardinality, DiagCardinalityOneOf, map[string]any{"elements": strings.Join(elements, ", ")}, path)
}

// Duplicate reports a repeated value that must be unique.
func Duplicate(path, what, value string) *Error {
	return newError(KindInvariant, DiagDuplicate, map[string]any{"what": what, "value": value}, path)
}

// Invariant reports a violated cross-element rule.
func Invariant(path, message string) *Error {
	return newError(KindInvariant, DiagInvariant, map[string]any{"message": message}, path)
}

// Binding reports a code missing from a required value set.
func Binding(path, code, valueSet string) *Error {
	return newError(KindBinding, DiagBindingRequired, map[string]any{"code": code, "valueSet": valueSet}, path)
}

// AnswerType reports an answer whose value type differs from its item's type.
func AnswerType(path, linkID, expected, actual string) *Error {
	return newError(KindBinding, DiagAnswerType, map[string]any{"linkId": linkID, "expected": expected, "actual": actual}, path)
}

// UnknownLinkID reports an answer item without a matching questionnaire item.
func UnknownLinkID(path, linkID string) *Error {
	return newError(KindBinding, DiagAnswerUnknownItem, map[string]any{"linkId": linkID}, path)
}

// Transition reports a status change absent from a transition table.
func Transition(path, resource, from, to string) *Error {
	return newError(KindTransition, DiagTransition, map[string]any{"resource": resource, "from": from, "to": to}, path)
}

// ReferenceShape reports a malformed reference string.
func ReferenceShape(path, reference string) *Error {
	return newError(KindReferenceShape, DiagReferenceFormat, map[string]any{"reference": truncate(reference)}, path)
}

// ReferenceTarget reports a reference to a resource type not allowed at path.
func ReferenceTarget(path, typ string, allowed []string) *Error {
	return newError(KindReferenceShape, DiagReferenceTargetType, map[string]any{"type": typ, "allowed": strings.Join(allowed, "|")}, path)
}

// KindOf returns the kind of the first *Error found in err's tree.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Errors aggregates several failures from one validation pass.
type Errors []*Error

// Error implements the error interface.
func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no errors"
	case 1:
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(es), strings.Join(msgs, "; "))
}

// Unwrap exposes every contained error to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Result converts the errors into a Result.
func (es Errors) Result() *Result {
	r := NewResult()
	for _, e := range es {
		r.AddIssue(e.Issue())
	}
	return r
}

// Collector accumulates errors and warnings during a validation pass.
// The zero value is ready to use.
type Collector struct {
	errs     Errors
	warnings []Issue
}

// Add records err. Nil errors are ignored; *Error and Errors are flattened,
// any other error is recorded as a processing failure at path "".
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	var es Errors
	if errors.As(err, &es) {
		c.errs = append(c.errs, es...)
		return
	}
	var e *Error
	if errors.As(err, &e) {
		c.errs = append(c.errs, e)
		return
	}
	c.errs = append(c.errs, &Error{Kind: KindInvariant, Message: err.Error(), Err: err})
}

// AddAt records err rooted under prefix.
func (c *Collector) AddAt(prefix string, err error) {
	if err == nil {
		return
	}
	var sub Collector
	sub.Add(err)
	for _, e := range sub.errs {
		c.errs = append(c.errs, e.At(prefix))
	}
}

// Warn records a non-fatal issue. Nil issues are ignored.
func (c *Collector) Warn(iss *Issue) {
	if iss != nil {
		c.warnings = append(c.warnings, *iss)
	}
}

// MergeWarnings appends already-collected warnings.
func (c *Collector) MergeWarnings(issues []Issue) {
	c.warnings = append(c.warnings, issues...)
}

// Err returns nil, the single recorded *Error, or all of them as Errors.
func (c *Collector) Err() error {
	switch len(c.errs) {
	case 0:
		return nil
	case 1:
		return c.errs[0]
	default:
		return c.errs
	}
}

// Warnings returns the recorded warnings.
func (c *Collector) Warnings() []Issue {
	return c.warnings
}

// Join appends a child path segment. Index segments ("[0]") attach without a dot.
func Join(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

// Index returns path[i].
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// truncate truncates a value for display in error messages.
func truncate(value string) string {
	if len(value) > 50 {
		return value[:47] + "..."
	}
	return value
}
