// Package cardinality checks element presence and repetition counts.
//
// Simple counts are checked with Min, Max and Require. Backbone elements
// declare their required children with `validate` struct tags, which
// Struct evaluates with go-playground/validator and reports under FHIR
// element names.
package cardinality

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/gofhir/model/pkg/issue"
)

// Unbounded is the max of a repeating element without an upper limit.
const Unbounded = -1

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
}

// jsonName names struct fields by their JSON key so that reported paths use
// FHIR element names.
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Check verifies that count lies within [min, max]. A negative max is
// unbounded.
func Check(path string, count, min, max int) error {
	if count < min {
		if min == 1 {
			return issue.Required(path)
		}
		return issue.MinCount(path, min, count)
	}
	if max >= 0 && count > max {
		return issue.MaxCount(path, max, count)
	}
	return nil
}

// Require records a missing required element.
func Require(present bool, path string, col *issue.Collector) {
	if !present {
		col.Add(issue.Required(path))
	}
}

// Min records a repeating element with fewer than min entries.
func Min(count, min int, path string, col *issue.Collector) {
	col.Add(Check(path, count, min, Unbounded))
}

// Max records a repeating element with more than max entries.
func Max(count, max int, path string, col *issue.Collector) {
	col.Add(Check(path, count, 0, max))
}

// OneOf records that none of the alternatives is present. names lists the
// alternatives in the order they are reported.
func OneOf(path string, col *issue.Collector, present bool, names ...string) {
	if !present {
		col.Add(issue.OneOf(path, names...))
	}
}

// Struct evaluates the validate tags of s, a struct or pointer to struct,
// recording each violation under path. The supported tags are required,
// min, max and required_without.
func Struct(s any, path string, col *issue.Collector) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		col.Add(issue.Invariant(path, err.Error()))
		return
	}
	for _, fe := range verrs {
		col.Add(fieldError(fe, path))
	}
}

func fieldError(fe validator.FieldError, root string) *issue.Error {
	path := root
	// The namespace starts with the Go type name; the rest is JSON names.
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		path = issue.Join(root, rest)
	}
	count := length(fe.Value())
	switch fe.Tag() {
	case "min":
		min, _ := strconv.Atoi(fe.Param())
		return issue.MinCount(path, min, count)
	case "max":
		max, _ := strconv.Atoi(fe.Param())
		return issue.MaxCount(path, max, count)
	case "required_without":
		parent := strings.TrimSuffix(path, "."+fe.Field())
		return issue.OneOf(parent, fe.Field(), lowerFirst(fe.Param()))
	default:
		return issue.Required(path)
	}
}

func length(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

// lowerFirst turns a Go field name into its JSON element name.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
