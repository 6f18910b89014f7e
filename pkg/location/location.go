// Package location maps issue expressions such as
// "Patient.name[0].given[1]" back to line and column positions in the JSON
// document they were raised against.
package location

import (
	"strings"

	"github.com/buger/jsonparser"

	"github.com/gofhir/model/pkg/issue"
)

// Find returns the position of the value addressed by expr, or nil when the
// expression is not a plain element path or the element is absent. Columns
// count bytes.
func Find(data []byte, expr string) *issue.Location {
	if len(data) == 0 || expr == "" {
		return nil
	}
	keys, ok := keysOf(expr)
	if !ok {
		return nil
	}
	value, typ, end, err := jsonparser.Get(data, keys...)
	if err != nil {
		return nil
	}
	start := end - len(value)
	if typ == jsonparser.String {
		start -= 2
	}
	if start < 0 {
		return nil
	}
	line, col := lineCol(data, start)
	return &issue.Location{Line: line, Column: col}
}

// Locator returns a function suitable for issue.Result.EnrichLocations.
func Locator(data []byte) func(string) *issue.Location {
	return func(expr string) *issue.Location { return Find(data, expr) }
}

// keysOf splits an element path into jsonparser keys, dropping a leading
// resource type. Function calls and choice placeholders are not resolvable.
func keysOf(expr string) ([]string, bool) {
	if strings.ContainsAny(expr, "()") || strings.Contains(expr, "[x]") {
		return nil, false
	}
	parts := strings.Split(expr, ".")
	if first := parts[0]; first != "" && first[0] >= 'A' && first[0] <= 'Z' {
		parts = parts[1:]
	}

	var keys []string
	for _, part := range parts {
		name, rest, _ := strings.Cut(part, "[")
		if name == "" {
			return nil, false
		}
		keys = append(keys, name)
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok || idx == "" {
				return nil, false
			}
			keys = append(keys, "["+idx+"]")
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return keys, true
}

func lineCol(data []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
