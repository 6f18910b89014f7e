// Package structural rejects JSON properties that a typed resource cannot
// hold, so that decoding never drops data silently.
//
// The element set of each Go type is derived from its json tags, following
// anonymous embedded structs the way encoding/json does. Types that decode
// themselves (the primitives) are leaves.
package structural

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/pkg/issue"
)

var (
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	rawMessageType  = reflect.TypeFor[json.RawMessage]()
)

// elementIndex maps the JSON names of a struct type to their field types.
type elementIndex map[string]reflect.Type

// idxCache caches element indexes by struct type.
var idxCache sync.Map // map[reflect.Type]elementIndex

func indexOf(t reflect.Type) elementIndex {
	if idx, ok := idxCache.Load(t); ok {
		return idx.(elementIndex)
	}
	idx := make(elementIndex)
	collect(t, idx)
	actual, _ := idxCache.LoadOrStore(t, idx)
	return actual.(elementIndex)
}

func collect(t reflect.Type, idx elementIndex) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collect(ft, idx)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if _, seen := idx[name]; !seen {
			idx[name] = f.Type
		}
	}
}

// Check walks data against the struct type of body (a pointer to the
// decoding target) and reports every property with no matching element.
// resourceType and id are accepted at the root. Malformed JSON is left for
// the decoder to report.
func Check(data []byte, body any, resourceType string) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	t := reflect.TypeOf(body)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var col issue.Collector
	walkObject(doc, t, resourceType, true, &col)
	return col.Err()
}

func walkObject(obj map[string]any, t reflect.Type, path string, root bool, col *issue.Collector) {
	idx := indexOf(t)
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if root && (key == "resourceType" || key == "id") {
			continue
		}
		childType, ok := idx[key]
		if ok {
			walk(obj[key], childType, issue.Join(path, key), col)
			continue
		}
		if base, shadow := strings.CutPrefix(key, "_"); shadow && base != "" {
			if _, known := idx[base]; known || (root && base == "id") {
				col.Add(issue.PrimitiveExtension(issue.Join(path, key), base))
				continue
			}
		}
		col.Add(issue.UnknownElement(issue.Join(path, key), key))
	}
}

func walk(v any, t reflect.Type, path string, col *issue.Collector) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if leaf(t) {
		return
	}
	switch t.Kind() {
	case reflect.Struct:
		if obj, ok := v.(map[string]any); ok {
			walkObject(obj, t, path, false, col)
		}
	case reflect.Slice, reflect.Array:
		if items, ok := v.([]any); ok {
			for i, item := range items {
				walk(item, t.Elem(), issue.Index(path, i), col)
			}
		}
	}
}

// leaf reports whether values of t are opaque to the walk.
func leaf(t reflect.Type) bool {
	if t == rawMessageType {
		return true
	}
	if t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(unmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array:
		return false
	default:
		return true
	}
}
