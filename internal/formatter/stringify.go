// Package formatter turns arbitrary decoded values into display strings and
// renders row/column grids as plain text for non-interactive output.
package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Stringify returns a single-line display string for an arbitrary value.
// Strings have control characters escaped so table rows stay single-line;
// maps and slices are rendered as compact JSON. A nil value stringifies to
// the empty string; callers that need the tree renderer's "None" literal
// handle nil before calling here.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	case map[string]any, []any:
		// marshal to compact JSON for readability in single column
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	default:
		// Reflection handles arbitrary maps, slices, and structs so native Go
		// values get JSON output instead of fmt's "map[key:value]" form.
		rv := reflect.ValueOf(v)
		switch rv.Kind() { //nolint:exhaustive // only complex types need JSON marshaling
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		case reflect.Ptr:
			if !rv.IsNil() {
				elem := rv.Elem()
				if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map || elem.Kind() == reflect.Slice {
					if b, err := json.Marshal(v); err == nil {
						return string(b)
					}
				}
			}
		}
		return fmt.Sprintf("%v", v)
	}
}

// StringifyPreserveNewlines returns a string representation while keeping real
// line breaks intact. Used where multi-line values print to stdout directly.
func StringifyPreserveNewlines(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return normalizeScalarString(t, false)
	default:
		return Stringify(v)
	}
}

// escapeScalarString flattens control characters in scalar strings so table
// rows stay single-line.
func escapeScalarString(s string) string {
	return normalizeScalarString(s, true)
}

// normalizeScalarString prepares scalar strings for display. When
// escapeNewlines is true, newline characters are rendered as literal "\n" so
// table rows stay single-line; otherwise real line breaks are preserved while
// carriage returns are normalized away.
func normalizeScalarString(s string, escapeNewlines bool) string {
	if s == "" {
		return s
	}
	// Normalize Windows newlines first, then escape remaining control chars.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if escapeNewlines {
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\t", "\\t")
	}
	return s
}
