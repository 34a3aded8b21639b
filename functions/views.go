package functions

import (
	"fmt"
	"slices"
	"strings"
)

// object is a read-only view over a JSON object. Accessors report false when a key is missing or
// holds a value of a different shape, so predicates fail closed on unexpected input.
type object map[string]any

func asObject(v any) (object, bool) {
	m, ok := v.(map[string]any)
	return object(m), ok
}

func (o object) has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

func (o object) str(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

func (o object) obj(key string) (object, bool) {
	return asObject(o[key])
}

func (o object) arr(key string) ([]any, bool) {
	a, ok := o[key].([]any)
	return a, ok
}

func (o object) boolean(key string) bool {
	b, ok := o[key].(bool)
	return ok && b
}

func (o object) keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// truthy follows JavaScript truthiness, which Spectral-style rules are written against.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// scalarEqual compares JSON scalars, treating integer and float representations of the same
// number as equal.
func scalarEqual(a, b any) bool {
	if !isScalar(a) || !isScalar(b) {
		return false
	}
	if af, ok := number(a); ok {
		bf, ok := number(b)
		return ok && af == bf
	}
	return a == b
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int64, float64, int:
		return true
	}
	return false
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

// methodName returns the verb half of a Noun_Verb operation ID, or "" when there is no underscore.
func methodName(operationID string) string {
	_, verb, ok := strings.Cut(operationID, "_")
	if !ok {
		return ""
	}
	return verb
}
