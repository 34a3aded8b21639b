// Package jsonpointer provides JSONPointer an implementation of RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
// over plain decoded JSON values and yaml.v3 node trees.
package jsonpointer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/apimlint/apimlint/errors"
)

const (
	// ErrNotFound is returned when the target is not found.
	ErrNotFound = errors.Error("not found")
	// ErrInvalidPath is returned when the path cannot be navigated.
	ErrInvalidPath = errors.Error("invalid path")
	// ErrValidation is returned when the jsonpointer is invalid.
	ErrValidation = errors.Error("validation error")
)

// JSONPointer represents a JSON Pointer value as defined by RFC6901.
type JSONPointer string

var tokenRegex = regexp.MustCompile("^(?:[\x00-\x2E\x30-\x7D\x7F-\uffff]|~[01])*$")

// Validate will validate the JSONPointer is valid as per RFC6901.
func (j JSONPointer) Validate() error {
	_, err := j.Parts()
	if err != nil {
		return ErrValidation.Wrap(err)
	}
	return nil
}

// Parts returns the unescaped reference tokens of the pointer. The empty pointer and "/" both
// address the document root and yield no parts.
func (j JSONPointer) Parts() ([]string, error) {
	if j == "" || j == "/" {
		return nil, nil
	}
	if !strings.HasPrefix(string(j), "/") {
		return nil, fmt.Errorf("jsonpointer must start with /: %s", string(j))
	}

	raw := strings.Split(strings.TrimPrefix(string(j), "/"), "/")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if !tokenRegex.MatchString(part) {
			return nil, fmt.Errorf("jsonpointer part %q is not a valid token: %s", part, string(j))
		}
		parts = append(parts, Unescape(part))
	}
	return parts, nil
}

// FromReference extracts the pointer from a local reference such as "#/definitions/Widget".
// ok is false for references into other documents.
func FromReference(ref string) (JSONPointer, bool) {
	if !strings.HasPrefix(ref, "#") {
		return "", false
	}
	return JSONPointer(strings.TrimPrefix(ref, "#")), true
}

// PartsToJSONPointer will convert the exploded parts of a JSONPointer to a JSONPointer.
func PartsToJSONPointer(parts []string) JSONPointer {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteByte('/')
		sb.WriteString(EscapeString(part))
	}
	return JSONPointer(sb.String())
}

// EscapeString replaces "~" with "~0" and "/" with "~1".
func EscapeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Unescape reverses EscapeString.
func Unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// GetTarget evaluates the pointer against a decoded JSON value built from map[string]any and
// []any containers.
func GetTarget(source any, pointer JSONPointer) (any, error) {
	parts, err := pointer.Parts()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}
	return Navigate(source, parts)
}

// Navigate walks already split parts through a decoded JSON value.
func Navigate(source any, parts []string) (any, error) {
	current := source
	for i, part := range parts {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, ErrNotFound.Wrapf("key %s not found at %s", part, PartsToJSONPointer(parts[:i]))
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil {
				return nil, ErrInvalidPath.Wrapf("invalid index %s at %s", part, PartsToJSONPointer(parts[:i]))
			}
			if index < 0 || index >= len(v) {
				return nil, ErrNotFound.Wrapf("index %d out of range for array of length %d at %s", index, len(v), PartsToJSONPointer(parts[:i]))
			}
			current = v[index]
		default:
			return nil, ErrInvalidPath.Wrapf("cannot navigate through %T at %s", current, PartsToJSONPointer(parts[:i]))
		}
	}
	return current, nil
}
