package validation

import (
	"fmt"

	"github.com/apimlint/apimlint/jsonpointer"
	"gopkg.in/yaml.v3"
)

// Error is a single reported finding: which rule produced it, how severe it is, where in which
// document it was found and what it says.
type Error struct {
	UnderlyingError  error
	Node             *yaml.Node
	Severity         Severity
	Rule             string
	Path             []string
	DocumentLocation string
}

var _ error = (*Error)(nil)

// NewValidationError creates a finding located at node.
func NewValidationError(severity Severity, rule string, err error, node *yaml.Node) *Error {
	return &Error{
		UnderlyingError: err,
		Node:            node,
		Severity:        severity,
		Rule:            rule,
	}
}

func (e *Error) Error() string {
	msg := ""
	if e.UnderlyingError != nil {
		msg = e.UnderlyingError.Error()
	}
	return fmt.Sprintf("[%d:%d] %s %s %s", e.GetLineNumber(), e.GetColumnNumber(), e.Severity, e.Rule, msg)
}

func (e *Error) Unwrap() error {
	return e.UnderlyingError
}

// Message returns the finding text without location or rule decoration.
func (e *Error) Message() string {
	if e.UnderlyingError == nil {
		return ""
	}
	return e.UnderlyingError.Error()
}

// Pointer renders Path as an RFC 6901 JSON pointer.
func (e *Error) Pointer() string {
	if len(e.Path) == 0 {
		return ""
	}
	return string(jsonpointer.PartsToJSONPointer(e.Path))
}

// GetLineNumber returns the 1-based line of the finding or 0 when unknown.
func (e *Error) GetLineNumber() int {
	if e == nil || e.Node == nil {
		return 0
	}
	return e.Node.Line
}

// GetColumnNumber returns the 1-based column of the finding or 0 when unknown.
func (e *Error) GetColumnNumber() int {
	if e == nil || e.Node == nil {
		return 0
	}
	return e.Node.Column
}
