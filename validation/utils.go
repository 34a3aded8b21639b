package validation

import (
	"errors"
	"slices"
)

// SortValidationErrors sorts findings by document, line, column, severity, rule and message.
// Errors that are not *Error keep their relative order and are moved to the end.
func SortValidationErrors(allErrors []error) {
	if len(allErrors) == 0 {
		return
	}

	var validErrs []*Error
	var otherErrs []error
	for _, err := range allErrors {
		var vErr *Error
		if errors.As(err, &vErr) {
			validErrs = append(validErrs, vErr)
		} else {
			otherErrs = append(otherErrs, err)
		}
	}

	slices.SortStableFunc(validErrs, compareValidationErrors)

	idx := 0
	for _, vErr := range validErrs {
		allErrors[idx] = vErr
		idx++
	}
	for _, err := range otherErrs {
		allErrors[idx] = err
		idx++
	}
}

func compareValidationErrors(a, b *Error) int {
	if a.DocumentLocation != b.DocumentLocation {
		return compareStrings(a.DocumentLocation, b.DocumentLocation)
	}
	if a.GetLineNumber() != b.GetLineNumber() {
		return a.GetLineNumber() - b.GetLineNumber()
	}
	if a.GetColumnNumber() != b.GetColumnNumber() {
		return a.GetColumnNumber() - b.GetColumnNumber()
	}
	if a.Severity != b.Severity {
		return a.Severity.Rank() - b.Severity.Rank()
	}
	if a.Rule != b.Rule {
		return compareStrings(a.Rule, b.Rule)
	}
	if a.Message() != b.Message() {
		return compareStrings(a.Message(), b.Message())
	}
	return compareStrings(a.Pointer(), b.Pointer())
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
