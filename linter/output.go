package linter

import (
	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/linter/format"
	"github.com/apimlint/apimlint/validation"
)

// Output represents the result of linting
type Output struct {
	Results []error
	Format  OutputFormat
	// Warnings are document loading problems such as unresolved references
	Warnings []string
}

// HasErrors reports whether any result is error severity. Non-finding results count as errors.
func (o *Output) HasErrors() bool {
	return o.ErrorCount() > 0
}

func (o *Output) ErrorCount() int {
	count := 0
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			if vErr.Severity == validation.SeverityError {
				count++
			}
		} else {
			count++
		}
	}
	return count
}

// Findings returns the results that are findings, skipping internal errors.
func (o *Output) Findings() []*validation.Error {
	var findings []*validation.Error
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			findings = append(findings, vErr)
		}
	}
	return findings
}

func (o *Output) FormatText() string {
	s, _ := format.NewTextFormatter().Format(o.Results)
	return s
}

func (o *Output) FormatJSON() string {
	s, _ := format.NewJSONFormatter().Format(o.Results)
	return s
}

func (o *Output) FormatSummary() string {
	s, _ := format.NewSummaryFormatter().Format(o.Results)
	return s
}

// String renders the results in the configured output format.
func (o *Output) String() string {
	switch o.Format {
	case OutputFormatJSON:
		return o.FormatJSON()
	case OutputFormatSummary:
		return o.FormatSummary()
	default:
		return o.FormatText()
	}
}
