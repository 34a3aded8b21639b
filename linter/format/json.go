package format

import (
	"encoding/json"
	"errors"

	"github.com/apimlint/apimlint/validation"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonOutput struct {
	Results []jsonResult `json:"results"`
	Summary jsonSummary  `json:"summary"`
}

type jsonResult struct {
	Rule     string       `json:"rule"`
	Category string       `json:"category"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location jsonLocation `json:"location"`
	Document string       `json:"document,omitempty"`
}

type jsonLocation struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Pointer string `json:"pointer,omitempty"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
}

func (f *JSONFormatter) Format(results []error) (string, error) {
	output := jsonOutput{
		Results: make([]jsonResult, 0, len(results)),
	}

	var c counts
	for _, err := range results {
		c.add(err)

		var vErr *validation.Error
		if errors.As(err, &vErr) {
			output.Results = append(output.Results, jsonResult{
				Rule:     vErr.Rule,
				Category: categoryOf(vErr.Rule),
				Severity: vErr.Severity.String(),
				Message:  vErr.Message(),
				Location: jsonLocation{
					Line:    vErr.GetLineNumber(),
					Column:  vErr.GetColumnNumber(),
					Pointer: vErr.Pointer(),
				},
				Document: vErr.DocumentLocation,
			})
			continue
		}

		output.Results = append(output.Results, jsonResult{
			Rule:     internalRule,
			Category: internalRule,
			Severity: validation.SeverityError.String(),
			Message:  err.Error(),
		})
	}

	output.Summary = jsonSummary{
		Total:    len(results),
		Errors:   c.errors,
		Warnings: c.warnings,
		Infos:    c.infos,
		Hints:    c.hints,
	}

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}
