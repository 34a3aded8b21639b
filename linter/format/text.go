package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apimlint/apimlint/validation"
)

type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

type textRow struct {
	location string
	severity string
	rule     string
	message  string
}

// Format writes one line per result with the location right-aligned and the severity and rule
// columns padded to a common width, followed by a totals line.
func (f *TextFormatter) Format(results []error) (string, error) {
	rows := make([]textRow, 0, len(results))
	var c counts
	locWidth, sevWidth, ruleWidth := 0, 0, 0

	for _, err := range results {
		c.add(err)

		var row textRow
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			msg := vErr.Message()
			if vErr.DocumentLocation != "" {
				msg = fmt.Sprintf("%s (document: %s)", msg, vErr.DocumentLocation)
			}
			row = textRow{
				location: fmt.Sprintf("%d:%d", vErr.GetLineNumber(), vErr.GetColumnNumber()),
				severity: vErr.Severity.String(),
				rule:     vErr.Rule,
				message:  msg,
			}
		} else {
			row = textRow{location: "-", severity: validation.SeverityError.String(), rule: internalRule, message: err.Error()}
		}

		locWidth = max(locWidth, len(row.location))
		sevWidth = max(sevWidth, len(row.severity))
		ruleWidth = max(ruleWidth, len(row.rule))
		rows = append(rows, row)
	}

	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "%*s %-*s %-*s %s\n", locWidth, row.location, sevWidth, row.severity, ruleWidth, row.rule, row.message)
	}

	if len(results) > 0 {
		sb.WriteString("\n")
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
