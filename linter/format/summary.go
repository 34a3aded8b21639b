package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/apimlint/apimlint/validation"
)

// SummaryFormatter formats results as a per-rule summary table.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type ruleSummary struct {
	rule     string
	category string
	severity validation.Severity
	count    int
}

// Format outputs a per-rule summary table sorted by count descending.
func (f *SummaryFormatter) Format(results []error) (string, error) {
	byRule := make(map[string]*ruleSummary)
	var c counts

	for _, err := range results {
		c.add(err)

		rule, severity := internalRule, validation.SeverityError
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			rule, severity = vErr.Rule, vErr.Severity
		}

		rs, ok := byRule[rule]
		if !ok {
			rs = &ruleSummary{rule: rule, category: categoryOf(rule), severity: severity}
			byRule[rule] = rs
		}
		rs.count++
	}

	sorted := make([]*ruleSummary, 0, len(byRule))
	for _, rs := range byRule {
		sorted = append(sorted, rs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rule < sorted[j].rule
	})

	var sb strings.Builder

	fmt.Fprintf(&sb, "%-50s %8s %14s %8s\n", "Rule", "Severity", "Category", "Count")
	sb.WriteString(strings.Repeat("─", 83))
	sb.WriteString("\n")

	for _, rs := range sorted {
		fmt.Fprintf(&sb, "%-50s %8s %14s %8s\n", rs.rule, rs.severity, rs.category, printer.Sprintf("%d", rs.count))
	}

	sb.WriteString(strings.Repeat("─", 83))
	sb.WriteString("\n")
	sb.WriteString(c.String())
	sb.WriteString(printer.Sprintf(" across %d rules\n", len(byRule)))

	return sb.String(), nil
}
