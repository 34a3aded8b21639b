package format

import (
	"errors"
	"strings"

	"github.com/apimlint/apimlint/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders lint results.
type Formatter interface {
	Format(results []error) (string, error)
}

// internalRule is reported for results that are not findings, such as a failed rule evaluation.
const internalRule = "internal"

var printer = message.NewPrinter(language.English)

// counts tallies results by severity. Non-finding errors count as errors.
type counts struct {
	errors   int
	warnings int
	infos    int
	hints    int
}

func (c *counts) add(err error) {
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		c.errors++
		return
	}
	switch vErr.Severity {
	case validation.SeverityError:
		c.errors++
	case validation.SeverityWarning:
		c.warnings++
	case validation.SeverityInfo:
		c.infos++
	case validation.SeverityHint:
		c.hints++
	}
}

func (c counts) total() int {
	return c.errors + c.warnings + c.infos + c.hints
}

func (c counts) String() string {
	return printer.Sprintf("✖ %d problems (%d errors, %d warnings, %d infos, %d hints)",
		c.total(), c.errors, c.warnings, c.infos, c.hints)
}

// categoryOf derives a rule's category from its ID prefix, e.g. "naming" for
// "naming-get-in-operation-name".
func categoryOf(rule string) string {
	if rule == internalRule {
		return internalRule
	}
	if idx := strings.Index(rule, "-"); idx > 0 {
		return rule[:idx]
	}
	return "unknown"
}
