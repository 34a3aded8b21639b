package rules

import (
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleDocumentationOperationDescription   = "documentation-operation-description"
	RuleDocumentationSummaryNotDescription  = "documentation-summary-not-description"
	RuleDocumentationInfoDescription        = "documentation-info-description"
	RuleDocumentationParameterDescription   = "documentation-parameter-description"
	RuleDocumentationDefinitionDescription  = "documentation-definition-description"
	RuleDocumentationInfoRequiredProperties = "documentation-info-required-properties"
)

func documentationRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:          RuleDocumentationOperationDescription,
			Name:        "OperationDescriptionOrSummaryRequired",
			Summary:     "Operations must have a description or a summary.",
			Description: "Every operation must explain what it does in its description or summary.",
			Link:        link(RuleDocumentationOperationDescription),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.paths.*" + operations},
			Then:        []linter.Check{{Function: "descriptiveText", Options: linter.Options{"properties": []any{"description", "summary"}}}},
		},
		{
			ID:          RuleDocumentationSummaryNotDescription,
			Name:        "SummaryAndDescriptionMustNotBeSame",
			Summary:     "Summary and description must differ.",
			Description: "The summary and description values should not be same.",
			Link:        link(RuleDocumentationSummaryNotDescription),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.paths.*" + operations},
			Then:        []linter.Check{{Function: "summaryAndDescriptionMustNotBeSame"}},
		},
		{
			ID:          RuleDocumentationInfoDescription,
			Name:        "InfoDescription",
			Summary:     "The API must have a description.",
			Description: "info.description should tell a reader what the API is for.",
			Link:        link(RuleDocumentationInfoDescription),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityInfo,
			Given:       []string{"$.info"},
			Then:        []linter.Check{{Function: "descriptiveText"}},
		},
		{
			ID:          RuleDocumentationInfoRequiredProperties,
			Name:        "InfoRequiredProperties",
			Summary:     "info must declare a title and a version.",
			Description: "The info object must declare the API's title and version.",
			Link:        link(RuleDocumentationInfoRequiredProperties),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityError,
			Given:       []string{"$.info"},
			Then:        []linter.Check{{Function: "requiredProperties", Options: linter.Options{"properties": []any{"title", "version"}}}},
		},
		{
			ID:          RuleDocumentationParameterDescription,
			Name:        "ParameterDescription",
			Summary:     "Parameters must have a description.",
			Description: "Every parameter should describe the value it carries.",
			Link:        link(RuleDocumentationParameterDescription),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityWarning,
			Resolved:    true,
			Given: []string{
				"$.paths.*" + operations + ".parameters.*",
				"$.paths.*.parameters.*",
			},
			Then: []linter.Check{{Function: "descriptiveText"}},
		},
		{
			ID:          RuleDocumentationDefinitionDescription,
			Name:        "DefinitionDescription",
			Summary:     "Models should have a description.",
			Description: "Each model should describe what it represents.",
			Link:        link(RuleDocumentationDefinitionDescription),
			Category:    CategoryDocumentation,
			Severity:    validation.SeverityHint,
			Given:       []string{"$.definitions.*", "$.components.schemas.*"},
			Then:        []linter.Check{{Function: "descriptiveText"}},
		},
	}
}
