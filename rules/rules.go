// Package rules defines the APIM ruleset: the rule descriptors, their categories and the named
// rulesets a configuration can extend.
package rules

import (
	"fmt"
	"slices"

	"github.com/apimlint/apimlint/functions"
	"github.com/apimlint/apimlint/linter"
)

const (
	RulesetRecommended = "recommended"
	RulesetARM         = "arm"
	RulesetDataPlane   = "data-plane"
)

// All returns fresh copies of every built-in rule descriptor.
func All() []*linter.Rule {
	var all []*linter.Rule
	all = append(all, namingRules()...)
	all = append(all, responseRules()...)
	all = append(all, schemaRules()...)
	all = append(all, extensionRules()...)
	all = append(all, documentationRules()...)
	all = append(all, versioningRules()...)
	return all
}

var recommended = []string{
	RuleNamingGetInOperationName,
	RuleNamingPutInOperationName,
	RuleNamingPatchInOperationName,
	RuleNamingDeleteInOperationName,
	RuleNamingOperationIDSingleUnderscore,
	RuleNamingCamelCaseProperties,
	RuleResponsesLongRunningStatusCode,
	RuleResponsesNextLinkPropertyMustExist,
	RuleResponsesDescription,
	RuleSchemasDefaultInEnum,
	RuleSchemasValidFormats,
	RuleSchemasArrayItems,
	RuleExtensionsXMSEnum,
	RuleExtensionsXMSPathsOverload,
	RuleDocumentationOperationDescription,
	RuleDocumentationSummaryNotDescription,
	RuleDocumentationInfoRequiredProperties,
	RuleVersioningAPIVersionFormat,
}

// Rulesets returns the named rulesets over rules. The arm and data-plane rulesets hold every rule
// that applies to that document type.
func Rulesets(rules []*linter.Rule) []linter.Ruleset {
	return []linter.Ruleset{
		{Name: RulesetRecommended, RuleIDs: slices.Clone(recommended)},
		{Name: RulesetARM, RuleIDs: applicableTo(rules, linter.DocumentTypeARM)},
		{Name: RulesetDataPlane, RuleIDs: applicableTo(rules, linter.DocumentTypeDataPlane)},
	}
}

func applicableTo(rules []*linter.Rule, docType linter.DocumentType) []string {
	var ids []string
	for _, rule := range rules {
		if len(rule.DocumentTypes) == 0 ||
			slices.Contains(rule.DocumentTypes, docType) ||
			slices.Contains(rule.DocumentTypes, linter.DocumentTypeDefault) {
			ids = append(ids, rule.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

// NewRegistry builds an immutable registry of the built-in rules over the built-in functions.
func NewRegistry() (*linter.Registry, error) {
	catalogue, err := functions.Catalogue()
	if err != nil {
		return nil, fmt.Errorf("failed to build function catalogue: %w", err)
	}
	all := All()
	return linter.NewRegistry(catalogue, all, Rulesets(all)...)
}
