package rules

import (
	"strings"

	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleNamingGetInOperationName          = "naming-get-in-operation-name"
	RuleNamingPutInOperationName          = "naming-put-in-operation-name"
	RuleNamingPatchInOperationName        = "naming-patch-in-operation-name"
	RuleNamingDeleteInOperationName       = "naming-delete-in-operation-name"
	RuleNamingOperationIDSingleUnderscore = "naming-operation-id-single-underscore"
	RuleNamingOperationIDNounVerb         = "naming-operation-id-noun-verb"
	RuleNamingCamelCaseProperties         = "naming-camel-case-properties"
	RuleNamingDefinitionPascalCase        = "naming-definition-pascal-case"
	RuleNamingPathSegmentCasing           = "naming-path-segment-casing"
	RuleNamingReservedHeaderParameters    = "naming-reserved-header-parameters"
)

// ReservedHeaders are set by the gateway or the HTTP stack and must not be declared as operation
// parameters.
var ReservedHeaders = []any{"Accept", "Authorization", "Content-Type"}

func operationNameRule(id, name, method, function, verbs string) *linter.Rule {
	return &linter.Rule{
		ID:          id,
		Name:        name,
		Summary:     method + " operation IDs must use the " + verbs + " verb.",
		Description: "The verb of a " + method + " operation's Noun_Verb operation ID must be " + verbs + ", so that generated clients expose consistent method names.",
		Link:        link(id),
		Category:    CategoryNaming,
		Severity:    validation.SeverityError,
		Given:       []string{"$.paths.*." + strings.ToLower(method) + ".operationId"},
		Then:        []linter.Check{{Function: function}},
	}
}

func namingRules() []*linter.Rule {
	return []*linter.Rule{
		operationNameRule(RuleNamingGetInOperationName, "GetInOperationName", "GET", "getInOperationName", "Get or List"),
		operationNameRule(RuleNamingPutInOperationName, "PutInOperationName", "PUT", "putInOperationName", "Create or CreateOrUpdate"),
		operationNameRule(RuleNamingPatchInOperationName, "PatchInOperationName", "PATCH", "patchInOperationName", "Update"),
		operationNameRule(RuleNamingDeleteInOperationName, "DeleteInOperationName", "DELETE", "deleteInOperationName", "Delete"),
		{
			ID:          RuleNamingOperationIDSingleUnderscore,
			Name:        "OperationIdSingleUnderscore",
			Summary:     "Operation IDs must contain at most one underscore.",
			Description: "Operation IDs follow the Noun_Verb convention, where the underscore separates the operation group from the method name.",
			Link:        link(RuleNamingOperationIDSingleUnderscore),
			Category:    CategoryNaming,
			Severity:    validation.SeverityError,
			Given:       []string{"$.paths.*.*.operationId"},
			Then:        []linter.Check{{Function: "operationIdSingleUnderscore"}},
			GoodExample: "operationId: Widgets_ListByResourceGroup",
			BadExample:  "operationId: Widgets_List_ByResourceGroup",
		},
		{
			ID:          RuleNamingOperationIDNounVerb,
			Name:        "OperationIdNounVerb",
			Summary:     "The noun of an operation ID must not be repeated in its verb.",
			Description: "Per the Noun_Verb convention the method name after the underscore should not repeat the operation group before it.",
			Link:        link(RuleNamingOperationIDNounVerb),
			Category:    CategoryNaming,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.paths.*.*.operationId"},
			Then:        []linter.Check{{Function: "operationIdNounVerb"}},
			GoodExample: "operationId: Widgets_Get",
			BadExample:  "operationId: Widgets_GetWidgets",
		},
		{
			ID:          RuleNamingCamelCaseProperties,
			Name:        "DefinitionsPropertiesNamesCamelCase",
			Summary:     "Property names must be camel case.",
			Description: "Property names should be camel case. Acronyms of up to three letters may be capitalised.",
			Link:        link(RuleNamingCamelCaseProperties),
			Category:    CategoryNaming,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.definitions.*", "$.components.schemas.*"},
			Then:        []linter.Check{{Function: "camelCaseProperties"}},
		},
		{
			ID:          RuleNamingDefinitionPascalCase,
			Name:        "DefinitionsNamesPascalCase",
			Summary:     "Model names must be Pascal case.",
			Description: "Definition names become type names in generated clients and should be Pascal case.",
			Message:     "Model '{{property}}' should be Pascal case.",
			Link:        link(RuleNamingDefinitionPascalCase),
			Category:    CategoryNaming,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.definitions.*~", "$.components.schemas.*~"},
			Then:        []linter.Check{{Function: "casing", Options: linter.Options{"type": "pascal"}}},
		},
		{
			ID:            RuleNamingPathSegmentCasing,
			Name:          "PathSegmentCasing",
			Summary:       "Path segments must be camel case.",
			Description:   "Static path segments of data-plane APIs should be camel case. Path parameters are not checked.",
			Link:          link(RuleNamingPathSegmentCasing),
			Category:      CategoryNaming,
			Severity:      validation.SeverityWarning,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeDataPlane},
			Given:         []string{"$.paths.*~"},
			Then: []linter.Check{{
				Function: "namingConvention",
				Options:  linter.Options{"delimiter": "/", "match": `^[a-z][a-zA-Z0-9]*(:[a-z][a-zA-Z0-9]*)?$`},
			}},
			GoodExample: "/widgets/{widgetName}/exportItems",
			BadExample:  "/Widgets/{widgetName}/export_items",
		},
		{
			ID:          RuleNamingReservedHeaderParameters,
			Name:        "HeaderDisallowed",
			Summary:     "Reserved headers must not be declared as parameters.",
			Description: "Accept, Authorization and Content-Type are managed by the gateway and client runtime and must not be modelled as operation parameters.",
			Link:        link(RuleNamingReservedHeaderParameters),
			Category:    CategoryNaming,
			Severity:    validation.SeverityWarning,
			Given: []string{
				"$.paths.*.*.parameters[?@.in == 'header'].name",
				"$.paths.*.parameters[?@.in == 'header'].name",
				"$.parameters[?@.in == 'header'].name",
				"$.components.parameters[?@.in == 'header'].name",
			},
			Then: []linter.Check{{Function: "notInList", Options: linter.Options{"values": ReservedHeaders, "caseInsensitive": true}}},
		},
	}
}
