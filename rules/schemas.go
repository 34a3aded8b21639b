package rules

import (
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleSchemasProvisioningState    = "schemas-provisioning-state"
	RuleSchemasDefaultInEnum        = "schemas-default-in-enum"
	RuleSchemasValidFormats         = "schemas-valid-formats"
	RuleSchemasArrayItems           = "schemas-array-items"
	RuleSchemasParameterSchema      = "schemas-parameter-schema-or-content"
	RuleSchemasAdditionalProperties = "schemas-no-additional-properties-with-properties"
	RuleSchemasReservedPropertyName = "schemas-reserved-property-names"
)

func schemaRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:            RuleSchemasProvisioningState,
			Name:          "ProvisioningStateValidation",
			Summary:       "provisioningState must enumerate the terminal states.",
			Description:   "The provisioningState property of a resource must be an enum that includes Succeeded, Failed and Canceled.",
			Link:          link(RuleSchemasProvisioningState),
			Category:      CategorySchemas,
			Severity:      validation.SeverityError,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeARM},
			Resolved:      true,
			Given: []string{
				"$.definitions..properties.provisioningState",
				"$.components.schemas..properties.provisioningState",
			},
			Then: []linter.Check{{Function: "provisioningState"}},
			GoodExample: `provisioningState:
  type: string
  enum: [Succeeded, Failed, Canceled, Provisioning]`,
		},
		{
			ID:          RuleSchemasDefaultInEnum,
			Name:        "DefaultMustBeInEnum",
			Summary:     "Default values must be one of the enum values.",
			Description: "A schema that declares both enum and default must use one of the enum values as its default.",
			Link:        link(RuleSchemasDefaultInEnum),
			Category:    CategorySchemas,
			Severity:    validation.SeverityError,
			Given:       []string{"$..[?@.enum && @.default]"},
			Then:        []linter.Check{{Function: "defaultInEnum"}},
		},
		{
			ID:          RuleSchemasValidFormats,
			Name:        "ValidFormats",
			Summary:     "Formats must be understood by the code generators.",
			Description: "Only format values that the client generators understand may be used.",
			Link:        link(RuleSchemasValidFormats),
			Category:    CategorySchemas,
			Severity:    validation.SeverityError,
			Given:       []string{"$..[?@.type && @.format]"},
			Then:        []linter.Check{{Field: "format", Function: "validFormats"}},
		},
		{
			ID:          RuleSchemasArrayItems,
			Name:        "ArrayMustHaveItems",
			Summary:     "Array schemas must define items.",
			Description: "Schemas of type array must define the type of their items.",
			Link:        link(RuleSchemasArrayItems),
			Category:    CategorySchemas,
			Severity:    validation.SeverityError,
			Given:       []string{"$..[?@.type == 'array']"},
			Then:        []linter.Check{{Field: "items", Function: "defined"}},
		},
		{
			ID:          RuleSchemasParameterSchema,
			Name:        "ParameterSchemaOrContent",
			Summary:     "Parameters must define exactly one of schema or content.",
			Description: "An OpenAPI 3 parameter describes its value either with a schema or with a content map, never both and never neither.",
			Link:        link(RuleSchemasParameterSchema),
			Category:    CategorySchemas,
			Severity:    validation.SeverityError,
			Formats:     openapi3,
			Resolved:    true,
			Given: []string{
				"$.paths.*" + operations + ".parameters.*",
				"$.paths.*.parameters.*",
				"$.components.parameters.*",
			},
			Then: []linter.Check{{Function: "xor", Options: linter.Options{"properties": []any{"schema", "content"}}}},
		},
		{
			ID:          RuleSchemasAdditionalProperties,
			Name:        "AdditionalPropertiesAndProperties",
			Summary:     "Schemas must not combine properties with additionalProperties.",
			Description: "A model may either declare its properties or be a dictionary through additionalProperties. Mixing the two generates unusable types.",
			Link:        link(RuleSchemasAdditionalProperties),
			Category:    CategorySchemas,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.definitions.*", "$.components.schemas.*"},
			Then:        []linter.Check{{Function: "mutuallyExclusive", Options: linter.Options{"properties": []any{"properties", "additionalProperties"}}}},
		},
		{
			ID:            RuleSchemasReservedPropertyName,
			Name:          "ReservedPropertyNames",
			Summary:       "Resource models must not redefine envelope properties.",
			Description:   "The id, name and type properties of a resource are defined by the resource envelope and must not be declared inside its properties bag.",
			Message:       "Property '{{property}}' is part of the resource envelope and must not be declared in properties.",
			Link:          link(RuleSchemasReservedPropertyName),
			Category:      CategorySchemas,
			Severity:      validation.SeverityWarning,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeARM},
			Given:         []string{"$.definitions.*.properties.properties.properties.*~"},
			Then:          []linter.Check{{Function: "notInList", Options: linter.Options{"values": []any{"id", "name", "type"}}}},
		},
	}
}
