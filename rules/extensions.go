package rules

import (
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleExtensionsXMSEnum              = "extensions-xms-enum"
	RuleExtensionsXMSClientName        = "extensions-xms-client-name"
	RuleExtensionsXMSPathsOverload     = "extensions-xms-paths-overload"
	RuleExtensionsLongRunningBoolean   = "extensions-long-running-operation-boolean"
	RuleExtensionsPageableProperties   = "extensions-pageable-properties"
)

func extensionRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:          RuleExtensionsXMSEnum,
			Name:        "XmsEnumValidation",
			Summary:     "String enums must declare x-ms-enum with a name.",
			Description: "Code generators name enum types after x-ms-enum's name. Without it string enums are generated as plain strings.",
			Link:        link(RuleExtensionsXMSEnum),
			Category:    CategoryExtensions,
			Severity:    validation.SeverityWarning,
			Formats:     swagger2,
			Given:       []string{"$..[?@.enum]"},
			Then:        []linter.Check{{Function: "xmsEnumValidation"}},
		},
		{
			ID:          RuleExtensionsXMSClientName,
			Name:        "XmsClientName",
			Summary:     "x-ms-client-name must differ from the name it renames.",
			Description: "Value of `x-ms-client-name` cannot be the same as the name of the property or parameter.",
			Link:        link(RuleExtensionsXMSClientName),
			Category:    CategoryExtensions,
			Severity:    validation.SeverityInfo,
			Given: []string{
				"$.paths.*" + operations + ".parameters[?@['x-ms-client-name']]",
				"$.paths.*.parameters[?@['x-ms-client-name']]",
				"$.parameters[?@['x-ms-client-name']]",
				"$.definitions..properties[?@['x-ms-client-name']]",
			},
			Then: []linter.Check{{Function: "xmsClientName"}},
		},
		{
			ID:          RuleExtensionsXMSPathsOverload,
			Name:        "XmsPathsMustOverloadPaths",
			Summary:     "x-ms-paths entries must overload a path in paths.",
			Description: "Each path in x-ms-paths, with its query string removed, must also be defined in the paths section of the API.",
			Link:        link(RuleExtensionsXMSPathsOverload),
			Category:    CategoryExtensions,
			Severity:    validation.SeverityError,
			Formats:     swagger2,
			MergeState:  linter.MergeStateComposed,
			Given:       []string{"$['x-ms-paths']"},
			Then:        []linter.Check{{Function: "xmsPathsMustOverloadPaths"}},
		},
		{
			ID:          RuleExtensionsLongRunningBoolean,
			Name:        "LongRunningOperationBoolean",
			Summary:     "x-ms-long-running-operation must be a boolean.",
			Description: "x-ms-long-running-operation is a flag. Any value other than true or false is ignored by the generators.",
			Link:        link(RuleExtensionsLongRunningBoolean),
			Category:    CategoryExtensions,
			Severity:    validation.SeverityError,
			Given:       []string{"$.paths.*" + operations + "['x-ms-long-running-operation']"},
			Then:        []linter.Check{{Function: "enumeration", Options: linter.Options{"values": []any{true, false}}}},
		},
		{
			ID:          RuleExtensionsPageableProperties,
			Name:        "PageableProperties",
			Summary:     "x-ms-pageable must only use known properties.",
			Description: "x-ms-pageable supports nextLinkName, itemName and operationName.",
			Link:        link(RuleExtensionsPageableProperties),
			Category:    CategoryExtensions,
			Severity:    validation.SeverityWarning,
			Message:     "Unknown x-ms-pageable property '{{property}}': {{error}}",
			Given:       []string{"$.paths.*" + operations + "['x-ms-pageable'].*~"},
			Then: []linter.Check{{
				Function: "enumeration",
				Options:  linter.Options{"values": []any{"nextLinkName", "itemName", "operationName"}},
			}},
		},
	}
}
