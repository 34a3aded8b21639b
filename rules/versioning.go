package rules

import (
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleVersioningAPIVersionFormat    = "versioning-api-version-format"
	RuleVersioningNoVersionInPath     = "versioning-no-version-in-path"
	RuleVersioningAPIVersionParameter = "versioning-api-version-parameter"
)

func versioningRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:          RuleVersioningAPIVersionFormat,
			Name:        "ApiVersionFormat",
			Summary:     "API versions must be dates.",
			Description: "info.version must be a date in the form YYYY-MM-DD, optionally followed by -preview.",
			Message:     "API version '{{value}}' must be a date in the form YYYY-MM-DD with an optional -preview suffix.",
			Link:        link(RuleVersioningAPIVersionFormat),
			Category:    CategoryVersioning,
			Severity:    validation.SeverityError,
			Given:       []string{"$.info.version"},
			Then:        []linter.Check{{Function: "pattern", Options: linter.Options{"match": `^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])(-preview)?$`}}},
			GoodExample: `version: "2024-05-01-preview"`,
			BadExample:  `version: "v1"`,
		},
		{
			ID:          RuleVersioningNoVersionInPath,
			Name:        "ApiVersionNotInPath",
			Summary:     "Paths must not contain a version segment.",
			Description: "The API version is selected with the api-version query parameter, not with a path segment.",
			Link:        link(RuleVersioningNoVersionInPath),
			Category:    CategoryVersioning,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.paths.*~"},
			Then:        []linter.Check{{Function: "pattern", Options: linter.Options{"notMatch": `/v\d+(\.\d+)?(/|$)`}}},
		},
		{
			ID:          RuleVersioningAPIVersionParameter,
			Name:        "ApiVersionParameterName",
			Summary:     "The version query parameter must be named api-version.",
			Description: "Query parameters that carry the API version must be named api-version.",
			Message:     "Query parameter '{{value}}' looks like a version and must be named api-version.",
			Link:        link(RuleVersioningAPIVersionParameter),
			Category:    CategoryVersioning,
			Severity:    validation.SeverityError,
			Given: []string{
				"$.parameters[?@.in == 'query'].name",
				"$.paths.*" + operations + ".parameters[?@.in == 'query'].name",
			},
			Then: []linter.Check{{
				Function: "notInList",
				Options:  linter.Options{"values": []any{"apiVersion", "api_version", "version", "apiversion"}, "caseInsensitive": true},
			}},
		},
	}
}
