package rules

// Rule categories for APIM linting

const (
	// CategoryNaming covers operation IDs, paths, parameters and property names.
	CategoryNaming = "naming"

	// CategoryResponses covers status codes, response descriptions and response schemas.
	CategoryResponses = "responses"

	// CategorySchemas covers the shape of definitions and their constraints.
	CategorySchemas = "schemas"

	// CategoryExtensions covers the use of the x-ms-* vendor extensions.
	CategoryExtensions = "extensions"

	// CategoryDocumentation covers descriptions and summaries.
	CategoryDocumentation = "documentation"

	// CategoryVersioning covers API version identifiers.
	CategoryVersioning = "versioning"
)

// Format filters shared by rule descriptors.
var (
	swagger2 = []string{"oas2"}
	openapi3 = []string{"oas3"}
)

func link(id string) string {
	return "https://github.com/apimlint/apimlint/blob/main/rules/README.md#" + id
}
