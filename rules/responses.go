package rules

import (
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/validation"
)

const (
	RuleResponsesPutDescription            = "responses-put-description"
	RuleResponsesConsistentPutGet          = "responses-consistent-put-get"
	RuleResponsesLongRunningStatusCode     = "responses-long-running-status-code"
	RuleResponsesCollectionValueAndNext    = "responses-collection-value-and-next-link"
	RuleResponsesNextLinkPropertyMustExist = "responses-next-link-property-must-exist"
	RuleResponsesDefaultErrorResponse      = "responses-default-error-response"
	RuleResponsesDescription               = "responses-description"
)

const operations = "['get','put','patch','post','delete','head','options']"

func responseRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:            RuleResponsesPutDescription,
			Name:          "PutResponseSchemaDescription",
			Summary:       "PUT response descriptions must say whether the resource was replaced or created.",
			Description:   "The 200 response of a PUT operation must mention that the resource was replaced and the 201 response that it was created.",
			Link:          link(RuleResponsesPutDescription),
			Category:      CategoryResponses,
			Severity:      validation.SeverityWarning,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeARM},
			Given:         []string{"$.paths.*.put.responses"},
			Then:          []linter.Check{{Function: "putResponseSchemaDescription"}},
			GoodExample: `responses:
  "200":
    description: Replaced the existing widget.
  "201":
    description: Created a new widget.`,
		},
		{
			ID:            RuleResponsesConsistentPutGet,
			Name:          "ConsistentPutGetResponse",
			Summary:       "PUT and GET must return the same resource schema.",
			Description:   "The 200 and 201 responses of a PUT operation must reference the same schema as the 200 response of the GET operation on the same path.",
			Link:          link(RuleResponsesConsistentPutGet),
			Category:      CategoryResponses,
			Severity:      validation.SeverityError,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeARM},
			Given:         []string{"$.paths.*"},
			Then:          []linter.Check{{Function: "consistentPutGetResponse"}},
			Rationale:     "Clients that create or replace a resource expect the same model back that a read returns.",
		},
		{
			ID:          RuleResponsesLongRunningStatusCode,
			Name:        "LongRunningResponseStatusCode",
			Summary:     "Long running operations must return a valid terminal success status code.",
			Description: "Operations marked with x-ms-long-running-operation may only return the success codes the polling protocol defines for their method.",
			Link:        link(RuleResponsesLongRunningStatusCode),
			Category:    CategoryResponses,
			Severity:    validation.SeverityError,
			Given:       []string{"$.paths.*[?@['x-ms-long-running-operation'] == true]"},
			Then:        []linter.Check{{Function: "longRunningResponseStatusCode"}},
		},
		{
			ID:            RuleResponsesCollectionValueAndNext,
			Name:          "GetCollectionOnlyHasValueAndNextLink",
			Summary:       "Collection responses must only have value and nextLink properties.",
			Description:   "Get endpoints for collections of resources must only have the `value` and `nextLink` properties in their model.",
			Link:          link(RuleResponsesCollectionValueAndNext),
			Category:      CategoryResponses,
			Severity:      validation.SeverityError,
			Formats:       swagger2,
			DocumentTypes: []linter.DocumentType{linter.DocumentTypeARM},
			Resolved:      true,
			Given:         []string{"$.paths.*[?@['x-ms-pageable']]"},
			Then:          []linter.Check{{Field: "responses.200.schema.properties", Function: "getCollectionOnlyHasValueAndNextLink"}},
		},
		{
			ID:          RuleResponsesNextLinkPropertyMustExist,
			Name:        "NextLinkPropertyMustExist",
			Summary:     "The nextLinkName of x-ms-pageable must be a property of the response.",
			Description: "The property named by x-ms-pageable's nextLinkName must be defined on the 200 response schema so clients can follow pages.",
			Link:        link(RuleResponsesNextLinkPropertyMustExist),
			Category:    CategoryResponses,
			Severity:    validation.SeverityError,
			Resolved:    true,
			Given:       []string{"$.paths.*[?@['x-ms-pageable']]"},
			Then:        []linter.Check{{Function: "nextLinkPropertyMustExist"}},
		},
		{
			ID:          RuleResponsesDefaultErrorResponse,
			Name:        "DefaultErrorResponseSchema",
			Summary:     "Operations must define a default error response.",
			Description: "Every operation must define a default response describing the error payload.",
			Message:     "{{description}}",
			Link:        link(RuleResponsesDefaultErrorResponse),
			Category:    CategoryResponses,
			Severity:    validation.SeverityWarning,
			Given:       []string{"$.paths.*" + operations + ".responses"},
			Then:        []linter.Check{{Field: "default", Function: "defined"}},
		},
		{
			ID:          RuleResponsesDescription,
			Name:        "ResponseDescription",
			Summary:     "Responses must have a description.",
			Description: "Each response must describe what the status code means for the operation.",
			Link:        link(RuleResponsesDescription),
			Category:    CategoryResponses,
			Severity:    validation.SeverityWarning,
			Resolved:    true,
			Given:       []string{"$.paths.*" + operations + ".responses.*"},
			Then:        []linter.Check{{Function: "descriptiveText"}},
		},
	}
}
