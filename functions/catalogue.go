// Package functions holds the rule predicates: Spectral-style general purpose functions and the
// Azure API Management style checks. Every predicate is pure and safe for concurrent use, and
// returns no findings for nodes whose shape it does not check.
package functions

import (
	"sync"

	"github.com/apimlint/apimlint/linter"
)

const noOptionsSchema = `{"type": "object", "maxProperties": 0}`

// All returns every predicate with its option schema.
func All() []linter.Function {
	return []linter.Function{
		{Name: "truthy", Run: Truthy, Schema: noOptionsSchema},
		{Name: "falsy", Run: Falsy, Schema: noOptionsSchema},
		{Name: "defined", Run: Defined, Schema: noOptionsSchema},
		{Name: "undefined", Run: Undefined, Schema: noOptionsSchema},
		{Name: "pattern", Run: Pattern, Schema: patternSchema, Validate: validatePatternOptions},
		{Name: "enumeration", Run: Enumeration, Schema: enumerationSchema},
		{Name: "length", Run: Length, Schema: lengthSchema},
		{Name: "casing", Run: Casing, Schema: casingSchema},
		{Name: "xor", Run: Xor, Schema: xorSchema},
		{Name: "mutuallyExclusive", Run: MutuallyExclusive, Schema: xorSchema},
		{Name: "requiredProperties", Run: RequiredProperties, Schema: propertiesSchema},
		{Name: "descriptiveText", Run: DescriptiveText, Schema: descriptiveTextSchema},
		{Name: "notInList", Run: NotInList, Schema: notInListSchema},
		{Name: "namingConvention", Run: NamingConvention, Schema: namingConventionSchema, Validate: validateNamingConventionOptions},

		{Name: "getInOperationName", Run: GetInOperationName, Schema: noOptionsSchema},
		{Name: "putInOperationName", Run: PutInOperationName, Schema: noOptionsSchema},
		{Name: "patchInOperationName", Run: PatchInOperationName, Schema: noOptionsSchema},
		{Name: "deleteInOperationName", Run: DeleteInOperationName, Schema: noOptionsSchema},
		{Name: "operationIdSingleUnderscore", Run: OperationIDSingleUnderscore, Schema: noOptionsSchema},
		{Name: "operationIdNounVerb", Run: OperationIDNounVerb, Schema: noOptionsSchema},
		{Name: "provisioningState", Run: ProvisioningState, Schema: noOptionsSchema},
		{Name: "getCollectionOnlyHasValueAndNextLink", Run: GetCollectionOnlyHasValueAndNextLink, Schema: noOptionsSchema},
		{Name: "putResponseSchemaDescription", Run: PutResponseSchemaDescription, Schema: noOptionsSchema},
		{Name: "consistentPutGetResponse", Run: ConsistentPutGetResponse, Schema: noOptionsSchema},
		{Name: "longRunningResponseStatusCode", Run: LongRunningResponseStatusCode, Schema: noOptionsSchema},
		{Name: "defaultInEnum", Run: DefaultInEnum, Schema: noOptionsSchema},
		{Name: "xmsEnumValidation", Run: XMSEnumValidation, Schema: noOptionsSchema},
		{Name: "xmsClientName", Run: XMSClientName, Schema: noOptionsSchema},
		{Name: "xmsPathsMustOverloadPaths", Run: XMSPathsMustOverloadPaths, Schema: noOptionsSchema},
		{Name: "summaryAndDescriptionMustNotBeSame", Run: SummaryAndDescriptionMustNotBeSame, Schema: noOptionsSchema},
		{Name: "nextLinkPropertyMustExist", Run: NextLinkPropertyMustExist, Schema: noOptionsSchema},
		{Name: "camelCaseProperties", Run: CamelCaseProperties, Schema: camelCaseSchema},
		{Name: "validFormats", Run: ValidFormats, Schema: validFormatsSchema},
	}
}

// Catalogue returns the shared catalogue of every predicate. It is built on first use.
var Catalogue = sync.OnceValues(func() (*linter.Catalogue, error) {
	return linter.NewCatalogue(All()...)
})
