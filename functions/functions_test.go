package functions_test

import (
	"testing"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/functions"
	"github.com/apimlint/apimlint/linter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchAt(segments ...string) *linter.MatchContext {
	return &linter.MatchContext{Path: document.Path(segments), RuleID: "test-rule"}
}

func messages(findings []linter.Finding) []string {
	msgs := make([]string, 0, len(findings))
	for _, f := range findings {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// sampleOptions are valid options for the functions that require them.
var sampleOptions = map[string]linter.Options{
	"pattern":            {"match": "^a"},
	"enumeration":        {"values": []any{"a", "b"}},
	"length":             {"min": 1, "max": 3},
	"casing":             {"type": "camel"},
	"xor":                {"properties": []any{"a", "b"}},
	"mutuallyExclusive":  {"properties": []any{"a", "b"}},
	"requiredProperties": {"properties": []any{"a"}},
	"notInList":          {"values": []any{"reserved"}},
	"namingConvention":   {"match": "^[a-z]+$"},
}

// inapplicable lists, per function, inputs of a shape the function does not check. Presence
// checks (truthy, defined) report absent nodes, and falsy and undefined report any present node,
// so they have none.
var inapplicable = map[string][]any{
	"pattern":                              {nil, int64(3), true, map[string]any{}, []any{"a"}},
	"enumeration":                          {nil, map[string]any{"a": "b"}, []any{"c"}},
	"length":                               {nil, true},
	"casing":                               {nil, int64(3), true, map[string]any{}},
	"xor":                                  {nil, "a", int64(3), true, []any{"a"}},
	"mutuallyExclusive":                    {nil, "a", int64(3), true},
	"requiredProperties":                   {nil, "a", int64(3), true},
	"descriptiveText":                      {nil, "a", int64(3), true},
	"notInList":                            {nil, int64(3), map[string]any{}},
	"namingConvention":                     {nil, int64(3), true},
	"getInOperationName":                   {nil, int64(3), true, map[string]any{}},
	"putInOperationName":                   {nil, int64(3), true, map[string]any{}},
	"patchInOperationName":                 {nil, int64(3), true, map[string]any{}},
	"deleteInOperationName":                {nil, int64(3), true, map[string]any{}},
	"operationIdSingleUnderscore":          {nil, int64(3), true, map[string]any{}},
	"operationIdNounVerb":                  {nil, int64(3), true, map[string]any{}},
	"provisioningState":                    {nil, "Succeeded", int64(3), true, []any{"Succeeded"}},
	"getCollectionOnlyHasValueAndNextLink": {nil, "value", int64(3), true, []any{"value"}},
	"putResponseSchemaDescription":         {nil, "ok", int64(3), true},
	"consistentPutGetResponse":             {nil, "ok", int64(3), true},
	"longRunningResponseStatusCode":        {nil, "ok", int64(3), true},
	"defaultInEnum":                        {nil, "ok", int64(3), true},
	"xmsEnumValidation":                    {nil, "ok", int64(3), true},
	"xmsClientName":                        {nil, "ok", int64(3), true},
	"xmsPathsMustOverloadPaths":            {nil, "ok", int64(3), true},
	"summaryAndDescriptionMustNotBeSame":   {nil, "ok", int64(3), true},
	"nextLinkPropertyMustExist":            {nil, "ok", int64(3), true},
	"camelCaseProperties":                  {nil, "ok", int64(3), true},
	"validFormats":                         {nil, int64(3), true, map[string]any{}},
}

func TestFunctions_InapplicableInputsReportNothing(t *testing.T) {
	t.Parallel()

	for _, fn := range functions.All() {
		inputs, ok := inapplicable[fn.Name]
		if !ok {
			continue
		}
		t.Run(fn.Name, func(t *testing.T) {
			t.Parallel()
			for _, input := range inputs {
				assert.Empty(t, fn.Run(input, sampleOptions[fn.Name], matchAt("paths", "/users", "get")), "input %#v", input)
				assert.Empty(t, fn.Run(input, sampleOptions[fn.Name], nil), "input %#v without context", input)
			}
		})
	}
}

func TestFunctions_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []any{
		nil,
		"Users_Get_All",
		int64(0),
		map[string]any{
			"summary":     "same",
			"description": "same",
			"enum":        []any{"Creating"},
			"default":     "x",
			"properties":  map[string]any{"Bad_Name": map[string]any{}, "value": map[string]any{}},
		},
	}

	for _, fn := range functions.All() {
		t.Run(fn.Name, func(t *testing.T) {
			t.Parallel()
			for _, input := range inputs {
				mctx := matchAt("definitions", "Widget")
				first := fn.Run(input, sampleOptions[fn.Name], mctx)
				second := fn.Run(input, sampleOptions[fn.Name], mctx)
				assert.Equal(t, first, second, "input %#v", input)
			}
		})
	}
}

func TestCatalogue_Success(t *testing.T) {
	t.Parallel()

	catalogue, err := functions.Catalogue()
	require.NoError(t, err)
	assert.Len(t, catalogue.Names(), len(functions.All()))

	for name, opts := range sampleOptions {
		assert.NoError(t, catalogue.ValidateOptions(name, opts), name)
	}
	assert.NoError(t, catalogue.ValidateOptions("truthy", nil))
	assert.NoError(t, catalogue.ValidateOptions("validFormats", nil))
	assert.NoError(t, catalogue.ValidateOptions("descriptiveText", linter.Options{"properties": []string{"summary", "description"}}))
}

func TestCatalogue_InvalidPatternMessage(t *testing.T) {
	t.Parallel()

	catalogue, err := functions.Catalogue()
	require.NoError(t, err)

	err = catalogue.ValidateOptions("pattern", linter.Options{"match": "[a-"})
	require.ErrorIs(t, err, linter.ErrInvalidOptions)
	assert.Contains(t, err.Error(), `match: invalid regular expression "[a-"`)

	require.NoError(t, catalogue.ValidateOptions("pattern", linter.Options{"match": "/^widgets$/i"}))
	require.NoError(t, catalogue.ValidateOptions("namingConvention", linter.Options{"match": "^[a-z]+$", "delimiter": "."}))
}

func TestCatalogue_InvalidOptions(t *testing.T) {
	t.Parallel()

	catalogue, err := functions.Catalogue()
	require.NoError(t, err)

	tests := []struct {
		name     string
		function string
		opts     linter.Options
	}{
		{name: "options on an option-less function", function: "truthy", opts: linter.Options{"x": 1}},
		{name: "pattern without match", function: "pattern", opts: linter.Options{}},
		{name: "enumeration without values", function: "enumeration", opts: nil},
		{name: "negative length", function: "length", opts: linter.Options{"min": -1}},
		{name: "unknown casing", function: "casing", opts: linter.Options{"type": "sponge"}},
		{name: "xor with one property", function: "xor", opts: linter.Options{"properties": []any{"a"}}},
		{name: "empty format list", function: "validFormats", opts: linter.Options{"formats": []any{}}},
		{name: "camel case exceptions not strings", function: "camelCaseProperties", opts: linter.Options{"exceptions": []any{1}}},
		{name: "pattern match does not compile", function: "pattern", opts: linter.Options{"match": "[a-"}},
		{name: "pattern notMatch does not compile", function: "pattern", opts: linter.Options{"match": "^a", "notMatch": "/(/i"}},
		{name: "naming convention match does not compile", function: "namingConvention", opts: linter.Options{"match": "(("}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := catalogue.ValidateOptions(tt.function, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, linter.ErrInvalidOptions)
		})
	}
}
