package format_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/apimlint/apimlint/linter/format"
	"github.com/apimlint/apimlint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func finding(severity validation.Severity, rule, msg string, line, column int, path ...string) *validation.Error {
	return &validation.Error{
		UnderlyingError: errors.New(msg),
		Node:            &yaml.Node{Line: line, Column: column},
		Severity:        severity,
		Rule:            rule,
		Path:            path,
	}
}

var sampleResults = []error{
	finding(validation.SeverityError, "naming-get-in-operation-name",
		"'GET' operation 'Widgets_Fetch' should use method name 'Get' or method name start with 'List'",
		7, 20, "paths", "/widgets", "get", "operationId"),
	finding(validation.SeverityWarning, "schemas-valid-formats", "Invalid format 'int'.", 31, 17, "definitions", "Widget", "properties", "size", "format"),
	finding(validation.SeverityInfo, "documentation-info-description", "\"info\" must have a non-empty \"description\"", 2, 1, "info"),
	finding(validation.SeverityHint, "documentation-definition-description", "\"Widget\" must have a non-empty \"description\"", 25, 3, "definitions", "Widget"),
}

func TestTextFormatter_Format(t *testing.T) {
	t.Parallel()

	t.Run("no results", func(t *testing.T) {
		t.Parallel()
		result, err := format.NewTextFormatter().Format(nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("one line per finding and totals", func(t *testing.T) {
		t.Parallel()
		result, err := format.NewTextFormatter().Format(sampleResults)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(result), "\n")
		require.Len(t, lines, len(sampleResults)+2)
		assert.Contains(t, lines[0], "naming-get-in-operation-name")
		assert.Contains(t, lines[0], "'Widgets_Fetch'")
		assert.Contains(t, lines[1], "31:17")
		assert.Empty(t, lines[4])
		assert.Equal(t, "✖ 4 problems (1 errors, 1 warnings, 1 infos, 1 hints)", lines[5])
	})
}

func TestTextFormatter_ColumnAlignment(t *testing.T) {
	t.Parallel()

	result, err := format.NewTextFormatter().Format([]error{
		finding(validation.SeverityWarning, "schemas-array-items", "first", 3, 5),
		finding(validation.SeverityError, "responses-put-description", "second", 1450, 12),
	})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	assert.Equal(t, "    3:5 warning schemas-array-items       first", lines[0])
	assert.Equal(t, "1450:12 error   responses-put-description second", lines[1])
}

func TestTextFormatter_InternalAndComposedResults(t *testing.T) {
	t.Parallel()

	composed := finding(validation.SeverityError, "extensions-xms-paths-overload", "Path '/gadgets?op=import' in x-ms-paths must overload a path in the paths section.", 12, 5)
	composed.DocumentLocation = "specs/gadgets.yaml"

	result, err := format.NewTextFormatter().Format([]error{
		errors.New("rule evaluation failed: schemas-default-in-enum"),
		composed,
	})
	require.NoError(t, err)
	assert.Contains(t, result, "- error internal")
	assert.Contains(t, result, "rule evaluation failed: schemas-default-in-enum")
	assert.Contains(t, result, "(document: specs/gadgets.yaml)")
	assert.Contains(t, result, "2 problems (2 errors,")
}

func TestTextFormatter_LargeCountsAreGrouped(t *testing.T) {
	t.Parallel()

	results := make([]error, 0, 2500)
	for range 2500 {
		results = append(results, finding(validation.SeverityWarning, "naming-camel-case-properties", "x", 1, 1))
	}

	result, err := format.NewTextFormatter().Format(results)
	require.NoError(t, err)
	assert.Contains(t, result, "2,500 problems")
}

type jsonOutput struct {
	Results []struct {
		Rule     string `json:"rule"`
		Category string `json:"category"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Location struct {
			Line    int    `json:"line"`
			Column  int    `json:"column"`
			Pointer string `json:"pointer"`
		} `json:"location"`
		Document string `json:"document"`
	} `json:"results"`
	Summary struct {
		Total    int `json:"total"`
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
		Infos    int `json:"infos"`
		Hints    int `json:"hints"`
	} `json:"summary"`
}

func decodeJSON(t *testing.T, results []error) jsonOutput {
	t.Helper()
	s, err := format.NewJSONFormatter().Format(results)
	require.NoError(t, err)

	var out jsonOutput
	require.NoError(t, json.Unmarshal([]byte(s), &out), "output should be valid JSON")
	return out
}

func TestJSONFormatter_Format(t *testing.T) {
	t.Parallel()

	out := decodeJSON(t, sampleResults)
	require.Len(t, out.Results, 4)

	first := out.Results[0]
	assert.Equal(t, "naming-get-in-operation-name", first.Rule)
	assert.Equal(t, "naming", first.Category)
	assert.Equal(t, "error", first.Severity)
	assert.Equal(t, 7, first.Location.Line)
	assert.Equal(t, 20, first.Location.Column)
	assert.Equal(t, "/paths/~1widgets/get/operationId", first.Location.Pointer)
	assert.Empty(t, first.Document)

	assert.Equal(t, "schemas", out.Results[1].Category)
	assert.Equal(t, 4, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Errors)
	assert.Equal(t, 1, out.Summary.Warnings)
	assert.Equal(t, 1, out.Summary.Infos)
	assert.Equal(t, 1, out.Summary.Hints)
}

func TestJSONFormatter_EmptyResults(t *testing.T) {
	t.Parallel()

	s, err := format.NewJSONFormatter().Format(nil)
	require.NoError(t, err)
	assert.Contains(t, s, `"results": []`)
	assert.Equal(t, 0, decodeJSON(t, nil).Summary.Total)
}

func TestJSONFormatter_InternalError(t *testing.T) {
	t.Parallel()

	out := decodeJSON(t, []error{errors.New("rule evaluation failed: panic in custom rule")})
	require.Len(t, out.Results, 1)
	assert.Equal(t, "internal", out.Results[0].Rule)
	assert.Equal(t, "internal", out.Results[0].Category)
	assert.Equal(t, "error", out.Results[0].Severity)
	assert.Equal(t, "rule evaluation failed: panic in custom rule", out.Results[0].Message)
	assert.Equal(t, 1, out.Summary.Errors)
}

func TestSummaryFormatter_Format(t *testing.T) {
	t.Parallel()

	result, err := format.NewSummaryFormatter().Format([]error{
		finding(validation.SeverityWarning, "naming-camel-case-properties", "a", 1, 1),
		finding(validation.SeverityWarning, "naming-camel-case-properties", "b", 2, 1),
		finding(validation.SeverityError, "schemas-default-in-enum", "c", 3, 1),
		errors.New("boom"),
	})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	assert.True(t, strings.HasPrefix(lines[0], "Rule"))
	assert.True(t, strings.HasPrefix(lines[2], "naming-camel-case-properties"), "highest count comes first")
	assert.True(t, strings.HasPrefix(lines[3], "internal"), "ties sort by rule ID")
	assert.True(t, strings.HasPrefix(lines[4], "schemas-default-in-enum"))
	assert.Contains(t, lines[4], "schemas")
	assert.Contains(t, result, "4 problems (2 errors, 2 warnings, 0 infos, 0 hints) across 3 rules")
}
