package linter_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apimlint/apimlint/linter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocGenerator_GenerateRuleDoc(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	generator := linter.NewDocGenerator(registry)

	rule, ok := registry.GetRule("naming-operation-id-length")
	require.True(t, ok)
	doc := generator.GenerateRuleDoc(rule)

	assert.Equal(t, "naming-operation-id-length", doc.ID)
	assert.Equal(t, "naming", doc.Category)
	assert.Equal(t, "error", doc.DefaultSeverity)
	assert.Equal(t, "individual", doc.MergeState)
	assert.Equal(t, []string{"$.paths[*][*].operationId"}, doc.Given)
	require.Len(t, doc.Checks, 1)
	assert.Equal(t, "minLength", doc.Checks[0].Function)
	assert.Equal(t, linter.Options{"min": 5}, doc.Checks[0].Options)
	assert.Equal(t, []string{"all"}, doc.Rulesets)
}

func TestDocGenerator_WriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, linter.NewDocGenerator(testRegistry(t)).WriteJSON(&buf))

	var result struct {
		Rules      []linter.RuleDoc `json:"rules"`
		Categories []string         `json:"categories"`
		Rulesets   []string         `json:"rulesets"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Len(t, result.Rules, 3)
	assert.Equal(t, []string{"docs", "naming"}, result.Categories)
	assert.Equal(t, []string{"all", "recommended"}, result.Rulesets)
}

func TestDocGenerator_WriteMarkdown(t *testing.T) {
	t.Parallel()

	registry, err := testRegistry(t).With([]*linter.Rule{{
		ID:          "docs-documented",
		Name:        "Documented",
		Category:    "docs",
		Description: "A rule with examples.",
		Rationale:   "Examples help.",
		GoodExample: "info:\n  description: yes",
		BadExample:  "info: {}",
		Link:        "https://example.com/rules/docs-documented",
		Given:       []string{"$.info"},
		Then:        []linter.Check{{Field: "description", Function: "truthy"}},
	}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, linter.NewDocGenerator(registry).WriteMarkdown(&buf))
	md := buf.String()

	assert.True(t, strings.HasPrefix(md, "# APIM Lint Rules Reference"))
	assert.Less(t, strings.Index(md, "## docs"), strings.Index(md, "## naming"), "categories should be sorted")
	assert.Contains(t, md, "### docs-documented")
	assert.Contains(t, md, "**Name:** Documented")
	assert.Contains(t, md, "#### Rationale\n\nExamples help.")
	assert.Contains(t, md, "#### ❌ Incorrect\n```yaml\ninfo: {}\n```")
	assert.Contains(t, md, "#### ✅ Correct")
	assert.Contains(t, md, "| `$.info` | description | truthy |  |")
	assert.Contains(t, md, "| `$.paths[*][*].operationId` |  | minLength | `{\"min\":5}` |")
	assert.Contains(t, md, "[Documentation →](https://example.com/rules/docs-documented)")
	assert.Contains(t, md, "**Applies to:** oas2")
}
