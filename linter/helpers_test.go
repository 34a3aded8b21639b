package linter_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/linter"
	"github.com/stretchr/testify/require"
)

const petstore = `swagger: "2.0"
info:
  title: Pets
  version: "1.0"
paths:
  /pets:
    get:
      operationId: Pets_List
      description: lists pets
      responses:
        "200":
          description: ok
    put:
      operationId: pets
      responses:
        "200":
          description: ok
definitions:
  Pet:
    type: object
    properties:
      Name:
        type: string
`

type minOptions struct {
	Min int `mapstructure:"min"`
}

// testCatalogue holds a few predicates shaped like the real ones.
func testCatalogue(t *testing.T) *linter.Catalogue {
	t.Helper()

	catalogue, err := linter.NewCatalogue(
		linter.Function{
			Name: "truthy",
			Run: func(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
				if node == nil || node == false || node == "" {
					return []linter.Finding{mctx.Finding(fmt.Sprintf("%s must be truthy", mctx.Path.Last()))}
				}
				return nil
			},
		},
		linter.Function{
			Name: "minLength",
			Run: func(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
				var o minOptions
				if err := opts.Decode(&o); err != nil {
					return nil
				}
				if s, ok := node.(string); ok && len(s) < o.Min {
					return []linter.Finding{{Message: fmt.Sprintf("must be at least %d characters", o.Min)}}
				}
				return nil
			},
			Schema: `{"type":"object","properties":{"min":{"type":"integer","minimum":0}},"required":["min"],"additionalProperties":false}`,
		},
		linter.Function{
			Name: "silent",
			Run: func(node any, _ linter.Options, _ *linter.MatchContext) []linter.Finding {
				if s, ok := node.(string); ok && strings.ToLower(s) == s {
					return []linter.Finding{{}}
				}
				return nil
			},
		},
		linter.Function{
			Name: "explode",
			Run: func(any, linter.Options, *linter.MatchContext) []linter.Finding {
				panic("boom")
			},
		},
	)
	require.NoError(t, err)
	return catalogue
}

func testRules() []*linter.Rule {
	return []*linter.Rule{
		{
			ID:          "docs-operation-description",
			Category:    "docs",
			Description: "Operations should have a description.",
			Severity:    "warning",
			Given:       []string{"$.paths[*]['get','put']"},
			Then:        []linter.Check{{Field: "description", Function: "truthy"}},
		},
		{
			ID:          "naming-operation-id-length",
			Category:    "naming",
			Description: "Operation IDs should not be too short.",
			Message:     "{{property}} {{value}}: {{error}}",
			Severity:    "error",
			Given:       []string{"$.paths[*][*].operationId"},
			Then:        []linter.Check{{Function: "minLength", Options: linter.Options{"min": 5}}},
		},
		{
			ID:          "naming-lowercase-operation-id",
			Category:    "naming",
			Description: "Operation IDs should not be all lower case.",
			Severity:    "hint",
			Formats:     []string{"oas2"},
			Given:       []string{"$.paths[*][*].operationId"},
			Then:        []linter.Check{{Function: "silent"}},
		},
	}
}

func testRegistry(t *testing.T) *linter.Registry {
	t.Helper()

	registry, err := linter.NewRegistry(testCatalogue(t), testRules(), linter.Ruleset{
		Name:    "recommended",
		RuleIDs: []string{"docs-operation-description"},
	})
	require.NoError(t, err)
	return registry
}

func parse(t *testing.T, content, location string) *document.Document {
	t.Helper()

	doc, err := document.Parse(t.Context(), []byte(content), location)
	require.NoError(t, err)
	return doc
}
