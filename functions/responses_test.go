package functions_test

import (
	"testing"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/functions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutResponseSchemaDescription(t *testing.T) {
	t.Parallel()

	mctx := matchAt("paths", "/widgets/{name}", "put", "responses")
	good := map[string]any{
		"200": map[string]any{"description": "Resource replaced."},
		"201": map[string]any{"description": "Resource Created."},
	}
	assert.Empty(t, functions.PutResponseSchemaDescription(good, nil, mctx))

	bad := map[string]any{
		"200": map[string]any{"description": "OK"},
		"201": map[string]any{},
	}
	findings := functions.PutResponseSchemaDescription(bad, nil, mctx)
	require.Len(t, findings, 2)
	assert.Equal(t, mctx.Path.Child("200"), findings[0].Path)
	assert.Equal(t, "Description of 200 response code of a PUT operation MUST include the word 'replace'.", findings[0].Message)
	assert.Equal(t, mctx.Path.Child("201"), findings[1].Path)

	assert.Empty(t, functions.PutResponseSchemaDescription(map[string]any{"202": map[string]any{}}, nil, mctx), "other codes are not checked")
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/definitions/" + name}
}

func TestConsistentPutGetResponse(t *testing.T) {
	t.Parallel()

	mctx := matchAt("paths", "/widgets/{name}")
	pathItem := func(put200, put201 map[string]any) map[string]any {
		return map[string]any{
			"get": map[string]any{"responses": map[string]any{"200": map[string]any{"schema": ref("Widget")}}},
			"put": map[string]any{"responses": map[string]any{
				"200": map[string]any{"schema": put200},
				"201": map[string]any{"schema": put201},
			}},
		}
	}

	assert.Empty(t, functions.ConsistentPutGetResponse(pathItem(ref("Widget"), ref("Widget")), nil, mctx))

	findings := functions.ConsistentPutGetResponse(pathItem(ref("Widget"), ref("WidgetCreated")), nil, mctx)
	require.Len(t, findings, 1)
	assert.Equal(t, document.Path{"paths", "/widgets/{name}", "put", "responses", "201", "schema"}, findings[0].Path)
	assert.Contains(t, findings[0].Message, "'#/definitions/WidgetCreated'")

	assert.Empty(t, functions.ConsistentPutGetResponse(pathItem(map[string]any{"type": "object"}, ref("Widget")), nil, mctx), "inline schemas are not compared")

	oas3 := map[string]any{
		"get": map[string]any{"responses": map[string]any{"200": map[string]any{
			"content": map[string]any{"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Widget"}}},
		}}},
		"put": map[string]any{"responses": map[string]any{"200": map[string]any{
			"content": map[string]any{"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Other"}}},
		}}},
	}
	findings = functions.ConsistentPutGetResponse(oas3, nil, mctx)
	require.Len(t, findings, 1)
	assert.Equal(t, document.Path{"paths", "/widgets/{name}", "put", "responses", "200", "content", "application/json", "schema"}, findings[0].Path)
}

func TestNextLinkPropertyMustExist(t *testing.T) {
	t.Parallel()

	mctx := matchAt("paths", "/widgets", "get")
	operation := func(schema map[string]any) map[string]any {
		return map[string]any{
			"operationId":   "Widgets_List",
			"x-ms-pageable": map[string]any{"nextLinkName": "nextLink"},
			"responses":     map[string]any{"200": map[string]any{"schema": schema}},
		}
	}

	direct := map[string]any{"properties": map[string]any{"value": map[string]any{}, "nextLink": map[string]any{}}}
	assert.Empty(t, functions.NextLinkPropertyMustExist(operation(direct), nil, mctx))

	composed := map[string]any{"allOf": []any{
		map[string]any{"properties": map[string]any{"value": map[string]any{}}},
		map[string]any{"allOf": []any{map[string]any{"properties": map[string]any{"nextLink": map[string]any{}}}}},
	}}
	assert.Empty(t, functions.NextLinkPropertyMustExist(operation(composed), nil, mctx))

	missing := map[string]any{"properties": map[string]any{"value": map[string]any{}}}
	findings := functions.NextLinkPropertyMustExist(operation(missing), nil, mctx)
	require.Len(t, findings, 1)
	assert.Equal(t, mctx.Path.Child("x-ms-pageable", "nextLinkName"), findings[0].Path)
	assert.Contains(t, findings[0].Message, "'Widgets_List'")

	noNextLink := operation(missing)
	noNextLink["x-ms-pageable"] = map[string]any{"nextLinkName": nil}
	assert.Empty(t, functions.NextLinkPropertyMustExist(noNextLink, nil, mctx), "single page collections have no next link")
}

const xmsPathsDoc = `swagger: "2.0"
info:
  title: Widgets
  version: "1.0"
paths:
  /widgets:
    get:
      operationId: Widgets_List
      responses:
        "200":
          description: ok
x-ms-paths:
  /widgets?op=export:
    post:
      operationId: Widgets_Export
      responses:
        "200":
          description: ok
  /gadgets?op=export:
    post:
      operationId: Gadgets_Export
      responses:
        "200":
          description: ok
`

func TestXMSPathsMustOverloadPaths(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse(t.Context(), []byte(xmsPathsDoc), "widgets.yaml")
	require.NoError(t, err)

	tree := doc.Unresolved()
	node, ok := tree.ValueAt(document.Path{"x-ms-paths"})
	require.True(t, ok)

	mctx := matchAt("x-ms-paths")
	mctx.Document = doc
	mctx.Tree = tree

	findings := functions.XMSPathsMustOverloadPaths(node, nil, mctx)
	require.Len(t, findings, 1)
	assert.Equal(t, document.Path{"x-ms-paths", "/gadgets?op=export"}, findings[0].Path)
	assert.Equal(t, "Path '/gadgets?op=export' in x-ms-paths must overload a path in the paths section.", findings[0].Message)
}
