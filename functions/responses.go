package functions

import (
	"fmt"
	"strings"

	"github.com/apimlint/apimlint/linter"
)

// PutResponseSchemaDescription checks the wording of a PUT operation's responses: the 200
// description must mention "replace" and the 201 description "create". Each violation is located
// at its response code.
func PutResponseSchemaDescription(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	responses, ok := asObject(node)
	if !ok {
		return nil
	}

	var findings []linter.Finding
	for _, expect := range []struct{ code, word string }{{"200", "replace"}, {"201", "create"}} {
		response, ok := responses.obj(expect.code)
		if !ok {
			continue
		}
		description, _ := response.str("description")
		if strings.Contains(strings.ToLower(description), expect.word) {
			continue
		}
		findings = append(findings, mctx.Finding(
			fmt.Sprintf("Description of %s response code of a PUT operation MUST include the word '%s'.", expect.code, expect.word),
			expect.code,
		))
	}
	return findings
}

// responseSchema returns the schema of a response and the path segments leading to it, for both
// Swagger 2 (schema) and OpenAPI 3 (content/<media type>/schema) responses.
func responseSchema(response object) (object, []string, bool) {
	if schema, ok := response.obj("schema"); ok {
		return schema, []string{"schema"}, true
	}
	content, ok := response.obj("content")
	if !ok {
		return nil, nil, false
	}
	for _, mediaType := range content.keys() {
		media, ok := content.obj(mediaType)
		if !ok {
			continue
		}
		if schema, ok := media.obj("schema"); ok {
			return schema, []string{"content", mediaType, "schema"}, true
		}
	}
	return nil, nil, false
}

func operationResponse(pathItem object, method, code string) (object, bool) {
	op, ok := pathItem.obj(method)
	if !ok {
		return nil, false
	}
	responses, ok := op.obj("responses")
	if !ok {
		return nil, false
	}
	return responses.obj(code)
}

// ConsistentPutGetResponse requires the 200 and 201 responses of a path's PUT operation to
// reference the same schema as its GET 200 response. Schemas are compared by $ref identity, so
// the rule runs against the unresolved document; inline schemas are not compared.
func ConsistentPutGetResponse(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	pathItem, ok := asObject(node)
	if !ok {
		return nil
	}
	getResponse, ok := operationResponse(pathItem, "get", "200")
	if !ok {
		return nil
	}
	getSchema, _, ok := responseSchema(getResponse)
	if !ok {
		return nil
	}
	getRef, ok := getSchema.str("$ref")
	if !ok {
		return nil
	}

	var findings []linter.Finding
	for _, code := range []string{"200", "201"} {
		putResponse, ok := operationResponse(pathItem, "put", code)
		if !ok {
			continue
		}
		putSchema, segments, ok := responseSchema(putResponse)
		if !ok {
			continue
		}
		putRef, ok := putSchema.str("$ref")
		if !ok || putRef == getRef {
			continue
		}
		findings = append(findings, mctx.Finding(
			fmt.Sprintf("The PUT %s response schema '%s' must be the same as the GET 200 response schema '%s'.", code, putRef, getRef),
			append([]string{"put", "responses", code}, segments...)...,
		))
	}
	return findings
}

// NextLinkPropertyMustExist requires the property named by x-ms-pageable's nextLinkName to be
// defined on the operation's 200 response schema, including schemas composed with allOf. The rule
// runs against the resolved document so referenced schemas are inlined.
func NextLinkPropertyMustExist(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	op, ok := asObject(node)
	if !ok {
		return nil
	}
	pageable, ok := op.obj("x-ms-pageable")
	if !ok {
		return nil
	}
	nextLinkName, ok := pageable.str("nextLinkName")
	if !ok || nextLinkName == "" {
		return nil
	}
	responses, ok := op.obj("responses")
	if !ok {
		return nil
	}
	response, ok := responses.obj("200")
	if !ok {
		return nil
	}
	schema, _, ok := responseSchema(response)
	if !ok || hasProperty(schema, nextLinkName, 0) {
		return nil
	}

	operationID, _ := op.str("operationId")
	return []linter.Finding{mctx.Finding(
		fmt.Sprintf("The response of operation '%s' is defined without the property '%s' named in x-ms-pageable.", operationID, nextLinkName),
		"x-ms-pageable", "nextLinkName",
	)}
}

// maxAllOfDepth bounds allOf traversal; unresolved cycles leave $ref objects that simply have no
// properties.
const maxAllOfDepth = 16

func hasProperty(schema object, name string, depth int) bool {
	if depth > maxAllOfDepth {
		return false
	}
	if properties, ok := schema.obj("properties"); ok && properties.has(name) {
		return true
	}
	allOf, _ := schema.arr("allOf")
	for _, member := range allOf {
		if sub, ok := asObject(member); ok && hasProperty(sub, name, depth+1) {
			return true
		}
	}
	return false
}

// XMSPathsMustOverloadPaths requires each x-ms-paths entry, with its query string removed, to
// name a path defined in the paths section of the resolved document.
func XMSPathsMustOverloadPaths(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	xmsPaths, ok := asObject(node)
	if !ok {
		return nil
	}
	root, ok := asObject(mctx.Resolved())
	if !ok {
		return nil
	}
	paths, _ := root.obj("paths")

	var findings []linter.Finding
	for _, key := range xmsPaths.keys() {
		base, _, _ := strings.Cut(key, "?")
		if _, ok := paths[base]; ok {
			continue
		}
		findings = append(findings, mctx.Finding(
			fmt.Sprintf("Path '%s' in x-ms-paths must overload a path in the paths section.", key),
			key,
		))
	}
	return findings
}
