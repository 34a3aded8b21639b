package functions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apimlint/apimlint/linter"
)

// operationNameCheck builds a predicate for the Noun_Verb operation ID convention of one HTTP
// method: the verb must start with one of prefixes.
func operationNameCheck(method string, prefixes []string, requirement string) linter.Func {
	return func(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
		operationID, ok := node.(string)
		if !ok || operationID == "" {
			return nil
		}
		verb := methodName(operationID)
		for _, prefix := range prefixes {
			if strings.HasPrefix(verb, prefix) {
				return nil
			}
		}
		return single(mctx, "'%s' operation '%s' should use method name %s", method, operationID, requirement)
	}
}

var (
	// GetInOperationName requires GET operation IDs to use the Get or List verb.
	GetInOperationName = operationNameCheck("GET", []string{"Get", "List"}, "'Get' or method name start with 'List'")
	// PutInOperationName requires PUT operation IDs to use the Create or CreateOrUpdate verb.
	PutInOperationName = operationNameCheck("PUT", []string{"Create"}, "'Create' or 'CreateOrUpdate'")
	// PatchInOperationName requires PATCH operation IDs to use the Update verb.
	PatchInOperationName = operationNameCheck("PATCH", []string{"Update"}, "'Update'")
	// DeleteInOperationName requires DELETE operation IDs to use the Delete verb.
	DeleteInOperationName = operationNameCheck("DELETE", []string{"Delete"}, "'Delete'")
)

// OperationIDSingleUnderscore reports operation IDs with more than one underscore.
func OperationIDSingleUnderscore(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	operationID, ok := node.(string)
	if !ok || strings.Count(operationID, "_") <= 1 {
		return nil
	}
	return single(mctx, "Only 1 underscore is permitted in the operation id, following Noun_Verb conventions. Found %d in '%s'.",
		strings.Count(operationID, "_"), operationID)
}

// OperationIDNounVerb reports Noun_Verb operation IDs whose verb repeats the noun.
func OperationIDNounVerb(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	operationID, ok := node.(string)
	if !ok {
		return nil
	}
	noun, verb, ok := strings.Cut(operationID, "_")
	if !ok || noun == "" || verb == "" || strings.Contains(verb, "_") {
		return nil
	}
	if !strings.Contains(verb, noun) {
		return nil
	}
	return single(mctx, "Per the Noun_Verb convention for Operation Ids, the noun '%s' should not appear after the underscore.", noun)
}

// lroSuccessCodes lists the terminal success codes allowed for long running operations.
var lroSuccessCodes = map[string][]string{
	"put":    {"200", "201"},
	"patch":  {"200", "202"},
	"post":   {"200", "201", "202", "204"},
	"delete": {"200", "202", "204"},
}

// LongRunningResponseStatusCode checks the success codes of operations marked with
// x-ms-long-running-operation. The node is the operation and the last path segment its method.
// Every 2xx response must be one of the method's allowed codes, and at least one must exist.
func LongRunningResponseStatusCode(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	op, ok := asObject(node)
	if !ok || !op.boolean("x-ms-long-running-operation") || mctx == nil {
		return nil
	}
	method := strings.ToLower(mctx.Path.Last())
	allowed, ok := lroSuccessCodes[method]
	if !ok {
		return nil
	}
	responses, ok := op.obj("responses")
	if !ok {
		return nil
	}

	valid := false
	for _, code := range responses.keys() {
		if !strings.HasPrefix(code, "2") {
			continue
		}
		if !slices.Contains(allowed, code) {
			valid = false
			break
		}
		valid = true
	}
	if valid {
		return nil
	}

	operationID, _ := op.str("operationId")
	return []linter.Finding{mctx.Finding(
		fmt.Sprintf("A '%s' operation '%s' with x-ms-long-running-operation extension must have a valid terminal success status code %s.",
			strings.ToUpper(method), operationID, strings.Join(allowed, " or ")),
		"responses",
	)}
}

// SummaryAndDescriptionMustNotBeSame reports operations whose summary repeats the description.
// The finding carries no message so the rule's own description is reported.
func SummaryAndDescriptionMustNotBeSame(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	op, ok := asObject(node)
	if !ok {
		return nil
	}
	summary, ok := op.str("summary")
	if !ok || strings.TrimSpace(summary) == "" {
		return nil
	}
	description, ok := op.str("description")
	if !ok || strings.TrimSpace(summary) != strings.TrimSpace(description) {
		return nil
	}
	return []linter.Finding{mctx.Finding("", "summary")}
}
