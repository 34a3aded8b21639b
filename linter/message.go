package linter

import (
	"fmt"
	"strings"

	"github.com/apimlint/apimlint/document"
)

// RenderMessage produces the reported text for a finding.
//
// The rule's Message template may use {{error}} (the predicate's message), {{description}},
// {{path}} (JSON pointer of the finding), {{property}} (last path segment) and {{value}} (the
// scalar at the finding path). Without a template the predicate's message is used, and an empty
// predicate message falls back to the rule description.
func RenderMessage(rule *Rule, finding Finding, tree *document.Tree) string {
	msg := finding.Message
	if msg == "" {
		msg = rule.Description
	}
	if rule.Message == "" {
		return msg
	}

	replacements := []string{
		"{{error}}", msg,
		"{{description}}", rule.Description,
		"{{path}}", string(finding.Path.Pointer()),
		"{{property}}", finding.Path.Last(),
	}
	if strings.Contains(rule.Message, "{{value}}") {
		replacements = append(replacements, "{{value}}", scalarString(tree, finding.Path))
	}
	return strings.NewReplacer(replacements...).Replace(rule.Message)
}

func scalarString(tree *document.Tree, path document.Path) string {
	if tree == nil {
		return ""
	}
	v, ok := tree.ValueAt(path)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]any, []any, nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
