package document

import (
	"gopkg.in/yaml.v3"
)

// ToValue converts a yaml node into the plain JSON value model rule predicates work on:
// map[string]any, []any, string, int64, float64, bool and nil. Mapping keys are always strings,
// so numeric response codes become "200".
func ToValue(node *yaml.Node) any {
	node = resolveAlias(node)
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return ToValue(node.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		mergeInto(m, node)
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			s = append(s, ToValue(item))
		}
		return s
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil
	}
}

func mergeInto(m map[string]any, node *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value == "<<" && key.Tag == "!!merge" {
			continue
		}
		m[key.Value] = ToValue(value)
	}

	// Explicit keys win over merged ones.
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value != "<<" || key.Tag != "!!merge" {
			continue
		}
		merged := resolveAlias(value)
		if merged == nil || merged.Kind != yaml.MappingNode {
			continue
		}
		inner := make(map[string]any)
		mergeInto(inner, merged)
		for k, v := range inner {
			if _, exists := m[k]; !exists {
				m[k] = v
			}
		}
	}
}

func scalarValue(node *yaml.Node) any {
	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i
		}
		var f float64
		if err := node.Decode(&f); err == nil {
			return f
		}
	case "!!float":
		var f float64
		if err := node.Decode(&f); err == nil {
			return f
		}
	}
	return node.Value
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
