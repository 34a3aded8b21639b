package jsonpointer

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// GetYAMLNode evaluates the pointer against a yaml node tree. Document nodes, aliases and merge
// keys are followed.
func GetYAMLNode(root *yaml.Node, pointer JSONPointer) (*yaml.Node, error) {
	parts, err := pointer.Parts()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}
	return NavigateYAML(root, parts)
}

// NavigateYAML walks already split parts through a yaml node tree.
func NavigateYAML(root *yaml.Node, parts []string) (*yaml.Node, error) {
	node := resolveAlias(root)
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrNotFound.Wrapf("document node has no content")
		}
		node = resolveAlias(node.Content[0])
	}

	for i, part := range parts {
		if node == nil {
			return nil, ErrNotFound.Wrapf("yaml node is nil at %s", PartsToJSONPointer(parts[:i]))
		}
		switch node.Kind {
		case yaml.MappingNode:
			value := mappingValue(node, part)
			if value == nil {
				return nil, ErrNotFound.Wrapf("key %s not found in yaml mapping at %s", part, PartsToJSONPointer(parts[:i]))
			}
			node = value
		case yaml.SequenceNode:
			index, err := strconv.Atoi(part)
			if err != nil {
				return nil, ErrInvalidPath.Wrapf("invalid index %s at %s", part, PartsToJSONPointer(parts[:i]))
			}
			if index < 0 || index >= len(node.Content) {
				return nil, ErrNotFound.Wrapf("index %d out of range for yaml sequence of length %d at %s", index, len(node.Content), PartsToJSONPointer(parts[:i]))
			}
			node = resolveAlias(node.Content[index])
		default:
			return nil, ErrInvalidPath.Wrapf("cannot navigate through scalar yaml node at %s", PartsToJSONPointer(parts[:i]))
		}
	}
	return node, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := resolveAlias(node.Content[i])
		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}

	// Fall back to merge keys (<<: *alias).
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "<<" {
			continue
		}
		merged := resolveAlias(node.Content[i+1])
		if merged != nil && merged.Kind == yaml.MappingNode {
			if value := mappingValue(merged, key); value != nil {
				return value
			}
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

