package document

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apimlint/apimlint/jsonpointer"
	"gopkg.in/yaml.v3"
)

const (
	// minResolveBudget is the number of nodes the resolved view may always grow to.
	minResolveBudget = 200_000
	// resolveGrowth is how many times larger than the document the resolved view may grow.
	resolveGrowth = 16
)

// resolvedTarget is an inlined reference target that can be copied to further reference sites.
type resolvedTarget struct {
	node *yaml.Node
	size int
}

type resolver struct {
	root *yaml.Node
	// siblings holds the base names of documents that share root, so that references such as
	// "common.json#/definitions/Error" resolve inside a composed document.
	siblings map[string]bool
	stack    []*yaml.Node
	warnings []string

	// cache holds targets whose expansion did not depend on the reference stack.
	cache map[*yaml.Node]resolvedTarget
	nodes int
	limit int
	// cuts counts references left in place because of cycles or the node budget.
	cuts      int
	exhausted bool
}

func resolveTree(root *yaml.Node, siblings map[string]bool) (*yaml.Node, []string) {
	if root == nil {
		return nil, nil
	}
	r := &resolver{
		root:     root,
		siblings: siblings,
		cache:    make(map[*yaml.Node]resolvedTarget),
		limit:    max(minResolveBudget, resolveGrowth*countNodes(root)),
	}
	return r.copy(root), r.warnings
}

func (r *resolver) copy(node *yaml.Node) *yaml.Node {
	node = resolveAlias(node)
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		if ref, ok := refValue(node); ok {
			return r.copyReference(node, ref)
		}
		out := r.shallowCopy(node)
		out.Content = make([]*yaml.Node, 0, len(node.Content))
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := r.shallowCopy(resolveAlias(node.Content[i]))
			out.Content = append(out.Content, key, r.copy(node.Content[i+1]))
		}
		return out
	case yaml.SequenceNode:
		out := r.shallowCopy(node)
		out.Content = make([]*yaml.Node, 0, len(node.Content))
		for _, item := range node.Content {
			out.Content = append(out.Content, r.copy(item))
		}
		return out
	default:
		return r.shallowCopy(node)
	}
}

func (r *resolver) copyReference(node *yaml.Node, ref string) *yaml.Node {
	pointer, ok := r.localPointer(ref)
	if !ok {
		return r.deepCopy(node)
	}

	target, err := jsonpointer.GetYAMLNode(r.root, pointer)
	if err != nil {
		r.warnings = append(r.warnings, fmt.Sprintf("line %d: unresolved reference %q: %v", node.Line, ref, err))
		return r.deepCopy(node)
	}

	if r.exhausted {
		return r.stop(node)
	}
	if cached, ok := r.cache[target]; ok {
		if r.nodes+cached.size > r.limit {
			return r.stop(node)
		}
		return r.deepCopy(cached.node)
	}

	if slices.Contains(r.stack, target) {
		r.cuts++
		return r.deepCopy(node)
	}
	if r.nodes >= r.limit {
		return r.stop(node)
	}

	start, cuts := r.nodes, r.cuts
	r.stack = append(r.stack, target)
	out := r.copy(target)
	r.stack = r.stack[:len(r.stack)-1]

	if r.cuts == cuts {
		r.cache[target] = resolvedTarget{node: out, size: r.nodes - start}
	}
	return out
}

// stop leaves a reference in place once the node budget is spent.
func (r *resolver) stop(node *yaml.Node) *yaml.Node {
	r.cuts++
	if !r.exhausted {
		r.exhausted = true
		r.warnings = append(r.warnings, fmt.Sprintf("line %d: reference expansion stopped after %d nodes, remaining references are left unresolved", node.Line, r.nodes))
	}
	return r.deepCopy(node)
}

func (r *resolver) localPointer(ref string) (jsonpointer.JSONPointer, bool) {
	if pointer, ok := jsonpointer.FromReference(ref); ok {
		return pointer, true
	}
	file, fragment, found := strings.Cut(ref, "#")
	if !found || !r.siblings[filepath.Base(file)] {
		return "", false
	}
	return jsonpointer.JSONPointer(fragment), true
}

func refValue(node *yaml.Node) (string, bool) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" && node.Content[i+1].Kind == yaml.ScalarNode {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}

func (r *resolver) shallowCopy(node *yaml.Node) *yaml.Node {
	r.nodes++
	out := *node
	return &out
}

func (r *resolver) deepCopy(node *yaml.Node) *yaml.Node {
	node = resolveAlias(node)
	if node == nil {
		return nil
	}
	out := r.shallowCopy(node)
	if len(node.Content) > 0 {
		out.Content = make([]*yaml.Node, len(node.Content))
		for i, child := range node.Content {
			out.Content[i] = r.deepCopy(child)
		}
	}
	return out
}

// countNodes counts the nodes of the document as written, without following aliases.
func countNodes(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	n := 1
	for _, child := range node.Content {
		n += countNodes(child)
	}
	return n
}
