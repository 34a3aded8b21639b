package document

import (
	"sync"

	"github.com/apimlint/apimlint/jsonpointer"
	"gopkg.in/yaml.v3"
)

// Match is one node selected by a Selector.
type Match struct {
	Path  Path
	Value any
	Node  *yaml.Node
}

// Tree is an immutable yaml node tree indexed by path.
type Tree struct {
	doc   *yaml.Node
	paths map[*yaml.Node]Path
	keys  map[*yaml.Node]*yaml.Node

	valueOnce sync.Once
	value     any
}

// NewTree indexes root. root may be a document node or its content node.
func NewTree(root *yaml.Node) *Tree {
	doc := root
	if doc == nil {
		doc = &yaml.Node{Kind: yaml.DocumentNode}
	} else if doc.Kind != yaml.DocumentNode {
		doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	}

	t := &Tree{
		doc:   doc,
		paths: make(map[*yaml.Node]Path),
		keys:  make(map[*yaml.Node]*yaml.Node),
	}
	if len(doc.Content) > 0 {
		t.index(doc.Content[0], Path{})
	}
	return t
}

func (t *Tree) index(node *yaml.Node, path Path) {
	if node == nil {
		return
	}
	if _, seen := t.paths[node]; seen {
		return
	}
	t.paths[node] = path

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			t.keys[value] = key
			t.index(value, path.Child(key.Value))
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			t.index(item, path.Index(i))
		}
	}
}

// Root returns the content node of the tree, or nil for an empty document.
func (t *Tree) Root() *yaml.Node {
	if len(t.doc.Content) == 0 {
		return nil
	}
	return t.doc.Content[0]
}

// PathOf returns the path of node within the tree.
func (t *Tree) PathOf(node *yaml.Node) (Path, bool) {
	p, ok := t.paths[node]
	return p, ok
}

// Query returns the nodes selected by s in document order. Nodes the selector synthesises and
// that therefore have no position in the tree are skipped.
func (t *Tree) Query(s *Selector) []Match {
	if s == nil || len(t.doc.Content) == 0 {
		return nil
	}

	nodes := s.query.Query(t.doc)
	matches := make([]Match, 0, len(nodes))
	seen := make(map[*yaml.Node]bool, len(nodes))
	for _, node := range nodes {
		if node == nil || seen[node] {
			continue
		}
		seen[node] = true

		path, ok := t.paths[node]
		if !ok {
			continue
		}

		if s.keys {
			key, ok := t.keys[node]
			if !ok {
				continue
			}
			matches = append(matches, Match{Path: path, Value: key.Value, Node: key})
			continue
		}
		matches = append(matches, Match{Path: path, Value: ToValue(node), Node: node})
	}
	return matches
}

// Value returns the whole tree as a plain JSON value.
func (t *Tree) Value() any {
	t.valueOnce.Do(func() {
		t.value = ToValue(t.doc)
	})
	return t.value
}

// ValueAt returns the plain value at path.
func (t *Tree) ValueAt(path Path) (any, bool) {
	v, err := jsonpointer.Navigate(t.Value(), path)
	if err != nil {
		return nil, false
	}
	return v, true
}

// NodeAt returns the node at path or, when path does not exist, its nearest existing ancestor.
// Findings about absent fields are therefore located at the object that should contain them.
func (t *Tree) NodeAt(path Path) *yaml.Node {
	for n := len(path); n >= 0; n-- {
		node, err := jsonpointer.NavigateYAML(t.doc, path[:n])
		if err == nil {
			return node
		}
	}
	return t.Root()
}
