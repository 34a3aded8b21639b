package document

import (
	"fmt"
	"path/filepath"

	"github.com/apimlint/apimlint/errors"
	"gopkg.in/yaml.v3"
)

// ErrNothingToCompose is returned when Compose is called without documents.
const ErrNothingToCompose = errors.Error("no documents to compose")

// mergeDepth lists the top-level sections whose entries are merged across documents and how many
// levels of maps sit above the merged entries.
var mergeDepth = map[string]int{
	"paths":               1,
	"x-ms-paths":          1,
	"definitions":         1,
	"parameters":          1,
	"responses":           1,
	"securityDefinitions": 1,
	"components":          2,
}

// Compose merges docs into a single document, the view rules with the composed merge state run
// against. Entries of mergeable sections are combined with the first definition winning; other
// top-level fields come from the first document that has them.
func Compose(location string, docs ...*Document) (*Document, error) {
	if len(docs) == 0 {
		return nil, ErrNothingToCompose
	}

	c := &composer{
		root:     &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
		sections: make(map[string]*yaml.Node),
		origins:  make(map[string]string),
	}
	siblings := make(map[string]bool, len(docs))
	sources := make([]string, 0, len(docs))

	for _, doc := range docs {
		sources = append(sources, doc.Location)
		siblings[filepath.Base(doc.Location)] = true

		root := doc.Unresolved().Root()
		if root == nil || root.Kind != yaml.MappingNode {
			c.warnings = append(c.warnings, fmt.Sprintf("%s: document root is not a mapping, skipped", doc.Location))
			continue
		}
		c.add(doc.Location, root)
	}

	composed := newDocument(location, c.root, siblings)
	composed.Warnings = c.warnings
	composed.sources = sources
	composed.origins = c.origins
	composed.defaultOrigin = docs[0].Location
	return composed, nil
}

type composer struct {
	root     *yaml.Node
	sections map[string]*yaml.Node
	origins  map[string]string
	warnings []string
}

func (c *composer) add(location string, root *yaml.Node) {
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], resolveAlias(root.Content[i+1])

		depth, mergeable := mergeDepth[key.Value]
		if !mergeable || value.Kind != yaml.MappingNode {
			if mappingValue(c.root, key.Value) == nil {
				c.root.Content = append(c.root.Content, key, value)
			}
			continue
		}

		section, ok := c.sections[key.Value]
		if !ok {
			section = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: value.Line, Column: value.Column}
			c.sections[key.Value] = section
			c.root.Content = append(c.root.Content, key, section)
		}
		c.merge(location, section, value, Path{key.Value}, depth)
	}
}

func (c *composer) merge(location string, into, from *yaml.Node, path Path, depth int) {
	for i := 0; i+1 < len(from.Content); i += 2 {
		key, value := from.Content[i], resolveAlias(from.Content[i+1])
		entryPath := path.Child(key.Value)
		existing := mappingValue(into, key.Value)

		if depth > 1 && value.Kind == yaml.MappingNode {
			if existing == nil {
				existing = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: value.Line, Column: value.Column}
				into.Content = append(into.Content, key, existing)
			}
			c.merge(location, existing, value, entryPath, depth-1)
			continue
		}

		pointer := string(entryPath.Pointer())
		if existing != nil {
			c.warnings = append(c.warnings, fmt.Sprintf("%s: duplicate entry %s ignored, first defined in %s", location, pointer, c.origins[pointer]))
			continue
		}
		into.Content = append(into.Content, key, value)
		c.origins[pointer] = location
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
