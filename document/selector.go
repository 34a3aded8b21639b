package document

import (
	"strings"

	"github.com/apimlint/apimlint/errors"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSelector is returned when a selector cannot be compiled by either JSONPath dialect.
const ErrInvalidSelector = errors.Error("invalid selector")

type queryable interface {
	Query(root *yaml.Node) []*yaml.Node
}

type rfcQueryable struct {
	path *jsonpath.JSONPath
}

func (q rfcQueryable) Query(root *yaml.Node) []*yaml.Node {
	return q.path.Query(root)
}

type legacyQueryable struct {
	path *yamlpath.Path
}

func (q legacyQueryable) Query(root *yaml.Node) []*yaml.Node {
	// errors aren't actually possible from yamlpath once the path compiled.
	nodes, _ := q.path.Find(root)
	return nodes
}

type rootQueryable struct{}

func (rootQueryable) Query(root *yaml.Node) []*yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return []*yaml.Node{root.Content[0]}
	}
	return []*yaml.Node{root}
}

// Selector is a compiled JSONPath expression. A trailing "~" selects the property names of the
// matched values instead of the values themselves.
type Selector struct {
	expr  string
	keys  bool
	query queryable
}

// CompileSelector compiles expr as RFC 9535 JSONPath, falling back to the legacy dialect used
// by older Spectral rulesets when that fails.
func CompileSelector(expr string) (*Selector, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, ErrInvalidSelector.Wrapf("selector is empty")
	}

	s := &Selector{expr: expr}
	if strings.HasSuffix(trimmed, "~") {
		s.keys = true
		trimmed = strings.TrimRight(strings.TrimSuffix(trimmed, "~"), ".")
	}

	if trimmed == "$" {
		s.query = rootQueryable{}
		return s, nil
	}

	rfcPath, rfcErr := jsonpath.NewPath(trimmed, config.WithPropertyNameExtension())
	if rfcErr == nil {
		s.query = rfcQueryable{path: rfcPath}
		return s, nil
	}

	legacyPath, legacyErr := yamlpath.NewPath(trimmed)
	if legacyErr != nil {
		return nil, ErrInvalidSelector.Wrapf("%s: %v; legacy: %v", expr, rfcErr, legacyErr)
	}
	s.query = legacyQueryable{path: legacyPath}
	return s, nil
}

// MustCompileSelector is CompileSelector for expressions known at compile time.
func MustCompileSelector(expr string) *Selector {
	s, err := CompileSelector(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Selector) String() string {
	return s.expr
}

// SelectsKeys reports whether the selector yields property names.
func (s *Selector) SelectsKeys() bool {
	return s.keys
}
