package linter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaPrinter = message.NewPrinter(language.English)

const (
	ErrUnknownFunction   = errors.Error("unknown function")
	ErrInvalidOptions    = errors.Error("invalid function options")
	ErrDuplicateFunction = errors.Error("duplicate function")
)

// Finding is a single violation reported by a predicate. An empty Path reports at the node the
// predicate was given.
type Finding struct {
	Message string
	Path    document.Path
}

// Func is a rule predicate. It receives the selected node as a plain JSON value (map[string]any,
// []any, string, int64, float64, bool or nil), its options and the match context, and returns the
// violations it found. Predicates must not mutate node.
type Func func(node any, opts Options, mctx *MatchContext) []Finding

// MatchContext describes where a predicate is being applied.
type MatchContext struct {
	Path     document.Path
	Document *document.Document
	// Tree is the view of the document the rule's selectors were evaluated against.
	Tree   *document.Tree
	RuleID string
}

// Resolved returns the whole document with local references inlined.
func (m *MatchContext) Resolved() any {
	if m == nil || m.Document == nil {
		return nil
	}
	return m.Document.Resolved().Value()
}

// Finding builds a finding located at the match path extended by segments.
func (m *MatchContext) Finding(message string, segments ...string) Finding {
	var base document.Path
	if m != nil {
		base = m.Path
	}
	return Finding{Message: message, Path: base.Child(segments...)}
}

// Options holds predicate configuration as decoded from rule descriptors or config files.
type Options map[string]any

// Decode copies the options into a typed struct using `mapstructure` tags, converting loosely
// typed values such as "3" to the field's type.
func (o Options) Decode(target any) error {
	if o == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(o)); err != nil {
		return ErrInvalidOptions.Wrap(err)
	}
	return nil
}

// Merge returns a copy of o with override's keys replacing its own.
func (o Options) Merge(override Options) Options {
	if len(o) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(Options, len(o)+len(override))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// Function is a named predicate with an optional JSON Schema for its options.
type Function struct {
	Name   string
	Run    Func
	Schema string
	// Validate checks what the schema cannot, such as whether a pattern compiles. It runs after
	// schema validation.
	Validate func(Options) error
}

// Catalogue is an immutable set of named predicates with compiled option schemas.
type Catalogue struct {
	functions map[string]*catalogueEntry
}

type catalogueEntry struct {
	fn     Function
	schema *jsonschema.Schema
}

// NewCatalogue compiles the option schemas of fns. Names must be unique.
func NewCatalogue(fns ...Function) (*Catalogue, error) {
	c := &Catalogue{functions: make(map[string]*catalogueEntry, len(fns))}
	compiler := jsonschema.NewCompiler()

	for _, fn := range fns {
		if fn.Name == "" || fn.Run == nil {
			return nil, ErrInvalidOptions.Wrapf("function %q must have a name and an implementation", fn.Name)
		}
		if _, exists := c.functions[fn.Name]; exists {
			return nil, ErrDuplicateFunction.Wrapf("%s", fn.Name)
		}

		entry := &catalogueEntry{fn: fn}
		if fn.Schema != "" {
			schema, err := compileSchema(compiler, "function/"+fn.Name+".json", fn.Schema)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", fn.Name, err)
			}
			entry.schema = schema
		}
		c.functions[fn.Name] = entry
	}

	return c, nil
}

// Lookup returns the named function.
func (c *Catalogue) Lookup(name string) (Function, bool) {
	if c == nil {
		return Function{}, false
	}
	entry, ok := c.functions[name]
	if !ok {
		return Function{}, false
	}
	return entry.fn, true
}

// Names returns the sorted function names.
func (c *Catalogue) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateOptions checks opts against the named function's option schema and validator.
func (c *Catalogue) ValidateOptions(name string, opts Options) error {
	entry, ok := c.functions[name]
	if !ok {
		return ErrUnknownFunction.Wrapf("%s", name)
	}
	if opts == nil {
		opts = Options{}
	}

	if entry.schema != nil {
		value, err := jsonValue(opts)
		if err != nil {
			return ErrInvalidOptions.Wrapf("%s: %s", name, err.Error())
		}
		if err := entry.schema.Validate(value); err != nil {
			return ErrInvalidOptions.Wrapf("%s: %s", name, schemaErrorMessage(err))
		}
	}
	if entry.fn.Validate != nil {
		if err := entry.fn.Validate(opts); err != nil {
			return ErrInvalidOptions.Wrapf("%s: %s", name, err.Error())
		}
	}
	return nil
}

// jsonValue normalises Go values such as []string into the plain JSON shapes the schema
// validator understands.
func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func compileSchema(compiler *jsonschema.Compiler, url, schema string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// schemaErrorMessage flattens a jsonschema validation error into a single line.
func schemaErrorMessage(err error) string {
	var vErr *jsonschema.ValidationError
	if !errors.As(err, &vErr) {
		return err.Error()
	}

	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := "/" + strings.Join(e.InstanceLocation, "/")
			msgs = append(msgs, fmt.Sprintf("%s: %s", loc, e.ErrorKind.LocalizedString(schemaPrinter)))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(vErr)
	return strings.Join(msgs, "; ")
}
