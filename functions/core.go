package functions

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/apimlint/apimlint/linter"
)

// property names the node being checked in messages: the last segment of the match path.
func property(mctx *linter.MatchContext) string {
	if mctx == nil || len(mctx.Path) == 0 {
		return "value"
	}
	return mctx.Path.Last()
}

func single(mctx *linter.MatchContext, format string, args ...any) []linter.Finding {
	return []linter.Finding{mctx.Finding(fmt.Sprintf(format, args...))}
}

// Truthy reports nodes that are absent, null, false, empty strings or zero.
func Truthy(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	if truthy(node) {
		return nil
	}
	return single(mctx, "%q property must be truthy", property(mctx))
}

// Falsy reports nodes that are present and truthy.
func Falsy(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	if !truthy(node) {
		return nil
	}
	return single(mctx, "%q property must be falsy", property(mctx))
}

// Defined reports absent nodes.
func Defined(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	if node != nil {
		return nil
	}
	return single(mctx, "%q property must be defined", property(mctx))
}

// Undefined reports present nodes.
func Undefined(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	if node == nil {
		return nil
	}
	return single(mctx, "%q property must not be defined", property(mctx))
}

type patternOptions struct {
	Match    string `mapstructure:"match"`
	NotMatch string `mapstructure:"notMatch"`
}

const patternSchema = `{
  "type": "object",
  "properties": {
    "match": {"type": "string", "minLength": 1},
    "notMatch": {"type": "string", "minLength": 1}
  },
  "anyOf": [{"required": ["match"]}, {"required": ["notMatch"]}],
  "additionalProperties": false
}`

// Pattern checks a string against a regular expression it must match and/or one it must not.
// Patterns may be written in the /expr/flags form, where the i flag makes matching
// case-insensitive.
func Pattern(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	s, ok := node.(string)
	if !ok {
		return nil
	}
	var o patternOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}

	var findings []linter.Finding
	if o.Match != "" {
		if re, err := compilePattern(o.Match); err == nil && !re.MatchString(s) {
			findings = append(findings, mctx.Finding(fmt.Sprintf("%q must match the pattern %q", s, o.Match)))
		}
	}
	if o.NotMatch != "" {
		if re, err := compilePattern(o.NotMatch); err == nil && re.MatchString(s) {
			findings = append(findings, mctx.Finding(fmt.Sprintf("%q must not match the pattern %q", s, o.NotMatch)))
		}
	}
	return findings
}

func validatePatternOptions(opts linter.Options) error {
	var o patternOptions
	if err := opts.Decode(&o); err != nil {
		return err
	}
	return checkPatterns(map[string]string{"match": o.Match, "notMatch": o.NotMatch})
}

// checkPatterns compiles each non-empty pattern, keyed by the option it came from.
func checkPatterns(patterns map[string]string) error {
	for _, option := range []string{"match", "notMatch"} {
		pattern := patterns[option]
		if pattern == "" {
			continue
		}
		if _, err := compilePattern(pattern); err != nil {
			return fmt.Errorf("%s: invalid regular expression %q: %w", option, pattern, err)
		}
	}
	return nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.HasPrefix(pattern, "/") {
		if end := strings.LastIndex(pattern, "/"); end > 0 {
			expr, flags := pattern[1:end], pattern[end+1:]
			if strings.Contains(flags, "i") {
				expr = "(?i)" + expr
			}
			return regexp.Compile(expr)
		}
	}
	return regexp.Compile(pattern)
}

type enumerationOptions struct {
	Values          []any `mapstructure:"values"`
	CaseInsensitive bool  `mapstructure:"caseInsensitive"`
}

const enumerationSchema = `{
  "type": "object",
  "properties": {
    "values": {"type": "array", "items": {"type": ["string", "number", "boolean"]}},
    "caseInsensitive": {"type": "boolean"}
  },
  "required": ["values"],
  "additionalProperties": false
}`

// Enumeration reports scalars that are not one of the allowed values.
func Enumeration(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	if !isScalar(node) {
		return nil
	}
	var o enumerationOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}

	allowed := make([]string, 0, len(o.Values))
	for _, v := range o.Values {
		if scalarEqual(node, v) {
			return nil
		}
		if o.CaseInsensitive {
			if s, ok := node.(string); ok {
				if vs, ok := v.(string); ok && strings.EqualFold(s, vs) {
					return nil
				}
			}
		}
		allowed = append(allowed, fmt.Sprint(v))
	}
	return single(mctx, "\"%v\" must be equal to one of the allowed values: %s", node, quoteList(allowed))
}

type lengthOptions struct {
	Min *int `mapstructure:"min"`
	Max *int `mapstructure:"max"`
}

const lengthSchema = `{
  "type": "object",
  "properties": {
    "min": {"type": "integer", "minimum": 0},
    "max": {"type": "integer", "minimum": 0}
  },
  "anyOf": [{"required": ["min"]}, {"required": ["max"]}],
  "additionalProperties": false
}`

// Length bounds the size of strings (in characters), arrays and objects (in entries) and the
// value of numbers.
func Length(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	var size float64
	switch v := node.(type) {
	case string:
		size = float64(utf8.RuneCountInString(v))
	case []any:
		size = float64(len(v))
	case map[string]any:
		size = float64(len(v))
	default:
		n, ok := number(node)
		if !ok {
			return nil
		}
		size = n
	}

	var o lengthOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	if o.Min != nil && size < float64(*o.Min) {
		return single(mctx, "%q must not be shorter than %d", property(mctx), *o.Min)
	}
	if o.Max != nil && size > float64(*o.Max) {
		return single(mctx, "%q must not be longer than %d", property(mctx), *o.Max)
	}
	return nil
}

type propertiesOptions struct {
	Properties []string `mapstructure:"properties"`
}

const propertiesSchema = `{
  "type": "object",
  "properties": {
    "properties": {"type": "array", "items": {"type": "string"}, "minItems": 1}
  },
  "required": ["properties"],
  "additionalProperties": false
}`

const xorSchema = `{
  "type": "object",
  "properties": {
    "properties": {"type": "array", "items": {"type": "string"}, "minItems": 2}
  },
  "required": ["properties"],
  "additionalProperties": false
}`

func countDefined(o object, names []string) int {
	n := 0
	for _, name := range names {
		if o.has(name) {
			n++
		}
	}
	return n
}

// Xor requires exactly one of the listed properties to be defined on an object.
func Xor(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	obj, ok := asObject(node)
	if !ok {
		return nil
	}
	var o propertiesOptions
	if err := opts.Decode(&o); err != nil || len(o.Properties) == 0 {
		return nil
	}
	if countDefined(obj, o.Properties) == 1 {
		return nil
	}
	return single(mctx, "exactly one of %s must be defined", quoteList(o.Properties))
}

// MutuallyExclusive allows at most one of the listed properties to be defined on an object.
func MutuallyExclusive(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	obj, ok := asObject(node)
	if !ok {
		return nil
	}
	var o propertiesOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	if countDefined(obj, o.Properties) <= 1 {
		return nil
	}
	return single(mctx, "at most one of %s may be defined", quoteList(o.Properties))
}

// RequiredProperties reports each listed property missing from an object, located at the
// missing property.
func RequiredProperties(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	obj, ok := asObject(node)
	if !ok {
		return nil
	}
	var o propertiesOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}

	var findings []linter.Finding
	for _, name := range o.Properties {
		if !obj.has(name) {
			findings = append(findings, mctx.Finding(fmt.Sprintf("%q property is required", name), name))
		}
	}
	return findings
}

const descriptiveTextSchema = `{
  "type": "object",
  "properties": {
    "properties": {"type": "array", "items": {"type": "string"}, "minItems": 1}
  },
  "additionalProperties": false
}`

// DescriptiveText requires at least one of the listed properties (default "description") to
// hold non-blank text. Blank and whitespace-only strings count as absent.
func DescriptiveText(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	obj, ok := asObject(node)
	if !ok {
		return nil
	}
	var o propertiesOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	if len(o.Properties) == 0 {
		o.Properties = []string{"description"}
	}

	for _, name := range o.Properties {
		if s, ok := obj.str(name); ok && strings.TrimSpace(s) != "" {
			return nil
		}
	}
	if len(o.Properties) == 1 {
		return single(mctx, "%q must have a non-empty %q", property(mctx), o.Properties[0])
	}
	return single(mctx, "%q must have a non-empty value for one of %s", property(mctx), quoteList(o.Properties))
}

type notInListOptions struct {
	Values          []string `mapstructure:"values"`
	CaseInsensitive bool     `mapstructure:"caseInsensitive"`
}

const notInListSchema = `{
  "type": "object",
  "properties": {
    "values": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "caseInsensitive": {"type": "boolean"}
  },
  "required": ["values"],
  "additionalProperties": false
}`

// NotInList reports strings that appear in a list of reserved names.
func NotInList(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	s, ok := node.(string)
	if !ok {
		return nil
	}
	var o notInListOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	for _, reserved := range o.Values {
		if s == reserved || (o.CaseInsensitive && strings.EqualFold(s, reserved)) {
			return single(mctx, "%q is a reserved name and must not be used", s)
		}
	}
	return nil
}

type namingConventionOptions struct {
	Delimiter string `mapstructure:"delimiter"`
	Match     string `mapstructure:"match"`
}

const namingConventionSchema = `{
  "type": "object",
  "properties": {
    "delimiter": {"type": "string", "minLength": 1},
    "match": {"type": "string", "minLength": 1}
  },
  "required": ["match"],
  "additionalProperties": false
}`

func validateNamingConventionOptions(opts linter.Options) error {
	var o namingConventionOptions
	if err := opts.Decode(&o); err != nil {
		return err
	}
	return checkPatterns(map[string]string{"match": o.Match})
}

// NamingConvention splits a string on a delimiter (default "/") and reports each segment that
// does not match a regular expression. Empty segments and template parameters such as
// "{widgetName}" are skipped.
func NamingConvention(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	s, ok := node.(string)
	if !ok {
		return nil
	}
	var o namingConventionOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	if o.Delimiter == "" {
		o.Delimiter = "/"
	}
	re, err := compilePattern(o.Match)
	if err != nil {
		return nil
	}

	var findings []linter.Finding
	for _, segment := range strings.Split(s, o.Delimiter) {
		if segment == "" || (strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")) {
			continue
		}
		if !re.MatchString(segment) {
			findings = append(findings, mctx.Finding(fmt.Sprintf("segment %q of %q does not match %q", segment, s, o.Match)))
		}
	}
	return findings
}
