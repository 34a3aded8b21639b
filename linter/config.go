package linter

import (
	"fmt"
	"regexp"

	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/validation"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const ErrInvalidConfig = errors.Error("invalid lint config")

// Config represents the linter configuration
type Config struct {
	// Extends specifies rulesets to extend (e.g., "recommended", "all")
	Extends StringList `yaml:"extends,omitempty" json:"extends,omitempty"`

	// DocumentType selects which document-type scoped rules apply
	DocumentType DocumentType `yaml:"document_type,omitempty" json:"document_type,omitempty"`

	// Rules contains per-rule configuration
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-category configuration
	Categories map[string]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// Ignores contains global ignore patterns
	Ignores []IgnorePattern `yaml:"ignores,omitempty" json:"ignores,omitempty"`

	// CustomRules are user-defined rules added to the built-in registry
	CustomRules []CustomRule `yaml:"custom_rules,omitempty" json:"custom_rules,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`
}

// StringList decodes from either a single YAML scalar or a sequence of scalars.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// RuleConfig configures a specific rule
type RuleConfig struct {
	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity. "off" disables the rule.
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Options replace the matching keys of every check's options
	Options Options `yaml:"options,omitempty" json:"options,omitempty"`
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity validation.Severity) validation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// IgnorePattern specifies a pattern for ignoring results. Every field that is set must match.
type IgnorePattern struct {
	// Rule is the rule ID to ignore (empty = all rules)
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Path is a glob over the finding's JSON pointer, "**" crossing segments
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// MessagePattern is a regular expression matched against the message
	MessagePattern string `yaml:"message_pattern,omitempty" json:"message_pattern,omitempty"`
}

// CustomRule is a user-defined rule. Exactly one of Then or Expression must be set.
type CustomRule struct {
	ID          string              `yaml:"id" json:"id"`
	Name        string              `yaml:"name,omitempty" json:"name,omitempty"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Message     string              `yaml:"message,omitempty" json:"message,omitempty"`
	Category    string              `yaml:"category,omitempty" json:"category,omitempty"`
	Severity    validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Formats     []string            `yaml:"formats,omitempty" json:"formats,omitempty"`
	Resolved    *bool               `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	Given       StringList          `yaml:"given" json:"given"`
	Then        []CustomCheck       `yaml:"then,omitempty" json:"then,omitempty"`
	Expression  string              `yaml:"expression,omitempty" json:"expression,omitempty"`
}

// CustomCheck is the config form of a Check.
type CustomCheck struct {
	Field           string  `yaml:"field,omitempty" json:"field,omitempty"`
	Function        string  `yaml:"function" json:"function"`
	FunctionOptions Options `yaml:"functionOptions,omitempty" json:"functionOptions,omitempty"`
}

type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatSummary OutputFormat = "summary"
)

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Extends:      StringList{RulesetAll},
		Rules:        make(map[string]RuleConfig),
		Categories:   make(map[string]CategoryConfig),
		OutputFormat: OutputFormatText,
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	if c.DocumentType != "" && !c.DocumentType.Valid() {
		return ErrInvalidConfig.Wrapf("unknown document_type %q", c.DocumentType)
	}
	switch c.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON, OutputFormatSummary:
	default:
		return ErrInvalidConfig.Wrapf("unknown output_format %q", c.OutputFormat)
	}
	for i, ignore := range c.Ignores {
		if _, err := compileIgnore(ignore); err != nil {
			return ErrInvalidConfig.Wrapf("ignores[%d]: %s", i, err.Error())
		}
	}
	for i, rule := range c.CustomRules {
		if rule.ID == "" {
			return ErrInvalidConfig.Wrapf("custom_rules[%d]: id is required", i)
		}
		if (len(rule.Then) == 0) == (rule.Expression == "") {
			return ErrInvalidConfig.Wrapf("custom_rules[%d] %s: exactly one of then or expression is required", i, rule.ID)
		}
	}
	return nil
}

type ignoreMatcher struct {
	pattern IgnorePattern
	message *regexp.Regexp
}

func compileIgnore(p IgnorePattern) (*ignoreMatcher, error) {
	if p.Rule == "" && p.Path == "" && p.MessagePattern == "" {
		return nil, fmt.Errorf("at least one of rule, path or message_pattern is required")
	}
	m := &ignoreMatcher{pattern: p}
	if p.Path != "" && !doublestar.ValidatePattern(p.Path) {
		return nil, fmt.Errorf("invalid path pattern %q", p.Path)
	}
	if p.MessagePattern != "" {
		re, err := regexp.Compile(p.MessagePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid message_pattern: %w", err)
		}
		m.message = re
	}
	return m, nil
}

func (m *ignoreMatcher) matches(vErr *validation.Error) bool {
	if m.pattern.Rule != "" && m.pattern.Rule != vErr.Rule {
		return false
	}
	if m.pattern.Path != "" {
		ok, err := doublestar.Match(m.pattern.Path, vErr.Pointer())
		if err != nil || !ok {
			return false
		}
	}
	if m.message != nil && !m.message.MatchString(vErr.Message()) {
		return false
	}
	return true
}
