package linter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DocGenerator generates documentation from registered rules
type DocGenerator struct {
	registry *Registry
}

// NewDocGenerator creates a new documentation generator
func NewDocGenerator(registry *Registry) *DocGenerator {
	return &DocGenerator{registry: registry}
}

// RuleDoc represents documentation for a single rule
type RuleDoc struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name,omitempty" yaml:"name,omitempty"`
	Category        string     `json:"category" yaml:"category"`
	Summary         string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description     string     `json:"description" yaml:"description"`
	Rationale       string     `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Link            string     `json:"link,omitempty" yaml:"link,omitempty"`
	DefaultSeverity string     `json:"default_severity" yaml:"default_severity"`
	Formats         []string   `json:"formats,omitempty" yaml:"formats,omitempty"`
	DocumentTypes   []string   `json:"document_types,omitempty" yaml:"document_types,omitempty"`
	MergeState      string     `json:"merge_state" yaml:"merge_state"`
	Resolved        bool       `json:"resolved" yaml:"resolved"`
	Given           []string   `json:"given" yaml:"given"`
	Checks          []CheckDoc `json:"checks" yaml:"checks"`
	GoodExample     string     `json:"good_example,omitempty" yaml:"good_example,omitempty"`
	BadExample      string     `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	Rulesets        []string   `json:"rulesets" yaml:"rulesets"`
}

// CheckDoc documents one check of a rule.
type CheckDoc struct {
	Field    string  `json:"field,omitempty" yaml:"field,omitempty"`
	Function string  `json:"function" yaml:"function"`
	Options  Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// GenerateRuleDoc generates documentation for a single rule
func (g *DocGenerator) GenerateRuleDoc(rule *Rule) *RuleDoc {
	doc := &RuleDoc{
		ID:              rule.ID,
		Name:            rule.Name,
		Category:        rule.Category,
		Summary:         rule.Summary,
		Description:     rule.Description,
		Rationale:       rule.Rationale,
		Link:            rule.Link,
		DefaultSeverity: rule.defaultSeverity().String(),
		Formats:         rule.Formats,
		MergeState:      string(rule.mergeState()),
		Resolved:        rule.Resolved,
		Given:           rule.Given,
		GoodExample:     rule.GoodExample,
		BadExample:      rule.BadExample,
		Rulesets:        g.registry.RulesetsContaining(rule.ID),
	}
	for _, t := range rule.DocumentTypes {
		doc.DocumentTypes = append(doc.DocumentTypes, string(t))
	}
	for _, check := range rule.Then {
		name := check.Function
		if name == "" {
			name = "custom"
		}
		doc.Checks = append(doc.Checks, CheckDoc{Field: check.Field, Function: name, Options: check.Options})
	}

	return doc
}

// GenerateAllRuleDocs generates documentation for all registered rules
func (g *DocGenerator) GenerateAllRuleDocs() []*RuleDoc {
	var docs []*RuleDoc
	for _, rule := range g.registry.AllRules() {
		docs = append(docs, g.GenerateRuleDoc(rule))
	}
	return docs
}

// GenerateCategoryDocs groups rules by category
func (g *DocGenerator) GenerateCategoryDocs() map[string][]*RuleDoc {
	categories := make(map[string][]*RuleDoc)
	for _, rule := range g.registry.AllRules() {
		doc := g.GenerateRuleDoc(rule)
		categories[doc.Category] = append(categories[doc.Category], doc)
	}
	return categories
}

// WriteJSON writes rule documentation as JSON
func (g *DocGenerator) WriteJSON(w io.Writer) error {
	docs := g.GenerateAllRuleDocs()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"rules":      docs,
		"categories": g.registry.AllCategories(),
		"rulesets":   g.registry.AllRulesets(),
	})
}

// WriteMarkdown writes rule documentation as Markdown, categories in sorted order.
func (g *DocGenerator) WriteMarkdown(w io.Writer) error {
	docs := g.GenerateCategoryDocs()
	categories := g.registry.AllCategories()

	if err := writeLine(w, "# APIM Lint Rules Reference"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	if err := writeLine(w, "## Categories"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	for _, category := range categories {
		if err := writeF(w, "- [%s](#%s)\n", category, category); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	for _, category := range categories {
		if err := writeF(w, "## %s\n\n", category); err != nil {
			return err
		}
		for _, rule := range docs[category] {
			if err := g.writeRuleMarkdown(w, rule); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *DocGenerator) writeRuleMarkdown(w io.Writer, rule *RuleDoc) error {
	if err := writeF(w, "### %s\n\n", rule.ID); err != nil {
		return err
	}
	if rule.Name != "" {
		if err := writeF(w, "**Name:** %s  \n", rule.Name); err != nil {
			return err
		}
	}
	if err := writeF(w, "**Severity:** %s  \n", rule.DefaultSeverity); err != nil {
		return err
	}
	if err := writeF(w, "**Category:** %s  \n", rule.Category); err != nil {
		return err
	}
	if rule.Summary != "" {
		if err := writeF(w, "**Summary:** %s  \n", rule.Summary); err != nil {
			return err
		}
	}
	if len(rule.Formats) > 0 {
		if err := writeF(w, "**Applies to:** %s  \n", strings.Join(rule.Formats, ", ")); err != nil {
			return err
		}
	}
	if len(rule.DocumentTypes) > 0 {
		if err := writeF(w, "**Document types:** %s  \n", strings.Join(rule.DocumentTypes, ", ")); err != nil {
			return err
		}
	}
	if rule.MergeState == string(MergeStateComposed) {
		if err := writeLine(w, "**Evaluated on:** composed document  "); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	if err := writeF(w, "%s\n\n", rule.Description); err != nil {
		return err
	}

	if rule.Rationale != "" {
		if err := writeF(w, "#### Rationale\n\n%s\n\n", rule.Rationale); err != nil {
			return err
		}
	}

	if err := writeExample(w, "#### ❌ Incorrect", rule.BadExample); err != nil {
		return err
	}
	if err := writeExample(w, "#### ✅ Correct", rule.GoodExample); err != nil {
		return err
	}

	if len(rule.Checks) > 0 {
		if err := writeLine(w, "#### Checks"); err != nil {
			return err
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
		if err := writeLine(w, "| Given | Field | Function | Options |"); err != nil {
			return err
		}
		if err := writeLine(w, "|-------|-------|----------|---------|"); err != nil {
			return err
		}
		given := "`" + strings.Join(rule.Given, "`, `") + "`"
		for _, check := range rule.Checks {
			options := ""
			if len(check.Options) > 0 {
				b, err := json.Marshal(check.Options)
				if err != nil {
					return err
				}
				options = "`" + string(b) + "`"
			}
			if err := writeF(w, "| %s | %s | %s | %s |\n", given, check.Field, check.Function, options); err != nil {
				return err
			}
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
	}

	if rule.Link != "" {
		if err := writeF(w, "[Documentation →](%s)\n\n", rule.Link); err != nil {
			return err
		}
	}

	if err := writeLine(w, "---"); err != nil {
		return err
	}
	return writeEmptyLine(w)
}

func writeExample(w io.Writer, heading, example string) error {
	if example == "" {
		return nil
	}
	for _, line := range []string{heading, "```yaml", example, "```", ""} {
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}

func writeEmptyLine(w io.Writer) error {
	_, err := fmt.Fprintln(w)
	return err
}

func writeF(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
