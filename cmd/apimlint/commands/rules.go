package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/rules"
	"github.com/spf13/cobra"
)

// NewRulesCommand returns the rules command group.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the built-in lint rules",
	}
	cmd.AddCommand(newListRulesCommand())
	cmd.AddCommand(newRuleDocsCommand())
	return cmd
}

type listRulesOptions struct {
	format   string
	category string
	ruleset  string
}

type ruleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	DefaultSeverity string   `json:"defaultSeverity"`
	Summary         string   `json:"summary"`
	Link            string   `json:"link,omitempty"`
	DocumentTypes   []string `json:"documentTypes,omitempty"`
	Rulesets        []string `json:"rulesets"`
}

func newListRulesCommand() *cobra.Command {
	opts := &listRulesOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all available linting rules",
		Long: `List all available linting rules with their metadata.

Shows each rule's ID, category, default severity and summary.
Use --category to filter by category, or --ruleset to show only rules in a ruleset.

Examples:
  apimlint rules list
  apimlint rules list --category naming
  apimlint rules list --ruleset arm
  apimlint rules list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListRules(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.category, "category", "", "Filter by category (e.g., naming, responses, schemas)")
	cmd.Flags().StringVar(&opts.ruleset, "ruleset", "", "Filter by ruleset (e.g., recommended, arm, all)")
	return cmd
}

func runListRules(w io.Writer, opts *listRulesOptions) error {
	registry, err := rules.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build rule registry: %w", err)
	}
	if opts.ruleset != "" {
		if _, ok := registry.GetRuleset(opts.ruleset); !ok {
			return linter.ErrInvalidRuleset.Wrapf("unknown ruleset %q", opts.ruleset)
		}
	}

	gen := linter.NewDocGenerator(registry)
	var infos []ruleInfo
	for _, rule := range registry.AllRules() {
		if opts.category != "" && rule.Category != opts.category {
			continue
		}
		doc := gen.GenerateRuleDoc(rule)
		if opts.ruleset != "" && !slices.Contains(doc.Rulesets, opts.ruleset) {
			continue
		}
		infos = append(infos, ruleInfo{
			ID:              doc.ID,
			Name:            doc.Name,
			Category:        doc.Category,
			DefaultSeverity: doc.DefaultSeverity,
			Summary:         doc.Summary,
			Link:            doc.Link,
			DocumentTypes:   doc.DocumentTypes,
			Rulesets:        doc.Rulesets,
		})
	}

	switch opts.format {
	case "json":
		return printRulesJSON(w, infos)
	case "text":
		return printRulesText(w, infos, registry.AllCategories())
	default:
		return fmt.Errorf("unsupported output format %q", opts.format)
	}
}

func printRulesText(w io.Writer, infos []ruleInfo, categories []string) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No rules found matching the specified filters.")
		return err
	}

	byCategory := make(map[string][]ruleInfo)
	for _, info := range infos {
		byCategory[info.Category] = append(byCategory[info.Category], info)
	}

	for _, cat := range categories {
		group, ok := byCategory[cat]
		if !ok {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d rules)\n", strings.ToUpper(cat), len(group))
		fmt.Fprintln(w, strings.Repeat("─", 80))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, info := range group {
			fmt.Fprintf(tw, "  %s\t%s\t[%s]\n", info.ID, info.Summary, info.DefaultSeverity)
			if len(info.DocumentTypes) > 0 {
				fmt.Fprintf(tw, "  \tDocument types: %s\n", strings.Join(info.DocumentTypes, ", "))
			}
			fmt.Fprintf(tw, "  \tRulesets: %s\n", strings.Join(info.Rulesets, ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d rules total\n", len(infos))
	return err
}

func printRulesJSON(w io.Writer, infos []ruleInfo) error {
	if infos == nil {
		infos = []ruleInfo{}
	}
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newRuleDocsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the rule reference",
		Long: `Generate the rule reference in Markdown or JSON.

Examples:
  apimlint rules docs > rules/README.md
  apimlint rules docs --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := rules.NewRegistry()
			if err != nil {
				return fmt.Errorf("failed to build rule registry: %w", err)
			}
			gen := linter.NewDocGenerator(registry)
			switch format {
			case "markdown":
				return gen.WriteMarkdown(cmd.OutOrStdout())
			case "json":
				return gen.WriteJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported output format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json")
	return cmd
}
