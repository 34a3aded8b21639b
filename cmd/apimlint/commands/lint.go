package commands

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apimlint/apimlint/customrules"
	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/rules"
	"github.com/spf13/cobra"
)

// ErrLintFailed is returned when error severity findings were reported.
const ErrLintFailed = errors.Error("linting failed")

type lintOptions struct {
	outputFormat  string
	ruleset       string
	configFile    string
	disableRules  []string
	documentType  string
	summary       bool
	verbose       bool
	concurrency   int
	composedLabel string
}

// NewLintCommand returns the lint command.
func NewLintCommand() *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint <file|glob>...",
		Short: "Lint OpenAPI and Swagger documents",
		Long: `Lint OpenAPI and Swagger documents against the APIM ruleset.

Arguments are files or doublestar glob patterns such as "specs/**/*.json".
Use '-' to read a document from stdin:
  cat widgets.yaml | apimlint lint -

When several documents are given, rules that check the API as a whole, such as
x-ms-paths overloads, run once against all documents merged together.

CONFIGURATION:

By default, the linter looks for a configuration file at ~/.apimlint/lint.yaml.
Use --config to specify a custom configuration file.

Available rulesets: all (default), recommended, arm, data-plane

Example configuration (lint.yaml):

  extends: recommended
  document_type: arm

  rules:
    naming-get-in-operation-name:
      severity: error
    schemas-valid-formats:
      enabled: false

  ignores:
    - rule: naming-camel-case-properties
      path: /definitions/Legacy*/**

  custom_rules:
    - id: custom-title-length
      given: $.info.title
      expression: size(node) > 64
      message: title too long

The command exits with status 1 when error severity findings are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", "", "Output format: text, json or summary (default from config, else text)")
	cmd.Flags().StringVarP(&opts.ruleset, "ruleset", "r", "", "Ruleset to use (default loads from config)")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to lint config file (default: ~/.apimlint/lint.yaml)")
	cmd.Flags().StringSliceVarP(&opts.disableRules, "disable", "d", nil, "Rule IDs to disable (can be repeated)")
	cmd.Flags().StringVarP(&opts.documentType, "type", "t", "", "Document type: arm (default), data-plane or default")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a per-rule summary table of findings")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum rules evaluated in parallel (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.composedLabel, "composed-name", "composed", "Location reported for findings against the merged documents")

	return cmd
}

func runLint(cmd *cobra.Command, opts *lintOptions, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := newLogger(stderr, opts.verbose)
	start := time.Now()

	config, err := buildLintConfig(opts, logger)
	if err != nil {
		return err
	}

	registry, err := rules.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build rule registry: %w", err)
	}
	registry, err = customrules.Apply(config, registry)
	if err != nil {
		return fmt.Errorf("failed to load custom rules: %w", err)
	}

	lntr, err := linter.NewLinter(config, registry)
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}
	logger.Debug("linter ready", "rules", len(lntr.EnabledRules()), "rulesets", []string(config.Extends))

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	docs, err := loadInputs(ctx, files, cmd.InOrStdin())
	if err != nil {
		return err
	}
	for _, doc := range docs {
		logger.Debug("loaded document", "location", doc.Location, "format", doc.Format)
	}

	output, err := lntr.Lint(ctx, docs, &linter.LintOptions{
		ComposedLocation: opts.composedLabel,
		Concurrency:      opts.concurrency,
	})
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	for _, w := range output.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	fmt.Fprintln(stdout, output.String())
	if opts.summary && output.Format != linter.OutputFormatSummary {
		fmt.Fprintln(stdout, output.FormatSummary())
	}
	logger.Debug("linting complete", "documents", len(docs), "results", len(output.Results), "elapsed", elapsed(time.Since(start)))

	if output.HasErrors() {
		return ErrLintFailed.Wrapf("found %d errors", output.ErrorCount())
	}
	return nil
}

func buildLintConfig(opts *lintOptions, logger *slog.Logger) (*linter.Config, error) {
	config := linter.NewConfig()

	if opts.configFile != "" {
		loaded, err := linter.LoadConfigFromFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(homeDir, ".apimlint", "lint.yaml")
		switch _, statErr := os.Stat(defaultPath); {
		case statErr == nil:
			loaded, err := linter.LoadConfigFromFile(defaultPath)
			if err != nil {
				return nil, err
			}
			logger.Debug("loaded default config", "path", defaultPath)
			config = loaded
		case !errors.Is(statErr, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read default config: %w", statErr)
		}
	}

	if opts.ruleset != "" {
		config.Extends = linter.StringList{opts.ruleset}
	}

	if config.Rules == nil {
		config.Rules = make(map[string]linter.RuleConfig)
	}
	for _, id := range opts.disableRules {
		disabled := false
		rc := config.Rules[id]
		rc.Enabled = &disabled
		config.Rules[id] = rc
	}

	if opts.documentType != "" {
		config.DocumentType = linter.DocumentType(opts.documentType)
	}

	switch opts.outputFormat {
	case "":
	case "text", "json", "summary":
		config.OutputFormat = linter.OutputFormat(opts.outputFormat)
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.outputFormat)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// newLogger returns a logger that discards everything unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func elapsed(d time.Duration) time.Duration {
	rounded := d.Round(time.Millisecond)
	if rounded < time.Millisecond {
		rounded = time.Millisecond
	}
	return rounded
}
