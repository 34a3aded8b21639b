package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/rules"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetsDoc = `swagger: "2.0"
info:
  title: Widgets
  version: "2024-01-01"
paths:
  /widgets:
    get:
      operationId: Widgets_Fetch
      description: Lists widgets.
      responses:
        "200":
          description: The widgets.
`

const titleRuleConfig = `extends: custom
custom_rules:
  - id: title-length
    severity: error
    message: "Title '{{value}}' is too long."
    given: $.info.title
    expression: size(node) > %d
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// An empty home keeps a developer's ~/.apimlint/lint.yaml out of the run.
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type jsonReport struct {
	Results []struct {
		Rule     string `json:"rule"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Location struct {
			Pointer string `json:"pointer"`
		} `json:"location"`
	} `json:"results"`
	Summary struct {
		Total  int `json:"total"`
		Errors int `json:"errors"`
	} `json:"summary"`
}

func TestLintCommand_ReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	stdout, _, err := execute(t, NewLintCommand(), "", "-r", rules.RulesetRecommended, path)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrLintFailed)
	assert.Contains(t, stdout, rules.RuleNamingGetInOperationName)
	assert.Contains(t, stdout, "'GET' operation 'Widgets_Fetch' should use method name 'Get' or method name start with 'List'")
}

func TestLintCommand_JSONOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	stdout, _, err := execute(t, NewLintCommand(), "", "-r", rules.RulesetRecommended, "-f", "json", path)
	require.ErrorIs(t, err, ErrLintFailed)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.NotEmpty(t, report.Results)
	assert.Equal(t, len(report.Results), report.Summary.Total)

	var pointers []string
	for _, r := range report.Results {
		if r.Rule == rules.RuleNamingGetInOperationName {
			pointers = append(pointers, r.Location.Pointer)
			assert.Equal(t, "error", r.Severity)
		}
	}
	assert.Equal(t, []string{"/paths/~1widgets/get/operationId"}, pointers)
}

func TestLintCommand_DisableRule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	stdout, _, _ := execute(t, NewLintCommand(), "", "-r", rules.RulesetRecommended, "-d", rules.RuleNamingGetInOperationName, path)
	assert.NotContains(t, stdout, rules.RuleNamingGetInOperationName)
}

func TestLintCommand_DisableUnknownRule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	_, _, err := execute(t, NewLintCommand(), "", "-d", "no-such-rule", path)
	require.Error(t, err)
	require.ErrorIs(t, err, linter.ErrInvalidConfig)
	assert.NotErrorIs(t, err, ErrLintFailed)
}

func TestLintCommand_Stdin(t *testing.T) {
	stdout, _, err := execute(t, NewLintCommand(), widgetsDoc, "-r", rules.RulesetRecommended, "-")
	require.ErrorIs(t, err, ErrLintFailed)
	assert.Contains(t, stdout, rules.RuleNamingGetInOperationName)
}

func TestLintCommand_ConfigFile(t *testing.T) {
	tests := []struct {
		name     string
		maxTitle int
		wantErr  bool
	}{
		{name: "title too long", maxTitle: 5, wantErr: true},
		{name: "title within limit", maxTitle: 64, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			doc := writeFile(t, dir, "widgets.yaml", widgetsDoc)
			config := writeFile(t, dir, "lint.yaml", fmt.Sprintf(titleRuleConfig, tt.maxTitle))

			stdout, _, err := execute(t, NewLintCommand(), "", "-c", config, doc)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotContains(t, stdout, "title-length")
				return
			}
			require.ErrorIs(t, err, ErrLintFailed)
			assert.Contains(t, stdout, "Title 'Widgets' is too long.")
			assert.NotContains(t, stdout, rules.RuleNamingGetInOperationName, "only the custom ruleset is extended")
		})
	}
}

func TestLintCommand_DefaultConfig(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, filepath.Join(".apimlint", "lint.yaml"), fmt.Sprintf(titleRuleConfig, 5))
	doc := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	cmd := NewLintCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{doc})
	t.Setenv("HOME", home)

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrLintFailed)
	assert.Contains(t, stdout.String(), "Title 'Widgets' is too long.")
}

func TestLintCommand_InvalidFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "widgets.yaml", widgetsDoc)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"-f", "xml", path}},
		{name: "unknown document type", args: []string{"-t", "graphql", path}},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewLintCommand(), "", tt.args...)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrLintFailed))
		})
	}
}

func TestExpandInputs_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", widgetsDoc)
	b := writeFile(t, dir, filepath.Join("nested", "b.yaml"), widgetsDoc)
	writeFile(t, dir, "notes.txt", "not a document")
	missing := filepath.Join(dir, "missing.json")

	files, err := expandInputs([]string{filepath.Join(dir, "**", "*.yaml"), a, StdinIndicator, missing, StdinIndicator})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, StdinIndicator, missing}, files)
}

func TestExpandInputs_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := expandInputs([]string{"specs/[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file pattern")
}

func TestRulesList(t *testing.T) {
	t.Parallel()

	t.Run("text grouped by category", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		require.NoError(t, runListRules(&out, &listRulesOptions{format: "text", category: "naming"}))
		assert.Contains(t, out.String(), "NAMING (")
		assert.Contains(t, out.String(), rules.RuleNamingGetInOperationName)
		assert.NotContains(t, out.String(), rules.RuleSchemasValidFormats)
	})

	t.Run("json filtered by ruleset", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		require.NoError(t, runListRules(&out, &listRulesOptions{format: "json", ruleset: rules.RulesetDataPlane}))

		var infos []ruleInfo
		require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
		require.NotEmpty(t, infos)
		for _, info := range infos {
			assert.Contains(t, info.Rulesets, rules.RulesetDataPlane, info.ID)
			assert.NotEqual(t, rules.RuleSchemasProvisioningState, info.ID)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		require.NoError(t, runListRules(&out, &listRulesOptions{format: "text", category: "nothing"}))
		assert.Contains(t, out.String(), "No rules found")
	})

	t.Run("unknown ruleset", func(t *testing.T) {
		t.Parallel()
		err := runListRules(&bytes.Buffer{}, &listRulesOptions{format: "text", ruleset: "nothing"})
		require.ErrorIs(t, err, linter.ErrInvalidRuleset)
	})
}

func TestRulesDocs(t *testing.T) {
	t.Parallel()

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		cmd := NewRulesCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"docs"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), rules.RuleResponsesConsistentPutGet)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		cmd := NewRulesCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"docs", "--format", "json"})
		require.NoError(t, cmd.Execute())
		assert.True(t, json.Valid(out.Bytes()))
	})
}
