package rules_test

import (
	"regexp"
	"testing"

	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/rules"
	"github.com/apimlint/apimlint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruleIDPattern = regexp.MustCompile(`^[a-z]+(-[a-z0-9]+)+$`)

func TestNewRegistry_Success(t *testing.T) {
	t.Parallel()

	registry, err := rules.NewRegistry()
	require.NoError(t, err)

	all := rules.All()
	assert.Len(t, registry.AllRuleIDs(), len(all))
	assert.ElementsMatch(t, []string{
		rules.CategoryNaming,
		rules.CategoryResponses,
		rules.CategorySchemas,
		rules.CategoryExtensions,
		rules.CategoryDocumentation,
		rules.CategoryVersioning,
	}, registry.AllCategories())

	for _, name := range []string{linter.RulesetAll, rules.RulesetRecommended, rules.RulesetARM, rules.RulesetDataPlane} {
		ids, ok := registry.GetRuleset(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, ids, name)
	}
}

func TestAll_Metadata(t *testing.T) {
	t.Parallel()

	names := make(map[string]string)
	for _, rule := range rules.All() {
		assert.Regexp(t, ruleIDPattern, rule.ID)
		assert.Regexp(t, "^"+rule.Category+"-", rule.ID, "rule IDs are prefixed with their category")
		assert.NotEmpty(t, rule.Name, rule.ID)
		assert.NotEmpty(t, rule.Summary, rule.ID)
		assert.NotEmpty(t, rule.Description, rule.ID)
		assert.NotEmpty(t, rule.Link, rule.ID)
		assert.NotEmpty(t, rule.Severity, rule.ID)

		if other, ok := names[rule.Name]; ok {
			t.Errorf("rules %s and %s share the name %s", rule.ID, other, rule.Name)
		}
		names[rule.Name] = rule.ID
	}
}

func TestAll_ReturnsFreshCopies(t *testing.T) {
	t.Parallel()

	first := rules.All()
	first[0].Severity = validation.SeverityHint
	first[0].Given[0] = "$"

	second := rules.All()
	assert.NotEqual(t, validation.SeverityHint, second[0].Severity)
	assert.NotEqual(t, "$", second[0].Given[0])
}

func TestRulesets_DocumentTypes(t *testing.T) {
	t.Parallel()

	registry, err := rules.NewRegistry()
	require.NoError(t, err)

	arm, _ := registry.GetRuleset(rules.RulesetARM)
	dataPlane, _ := registry.GetRuleset(rules.RulesetDataPlane)

	assert.Contains(t, arm, rules.RuleSchemasProvisioningState)
	assert.NotContains(t, dataPlane, rules.RuleSchemasProvisioningState)
	assert.Contains(t, dataPlane, rules.RuleNamingPathSegmentCasing)
	assert.NotContains(t, arm, rules.RuleNamingPathSegmentCasing)
	assert.Contains(t, arm, rules.RuleNamingGetInOperationName)
	assert.Contains(t, dataPlane, rules.RuleNamingGetInOperationName)

	assert.Contains(t, registry.RulesetsContaining(rules.RuleNamingGetInOperationName), rules.RulesetRecommended)
}
