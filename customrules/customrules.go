// Package customrules turns the custom_rules section of a lint configuration into rule
// descriptors. A custom rule either applies catalogue functions to the nodes its selectors match,
// or evaluates a CEL expression against them.
package customrules

import (
	"fmt"
	"slices"

	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/linter"
	"github.com/google/cel-go/cel"
)

const (
	ErrInvalidCustomRule = errors.Error("invalid custom rule")
	ErrInvalidExpression = errors.Error("invalid expression")
)

const (
	// RulesetCustom holds every custom rule loaded by Apply.
	RulesetCustom = "custom"
	// CategoryCustom is the category of custom rules that do not name one.
	CategoryCustom = "custom"
)

// CostLimit bounds the work a single expression evaluation may do.
const CostLimit = 1_000_000

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("node", cel.DynType),
		cel.Variable("path", cel.ListType(cel.StringType)),
	)
}

// Load converts custom rule configuration into rule descriptors. Functions are looked up in
// catalogue and expressions are compiled, so configuration errors surface before linting starts.
func Load(cfgs []linter.CustomRule, catalogue *linter.Catalogue) ([]*linter.Rule, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	rules := make([]*linter.Rule, 0, len(cfgs))
	for _, cfg := range cfgs {
		rule, err := load(env, cfg, catalogue)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func load(env *cel.Env, cfg linter.CustomRule, catalogue *linter.Catalogue) (*linter.Rule, error) {
	if cfg.ID == "" {
		return nil, ErrInvalidCustomRule.Wrapf("id is required")
	}
	if len(cfg.Given) == 0 {
		return nil, ErrInvalidCustomRule.Wrapf("%s: at least one selector is required", cfg.ID)
	}
	if (len(cfg.Then) == 0) == (cfg.Expression == "") {
		return nil, ErrInvalidCustomRule.Wrapf("%s: exactly one of then or expression is required", cfg.ID)
	}

	rule := &linter.Rule{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Summary:     cfg.Description,
		Description: cfg.Description,
		Message:     cfg.Message,
		Category:    cfg.Category,
		Severity:    cfg.Severity,
		Formats:     slices.Clone(cfg.Formats),
		Resolved:    cfg.Resolved == nil || *cfg.Resolved,
		Given:       slices.Clone(cfg.Given),
	}
	if rule.Name == "" {
		rule.Name = cfg.ID
	}
	if rule.Category == "" {
		rule.Category = CategoryCustom
	}

	if cfg.Expression != "" {
		run, err := compileExpression(env, cfg.Expression)
		if err != nil {
			return nil, ErrInvalidExpression.Wrapf("%s: %s", cfg.ID, err.Error())
		}
		rule.Then = []linter.Check{{Function: "expression", Func: run}}
		return rule, nil
	}

	for _, check := range cfg.Then {
		if _, ok := catalogue.Lookup(check.Function); !ok {
			return nil, linter.ErrUnknownFunction.Wrapf("%s: %s", cfg.ID, check.Function)
		}
		rule.Then = append(rule.Then, linter.Check{
			Field:    check.Field,
			Function: check.Function,
			Options:  check.FunctionOptions,
		})
	}
	return rule, nil
}

// compileExpression builds a predicate that reports the node when expr evaluates to true.
// Results of other types and evaluation errors, such as a field missing from the node, report
// nothing.
func compileExpression(env *cel.Env, expr string) (linter.Func, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must evaluate to a bool, got %s", t)
	}

	prg, err := env.Program(ast, cel.CostLimit(CostLimit))
	if err != nil {
		return nil, err
	}

	return func(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
		var path []string
		if mctx != nil {
			path = mctx.Path
		}
		if path == nil {
			path = []string{}
		}

		out, _, err := prg.Eval(map[string]any{"node": node, "path": path})
		if err != nil {
			return nil
		}
		if matched, ok := out.Value().(bool); !ok || !matched {
			return nil
		}
		return []linter.Finding{mctx.Finding(fmt.Sprintf("expression %q matched", expr))}
	}, nil
}

// Apply loads the configured custom rules into a copy of registry under the custom ruleset and
// enables that ruleset in config. It returns registry unchanged when there are no custom rules.
func Apply(config *linter.Config, registry *linter.Registry) (*linter.Registry, error) {
	if config == nil || len(config.CustomRules) == 0 {
		return registry, nil
	}

	rules, err := Load(config.CustomRules, registry.Catalogue())
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.ID)
	}
	next, err := registry.With(rules, linter.Ruleset{Name: RulesetCustom, RuleIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to register custom rules: %w", err)
	}

	if !slices.Contains(config.Extends, linter.RulesetAll) && !slices.Contains(config.Extends, RulesetCustom) {
		config.Extends = append(config.Extends, RulesetCustom)
	}
	return next, nil
}
