package linter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/validation"
)

const (
	ErrInvalidRule    = errors.Error("invalid rule")
	ErrDuplicateRule  = errors.Error("duplicate rule")
	ErrInvalidRuleset = errors.Error("invalid ruleset")
)

// RulesetAll is implicitly defined by every registry and contains every rule.
const RulesetAll = "all"

// Ruleset is a named group of rule IDs.
type Ruleset struct {
	Name    string
	RuleIDs []string
}

// Registry is an immutable, validated set of rules and rulesets. Every selector, function
// reference and option set is checked when the registry is built so evaluation never has to.
type Registry struct {
	catalogue *Catalogue
	rules     map[string]*compiledRule
	order     []string
	rulesets  map[string][]string
}

type compiledRule struct {
	rule   *Rule
	given  []*document.Selector
	checks []compiledCheck
}

type compiledCheck struct {
	check Check
	run   Func
	field []string
	key   bool
}

// NewRegistry validates rules against catalogue and builds a registry.
func NewRegistry(catalogue *Catalogue, rules []*Rule, rulesets ...Ruleset) (*Registry, error) {
	r := &Registry{
		catalogue: catalogue,
		rules:     make(map[string]*compiledRule, len(rules)),
		rulesets:  make(map[string][]string),
	}
	if err := r.addRules(rules); err != nil {
		return nil, err
	}
	if err := r.addRulesets(rulesets); err != nil {
		return nil, err
	}
	return r, nil
}

// With returns a new registry containing the receiver's rules and rulesets plus the given ones.
// The receiver is not modified.
func (r *Registry) With(rules []*Rule, rulesets ...Ruleset) (*Registry, error) {
	next := &Registry{
		catalogue: r.catalogue,
		rules:     make(map[string]*compiledRule, len(r.rules)+len(rules)),
		order:     slices.Clone(r.order),
		rulesets:  make(map[string][]string, len(r.rulesets)),
	}
	for id, cr := range r.rules {
		next.rules[id] = cr
	}
	for name, ids := range r.rulesets {
		next.rulesets[name] = slices.Clone(ids)
	}
	if err := next.addRules(rules); err != nil {
		return nil, err
	}
	if err := next.addRulesets(rulesets); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *Registry) addRules(rules []*Rule) error {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if _, exists := r.rules[rule.ID]; exists {
			return ErrDuplicateRule.Wrapf("%s", rule.ID)
		}
		cr, err := compileRule(r.catalogue, rule)
		if err != nil {
			return err
		}
		r.rules[rule.ID] = cr
		r.order = append(r.order, rule.ID)
	}
	slices.Sort(r.order)
	return nil
}

func (r *Registry) addRulesets(rulesets []Ruleset) error {
	for _, rs := range rulesets {
		if rs.Name == "" || rs.Name == RulesetAll {
			return ErrInvalidRuleset.Wrapf("ruleset name %q is reserved", rs.Name)
		}
		if _, exists := r.rulesets[rs.Name]; exists {
			return ErrInvalidRuleset.Wrapf("ruleset %q already registered", rs.Name)
		}
		for _, id := range rs.RuleIDs {
			if _, ok := r.rules[id]; !ok {
				return ErrInvalidRuleset.Wrapf("ruleset %q: rule %q not found", rs.Name, id)
			}
		}
		r.rulesets[rs.Name] = slices.Clone(rs.RuleIDs)
	}
	return nil
}

func compileRule(catalogue *Catalogue, rule *Rule) (*compiledRule, error) {
	fail := func(format string, args ...any) error {
		return ErrInvalidRule.Wrapf("%s: %s", rule.ID, fmt.Sprintf(format, args...))
	}

	if rule.ID == "" {
		return nil, ErrInvalidRule.Wrapf("rule ID must not be empty")
	}
	if len(rule.Given) == 0 {
		return nil, fail("at least one selector is required")
	}
	if len(rule.Then) == 0 {
		return nil, fail("at least one check is required")
	}
	if rule.Severity != "" && rule.Severity.Rank() > validation.SeverityHint.Rank() {
		return nil, fail("unsupported severity %q", rule.Severity)
	}
	switch rule.MergeState {
	case "", MergeStateIndividual, MergeStateComposed:
	default:
		return nil, fail("unknown merge state %q", rule.MergeState)
	}
	for _, t := range rule.DocumentTypes {
		if !t.Valid() {
			return nil, fail("unknown document type %q", t)
		}
	}

	cr := &compiledRule{rule: rule}
	for _, expr := range rule.Given {
		sel, err := document.CompileSelector(expr)
		if err != nil {
			return nil, fail("%s", err.Error())
		}
		cr.given = append(cr.given, sel)
	}

	for i, check := range rule.Then {
		cc := compiledCheck{check: check, run: check.Func}
		if cc.run == nil {
			fn, ok := catalogue.Lookup(check.Function)
			if !ok {
				return nil, fail("check %d: %s", i, ErrUnknownFunction.Wrapf("%s", check.Function).Error())
			}
			if err := catalogue.ValidateOptions(check.Function, check.Options); err != nil {
				return nil, fail("check %d: %s", i, err.Error())
			}
			cc.run = fn.Run
		}
		switch {
		case check.Field == "@key":
			cc.key = true
		case check.Field != "":
			cc.field = strings.Split(check.Field, ".")
		}
		cr.checks = append(cr.checks, cc)
	}

	return cr, nil
}

// Catalogue returns the function catalogue rules were validated against.
func (r *Registry) Catalogue() *Catalogue {
	return r.catalogue
}

// GetRule returns the rule with the given ID.
func (r *Registry) GetRule(id string) (*Rule, bool) {
	cr, ok := r.rules[id]
	if !ok {
		return nil, false
	}
	return cr.rule, true
}

// GetRuleset returns the IDs of the rules in the named ruleset.
func (r *Registry) GetRuleset(name string) ([]string, bool) {
	if name == RulesetAll {
		return r.AllRuleIDs(), true
	}
	ids, ok := r.rulesets[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(ids), true
}

// AllRules returns every rule sorted by ID.
func (r *Registry) AllRules() []*Rule {
	rules := make([]*Rule, 0, len(r.order))
	for _, id := range r.order {
		rules = append(rules, r.rules[id].rule)
	}
	return rules
}

// AllRuleIDs returns every rule ID, sorted.
func (r *Registry) AllRuleIDs() []string {
	return slices.Clone(r.order)
}

// AllCategories returns the distinct rule categories, sorted.
func (r *Registry) AllCategories() []string {
	var categories []string
	for _, id := range r.order {
		category := r.rules[id].rule.Category
		if category != "" && !slices.Contains(categories, category) {
			categories = append(categories, category)
		}
	}
	slices.Sort(categories)
	return categories
}

// AllRulesets returns the ruleset names including "all", sorted.
func (r *Registry) AllRulesets() []string {
	names := []string{RulesetAll}
	for name := range r.rulesets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RulesetsContaining returns the names of rulesets that include the rule, sorted.
func (r *Registry) RulesetsContaining(ruleID string) []string {
	if _, ok := r.rules[ruleID]; !ok {
		return nil
	}
	names := []string{RulesetAll}
	for name, ids := range r.rulesets {
		if slices.Contains(ids, ruleID) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (r *Registry) compiled(id string) (*compiledRule, bool) {
	cr, ok := r.rules[id]
	return cr, ok
}
