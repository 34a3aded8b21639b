package linter

import (
	"context"
	"runtime"
	"slices"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/validation"
	"golang.org/x/sync/errgroup"
)

// ErrRulePanic is wrapped into the internal error reported when a predicate panics.
const ErrRulePanic = errors.Error("rule evaluation failed")

// Linter is the main linting engine
type Linter struct {
	config   *Config
	registry *Registry
	enabled  []*enabledRule
	ignores  []*ignoreMatcher
}

// enabledRule is a rule with its configuration resolved.
type enabledRule struct {
	*compiledRule
	severity validation.Severity
	options  Options
}

// LintOptions adjusts a single Lint call.
type LintOptions struct {
	// DocumentType overrides the configured document type when set
	DocumentType DocumentType
	// ComposedLocation names the merged document composed rules report against
	ComposedLocation string
	// Concurrency bounds parallel rule evaluations. Zero uses GOMAXPROCS.
	Concurrency int
}

// NewLinter creates a new linter with the given configuration. Rule option overrides are
// validated against the option schemas of the functions they configure.
func NewLinter(config *Config, registry *Registry) (*Linter, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l := &Linter{
		config:   config,
		registry: registry,
	}

	for id, rc := range config.Rules {
		if _, ok := registry.compiled(id); !ok {
			return nil, ErrInvalidConfig.Wrapf("rules: unknown rule %q", id)
		}
		if rc.Options == nil {
			continue
		}
		cr, _ := registry.compiled(id)
		for _, cc := range cr.checks {
			if cc.check.Func != nil {
				continue
			}
			if err := registry.Catalogue().ValidateOptions(cc.check.Function, cc.check.Options.Merge(rc.Options)); err != nil {
				return nil, ErrInvalidConfig.Wrapf("rules.%s.options: %s", id, err.Error())
			}
		}
	}

	for _, ignore := range config.Ignores {
		m, err := compileIgnore(ignore)
		if err != nil {
			return nil, ErrInvalidConfig.Wrap(err)
		}
		l.ignores = append(l.ignores, m)
	}

	for _, id := range l.enabledRuleIDs() {
		cr, _ := registry.compiled(id)
		rc := l.getRuleConfig(id)
		severity := rc.GetSeverity(cr.rule.defaultSeverity())
		if severity == validation.SeverityOff {
			continue
		}
		l.enabled = append(l.enabled, &enabledRule{
			compiledRule: cr,
			severity:     severity,
			options:      rc.Options,
		})
	}

	return l, nil
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *Registry {
	return l.registry
}

// EnabledRules returns the IDs of the rules this linter evaluates, sorted.
func (l *Linter) EnabledRules() []string {
	ids := make([]string, 0, len(l.enabled))
	for _, r := range l.enabled {
		ids = append(ids, r.rule.ID)
	}
	return ids
}

// Lint evaluates the enabled rules. Individual rules run against each document, composed rules
// run once against all documents merged together.
func (l *Linter) Lint(ctx context.Context, docs []*document.Document, opts *LintOptions) (*Output, error) {
	if opts == nil {
		opts = &LintOptions{}
	}
	docType := opts.DocumentType
	if docType == "" {
		docType = l.config.DocumentType
	}
	if docType == "" {
		docType = DefaultDocumentType
	}

	var warnings []string
	for _, doc := range docs {
		warnings = append(warnings, doc.Warnings...)
	}

	type job struct {
		rule *enabledRule
		doc  *document.Document
	}
	var jobs []job
	for _, doc := range docs {
		for _, r := range l.enabled {
			if r.rule.AppliesTo(doc.Format, docType, MergeStateIndividual) {
				jobs = append(jobs, job{rule: r, doc: doc})
			}
		}
	}

	linted := docs
	if composedRules := l.composedRules(); len(composedRules) > 0 && len(docs) > 0 {
		composed, err := l.composedDocument(docs, opts.ComposedLocation)
		if err != nil {
			return nil, err
		}
		if composed != docs[0] {
			warnings = append(warnings, composed.Warnings...)
			linted = append(slices.Clip(docs), composed)
		}
		for _, r := range composedRules {
			if r.rule.AppliesTo(composed.Format, docType, MergeStateComposed) {
				jobs = append(jobs, job{rule: r, doc: composed})
			}
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([][]error, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.runRule(gctx, j.rule, j.doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only documents whose resolved view was used by a rule report resolution problems.
	for _, doc := range linted {
		warnings = append(warnings, doc.ResolveWarnings()...)
	}

	var allErrs []error
	seen := make(map[string]bool)
	for _, errs := range results {
		for _, err := range errs {
			var vErr *validation.Error
			if errors.As(err, &vErr) {
				key := vErr.Rule + "\x00" + vErr.DocumentLocation + "\x00" + vErr.Pointer() + "\x00" + vErr.Message()
				if seen[key] {
					continue
				}
				seen[key] = true
				if l.ignored(vErr) {
					continue
				}
			}
			allErrs = append(allErrs, err)
		}
	}

	// Sort errors by location
	validation.SortValidationErrors(allErrs)

	return &Output{
		Results:  allErrs,
		Format:   l.config.OutputFormat,
		Warnings: warnings,
	}, nil
}

func (l *Linter) composedRules() []*enabledRule {
	var rules []*enabledRule
	for _, r := range l.enabled {
		if r.rule.mergeState() == MergeStateComposed {
			rules = append(rules, r)
		}
	}
	return rules
}

func (l *Linter) composedDocument(docs []*document.Document, location string) (*document.Document, error) {
	if len(docs) == 1 {
		return docs[0], nil
	}
	if location == "" {
		location = "composed"
	}
	return document.Compose(location, docs...)
}

// runRule evaluates one rule against one document. A panicking predicate is reported as a single
// internal error for the pair rather than aborting the run.
func (l *Linter) runRule(ctx context.Context, r *enabledRule, doc *document.Document) (errs []error) {
	defer func() {
		if p := recover(); p != nil {
			errs = []error{ErrRulePanic.Wrapf("rule %s on %s: %v", r.rule.ID, doc.Location, p)}
		}
	}()

	tree := doc.Tree(r.rule.Resolved)
	for _, sel := range r.given {
		for _, match := range tree.Query(sel) {
			if ctx.Err() != nil {
				return errs
			}
			for _, cc := range r.checks {
				path, value := drill(match, cc)
				mctx := &MatchContext{
					Path:     path,
					Document: doc,
					Tree:     tree,
					RuleID:   r.rule.ID,
				}
				for _, f := range cc.run(value, cc.check.Options.Merge(r.options), mctx) {
					if f.Path == nil {
						f.Path = path
					}
					errs = append(errs, l.newFinding(r, doc, tree, f))
				}
			}
		}
	}
	return errs
}

// drill applies a check's field to a match. A missing field yields a nil value so that
// presence predicates can report it.
func drill(match document.Match, cc compiledCheck) (document.Path, any) {
	if cc.key {
		return match.Path, match.Path.Last()
	}
	if len(cc.field) == 0 {
		return match.Path, match.Value
	}

	path := match.Path.Child(cc.field...)
	value := match.Value
	for _, segment := range cc.field {
		obj, ok := value.(map[string]any)
		if !ok {
			return path, nil
		}
		value = obj[segment]
	}
	return path, value
}

func (l *Linter) newFinding(r *enabledRule, doc *document.Document, tree *document.Tree, f Finding) error {
	vErr := validation.NewValidationError(r.severity, r.rule.ID, errors.New(RenderMessage(r.rule, f, tree)), tree.NodeAt(f.Path))
	vErr.Path = slices.Clone(f.Path)
	vErr.DocumentLocation = doc.LocationOf(f.Path)
	return vErr
}

func (l *Linter) ignored(vErr *validation.Error) bool {
	for _, m := range l.ignores {
		if m.matches(vErr) {
			return true
		}
	}
	return false
}

// enabledRuleIDs applies rulesets, then categories, then individual rule settings.
func (l *Linter) enabledRuleIDs() []string {
	ruleStatus := make(map[string]bool)

	for _, ruleset := range l.config.Extends {
		if ids, ok := l.registry.GetRuleset(ruleset); ok {
			for _, id := range ids {
				ruleStatus[id] = true
			}
		}
	}

	// Category config overrides ruleset config but is overridden by individual rule config
	for _, rule := range l.registry.AllRules() {
		if catConfig, ok := l.config.Categories[rule.Category]; ok && catConfig.Enabled != nil {
			ruleStatus[rule.ID] = *catConfig.Enabled
		}
	}

	for id, ruleConfig := range l.config.Rules {
		if ruleConfig.Enabled != nil {
			ruleStatus[id] = *ruleConfig.Enabled
		}
	}

	var enabled []string
	for id, on := range ruleStatus {
		if on {
			enabled = append(enabled, id)
		}
	}
	slices.Sort(enabled)
	return enabled
}

func (l *Linter) getRuleConfig(ruleID string) RuleConfig {
	config := RuleConfig{}

	if rule, ok := l.registry.GetRule(ruleID); ok {
		if catConfig, ok := l.config.Categories[rule.Category]; ok && catConfig.Severity != nil {
			config.Severity = catConfig.Severity
		}
	}

	if ruleConfig, ok := l.config.Rules[ruleID]; ok {
		if ruleConfig.Severity != nil {
			config.Severity = ruleConfig.Severity
		}
		if ruleConfig.Options != nil {
			config.Options = ruleConfig.Options
		}
	}

	return config
}
