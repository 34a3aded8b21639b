package linter

import (
	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/validation"
)

// DocumentType distinguishes the API surfaces rules can be scoped to.
type DocumentType string

const (
	DocumentTypeARM       DocumentType = "arm"
	DocumentTypeDataPlane DocumentType = "data-plane"
	// DocumentTypeDefault is generic OpenAPI. Rules that list it apply to every document type.
	DocumentTypeDefault DocumentType = "default"
)

// DefaultDocumentType is assumed when neither the configuration nor the lint options name one.
const DefaultDocumentType = DocumentTypeARM

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeARM, DocumentTypeDataPlane, DocumentTypeDefault:
		return true
	}
	return false
}

// MergeState selects the view of the input a rule is evaluated against.
type MergeState string

const (
	// MergeStateIndividual evaluates the rule once per input document.
	MergeStateIndividual MergeState = "individual"
	// MergeStateComposed evaluates the rule once against all inputs merged together.
	MergeStateComposed MergeState = "composed"
)

// Check applies one predicate to each node matched by a rule's selectors.
type Check struct {
	// Field drills into the matched node before the predicate runs. Dotted segments walk nested
	// objects and "@key" passes the matched node's own key name. Empty means the node itself.
	Field string
	// Function names a predicate in the function catalogue.
	Function string
	// Func runs instead of a catalogue lookup when set.
	Func Func
	// Options are passed to the predicate after being validated against its option schema.
	Options Options
}

// Rule describes one lint rule: where it applies, what it checks and how it reports.
type Rule struct {
	ID          string
	Name        string
	Summary     string
	Description string
	// Message is a template for the reported text. See RenderMessage for placeholders.
	Message  string
	Link     string
	Category string
	Severity validation.Severity

	// Formats restricts the rule to documents whose format matches one of the filters.
	Formats []string
	// DocumentTypes restricts the rule to the listed document types. Empty means every type.
	DocumentTypes []DocumentType
	MergeState    MergeState
	// Resolved evaluates the rule against the document with local references inlined.
	Resolved bool

	Given []string
	Then  []Check

	Rationale   string
	GoodExample string
	BadExample  string
}

// AppliesTo reports whether the rule should run for a document of the given format, configured
// document type and merge state.
func (r *Rule) AppliesTo(format document.Format, docType DocumentType, state MergeState) bool {
	if r.mergeState() != state {
		return false
	}
	if len(r.Formats) > 0 && !format.MatchesAny(r.Formats) {
		return false
	}
	if len(r.DocumentTypes) == 0 {
		return true
	}
	for _, t := range r.DocumentTypes {
		if t == docType || t == DocumentTypeDefault {
			return true
		}
	}
	return false
}

func (r *Rule) mergeState() MergeState {
	if r.MergeState == "" {
		return MergeStateIndividual
	}
	return r.MergeState
}

func (r *Rule) defaultSeverity() validation.Severity {
	if r.Severity == "" {
		return validation.SeverityWarning
	}
	return r.Severity
}
