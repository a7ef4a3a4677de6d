package lint

import "github.com/kubetidy/kubetidy/internal/document"

// Severity indicates how urgently a finding needs attention.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Category groups rules by the concern they check.
type Category string

const (
	CategoryLabels       Category = "Labels"
	CategoryResources    Category = "Resources"
	CategoryHealthChecks Category = "HealthChecks"
	CategorySecurity     Category = "Security"
	CategoryImagePolicy  Category = "ImagePolicy"
	CategoryCustom       Category = "Custom"
)

// Issue is a single rule finding against one document. Issues are built
// fresh per evaluation and never cached across documents.
type Issue struct {
	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
}

// Rule is one check over a document.
//
// Contract:
//   - Pure: no I/O, no shared mutable state, deterministic for the same
//     document.
//   - Total: a malformed or partial document is diagnosable, never a panic.
//     The evaluator still contains panics from misbehaving rules, but a
//     contained panic is a rule bug.
//   - Path-aware: container checks traverse the container sequence the
//     resource kind actually uses; kinds without containers yield nothing.
type Rule interface {
	// ID returns the unique rule identifier, e.g. "resource-limits".
	ID() string

	// Category returns the concern the rule belongs to.
	Category() Category

	// Description returns a human-readable explanation of the check.
	Description() string

	// Evaluate returns zero or more findings for the document.
	Evaluate(doc *document.Document) []Issue
}
