package lint

import (
	"github.com/kubetidy/kubetidy/internal/document"
)

type missingLabelsRule struct{}

// NewMissingLabelsRule returns the rule that checks for metadata labels.
func NewMissingLabelsRule() Rule { return missingLabelsRule{} }

func (missingLabelsRule) ID() string         { return "missing-labels" }
func (missingLabelsRule) Category() Category { return CategoryLabels }

func (missingLabelsRule) Description() string {
	return "Resources should carry labels for selection and organization"
}

func (missingLabelsRule) Evaluate(doc *document.Document) []Issue {
	labels, ok := doc.Root().Get(document.Key("metadata"), document.Key("labels"))
	if ok && labels.Kind() == document.MappingNode && labels.Len() > 0 {
		return nil
	}
	return []Issue{{
		RuleID:   "missing-labels",
		Severity: SeverityWarning,
		Message:  "resource has no labels",
		Path:     document.FieldPath("metadata", "labels").String(),
	}}
}
