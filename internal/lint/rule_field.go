package lint

import (
	"fmt"
	"strings"

	"github.com/kubetidy/kubetidy/internal/document"
)

// FieldRule is a declarative rule built from configuration: a dotted field
// path, an optional expected scalar value, and a severity. With no
// expected value the rule requires the field to exist; with one it also
// requires the scalar to match. This is the stable boundary for custom
// checks: data, not executable code.
type FieldRule struct {
	RuleID   string
	Desc     string
	Path     document.Path
	Expected *document.Node
	Sev      Severity
}

// NewFieldRule builds a FieldRule from a dotted path such as
// "spec.revisionHistoryLimit". The expected value may be nil.
func NewFieldRule(id, desc, dottedPath string, expected *document.Node, sev Severity) (*FieldRule, error) {
	if id == "" {
		return nil, fmt.Errorf("field rule with empty ID")
	}
	dottedPath = strings.TrimSpace(dottedPath)
	if dottedPath == "" {
		return nil, fmt.Errorf("field rule %q: empty path", id)
	}
	if sev != SeverityError && sev != SeverityWarning {
		return nil, fmt.Errorf("field rule %q: invalid severity %q", id, sev)
	}
	fields := strings.Split(dottedPath, ".")
	for _, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("field rule %q: malformed path %q", id, dottedPath)
		}
	}
	return &FieldRule{
		RuleID:   id,
		Desc:     desc,
		Path:     document.FieldPath(fields...),
		Expected: expected,
		Sev:      sev,
	}, nil
}

func (r *FieldRule) ID() string         { return r.RuleID }
func (r *FieldRule) Category() Category { return CategoryCustom }

func (r *FieldRule) Description() string {
	if r.Desc != "" {
		return r.Desc
	}
	return fmt.Sprintf("Requires field %s", r.Path)
}

func (r *FieldRule) Evaluate(doc *document.Document) []Issue {
	node, ok := doc.Root().Get(r.Path...)
	if !ok {
		return []Issue{{
			RuleID:   r.RuleID,
			Severity: r.Sev,
			Message:  fmt.Sprintf("required field %s is missing", r.Path),
			Path:     r.Path.String(),
		}}
	}
	if r.Expected != nil && !node.Equal(r.Expected) {
		return []Issue{{
			RuleID:   r.RuleID,
			Severity: r.Sev,
			Message:  fmt.Sprintf("field %s is %v, expected %v", r.Path, node.Value(), r.Expected.Value()),
			Path:     r.Path.String(),
		}}
	}
	return nil
}
