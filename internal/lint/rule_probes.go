package lint

import (
	"fmt"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

// probeRule flags containers missing a liveness or readiness probe. The
// two built-in probe rules share this implementation and differ only in
// the field they look for.
type probeRule struct {
	id    string
	field string
}

// NewLivenessProbeRule returns the rule that checks for liveness probes.
func NewLivenessProbeRule() Rule {
	return probeRule{id: "liveness-probe", field: "livenessProbe"}
}

// NewReadinessProbeRule returns the rule that checks for readiness probes.
func NewReadinessProbeRule() Rule {
	return probeRule{id: "readiness-probe", field: "readinessProbe"}
}

func (r probeRule) ID() string         { return r.id }
func (r probeRule) Category() Category { return CategoryHealthChecks }

func (r probeRule) Description() string {
	return fmt.Sprintf("Containers should declare a %s", r.field)
}

func (r probeRule) Evaluate(doc *document.Document) []Issue {
	var issues []Issue
	for _, c := range manifest.Containers(doc) {
		if c.Node.Has(document.Key(r.field)) {
			continue
		}
		issues = append(issues, Issue{
			RuleID:   r.id,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("container %q has no %s", c.Name(), r.field),
			Path:     c.Path.ChildKey(r.field).String(),
		})
	}
	return issues
}
