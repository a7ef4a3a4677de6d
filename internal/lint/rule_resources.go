package lint

import (
	"fmt"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

type resourceLimitsRule struct{}

// NewResourceLimitsRule returns the rule that checks container resource
// limits.
func NewResourceLimitsRule() Rule { return resourceLimitsRule{} }

func (resourceLimitsRule) ID() string         { return "resource-limits" }
func (resourceLimitsRule) Category() Category { return CategoryResources }

func (resourceLimitsRule) Description() string {
	return "Containers should declare resource limits"
}

func (resourceLimitsRule) Evaluate(doc *document.Document) []Issue {
	var issues []Issue
	for _, c := range manifest.Containers(doc) {
		limits, ok := c.Node.Get(document.Key("resources"), document.Key("limits"))
		if ok && limits.Kind() == document.MappingNode && limits.Len() > 0 {
			continue
		}
		issues = append(issues, Issue{
			RuleID:   "resource-limits",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("container %q has no resource limits", c.Name()),
			Path:     c.Path.ChildKey("resources").ChildKey("limits").String(),
		})
	}
	return issues
}
