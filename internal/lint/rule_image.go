package lint

import (
	"fmt"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

type latestImageTagRule struct{}

// NewLatestImageTagRule returns the rule that flags floating image tags:
// an explicit :latest, or no tag at all (which defaults to latest).
func NewLatestImageTagRule() Rule { return latestImageTagRule{} }

func (latestImageTagRule) ID() string         { return "latest-image-tag" }
func (latestImageTagRule) Category() Category { return CategoryImagePolicy }

func (latestImageTagRule) Description() string {
	return "Container images should pin a specific tag instead of latest"
}

func (latestImageTagRule) Evaluate(doc *document.Document) []Issue {
	var issues []Issue
	for _, c := range manifest.Containers(doc) {
		image := c.Image()
		if image == "" || !manifest.UsesLatestTag(image) {
			continue
		}
		msg := fmt.Sprintf("container %q uses the floating 'latest' tag (%s)", c.Name(), image)
		if _, tagged := manifest.ImageTag(image); !tagged {
			msg = fmt.Sprintf("container %q image %q has no tag and defaults to latest", c.Name(), image)
		}
		issues = append(issues, Issue{
			RuleID:   "latest-image-tag",
			Severity: SeverityWarning,
			Message:  msg,
			Path:     c.Path.ChildKey("image").String(),
		})
	}
	return issues
}
