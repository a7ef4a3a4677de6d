package lint

import (
	"fmt"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

type runAsNonRootRule struct{}

// NewRunAsNonRootRule returns the rule that checks containers run as a
// non-root user. A container with no securityContext at all is flagged:
// the default is to run as root.
func NewRunAsNonRootRule() Rule { return runAsNonRootRule{} }

func (runAsNonRootRule) ID() string         { return "run-as-non-root" }
func (runAsNonRootRule) Category() Category { return CategorySecurity }

func (runAsNonRootRule) Description() string {
	return "Containers should set securityContext.runAsNonRoot to true"
}

func (runAsNonRootRule) Evaluate(doc *document.Document) []Issue {
	var issues []Issue
	for _, c := range manifest.Containers(doc) {
		path := c.Path.ChildKey("securityContext").ChildKey("runAsNonRoot")
		sc, hasCtx := c.Node.Get(document.Key("securityContext"))
		if hasCtx {
			if v, _ := sc.Get(document.Key("runAsNonRoot")); v != nil {
				if b, _ := v.BoolValue(); b {
					continue
				}
			}
		}
		msg := fmt.Sprintf("container %q does not set runAsNonRoot to true", c.Name())
		if !hasCtx {
			msg = fmt.Sprintf("container %q has no securityContext; runAsNonRoot is unset", c.Name())
		}
		issues = append(issues, Issue{
			RuleID:   "run-as-non-root",
			Severity: SeverityError,
			Message:  msg,
			Path:     path.String(),
		})
	}
	return issues
}

type readOnlyRootFilesystemRule struct{}

// NewReadOnlyRootFilesystemRule returns the rule that checks containers
// mount their root filesystem read-only. Unlike run-as-non-root, this rule
// only fires when a securityContext already exists: demanding a read-only
// root on a container that declared nothing is usually behavior-changing,
// and the remediator treats it as aggressive-only for the same reason.
func NewReadOnlyRootFilesystemRule() Rule { return readOnlyRootFilesystemRule{} }

func (readOnlyRootFilesystemRule) ID() string         { return "read-only-root-filesystem" }
func (readOnlyRootFilesystemRule) Category() Category { return CategorySecurity }

func (readOnlyRootFilesystemRule) Description() string {
	return "Containers with a securityContext should set readOnlyRootFilesystem to true"
}

func (readOnlyRootFilesystemRule) Evaluate(doc *document.Document) []Issue {
	var issues []Issue
	for _, c := range manifest.Containers(doc) {
		sc, ok := c.Node.Get(document.Key("securityContext"))
		if !ok {
			continue
		}
		if v, _ := sc.Get(document.Key("readOnlyRootFilesystem")); v != nil {
			if b, _ := v.BoolValue(); b {
				continue
			}
		}
		issues = append(issues, Issue{
			RuleID:   "read-only-root-filesystem",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("container %q does not set readOnlyRootFilesystem to true", c.Name()),
			Path:     c.Path.ChildKey("securityContext").ChildKey("readOnlyRootFilesystem").String(),
		})
	}
	return issues
}
