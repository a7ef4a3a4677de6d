// Package remediate rewrites manifests to resolve detected problems. Every
// corrective action checks its precondition before mutating, so running
// remediation on its own output is a no-op: the second pass produces an
// empty changelog.
package remediate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kubetidy/kubetidy/internal/document"
)

// UnfixableError reports an action that cannot be applied safely to a
// particular document. It is recorded as a skipped action; remediation of
// the remaining actions proceeds.
type UnfixableError struct {
	Action string
	Reason string
}

func (e *UnfixableError) Error() string {
	return fmt.Sprintf("action %s is unfixable: %s", e.Action, e.Reason)
}

// Change is one applied mutation.
type Change struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Skip is one action that did not run, with the reason.
type Skip struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Plan is the outcome of remediating one document. Original is retained so
// callers can diff; it is never the same tree as Remediated unless no
// action fired.
type Plan struct {
	Ref        string             `json:"ref"`
	Original   *document.Document `json:"-"`
	Remediated *document.Document `json:"-"`
	Changes    []Change           `json:"changes"`
	Skipped    []Skip             `json:"skipped,omitempty"`
}

// Changed reports whether any action mutated the document.
func (p *Plan) Changed() bool { return len(p.Changes) > 0 }

// Remediator applies the corrective action catalog to documents. It holds
// no mutable state after construction and is safe for concurrent use.
type Remediator struct {
	logger  *zap.Logger
	actions []action
}

// New creates a Remediator with the built-in action catalog.
func New(logger *zap.Logger) *Remediator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remediator{logger: logger, actions: catalog()}
}

// Remediate runs the actions applicable under the policy against the
// document, in declared order. Actions are independent: each one sees the
// output of the previous but they are never re-evaluated against each
// other within one pass.
func (r *Remediator) Remediate(doc *document.Document, mode Mode, aggressive bool) (*Plan, error) {
	return r.RemediateWithPolicy(doc, Policy{Mode: mode, Aggressive: aggressive, Defaults: DefaultDefaults()})
}

// RemediateWithPolicy is Remediate with explicit defaults.
func (r *Remediator) RemediateWithPolicy(doc *document.Document, p Policy) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Ref:      doc.Ref(),
		Original: doc,
		Changes:  []Change{},
	}
	current := doc

	for _, act := range r.actions {
		if !act.appliesTo(p.Mode) {
			continue
		}
		if act.aggressiveIn[p.Mode] && !p.Aggressive {
			if act.needed != nil && act.needed(current, p) {
				plan.Skipped = append(plan.Skipped, Skip{
					Action: act.name,
					Reason: "behavior-changing; requires aggressive mode",
				})
			}
			continue
		}

		m := &mutation{root: current.Root()}
		err := act.apply(current, p, m)
		var unfixable *UnfixableError
		if errors.As(err, &unfixable) {
			plan.Skipped = append(plan.Skipped, Skip{Action: unfixable.Action, Reason: unfixable.Reason})
			// Changes recorded before the action gave up still stand.
		} else if err != nil {
			return nil, fmt.Errorf("action %s on %s: %w", act.name, doc.Ref(), err)
		}
		plan.Skipped = append(plan.Skipped, m.skips...)

		if len(m.changes) > 0 {
			r.logger.Debug("applied remediation action",
				zap.String("action", act.name),
				zap.String("document", doc.Ref()),
				zap.Int("changes", len(m.changes)),
			)
			plan.Changes = append(plan.Changes, m.changes...)
			current = current.WithRoot(m.root)
		}
	}

	plan.Remediated = current
	return plan, nil
}

// mutation accumulates copy-on-write updates for one action.
type mutation struct {
	root    *document.Node
	changes []Change
	skips   []Skip
}

// skip records a part of the document the action could not touch, without
// stopping the action for the rest of the document.
func (m *mutation) skip(action, reason string) {
	m.skips = append(m.skips, Skip{Action: action, Reason: reason})
}

// set replaces the node at path and records the change.
func (m *mutation) set(path document.Path, value *document.Node, desc string) error {
	newRoot, err := m.root.With(path, value)
	if err != nil {
		return err
	}
	m.root = newRoot
	m.changes = append(m.changes, Change{Path: path.String(), Description: desc})
	return nil
}

// setIfMissing is set gated on the path being absent; the precondition
// that makes actions idempotent.
func (m *mutation) setIfMissing(path document.Path, value *document.Node, desc string) error {
	if m.root.Has(path...) {
		return nil
	}
	return m.set(path, value, desc)
}

// has checks against the action's current tree, not the document the
// action started from.
func (m *mutation) has(path document.Path) bool {
	return m.root.Has(path...)
}
