package lint

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kubetidy/kubetidy/internal/document"
)

// Evaluator runs rules against documents. Rules run independently and
// their findings are concatenated in the order the rules were given, which
// is registry-declared order when the set came from Registry.Resolve.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator. A nil logger disables logging.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Evaluate runs the rules against the document. A rule that panics is
// contained and downgraded to a synthetic Error finding so that one bad
// rule cannot blind the evaluation to the others.
func (e *Evaluator) Evaluate(doc *document.Document, rules []Rule) []Issue {
	issues := make([]Issue, 0, len(rules))
	for _, rule := range rules {
		issues = append(issues, e.runRule(doc, rule)...)
	}
	return issues
}

func (e *Evaluator) runRule(doc *document.Document, rule Rule) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("rule evaluation failed",
				zap.String("rule", rule.ID()),
				zap.String("document", doc.Ref()),
				zap.Any("panic", r),
			)
			issues = []Issue{{
				RuleID:   rule.ID(),
				Severity: SeverityError,
				Message:  fmt.Sprintf("rule failed: %v", r),
			}}
		}
	}()
	return rule.Evaluate(doc)
}
