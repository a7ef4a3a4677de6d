package lint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubetidy/kubetidy/internal/document"
)

// stubRule is a configurable rule for evaluator and registry tests.
type stubRule struct {
	id     string
	issues []Issue
	panics bool
}

func (r stubRule) ID() string          { return r.id }
func (r stubRule) Category() Category  { return CategoryCustom }
func (r stubRule) Description() string { return "stub" }

func (r stubRule) Evaluate(*document.Document) []Issue {
	if r.panics {
		panic("boom")
	}
	return r.issues
}

func TestEvaluateConcatenatesInRuleOrder(t *testing.T) {
	doc := mustLoad(t, "kind: Pod\nmetadata:\n  name: p\n")
	rules := []Rule{
		stubRule{id: "b", issues: []Issue{{RuleID: "b"}, {RuleID: "b"}}},
		stubRule{id: "a", issues: []Issue{{RuleID: "a"}}},
	}
	issues := NewEvaluator(nil).Evaluate(doc, rules)
	assert.Equal(t, []string{"b", "b", "a"}, ruleIDs(issues))
}

func TestEvaluateContainsPanics(t *testing.T) {
	doc := mustLoad(t, "kind: Pod\nmetadata:\n  name: p\n")
	rules := []Rule{
		stubRule{id: "before", issues: []Issue{{RuleID: "before"}}},
		stubRule{id: "broken", panics: true},
		stubRule{id: "after", issues: []Issue{{RuleID: "after"}}},
	}

	issues := NewEvaluator(nil).Evaluate(doc, rules)
	require.Len(t, issues, 3, "a panicking rule must not blind the others")
	assert.Equal(t, []string{"before", "broken", "after"}, ruleIDs(issues))
	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Contains(t, issues[1].Message, "rule failed")
}

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	_, err := NewRegistry(stubRule{id: "x"}, stubRule{id: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegistryResolve(t *testing.T) {
	reg, err := NewRegistry(stubRule{id: "a"}, stubRule{id: "b"}, stubRule{id: "c"})
	require.NoError(t, err)

	all, err := reg.Resolve(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty selection means every rule")

	// Request order does not matter; registry order does.
	picked, err := reg.Resolve([]string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "a", picked[0].ID())
	assert.Equal(t, "c", picked[1].ID())
}

func TestRegistryResolveUnknownRule(t *testing.T) {
	reg, err := NewRegistry(stubRule{id: "a"})
	require.NoError(t, err)

	_, err = reg.Resolve([]string{"a", "nope"})
	var unknown *UnknownRuleError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Name)
	assert.Equal(t, []string{"a"}, unknown.Known)
}

func TestBuiltinRegistryOrder(t *testing.T) {
	reg := NewBuiltinRegistry()
	assert.Equal(t, []string{
		"missing-labels",
		"resource-limits",
		"liveness-probe",
		"readiness-probe",
		"run-as-non-root",
		"read-only-root-filesystem",
		"latest-image-tag",
	}, reg.Names())
}
