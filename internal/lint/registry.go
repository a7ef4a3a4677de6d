package lint

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownRuleError reports a requested rule name the registry does not
// know. It is a configuration error: unknown names fail the invocation
// instead of being silently ignored.
type UnknownRuleError struct {
	Name  string
	Known []string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q (known rules: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Registry holds the available rules in declared order. It is populated at
// startup and read-only afterwards, so it is safe for concurrent use by
// batch workers.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry builds a registry from the given rules, preserving order.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{byID: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		if err := r.register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(rule Rule) error {
	id := rule.ID()
	if id == "" {
		return fmt.Errorf("rule with empty ID")
	}
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("duplicate rule ID %q", id)
	}
	r.byID[id] = rule
	r.rules = append(r.rules, rule)
	return nil
}

// Rules returns all rules in declared order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Names returns the registered rule IDs in declared order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.ID()
	}
	return names
}

// Resolve maps requested rule names to rules, returned in registry-declared
// order regardless of request order so that evaluation output is stable.
// An empty request selects every rule. Unknown names yield an
// *UnknownRuleError.
func (r *Registry) Resolve(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return r.Rules(), nil
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.byID[name]; !ok {
			known := r.Names()
			sort.Strings(known)
			return nil, &UnknownRuleError{Name: name, Known: known}
		}
		requested[name] = true
	}
	var out []Rule
	for _, rule := range r.rules {
		if requested[rule.ID()] {
			out = append(out, rule)
		}
	}
	return out, nil
}
