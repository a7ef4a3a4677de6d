package lint

// BuiltinRules returns the built-in rule set in its canonical order. The
// order is part of the output contract: evaluation concatenates findings
// in registry-declared order.
func BuiltinRules() []Rule {
	return []Rule{
		NewMissingLabelsRule(),
		NewResourceLimitsRule(),
		NewLivenessProbeRule(),
		NewReadinessProbeRule(),
		NewRunAsNonRootRule(),
		NewReadOnlyRootFilesystemRule(),
		NewLatestImageTagRule(),
	}
}

// NewBuiltinRegistry builds a registry holding just the built-in rules.
func NewBuiltinRegistry() *Registry {
	r, err := NewRegistry(BuiltinRules()...)
	if err != nil {
		// Built-in IDs are unique by construction.
		panic(err)
	}
	return r
}
