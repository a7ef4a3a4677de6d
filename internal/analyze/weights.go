package analyze

// Dimension is one of the four scored axes.
type Dimension string

const (
	DimensionSecurity    Dimension = "security"
	DimensionPerformance Dimension = "performance"
	DimensionReliability Dimension = "reliability"
	DimensionComplexity  Dimension = "complexity"
)

// Finding is one distinct scored observation about a document. Findings
// are deduplicated per document before deductions apply, so a single
// missing field flagged by two rules is only penalized once.
type Finding string

const (
	FindingNoSecurityContext      Finding = "no-security-context"
	FindingRunAsNonRootUnset      Finding = "run-as-non-root-unset"
	FindingReadOnlyRootUnset      Finding = "read-only-root-filesystem-unset"
	FindingPrivilegeEscalation    Finding = "privilege-escalation-allowed"
	FindingFloatingImageTag       Finding = "floating-image-tag"
	FindingNoResources            Finding = "no-resources"
	FindingMissingRequests        Finding = "missing-requests"
	FindingMissingLimits          Finding = "missing-limits"
	FindingInvalidQuantity        Finding = "invalid-resource-quantity"
	FindingMissingLivenessProbe   Finding = "missing-liveness-probe"
	FindingMissingReadinessProbe  Finding = "missing-readiness-probe"
	FindingSingleReplica          Finding = "single-replica"
	FindingRestartPolicyNotAlways Finding = "restart-policy-not-always"
	FindingExtraContainers        Finding = "extra-containers"
	FindingVolumes                Finding = "volumes"
	FindingInitContainers         Finding = "init-containers"
	FindingDeepNesting            Finding = "deep-nesting"
)

// Deduction is the score cost of one finding on one dimension. Counted
// findings (extra containers, volumes) multiply Points by their count.
type Deduction struct {
	Dimension Dimension
	Points    int
}

// Weights maps findings to deductions. It is an explicit, injectable
// table so tests and configuration can substitute deterministic policies.
type Weights map[Finding][]Deduction

// DefaultWeights returns the built-in deduction table. Every sub-score
// starts at 100, deductions are additive per distinct finding, and the
// result is floored at 0.
func DefaultWeights() Weights {
	return Weights{
		FindingNoSecurityContext:   {{DimensionSecurity, 25}},
		FindingRunAsNonRootUnset:   {{DimensionSecurity, 15}},
		FindingReadOnlyRootUnset:   {{DimensionSecurity, 10}},
		FindingPrivilegeEscalation: {{DimensionSecurity, 20}},
		FindingFloatingImageTag:    {{DimensionSecurity, 15}},

		FindingNoResources:     {{DimensionPerformance, 30}},
		FindingMissingRequests: {{DimensionPerformance, 20}},
		FindingMissingLimits:   {{DimensionPerformance, 15}},
		FindingInvalidQuantity: {{DimensionPerformance, 10}},

		FindingMissingLivenessProbe:  {{DimensionPerformance, 10}, {DimensionReliability, 15}},
		FindingMissingReadinessProbe: {{DimensionPerformance, 10}, {DimensionReliability, 15}},

		FindingSingleReplica:          {{DimensionReliability, 20}},
		FindingRestartPolicyNotAlways: {{DimensionReliability, 10}},

		FindingExtraContainers: {{DimensionComplexity, 10}},
		FindingVolumes:         {{DimensionComplexity, 5}},
		FindingInitContainers:  {{DimensionComplexity, 10}},
		FindingDeepNesting:     {{DimensionComplexity, 5}},
	}
}

// Merge returns a copy of w with the given per-finding point overrides
// applied to every deduction of the overridden finding.
func (w Weights) Merge(overrides map[Finding]int) Weights {
	if len(overrides) == 0 {
		return w
	}
	out := make(Weights, len(w))
	for f, ds := range w {
		copied := make([]Deduction, len(ds))
		copy(copied, ds)
		if pts, ok := overrides[f]; ok {
			for i := range copied {
				copied[i].Points = pts
			}
		}
		out[f] = copied
	}
	return out
}
