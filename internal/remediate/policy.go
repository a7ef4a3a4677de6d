package remediate

import "fmt"

// Mode selects which corrective action set applies.
type Mode string

const (
	// ModeFix repairs correctness and safety gaps: labels, resource
	// requests and limits, probes, security context, image tags.
	ModeFix Mode = "fix"

	// ModeOptimize tunes manifests that already work: recommended labels,
	// rollout strategy, pull policy, session affinity.
	ModeOptimize Mode = "optimize"
)

// InvalidModeError reports a mode the remediator does not implement. It is
// a configuration error and fails the invocation immediately.
type InvalidModeError struct {
	Mode Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid remediation mode %q (valid: %q, %q)", e.Mode, ModeFix, ModeOptimize)
}

// Defaults are the values remediation inserts for missing fields. They are
// injectable so policy lives in configuration, not in code.
type Defaults struct {
	CPURequest    string
	MemoryRequest string
	CPULimit      string
	MemoryLimit   string

	ProbePath string
	// ProbePort is used when a container declares no ports.
	ProbePort       int64
	LivenessDelay   int64
	LivenessPeriod  int64
	ReadinessDelay  int64
	ReadinessPeriod int64

	// ImageTag replaces floating 'latest' tags. Empty disables pinning and
	// makes the image action unfixable.
	ImageTag string

	Replicas           int64
	AggressiveReplicas int64
	RunAsUser          int64
}

// DefaultDefaults returns the built-in remediation values.
func DefaultDefaults() Defaults {
	return Defaults{
		CPURequest:         "100m",
		MemoryRequest:      "128Mi",
		CPULimit:           "500m",
		MemoryLimit:        "512Mi",
		ProbePath:          "/health",
		ProbePort:          8080,
		LivenessDelay:      30,
		LivenessPeriod:     30,
		ReadinessDelay:     10,
		ReadinessPeriod:    10,
		ImageTag:           "1.0.0",
		Replicas:           2,
		AggressiveReplicas: 3,
		RunAsUser:          1000,
	}
}

// Policy is one remediation configuration: a mode, whether
// behavior-changing actions are permitted, and the default values.
type Policy struct {
	Mode       Mode
	Aggressive bool
	Defaults   Defaults
}

// Validate rejects unknown modes.
func (p Policy) Validate() error {
	if p.Mode != ModeFix && p.Mode != ModeOptimize {
		return &InvalidModeError{Mode: p.Mode}
	}
	return nil
}
