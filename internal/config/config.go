// Package config loads kubetidy configuration with layered precedence:
// built-in defaults, then a config file, then environment variables
// (KUBETIDY_ prefix), then command-line flags.
package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kubetidy/kubetidy/internal/analyze"
	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/lint"
	"github.com/kubetidy/kubetidy/internal/remediate"
)

// Config is the full loaded configuration.
type Config struct {
	Output      string            `koanf:"output"`
	Workers     int               `koanf:"workers"`
	Rules       RulesConfig       `koanf:"rules"`
	Scoring     map[string]int    `koanf:"scoring"`
	Remediation RemediationConfig `koanf:"remediation"`
}

// RulesConfig selects and extends the rule set.
type RulesConfig struct {
	// Enabled restricts linting to the named rules; empty means all.
	Enabled []string `koanf:"enabled"`

	// Custom declares additional field rules.
	Custom []CustomRule `koanf:"custom"`
}

// CustomRule is a declarative rule: a dotted field path that must exist,
// optionally with a required scalar value.
type CustomRule struct {
	ID          string `koanf:"id"`
	Description string `koanf:"description"`
	Path        string `koanf:"path"`
	Equals      string `koanf:"equals"`
	Severity    string `koanf:"severity"`
}

// RemediationConfig overrides the default remediation values.
type RemediationConfig struct {
	CPURequest    string `koanf:"cpuRequest"`
	MemoryRequest string `koanf:"memoryRequest"`
	CPULimit      string `koanf:"cpuLimit"`
	MemoryLimit   string `koanf:"memoryLimit"`

	ProbePath       string `koanf:"probePath"`
	ProbePort       int64  `koanf:"probePort"`
	LivenessDelay   int64  `koanf:"livenessDelay"`
	LivenessPeriod  int64  `koanf:"livenessPeriod"`
	ReadinessDelay  int64  `koanf:"readinessDelay"`
	ReadinessPeriod int64  `koanf:"readinessPeriod"`

	ImageTag string `koanf:"imageTag"`
	// PinImages disables image-tag rewriting when false; floating tags
	// are then reported as unfixable.
	PinImages bool `koanf:"pinImages"`

	Replicas           int64 `koanf:"replicas"`
	AggressiveReplicas int64 `koanf:"aggressiveReplicas"`
	RunAsUser          int64 `koanf:"runAsUser"`
}

// BuildRegistry returns the rule registry: built-in rules followed by the
// configured custom rules.
func (c *Config) BuildRegistry() (*lint.Registry, error) {
	rules := lint.BuiltinRules()
	for _, cr := range c.Rules.Custom {
		sev := lint.Severity(cr.Severity)
		if cr.Severity == "" {
			sev = lint.SeverityWarning
		}
		var expected *document.Node
		if cr.Equals != "" {
			expected = document.String(cr.Equals)
		}
		rule, err := lint.NewFieldRule(cr.ID, cr.Description, cr.Path, expected, sev)
		if err != nil {
			return nil, fmt.Errorf("custom rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return lint.NewRegistry(rules...)
}

// BuildWeights merges configured scoring overrides into the default
// deduction table. Unknown finding names are a configuration error.
func (c *Config) BuildWeights() (analyze.Weights, error) {
	defaults := analyze.DefaultWeights()
	if len(c.Scoring) == 0 {
		return defaults, nil
	}
	overrides := make(map[analyze.Finding]int, len(c.Scoring))
	for name, points := range c.Scoring {
		finding := analyze.Finding(name)
		if _, ok := defaults[finding]; !ok {
			return nil, fmt.Errorf("scoring: unknown finding %q", name)
		}
		if points < 0 {
			return nil, fmt.Errorf("scoring: finding %q has negative deduction %d", name, points)
		}
		overrides[finding] = points
	}
	return defaults.Merge(overrides), nil
}

// BuildDefaults converts the remediation section into remediate.Defaults,
// validating the resource quantities up front so a typo fails the
// invocation instead of producing broken manifests.
func (c *Config) BuildDefaults() (remediate.Defaults, error) {
	r := c.Remediation
	for _, q := range []struct{ name, value string }{
		{"cpuRequest", r.CPURequest},
		{"memoryRequest", r.MemoryRequest},
		{"cpuLimit", r.CPULimit},
		{"memoryLimit", r.MemoryLimit},
	} {
		if _, err := resource.ParseQuantity(q.value); err != nil {
			return remediate.Defaults{}, fmt.Errorf("remediation.%s: invalid quantity %q: %w", q.name, q.value, err)
		}
	}
	if !strings.HasPrefix(r.ProbePath, "/") {
		return remediate.Defaults{}, fmt.Errorf("remediation.probePath %q must start with /", r.ProbePath)
	}

	imageTag := r.ImageTag
	if !r.PinImages {
		imageTag = ""
	}
	return remediate.Defaults{
		CPURequest:         r.CPURequest,
		MemoryRequest:      r.MemoryRequest,
		CPULimit:           r.CPULimit,
		MemoryLimit:        r.MemoryLimit,
		ProbePath:          r.ProbePath,
		ProbePort:          r.ProbePort,
		LivenessDelay:      r.LivenessDelay,
		LivenessPeriod:     r.LivenessPeriod,
		ReadinessDelay:     r.ReadinessDelay,
		ReadinessPeriod:    r.ReadinessPeriod,
		ImageTag:           imageTag,
		Replicas:           r.Replicas,
		AggressiveReplicas: r.AggressiveReplicas,
		RunAsUser:          r.RunAsUser,
	}, nil
}
