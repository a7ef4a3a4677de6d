package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubetidy/kubetidy/internal/analyze"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubetidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 4, cfg.Workers)
	assert.Empty(t, cfg.Rules.Enabled)
	assert.Equal(t, "100m", cfg.Remediation.CPURequest)
	assert.Equal(t, "1.0.0", cfg.Remediation.ImageTag)
	assert.True(t, cfg.Remediation.PinImages)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
output: json
workers: 2
rules:
  enabled:
    - missing-labels
  custom:
    - id: history-limit
      path: spec.revisionHistoryLimit
remediation:
  cpuRequest: 250m
  pinImages: false
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"missing-labels"}, cfg.Rules.Enabled)
	require.Len(t, cfg.Rules.Custom, 1)
	assert.Equal(t, "250m", cfg.Remediation.CPURequest)
	// Untouched keys keep their defaults.
	assert.Equal(t, "128Mi", cfg.Remediation.MemoryRequest)
	assert.False(t, cfg.Remediation.PinImages)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output: json\n")
	t.Setenv("KUBETIDY_OUTPUT", "yaml")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "output: json\nworkers: 2\n")
	t.Setenv("KUBETIDY_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "text", "")
	flags.Int("workers", 4, "")
	flags.StringSlice("rules", nil, "")
	require.NoError(t, flags.Parse([]string{"--output=text", "--rules=missing-labels,latest-image-tag"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 2, cfg.Workers, "unset flags must not override the file")
	assert.Equal(t, []string{"missing-labels", "latest-image-tag"}, cfg.Rules.Enabled)
}

func TestLoadRejectsBadWorkerCount(t *testing.T) {
	path := writeConfig(t, "workers: 0\n")
	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestBuildRegistryWithCustomRules(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Rules.Custom = []CustomRule{
		{ID: "prod-namespace", Path: "metadata.namespace", Equals: "prod", Severity: "Error"},
	}

	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "prod-namespace")
	assert.Contains(t, reg.Names(), "missing-labels", "custom rules extend the builtins")
}

func TestBuildRegistryRejectsBadCustomRule(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Rules.Custom = []CustomRule{{ID: "bad", Path: ""}}

	_, err = cfg.BuildRegistry()
	assert.Error(t, err)
}

func TestBuildWeights(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Scoring = map[string]int{"floating-image-tag": 40}

	weights, err := cfg.BuildWeights()
	require.NoError(t, err)
	assert.Equal(t, 40, weights[analyze.FindingFloatingImageTag][0].Points)

	cfg.Scoring = map[string]int{"no-such-finding": 10}
	_, err = cfg.BuildWeights()
	assert.Error(t, err)

	cfg.Scoring = map[string]int{"floating-image-tag": -1}
	_, err = cfg.BuildWeights()
	assert.Error(t, err)
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	d, err := cfg.BuildDefaults()
	require.NoError(t, err)
	assert.Equal(t, "100m", d.CPURequest)
	assert.Equal(t, "1.0.0", d.ImageTag)

	cfg.Remediation.PinImages = false
	d, err = cfg.BuildDefaults()
	require.NoError(t, err)
	assert.Empty(t, d.ImageTag, "disabling pinning makes floating tags unfixable")

	cfg.Remediation.CPULimit = "not-a-quantity"
	_, err = cfg.BuildDefaults()
	assert.Error(t, err)

	cfg.Remediation.CPULimit = "500m"
	cfg.Remediation.ProbePath = "health"
	_, err = cfg.BuildDefaults()
	assert.Error(t, err)
}
