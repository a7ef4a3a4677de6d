package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/kubetidy/kubetidy/internal/remediate"
)

// envPrefix namespaces kubetidy environment variables.
const envPrefix = "KUBETIDY_"

// FindConfigFile returns the config file to use.
// Priority: explicit path > kubetidy.yaml > kubetidy.yml. Empty means none.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"kubetidy.yaml", "kubetidy.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func defaults() map[string]interface{} {
	d := remediate.DefaultDefaults()
	return map[string]interface{}{
		"output":  "text",
		"workers": 4,
		"remediation": map[string]interface{}{
			"cpuRequest":         d.CPURequest,
			"memoryRequest":      d.MemoryRequest,
			"cpuLimit":           d.CPULimit,
			"memoryLimit":        d.MemoryLimit,
			"probePath":          d.ProbePath,
			"probePort":          d.ProbePort,
			"livenessDelay":      d.LivenessDelay,
			"livenessPeriod":     d.LivenessPeriod,
			"readinessDelay":     d.ReadinessDelay,
			"readinessPeriod":    d.ReadinessPeriod,
			"imageTag":           d.ImageTag,
			"pinImages":          true,
			"replicas":           d.Replicas,
			"aggressiveReplicas": d.AggressiveReplicas,
			"runAsUser":          d.RunAsUser,
		},
	}
}

// Load reads configuration with layered precedence (highest to lowest):
// flags > KUBETIDY_ environment variables > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults.
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, if one exists.
	if used := FindConfigFile(cfgFile); used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables. KUBETIDY_OUTPUT -> output. Only top-level
	// keys; nested settings belong in the config file.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set. Only flags that correspond to
	// config keys are mapped; command-specific flags stay out of the
	// config tree.
	if flags != nil {
		flagKeys := map[string]string{
			"output":  "output",
			"workers": "workers",
			"rules":   "rules.enabled",
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return &cfg, nil
}
