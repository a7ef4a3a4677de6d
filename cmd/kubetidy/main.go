// kubetidy is a CLI tool for linting, analyzing, validating, and
// remediating Kubernetes manifests.
//
// Installation:
//
//	go build -o kubetidy ./cmd/kubetidy
//	mv kubetidy /usr/local/bin/
//
// Usage:
//
//	kubetidy lint deployment.yaml
//	kubetidy analyze manifests/
//	kubetidy fix deployment.yaml --write
//	kubetidy optimize manifests/ --aggressive -o json
//	kubetidy validate deployment.yaml
//	kubetidy rules
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubetidy/kubetidy/internal/config"
	"github.com/kubetidy/kubetidy/internal/engine"
)

var (
	version = "dev"

	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kubetidy",
		Short: "Lint, analyze, and fix Kubernetes manifests",
		Long: `kubetidy inspects Kubernetes manifests for common correctness,
security, and performance problems, scores them, and can rewrite them
with safe defaults applied.

It never talks to a cluster: all commands operate on local YAML files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags. output, rules, and workers reach the engine through
	// the configuration layer, which reads flags the user actually set.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default kubetidy.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringSlice("rules", nil, "Restrict linting to these rules (default all)")
	rootCmd.PersistentFlags().Int("workers", 4, "Concurrent documents per batch")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	rootCmd.AddCommand(lintCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(fixCmd())
	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(rulesCmd())

	return rootCmd
}

// newLogger builds the CLI logger. Logs go to stderr so stdout stays
// clean for command output.
func newLogger() *zap.Logger {
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.OutputPaths = []string{"stderr"}
	if verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// setup loads configuration and builds the engine shared by all
// subcommands.
func setup(cmd *cobra.Command) (*engine.Engine, *config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	registry, err := cfg.BuildRegistry()
	if err != nil {
		return nil, nil, nil, err
	}
	weights, err := cfg.BuildWeights()
	if err != nil {
		return nil, nil, nil, err
	}
	defaults, err := cfg.BuildDefaults()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger()
	eng := engine.New(engine.Options{
		Registry: registry,
		Weights:  weights,
		Defaults: &defaults,
		Workers:  cfg.Workers,
		Logger:   logger,
	})
	return eng, cfg, logger, nil
}
