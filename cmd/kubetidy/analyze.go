package main

import (
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file|dir>...",
		Short: "Score manifests for security, performance, reliability, and complexity",
		Long: `Lint and score the given manifests. Each document gets four
dimension scores out of 100 plus resource usage facts; the batch gets
aggregate scores and recommendations.

Examples:
  # Analyze a directory
  kubetidy analyze manifests/

  # Machine-readable report
  kubetidy analyze manifests/ -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	eng, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	docs, parseErrs, err := loadFiles(eng, files)
	if err != nil {
		return err
	}
	reportParseErrors(parseErrs)

	result := eng.Analyze(cmd.Context(), docs)
	return outputResult(result, cfg.Output)
}
