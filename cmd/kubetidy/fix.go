package main

import (
	"github.com/spf13/cobra"

	"github.com/kubetidy/kubetidy/internal/remediate"
)

var (
	aggressive   bool
	writeInPlace bool
	outputDir    string
	writeSuffix  bool
)

func addRemediationFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&aggressive, "aggressive", false, "Allow behavior-changing actions")
	cmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Rewrite the input files in place")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write remediated files into this directory")
	cmd.Flags().BoolVar(&writeSuffix, "suffix", false, "Write remediated files alongside the originals as <name>.fixed.<ext>")
}

func fixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <file|dir>...",
		Short: "Repair correctness and safety gaps in manifests",
		Long: `Apply the fix action set: required labels, resource requests and
limits, health probes, security context, and pinned image tags. Without
a write flag this is a dry run that only reports the plan.

Examples:
  # Show what would change
  kubetidy fix deployment.yaml

  # Rewrite in place, including behavior-changing actions
  kubetidy fix deployment.yaml --write --aggressive

  # Write fixed copies next to the originals
  kubetidy fix manifests/ --suffix`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemediation(cmd, args, remediate.ModeFix)
		},
	}
	addRemediationFlags(cmd)
	return cmd
}

func runRemediation(cmd *cobra.Command, args []string, mode remediate.Mode) error {
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

	plans, err := eng.RemediateBatch(cmd.Context(), docs, mode, aggressive)
	if err != nil {
		return err
	}

	report := RemediateReport{Mode: string(mode), Aggressive: aggressive}
	for _, plan := range plans {
		report.Documents = append(report.Documents, DocumentRemediation{
			Ref:     plan.Ref,
			Changes: plan.Changes,
			Skipped: plan.Skipped,
		})
		report.TotalChanges += len(plan.Changes)
	}

	if err := outputResult(report, cfg.Output); err != nil {
		return err
	}
	return writeRemediated(docs, plans, parseErrs, writeOptions{
		inPlace:   writeInPlace,
		outputDir: outputDir,
		suffix:    writeSuffix,
	})
}
