package main

import (
	"github.com/spf13/cobra"

	"github.com/kubetidy/kubetidy/internal/remediate"
)

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <file|dir>...",
		Short: "Tune manifests that already work",
		Long: `Apply the optimize action set: recommended labels, rollout
strategy, replica counts, pull policy, session affinity, and DNS
policy. Without a write flag this is a dry run that only reports the
plan.

Examples:
  # Show what would change
  kubetidy optimize manifests/

  # Rewrite in place, allowing replica and limit changes
  kubetidy optimize manifests/ --write --aggressive`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemediation(cmd, args, remediate.ModeOptimize)
		},
	}
	addRemediationFlags(cmd)
	return cmd
}
