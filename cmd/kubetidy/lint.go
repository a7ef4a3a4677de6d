package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubetidy/kubetidy/internal/lint"
)

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file|dir>...",
		Short: "Check manifests against the rule set",
		Long: `Evaluate every rule against the given manifests and report issues.

Examples:
  # Lint one file
  kubetidy lint deployment.yaml

  # Lint a directory, only two rules, as JSON
  kubetidy lint manifests/ --rules missing-labels,latest-image-tag -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLint,
	}
}

func runLint(cmd *cobra.Command, args []string) error {
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

	batches, err := eng.LintBatch(cmd.Context(), docs, cfg.Rules.Enabled)
	if err != nil {
		return err
	}

	report := LintReport{Files: len(files)}
	for i, doc := range docs {
		issues := batches[i]
		report.Documents = append(report.Documents, DocumentLint{Ref: doc.Ref(), Issues: issues})
		report.TotalIssues += len(issues)
		for _, issue := range issues {
			switch issue.Severity {
			case lint.SeverityError:
				report.Errors++
			case lint.SeverityWarning:
				report.Warnings++
			}
		}
	}

	if err := outputResult(report, cfg.Output); err != nil {
		return err
	}
	if report.Errors > 0 {
		return fmt.Errorf("%d error-level issue(s) found", report.Errors)
	}
	if len(parseErrs) > 0 {
		return fmt.Errorf("%d document(s) failed to parse", len(parseErrs))
	}
	return nil
}
