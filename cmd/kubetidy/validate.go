package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubetidy/kubetidy/internal/validate"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Check manifests for required structural fields",
		Long: `Verify that each manifest carries the fields its kind requires:
apiVersion, kind, metadata.name, and per-kind essentials such as
containers for Pods or a schedule for CronJobs.

Examples:
  kubetidy validate deployment.yaml
  kubetidy validate manifests/ -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	report := ValidateReport{Valid: len(parseErrs) == 0}
	for _, doc := range docs {
		problems := validate.Document(doc)
		report.Documents = append(report.Documents, DocumentValidation{Ref: doc.Ref(), Problems: problems})
		report.TotalProblems += len(problems)
	}
	if report.TotalProblems > 0 {
		report.Valid = false
	}

	if err := outputResult(report, cfg.Output); err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("%d structural problem(s) found", report.TotalProblems+len(parseErrs))
	}
	return nil
}
