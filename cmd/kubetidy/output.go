package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/kubetidy/kubetidy/internal/analyze"
	"github.com/kubetidy/kubetidy/internal/lint"
	"github.com/kubetidy/kubetidy/internal/remediate"
	"github.com/kubetidy/kubetidy/internal/validate"
)

// LintReport is the result of a lint command.
type LintReport struct {
	Files       int            `json:"files"`
	Documents   []DocumentLint `json:"documents"`
	TotalIssues int            `json:"totalIssues"`
	Errors      int            `json:"errors"`
	Warnings    int            `json:"warnings"`
}

// DocumentLint holds the issues of a single document.
type DocumentLint struct {
	Ref    string       `json:"ref"`
	Issues []lint.Issue `json:"issues"`
}

// ValidateReport is the result of a validate command.
type ValidateReport struct {
	Documents     []DocumentValidation `json:"documents"`
	Valid         bool                 `json:"valid"`
	TotalProblems int                  `json:"totalProblems"`
}

// DocumentValidation holds the structural problems of one document.
type DocumentValidation struct {
	Ref      string             `json:"ref"`
	Problems []validate.Problem `json:"problems,omitempty"`
}

// RemediateReport is the result of a fix or optimize command.
type RemediateReport struct {
	Mode         string                `json:"mode"`
	Aggressive   bool                  `json:"aggressive"`
	Documents    []DocumentRemediation `json:"documents"`
	TotalChanges int                   `json:"totalChanges"`
}

// DocumentRemediation holds the applied and skipped actions for one
// document.
type DocumentRemediation struct {
	Ref     string             `json:"ref"`
	Changes []remediate.Change `json:"changes"`
	Skipped []remediate.Skip   `json:"skipped,omitempty"`
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RuleList is the result of the rules command.
type RuleList struct {
	Rules []RuleInfo `json:"rules"`
}

// outputResult outputs the result in the specified format.
func outputResult(result interface{}, format string) error {
	switch format {
	case "json":
		return outputJSON(result)
	case "yaml":
		return outputYAML(result)
	default:
		return outputText(result)
	}
}

func outputJSON(result interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputText(result interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch r := result.(type) {
	case LintReport:
		return outputLintText(w, r)
	case *analyze.Result:
		return outputAnalyzeText(w, r)
	case RemediateReport:
		return outputRemediateText(w, r)
	case ValidateReport:
		return outputValidateText(w, r)
	case RuleList:
		return outputRulesText(w, r)
	default:
		// Fall back to JSON for unknown types
		return outputJSON(result)
	}
}

func outputLintText(w *tabwriter.Writer, r LintReport) error {
	for _, d := range r.Documents {
		if len(d.Issues) == 0 {
			fmt.Fprintf(w, "%s\tOK\n", d.Ref)
			continue
		}
		fmt.Fprintf(w, "%s\n", d.Ref)
		for _, issue := range d.Issues {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", issue.Severity, issue.RuleID, issue.Path, issue.Message)
		}
	}
	fmt.Fprintf(w, "\n%d issue(s) in %d file(s): %d error(s), %d warning(s)\n",
		r.TotalIssues, r.Files, r.Errors, r.Warnings)
	return nil
}

func outputAnalyzeText(w *tabwriter.Writer, r *analyze.Result) error {
	fmt.Fprintln(w, "DOCUMENT\tSECURITY\tPERFORMANCE\tRELIABILITY\tCOMPLEXITY\tISSUES")
	for _, d := range r.Documents {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			d.Ref, d.Scores.Security, d.Scores.Performance,
			d.Scores.Reliability, d.Scores.Complexity, len(d.Issues))
	}
	fmt.Fprintf(w, "AGGREGATE\t%d\t%d\t%d\t%d\t%d\n",
		r.Aggregate.Security, r.Aggregate.Performance,
		r.Aggregate.Reliability, r.Aggregate.Complexity, r.TotalIssues)

	for _, d := range r.Documents {
		if len(d.Insights) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", d.Ref)
		for _, insight := range d.Insights {
			fmt.Fprintf(w, "  - %s\n", insight)
		}
	}
	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRECOMMENDATIONS:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	return nil
}

func outputRemediateText(w *tabwriter.Writer, r RemediateReport) error {
	for _, d := range r.Documents {
		if len(d.Changes) == 0 && len(d.Skipped) == 0 {
			fmt.Fprintf(w, "%s\tno changes\n", d.Ref)
			continue
		}
		fmt.Fprintf(w, "%s\n", d.Ref)
		for _, c := range d.Changes {
			fmt.Fprintf(w, "  + %s\t%s\n", c.Path, c.Description)
		}
		for _, s := range d.Skipped {
			fmt.Fprintf(w, "  ~ %s\tskipped: %s\n", s.Action, s.Reason)
		}
	}
	fmt.Fprintf(w, "\n%d change(s) in %s mode\n", r.TotalChanges, r.Mode)
	return nil
}

func outputValidateText(w *tabwriter.Writer, r ValidateReport) error {
	for _, d := range r.Documents {
		if len(d.Problems) == 0 {
			fmt.Fprintf(w, "%s\tVALID\n", d.Ref)
			continue
		}
		fmt.Fprintf(w, "%s\tINVALID\n", d.Ref)
		for _, p := range d.Problems {
			fmt.Fprintf(w, "  %s\t%s\n", p.Path, p.Message)
		}
	}
	return nil
}

func outputRulesText(w *tabwriter.Writer, r RuleList) error {
	fmt.Fprintln(w, "ID\tCATEGORY\tDESCRIPTION")
	for _, rule := range r.Rules {
		fmt.Fprintf(w, "%s\t%s\t%s\n", rule.ID, rule.Category, rule.Description)
	}
	return nil
}
