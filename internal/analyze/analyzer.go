// Package analyze aggregates rule findings and structural facts into four
// 0-100 quality scores per document and across a batch, plus advisory
// recommendations.
package analyze

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/lint"
)

// Scores are the four quality axes, each within [0, 100].
type Scores struct {
	Security    int `json:"security"`
	Performance int `json:"performance"`
	Reliability int `json:"reliability"`
	Complexity  int `json:"complexity"`
}

// DocumentAnalysis is the per-document slice of a Result.
type DocumentAnalysis struct {
	Ref       string        `json:"ref"`
	Kind      string        `json:"kind,omitempty"`
	Name      string        `json:"name,omitempty"`
	Namespace string        `json:"namespace,omitempty"`
	Issues    []lint.Issue  `json:"issues"`
	Scores    Scores        `json:"scores"`
	Usage     ResourceUsage `json:"resourceUsage"`
	Insights  []string      `json:"insights,omitempty"`
}

// Result is one analysis invocation over a batch of documents. It is
// built fresh per invocation and never persisted.
type Result struct {
	Documents       []DocumentAnalysis `json:"documents"`
	Aggregate       Scores             `json:"aggregate"`
	TotalIssues     int                `json:"totalIssues"`
	ErrorIssues     int                `json:"errorIssues"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// Analyzer computes scores from rule findings and structural facts. It
// holds no mutable state after construction and is safe for concurrent
// use.
type Analyzer struct {
	registry  *lint.Registry
	evaluator *lint.Evaluator
	weights   Weights
}

// New creates an Analyzer. Nil weights select the default deduction
// table; a nil logger disables logging.
func New(registry *lint.Registry, weights Weights, logger *zap.Logger) *Analyzer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Analyzer{
		registry:  registry,
		evaluator: lint.NewEvaluator(logger),
		weights:   weights,
	}
}

// Analyze lints and scores every document. An empty batch returns the
// neutral result: all aggregate scores 100 and no per-document entries.
func (a *Analyzer) Analyze(docs []*document.Document) *Result {
	analyses := make([]DocumentAnalysis, len(docs))
	for i, doc := range docs {
		analyses[i] = a.analyzeDocument(doc)
	}
	return a.Assemble(analyses)
}

// Assemble builds a Result from per-document analyses computed elsewhere,
// typically by concurrent batch workers. The analyses must already be in
// input order; aggregation and recommendations are order-independent.
func (a *Analyzer) Assemble(analyses []DocumentAnalysis) *Result {
	result := &Result{
		Documents: analyses,
		Aggregate: Scores{Security: 100, Performance: 100, Reliability: 100, Complexity: 100},
	}
	if result.Documents == nil {
		result.Documents = []DocumentAnalysis{}
	}

	for _, da := range result.Documents {
		result.TotalIssues += len(da.Issues)
		for _, issue := range da.Issues {
			if issue.Severity == lint.SeverityError {
				result.ErrorIssues++
			}
		}
	}

	if len(result.Documents) > 0 {
		result.Aggregate = aggregate(result.Documents)
	}
	result.Recommendations = a.recommendations(result)
	return result
}

// AnalyzeDocument scores a single document.
func (a *Analyzer) AnalyzeDocument(doc *document.Document) DocumentAnalysis {
	return a.analyzeDocument(doc)
}

func (a *Analyzer) analyzeDocument(doc *document.Document) DocumentAnalysis {
	facts := CollectFacts(doc)
	return DocumentAnalysis{
		Ref:       doc.Ref(),
		Kind:      doc.Kind(),
		Name:      doc.Name(),
		Namespace: doc.Namespace(),
		Issues:    a.evaluator.Evaluate(doc, a.registry.Rules()),
		Scores:    a.score(facts),
		Usage:     facts.Usage,
		Insights:  insights(doc, facts),
	}
}

// score starts each dimension at 100 and applies the deduction table,
// flooring at 0. Deductions are additive per distinct finding, not per
// issue instance.
func (a *Analyzer) score(facts Facts) Scores {
	totals := map[Dimension]int{
		DimensionSecurity:    100,
		DimensionPerformance: 100,
		DimensionReliability: 100,
		DimensionComplexity:  100,
	}
	for finding, count := range facts.Findings {
		for _, d := range a.weights[finding] {
			totals[d.Dimension] -= d.Points * count
		}
	}
	return Scores{
		Security:    clamp(totals[DimensionSecurity]),
		Performance: clamp(totals[DimensionPerformance]),
		Reliability: clamp(totals[DimensionReliability]),
		Complexity:  clamp(totals[DimensionComplexity]),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// aggregate is the arithmetic mean of per-document scores, rounded to the
// nearest integer.
func aggregate(docs []DocumentAnalysis) Scores {
	var sec, perf, rel, cpx int
	for _, d := range docs {
		sec += d.Scores.Security
		perf += d.Scores.Performance
		rel += d.Scores.Reliability
		cpx += d.Scores.Complexity
	}
	n := float64(len(docs))
	mean := func(sum int) int { return int(math.Round(float64(sum) / n)) }
	return Scores{
		Security:    mean(sec),
		Performance: mean(perf),
		Reliability: mean(rel),
		Complexity:  mean(cpx),
	}
}

// insights are kind-specific advisory notes, separate from rule findings.
func insights(doc *document.Document, facts Facts) []string {
	var out []string
	switch facts.Kind {
	case "Deployment":
		if facts.Findings[FindingSingleReplica] > 0 {
			out = append(out, "consider increasing replicas for high availability")
		}
		if replicas := doc.Root().IntAt(document.Key("spec"), document.Key("replicas")); replicas > 10 {
			out = append(out, fmt.Sprintf("high replica count (%d); verify the cluster can absorb the resource requirements", replicas))
		}
		if !doc.Root().Has(document.Key("spec"), document.Key("strategy")) {
			out = append(out, "consider adding a deployment strategy for controlled rollouts")
		}
	case "Service":
		if doc.Root().StringAt(document.Key("spec"), document.Key("type")) == "LoadBalancer" {
			out = append(out, "LoadBalancer services incur cloud provider costs; consider an Ingress where appropriate")
		}
	case "Pod":
		out = append(out, "consider a Deployment instead of a bare Pod for lifecycle management")
	}
	return out
}

// recommendations are batch-level advisories derived from the aggregate.
func (a *Analyzer) recommendations(r *Result) []string {
	if len(r.Documents) == 0 {
		return nil
	}
	var out []string
	if r.Aggregate.Security < 80 {
		out = append(out, "security score is below 80: add security contexts and pin image tags")
	}
	if r.Aggregate.Performance < 80 {
		out = append(out, "performance score is below 80: declare resource requests and limits")
	}
	if r.ErrorIssues > 0 {
		out = append(out, fmt.Sprintf("address %d error-severity issue(s) first", r.ErrorIssues))
	}
	if r.TotalIssues > 2*len(r.Documents) {
		out = append(out, "issue density is high; consider a systematic review of these manifests")
	}
	return out
}
