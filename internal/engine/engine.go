// Package engine is the facade the CLI drives: loading, linting,
// analysis, and remediation over single documents and batches.
//
// The core pipeline is synchronous and pure per document. Parallelism is
// confined to the batch level: documents are independent, no component
// mutates shared state after construction, and batch results are
// reassembled into input order regardless of worker completion order, so
// output is deterministic.
package engine

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubetidy/kubetidy/internal/analyze"
	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/lint"
	"github.com/kubetidy/kubetidy/internal/remediate"
)

// Options configure an Engine. The zero value selects the built-in rule
// registry, default score weights, default remediation values, and one
// worker per CPU.
type Options struct {
	Registry *lint.Registry
	Weights  analyze.Weights
	Defaults *remediate.Defaults
	Workers  int
	Logger   *zap.Logger
}

// Engine wires the core components together. It is immutable after New
// and safe for concurrent use.
type Engine struct {
	registry   *lint.Registry
	evaluator  *lint.Evaluator
	analyzer   *analyze.Analyzer
	remediator *remediate.Remediator
	defaults   remediate.Defaults
	workers    int
	logger     *zap.Logger
}

// New builds an Engine from options.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = lint.NewBuiltinRegistry()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	defaults := remediate.DefaultDefaults()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
	}
	return &Engine{
		registry:   registry,
		evaluator:  lint.NewEvaluator(logger),
		analyzer:   analyze.New(registry, opts.Weights, logger),
		remediator: remediate.New(logger),
		defaults:   defaults,
		workers:    workers,
		logger:     logger,
	}
}

// Registry exposes the rule registry for selection and listing.
func (e *Engine) Registry() *lint.Registry { return e.registry }

// Load parses raw text into documents tagged with their source. Parse
// failures are scoped per document; the successes are still returned.
func (e *Engine) Load(text, source string) ([]*document.Document, []*document.ParseError) {
	return document.Load(text, source)
}

// Lint evaluates the named rules (all rules when empty) against one
// document. Unknown rule names fail the invocation.
func (e *Engine) Lint(doc *document.Document, ruleNames []string) ([]lint.Issue, error) {
	rules, err := e.registry.Resolve(ruleNames)
	if err != nil {
		return nil, err
	}
	return e.evaluator.Evaluate(doc, rules), nil
}

// LintBatch lints documents concurrently. Results are indexed by input
// position: result i always belongs to docs[i].
func (e *Engine) LintBatch(ctx context.Context, docs []*document.Document, ruleNames []string) ([][]lint.Issue, error) {
	rules, err := e.registry.Resolve(ruleNames)
	if err != nil {
		return nil, err
	}
	results := make([][]lint.Issue, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			results[i] = e.evaluator.Evaluate(doc, rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Analyze lints and scores a batch. Per-document results are computed
// concurrently but returned in input order.
func (e *Engine) Analyze(ctx context.Context, docs []*document.Document) *analyze.Result {
	analyses := make([]analyze.DocumentAnalysis, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			analyses[i] = e.analyzer.AnalyzeDocument(doc)
			return nil
		})
	}
	// Workers only fill their own slot; no error path exists.
	_ = g.Wait()

	return e.analyzer.Assemble(analyses)
}

// Remediate produces a remediation plan for one document. The input
// document is never modified.
func (e *Engine) Remediate(doc *document.Document, mode remediate.Mode, aggressive bool) (*remediate.Plan, error) {
	return e.remediator.RemediateWithPolicy(doc, remediate.Policy{
		Mode:       mode,
		Aggressive: aggressive,
		Defaults:   e.defaults,
	})
}

// RemediateBatch remediates documents concurrently, returning plans in
// input order. An invalid mode fails the whole batch up front; per-
// document containment covers everything else.
func (e *Engine) RemediateBatch(ctx context.Context, docs []*document.Document, mode remediate.Mode, aggressive bool) ([]*remediate.Plan, error) {
	if err := (remediate.Policy{Mode: mode, Aggressive: aggressive}).Validate(); err != nil {
		return nil, err
	}
	plans := make([]*remediate.Plan, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			plan, err := e.Remediate(doc, mode, aggressive)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
