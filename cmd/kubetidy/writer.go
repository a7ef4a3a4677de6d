package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/remediate"
)

type writeOptions struct {
	inPlace   bool
	outputDir string
	suffix    bool
}

func (o writeOptions) enabled() bool {
	return o.inPlace || o.outputDir != "" || o.suffix
}

// targetPath maps a source file to its write destination.
func (o writeOptions) targetPath(source string) string {
	switch {
	case o.outputDir != "":
		return filepath.Join(o.outputDir, filepath.Base(source))
	case o.suffix:
		ext := filepath.Ext(source)
		return strings.TrimSuffix(source, ext) + ".fixed" + ext
	default:
		return source
	}
}

// writeRemediated writes remediated manifests back to disk, one output
// file per source file, preserving document order. Source files that had
// parse failures are skipped rather than rewritten with documents
// missing.
func writeRemediated(docs []*document.Document, plans []*remediate.Plan, parseErrs []*document.ParseError, opts writeOptions) error {
	if !opts.enabled() {
		return nil
	}
	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.outputDir, err)
		}
	}

	broken := make(map[string]bool, len(parseErrs))
	for _, e := range parseErrs {
		broken[e.Source] = true
	}

	// Group remediated documents by source file, keeping input order.
	bySource := make(map[string][]*document.Document)
	var sources []string
	for i, doc := range docs {
		src := doc.Source()
		if broken[src] {
			continue
		}
		if _, seen := bySource[src]; !seen {
			sources = append(sources, src)
		}
		bySource[src] = append(bySource[src], plans[i].Remediated)
	}
	for _, e := range parseErrs {
		fmt.Fprintf(os.Stderr, "Warning: not writing %s: it has unparseable documents\n", e.Source)
	}

	for _, src := range sources {
		data, err := document.MarshalAll(bySource[src])
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", src, err)
		}
		target := opts.targetPath(src)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", target)
	}
	return nil
}
