package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError is a parse failure scoped to one document of a source. The
// rest of the source's documents are unaffected.
type ParseError struct {
	Source string
	Index  int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Source, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load parses raw manifest text into documents. Multi-document input is
// split on "---" separators and each document is parsed independently, so
// a syntax error in one document still yields the others. Blank documents
// are skipped without being reported. The returned documents carry the
// source identifier and their index within the stream; failed documents
// consume an index so that provenance stays aligned with the input.
func Load(text, source string) ([]*Document, []*ParseError) {
	var (
		docs   []*Document
		errs   []*ParseError
		index  int
		chunks = splitDocuments(text)
	)

	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		var yn yaml.Node
		if err := yaml.Unmarshal([]byte(chunk), &yn); err != nil {
			errs = append(errs, &ParseError{Source: source, Index: index, Err: err})
			index++
			continue
		}

		root, err := fromYAML(&yn)
		if err != nil {
			errs = append(errs, &ParseError{Source: source, Index: index, Err: err})
			index++
			continue
		}
		if root == nil || (root.Kind() == ScalarNode && root.Value() == nil) {
			// Comment-only or explicit-null document.
			continue
		}

		docs = append(docs, New(root, source, index))
		index++
	}

	return docs, errs
}

// splitDocuments cuts the stream on standalone "---" separator lines.
// Separators inside block scalars are not handled; manifests do not use
// them in practice and a false split surfaces as a scoped parse error.
func splitDocuments(text string) []string {
	lines := strings.Split(text, "\n")
	var (
		chunks  []string
		current []string
	)
	flush := func() {
		chunks = append(chunks, strings.Join(current, "\n"))
		current = current[:0]
	}
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "---" || strings.HasPrefix(trimmed, "--- ") {
			flush()
			// Content after the separator belongs to the next document.
			if rest := strings.TrimPrefix(trimmed, "---"); strings.TrimSpace(rest) != "" {
				current = append(current, strings.TrimSpace(rest))
			}
			continue
		}
		current = append(current, line)
	}
	flush()
	return chunks
}
