// Package validate performs structural validation of manifests: the
// required top-level fields every Kubernetes object carries, plus
// per-kind shape checks. It complements linting: lint flags practices,
// validate flags documents that are not well-formed objects at all.
package validate

import (
	"fmt"

	"github.com/kubetidy/kubetidy/internal/document"
)

// Problem is one structural defect of a document.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Document returns the structural problems of one manifest. A nil result
// means the document is well-formed.
func Document(doc *document.Document) []Problem {
	var problems []Problem
	root := doc.Root()

	require := func(msg string, fields ...string) {
		if !root.Has(document.FieldPath(fields...)...) {
			problems = append(problems, Problem{
				Path:    document.FieldPath(fields...).String(),
				Message: msg,
			})
		}
	}

	require("missing required field 'apiVersion'", "apiVersion")
	require("missing required field 'kind'", "kind")
	require("missing required field 'metadata.name'", "metadata", "name")

	switch doc.Kind() {
	case "Pod":
		require("Pod spec must declare containers", "spec", "containers")
	case "Deployment", "StatefulSet", "DaemonSet", "ReplicaSet":
		require(fmt.Sprintf("%s spec must declare a selector", doc.Kind()), "spec", "selector")
		require(fmt.Sprintf("%s spec must declare a pod template", doc.Kind()), "spec", "template")
	case "Service":
		require("Service spec must declare ports", "spec", "ports")
	case "CronJob":
		require("CronJob spec must declare a schedule", "spec", "schedule")
		require("CronJob spec must declare a jobTemplate", "spec", "jobTemplate")
	}
	// ConfigMaps and Secrets are structurally valid with just the
	// required top-level fields.

	return problems
}
