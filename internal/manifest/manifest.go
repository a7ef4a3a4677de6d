// Package manifest knows where Kubernetes workload shapes keep their pod
// spec and containers, so rules and remediation actions can traverse the
// right subtree for each resource kind.
package manifest

import (
	"strings"

	"github.com/kubetidy/kubetidy/internal/document"
)

// podSpecFields maps a resource kind to the field path of its pod spec.
var podSpecFields = map[string][]string{
	"Pod":         {"spec"},
	"Deployment":  {"spec", "template", "spec"},
	"StatefulSet": {"spec", "template", "spec"},
	"DaemonSet":   {"spec", "template", "spec"},
	"ReplicaSet":  {"spec", "template", "spec"},
	"Job":         {"spec", "template", "spec"},
	"CronJob":     {"spec", "jobTemplate", "spec", "template", "spec"},
}

// replicatedKinds are the kinds where a replica count below 2 matters.
var replicatedKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"ReplicaSet":  true,
}

// PodSpecPath returns the path to the document's pod spec. The second
// result is false for kinds that do not carry one.
func PodSpecPath(doc *document.Document) (document.Path, bool) {
	fields, ok := podSpecFields[doc.Kind()]
	if !ok {
		return nil, false
	}
	return document.FieldPath(fields...), true
}

// ContainersPath returns the path to the document's container sequence.
// False for kinds without containers; the path may still be absent from a
// partial manifest.
func ContainersPath(doc *document.Document) (document.Path, bool) {
	spec, ok := PodSpecPath(doc)
	if !ok {
		return nil, false
	}
	return spec.ChildKey("containers"), true
}

// Container is one container of a workload, with the path it lives at.
type Container struct {
	Path document.Path
	Node *document.Node
}

// Name returns the container's declared name, or "unknown".
func (c Container) Name() string {
	if name := c.Node.StringAt(document.Key("name")); name != "" {
		return name
	}
	return "unknown"
}

// Image returns the container image reference, or "".
func (c Container) Image() string {
	return c.Node.StringAt(document.Key("image"))
}

// FirstPort returns the first declared containerPort, or 0 when none is
// declared.
func (c Container) FirstPort() int64 {
	ports, ok := c.Node.Get(document.Key("ports"))
	if !ok || ports.Kind() != document.SequenceNode {
		return 0
	}
	for _, p := range ports.Items() {
		if port, ok := p.Get(document.Key("containerPort")); ok {
			if v, ok := port.IntValue(); ok {
				return v
			}
		}
	}
	return 0
}

// Containers returns the document's containers in declared order. Nil when
// the kind has no containers or the sequence is absent or malformed.
func Containers(doc *document.Document) []Container {
	path, ok := ContainersPath(doc)
	if !ok {
		return nil
	}
	seq, ok := doc.Root().Get(path...)
	if !ok || seq.Kind() != document.SequenceNode {
		return nil
	}
	items := seq.Items()
	out := make([]Container, 0, len(items))
	for i, item := range items {
		out = append(out, Container{Path: path.ChildIndex(i), Node: item})
	}
	return out
}

// IsReplicated reports whether the kind's replica count is meaningful for
// availability.
func IsReplicated(kind string) bool {
	return replicatedKinds[kind]
}

// ImageTag splits an image reference into its tag. Tagged reports whether
// the reference pins a tag or digest at all: "nginx" and "reg:5000/nginx"
// are untagged, "nginx:1.25" and "nginx@sha256:..." are not.
func ImageTag(image string) (tag string, tagged bool) {
	if image == "" {
		return "", false
	}
	if i := strings.LastIndex(image, "@"); i >= 0 {
		return image[i+1:], true
	}
	// Only the final path segment can carry a tag; a colon before the last
	// slash is a registry port.
	last := image[strings.LastIndex(image, "/")+1:]
	if i := strings.LastIndex(last, ":"); i >= 0 {
		return last[i+1:], true
	}
	return "", false
}

// UsesLatestTag reports whether the image floats: tagged :latest or not
// tagged at all.
func UsesLatestTag(image string) bool {
	if image == "" {
		return false
	}
	tag, tagged := ImageTag(image)
	return !tagged || tag == "latest"
}
