package document

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Document is one parsed manifest plus its provenance: the source it was
// read from and its position within that source's document stream.
type Document struct {
	root   *Node
	source string
	index  int
}

// New wraps a root node with provenance.
func New(root *Node, source string, index int) *Document {
	return &Document{root: root, source: source, index: index}
}

// Root returns the document tree.
func (d *Document) Root() *Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Source returns the source identifier the loader was given.
func (d *Document) Source() string { return d.source }

// Index returns the document's position within its source, starting at 0.
func (d *Document) Index() int { return d.index }

// WithRoot returns a document with the same provenance and a new tree.
func (d *Document) WithRoot(root *Node) *Document {
	return &Document{root: root, source: d.source, index: d.index}
}

// Kind returns the resource kind, or "" for partial manifests.
func (d *Document) Kind() string {
	return d.Root().StringAt(Key("kind"))
}

// APIVersion returns the declared apiVersion, or "".
func (d *Document) APIVersion() string {
	return d.Root().StringAt(Key("apiVersion"))
}

// Name returns metadata.name, or "".
func (d *Document) Name() string {
	return d.Root().StringAt(Key("metadata"), Key("name"))
}

// Namespace returns metadata.namespace, or "".
func (d *Document) Namespace() string {
	return d.Root().StringAt(Key("metadata"), Key("namespace"))
}

// GroupVersionKind resolves the document's GVK from apiVersion and kind.
// Partial manifests yield a GVK with empty fields.
func (d *Document) GroupVersionKind() schema.GroupVersionKind {
	return schema.FromAPIVersionAndKind(d.APIVersion(), d.Kind())
}

// Ref renders a stable human-readable reference for reports, e.g.
// "deploy.yaml[1] Deployment/web".
func (d *Document) Ref() string {
	kind := d.Kind()
	if kind == "" {
		kind = "Unknown"
	}
	name := d.Name()
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s[%d] %s/%s", d.source, d.index, kind, name)
}
