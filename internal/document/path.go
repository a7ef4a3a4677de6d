package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Step addresses one level of a tree: a mapping key or a sequence index.
type Step struct {
	key   string
	index int
	isKey bool
}

// Key returns a mapping-key step.
func Key(k string) Step {
	return Step{key: k, isKey: true}
}

// Index returns a sequence-index step.
func Index(i int) Step {
	return Step{index: i}
}

// IsKey reports whether the step addresses a mapping key.
func (s Step) IsKey() bool { return s.isKey }

// MapKey returns the mapping key. Only meaningful when IsKey is true.
func (s Step) MapKey() string { return s.key }

// SeqIndex returns the sequence index. Only meaningful when IsKey is false.
func (s Step) SeqIndex() int { return s.index }

func (s Step) String() string {
	if s.isKey {
		return s.key
	}
	return strconv.Itoa(s.index)
}

// Path addresses a node in a tree, root first.
type Path []Step

// FieldPath builds a path of mapping keys, mirroring the field-path helpers
// used for nested lookups over unstructured objects.
func FieldPath(fields ...string) Path {
	p := make(Path, len(fields))
	for i, f := range fields {
		p[i] = Key(f)
	}
	return p
}

// Child returns a new path extended by one step. The receiver is not modified.
func (p Path) Child(s Step) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// ChildKey returns a new path extended by a mapping-key step.
func (p Path) ChildKey(k string) Path { return p.Child(Key(k)) }

// ChildIndex returns a new path extended by a sequence-index step.
func (p Path) ChildIndex(i int) Path { return p.Child(Index(i)) }

// String renders the path in JSON-pointer style, e.g.
// "/spec/template/spec/containers/0/image".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(escapePointer(s.String()))
	}
	return b.String()
}

func escapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// PathError reports a write through an address the tree cannot satisfy,
// such as indexing a sequence element that does not exist. It indicates a
// badly constructed path rather than a malformed document.
type PathError struct {
	Path   Path
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %s: %s", e.Path, e.Reason)
}
