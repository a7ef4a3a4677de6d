package document

import (
	"fmt"
	"strconv"
)

// NodeKind discriminates the three node shapes.
type NodeKind int

const (
	ScalarNode NodeKind = iota
	MappingNode
	SequenceNode
)

func (k NodeKind) String() string {
	switch k {
	case MappingNode:
		return "mapping"
	case SequenceNode:
		return "sequence"
	default:
		return "scalar"
	}
}

// MapEntry is one key/value pair of a mapping node.
type MapEntry struct {
	Key   string
	Value *Node
}

// Entry builds a MapEntry. Convenience for Mapping literals.
func Entry(key string, value *Node) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// Node is one immutable value in a document tree: an ordered mapping, a
// sequence, or a scalar (string, int64, float64, bool, or nil).
type Node struct {
	kind    NodeKind
	entries []MapEntry
	items   []*Node
	value   interface{}
}

// Mapping builds a mapping node from the given entries, in order.
// Later duplicate keys replace earlier ones.
func Mapping(entries ...MapEntry) *Node {
	n := &Node{kind: MappingNode}
	for _, e := range entries {
		n.entries = setEntry(n.entries, e.Key, e.Value)
	}
	return n
}

// Sequence builds a sequence node from the given items, in order.
func Sequence(items ...*Node) *Node {
	return &Node{kind: SequenceNode, items: items}
}

// String builds a string scalar.
func String(v string) *Node { return &Node{value: v} }

// Int builds an integer scalar.
func Int(v int64) *Node { return &Node{value: v} }

// Float builds a floating-point scalar.
func Float(v float64) *Node { return &Node{value: v} }

// Bool builds a boolean scalar.
func Bool(v bool) *Node { return &Node{value: v} }

// Null builds a null scalar.
func Null() *Node { return &Node{} }

// Kind returns the node shape. Kind of a nil node is ScalarNode.
func (n *Node) Kind() NodeKind {
	if n == nil {
		return ScalarNode
	}
	return n.kind
}

// Len returns the number of entries or items; 0 for scalars and nil nodes.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case MappingNode:
		return len(n.entries)
	case SequenceNode:
		return len(n.items)
	default:
		return 0
	}
}

// Keys returns the mapping keys in declared order. Nil for non-mappings.
func (n *Node) Keys() []string {
	if n == nil || n.kind != MappingNode {
		return nil
	}
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the mapping entries in declared order.
func (n *Node) Entries() []MapEntry {
	if n == nil || n.kind != MappingNode {
		return nil
	}
	out := make([]MapEntry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Items returns a copy of the sequence items in order.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != SequenceNode {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

// Item returns the i-th sequence item, or nil when out of range.
func (n *Node) Item(i int) *Node {
	if n == nil || n.kind != SequenceNode || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Value returns the scalar value: string, int64, float64, bool, or nil.
func (n *Node) Value() interface{} {
	if n == nil {
		return nil
	}
	return n.value
}

// StringValue returns the scalar as a string when it is one.
func (n *Node) StringValue() (string, bool) {
	if n == nil {
		return "", false
	}
	s, ok := n.value.(string)
	return s, ok
}

// BoolValue returns the scalar as a bool when it is one.
func (n *Node) BoolValue() (bool, bool) {
	if n == nil {
		return false, false
	}
	b, ok := n.value.(bool)
	return b, ok
}

// IntValue returns the scalar as an int64 when it is one.
func (n *Node) IntValue() (int64, bool) {
	if n == nil {
		return 0, false
	}
	i, ok := n.value.(int64)
	return i, ok
}

// Get walks the path and returns the node it addresses. The second result
// is false when any step is missing or traverses the wrong shape.
func (n *Node) Get(path ...Step) (*Node, bool) {
	cur := n
	for _, s := range path {
		if cur == nil {
			return nil, false
		}
		if s.isKey {
			if cur.kind != MappingNode {
				return nil, false
			}
			next, ok := lookupEntry(cur.entries, s.key)
			if !ok {
				return nil, false
			}
			cur = next
		} else {
			if cur.kind != SequenceNode || s.index < 0 || s.index >= len(cur.items) {
				return nil, false
			}
			cur = cur.items[s.index]
		}
	}
	return cur, true
}

// Has reports whether the path resolves to a node.
func (n *Node) Has(path ...Step) bool {
	_, ok := n.Get(path...)
	return ok
}

// StringAt returns the string scalar at the path, or "" when missing or not
// a string. Mirrors the safe nested lookups used over unstructured objects.
func (n *Node) StringAt(path ...Step) string {
	node, ok := n.Get(path...)
	if !ok {
		return ""
	}
	s, _ := node.StringValue()
	return s
}

// BoolAt returns the bool scalar at the path, or false when missing.
func (n *Node) BoolAt(path ...Step) bool {
	node, ok := n.Get(path...)
	if !ok {
		return false
	}
	b, _ := node.BoolValue()
	return b
}

// IntAt returns the integer scalar at the path, or 0 when missing.
func (n *Node) IntAt(path ...Step) int64 {
	node, ok := n.Get(path...)
	if !ok {
		return 0
	}
	i, _ := node.IntValue()
	return i
}

// With returns a new tree in which the node addressed by path is replaced
// with value. Only the ancestor chain of the path is copied; siblings are
// shared with the receiver. Missing intermediate mappings are created, and
// keys not present yet are appended at the end of their mapping. A missing
// sequence index is a *PathError: padding a sequence would guess at intent.
//
// With on an empty path returns value itself.
func (n *Node) With(path Path, value *Node) (*Node, error) {
	return with(n, path, path, value)
}

// full is the complete path, retained for error reporting.
func with(n *Node, full, rest Path, value *Node) (*Node, error) {
	if len(rest) == 0 {
		return value, nil
	}
	step := rest[0]

	if step.isKey {
		switch {
		case n == nil, n.Kind() == ScalarNode && n.Value() == nil:
			// Create the intermediate mapping.
			n = Mapping()
		case n.kind != MappingNode:
			return nil, &PathError{
				Path:   full,
				Reason: "cannot set key " + strconv.Quote(step.key) + " inside a " + n.kind.String(),
			}
		}
		child, _ := lookupEntry(n.entries, step.key)
		newChild, err := with(child, full, rest[1:], value)
		if err != nil {
			return nil, err
		}
		out := &Node{kind: MappingNode, entries: setEntry(copyEntries(n.entries), step.key, newChild)}
		return out, nil
	}

	if n == nil || n.kind != SequenceNode {
		return nil, &PathError{
			Path:   full,
			Reason: "cannot index a " + n.Kind().String(),
		}
	}
	if step.index < 0 || step.index >= len(n.items) {
		return nil, &PathError{
			Path:   full,
			Reason: fmt.Sprintf("sequence index %d out of range (len %d)", step.index, len(n.items)),
		}
	}
	newChild, err := with(n.items[step.index], full, rest[1:], value)
	if err != nil {
		return nil, err
	}
	items := make([]*Node, len(n.items))
	copy(items, n.items)
	items[step.index] = newChild
	return &Node{kind: SequenceNode, items: items}, nil
}

// Equal reports structural equality. Mapping comparison ignores key order;
// order only matters for round-trip output, not for document semantics.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		// A nil node stands in for a null scalar; it never equals an
		// empty mapping or sequence.
		return n.Kind() == other.Kind() && n.Value() == nil && other.Value() == nil
	}
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case MappingNode:
		if len(n.entries) != len(other.entries) {
			return false
		}
		for _, e := range n.entries {
			ov, ok := lookupEntry(other.entries, e.Key)
			if !ok || !e.Value.Equal(ov) {
				return false
			}
		}
		return true
	case SequenceNode:
		if len(n.items) != len(other.items) {
			return false
		}
		for i, item := range n.items {
			if !item.Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return n.value == other.value
	}
}

func lookupEntry(entries []MapEntry, key string) (*Node, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// setEntry replaces the value for key in place when present, otherwise
// appends a new entry. The caller owns the slice.
func setEntry(entries []MapEntry, key string, value *Node) []MapEntry {
	for i, e := range entries {
		if e.Key == key {
			entries[i].Value = value
			return entries
		}
	}
	return append(entries, MapEntry{Key: key, Value: value})
}

func copyEntries(entries []MapEntry) []MapEntry {
	out := make([]MapEntry, len(entries))
	copy(out, entries)
	return out
}
