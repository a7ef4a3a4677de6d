package document

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// fromYAML converts a parsed yaml.Node into an immutable tree.
func fromYAML(yn *yaml.Node) (*Node, error) {
	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return nil, nil
		}
		return fromYAML(yn.Content[0])
	case yaml.AliasNode:
		// Aliases are expanded by value; the tree has no sharing semantics
		// to preserve.
		return fromYAML(yn.Alias)
	case yaml.MappingNode:
		n := &Node{kind: MappingNode, entries: make([]MapEntry, 0, len(yn.Content)/2)}
		for i := 0; i+1 < len(yn.Content); i += 2 {
			keyNode := yn.Content[i]
			key, err := scalarString(keyNode)
			if err != nil {
				return nil, fmt.Errorf("line %d: mapping key: %w", keyNode.Line, err)
			}
			value, err := fromYAML(yn.Content[i+1])
			if err != nil {
				return nil, err
			}
			// Duplicate keys: the later value wins, matching decoder behavior
			// for typed targets.
			n.entries = setEntry(n.entries, key, value)
		}
		return n, nil
	case yaml.SequenceNode:
		n := &Node{kind: SequenceNode, items: make([]*Node, 0, len(yn.Content))}
		for _, item := range yn.Content {
			child, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, child)
		}
		return n, nil
	case yaml.ScalarNode:
		return scalarFromYAML(yn)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %v", yn.Line, yn.Kind)
	}
}

func scalarString(yn *yaml.Node) (string, error) {
	if yn.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected scalar, got %v", yn.Kind)
	}
	return yn.Value, nil
}

func scalarFromYAML(yn *yaml.Node) (*Node, error) {
	switch yn.Tag {
	case "!!null", "":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(yn.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid bool %q", yn.Line, yn.Value)
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(yn.Value, 0, 64)
		if err != nil {
			// Out-of-range integers degrade to their textual form.
			return String(yn.Value), nil
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(yn.Value, 64)
		if err != nil {
			return String(yn.Value), nil
		}
		return Float(f), nil
	default:
		return String(yn.Value), nil
	}
}

// toYAML converts a tree back into a yaml.Node for serialization.
func toYAML(n *Node) *yaml.Node {
	switch n.Kind() {
	case MappingNode:
		yn := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range n.entries {
			yn.Content = append(yn.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				toYAML(e.Value),
			)
		}
		return yn
	case SequenceNode:
		yn := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.items {
			yn.Content = append(yn.Content, toYAML(item))
		}
		return yn
	default:
		return scalarToYAML(n)
	}
}

func scalarToYAML(n *Node) *yaml.Node {
	yn := &yaml.Node{Kind: yaml.ScalarNode}
	switch v := n.Value().(type) {
	case nil:
		yn.Tag = "!!null"
		yn.Value = "null"
	case bool:
		yn.Tag = "!!bool"
		yn.Value = strconv.FormatBool(v)
	case int64:
		yn.Tag = "!!int"
		yn.Value = strconv.FormatInt(v, 10)
	case float64:
		yn.Tag = "!!float"
		yn.Value = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		yn.Tag = "!!str"
		yn.Value = fmt.Sprint(v)
	}
	return yn
}

// Marshal serializes one document tree as YAML with 2-space indentation.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(d.Root())); err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.Ref(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.Ref(), err)
	}
	return buf.Bytes(), nil
}

// MarshalAll serializes documents in order, separated by "---" lines, the
// same stream layout they were loaded from.
func MarshalAll(docs []*Document) ([]byte, error) {
	var buf bytes.Buffer
	for i, d := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}
		out, err := Marshal(d)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}
