package codec

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/amp-labs/typewise/typewise"
	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// DecodeYAML decodes one YAML document. Mappings become *typewise.Map in document order,
// !!timestamp scalars time.Time, !!binary scalars []byte and !!null nil. Aliases are
// expanded, and "<<" merge keys copy the entries of the merged mappings that the
// mapping does not set itself. An empty document decodes to nil.
func DecodeYAML(data []byte) (any, error) {
	if isBlank(data) {
		return nil, nil //nolint:nilnil
	}

	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return decodeYAMLNode(&doc, 0)
}

//nolint:cyclop
func decodeYAMLNode(n *yaml.Node, depth int) (any, error) {
	if depth > typewise.DefaultMaxDepth {
		return nil, ErrTooDeep
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil //nolint:nilnil
		}

		return decodeYAMLNode(n.Content[0], depth)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))

		for _, child := range n.Content {
			v, err := decodeYAMLNode(child, depth+1)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	case yaml.MappingNode:
		m, err := decodeYAMLMapping(n, depth)
		if err != nil {
			return nil, err
		}

		return untag(m)
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	default:
		return nil, fmt.Errorf("%w: line %d: unexpected node kind %d", ErrSyntax, n.Line, n.Kind)
	}
}

func decodeYAMLMapping(n *yaml.Node, depth int) (*typewise.Map, error) {
	m := typewise.NewMap()

	var merged []*typewise.Map

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		val, err := decodeYAMLNode(valNode, depth+1)
		if err != nil {
			return nil, err
		}

		if keyNode.ShortTag() == mergeTag {
			sources, err := mergeSources(val, keyNode.Line)
			if err != nil {
				return nil, err
			}

			merged = append(merged, sources...)

			continue
		}

		key, err := yamlKey(keyNode, depth)
		if err != nil {
			return nil, err
		}

		m.Set(key, val)
	}

	for _, src := range merged {
		for k, v := range src.All() {
			if _, exists := m.Get(k); !exists {
				m.Set(k, v)
			}
		}
	}

	return m, nil
}

func mergeSources(v any, line int) ([]*typewise.Map, error) {
	switch x := v.(type) {
	case *typewise.Map:
		return []*typewise.Map{x}, nil
	case []any:
		out := make([]*typewise.Map, 0, len(x))

		for _, item := range x {
			m, ok := item.(*typewise.Map)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: merge of %s", ErrSyntax, line, describe(item))
			}

			out = append(out, m)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: line %d: merge of %s", ErrSyntax, line, describe(v))
	}
}

func yamlKey(n *yaml.Node, depth int) (string, error) {
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}

	v, err := decodeYAMLNode(n, depth+1)
	if err != nil {
		return "", err
	}

	return fmt.Sprint(v), nil
}

//nolint:cyclop
func decodeYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil //nolint:nilnil
	case "!!bool":
		var b bool

		if err := n.Decode(&b); err != nil {
			return nil, scalarError(n, err)
		}

		return b, nil
	case "!!int":
		var i int64

		if err := n.Decode(&i); err == nil {
			return i, nil
		}

		if b, ok := new(big.Int).SetString(n.Value, 0); ok {
			return b, nil
		}

		return nil, scalarError(n, fmt.Errorf("invalid integer %q", n.Value)) //nolint:err113
	case "!!float":
		if n.Style&yaml.TaggedStyle == 0 {
			if b, ok := bigInteger(n.Value); ok {
				return b, nil
			}
		}

		var f float64

		if err := n.Decode(&f); err != nil {
			return nil, scalarError(n, err)
		}

		return f, nil
	case "!!timestamp":
		var t time.Time

		if err := n.Decode(&t); err != nil {
			return nil, scalarError(n, err)
		}

		return t, nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, scalarError(n, err)
		}

		return b, nil
	default:
		// !!str and application tags
		return n.Value, nil
	}
}

func scalarError(n *yaml.Node, err error) error {
	return fmt.Errorf("%w: line %d: %s: %w", ErrSyntax, n.Line, n.ShortTag(), err)
}

// bigInteger parses plain integer text that yaml resolves as a float only because it
// overflows int64.
func bigInteger(text string) (*big.Int, bool) {
	if strings.ContainsAny(text, ".eEnN") {
		return nil, false
	}

	return new(big.Int).SetString(strings.ReplaceAll(text, "_", ""), 0)
}
