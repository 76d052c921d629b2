package value

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/regtest/pkg/errors"
)

// MarshalYAML renders the value as a yaml.Node so mapping entries keep
// their insertion order. Floats are formatted with strconv's shortest
// exact representation, which round-trips at full precision.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindScalar:
		return floatNode(v.scalar)
	case KindVector:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, f := range v.vector {
			node.Content = append(node.Content, floatNode(f))
		}
		return node
	case KindMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.m.keys {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			node.Content = append(node.Content, keyNode, v.m.vals[k].yamlNode())
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// UnmarshalYAML rebuilds the variant from a YAML node: numeric scalars,
// sequences of numeric scalars, and mappings, recursively. Any other node
// shape is rejected; the caller wraps the error as a corrupt reference.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := fromNode(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		f, err := parseFloat(node.Value)
		if err != nil {
			return Value{}, errors.Newf("line %d: scalar %q is not numeric", node.Line, node.Value)
		}
		return Scalar(f), nil

	case yaml.SequenceNode:
		vec := make([]float64, len(node.Content))
		for i, elem := range node.Content {
			if elem.Kind != yaml.ScalarNode {
				return Value{}, errors.Newf("line %d: sequence element %d is not a scalar", elem.Line, i)
			}
			f, err := parseFloat(elem.Value)
			if err != nil {
				return Value{}, errors.Newf("line %d: sequence element %q is not numeric", elem.Line, elem.Value)
			}
			vec[i] = f
		}
		return Value{kind: KindVector, vector: vec}, nil

	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, errors.Newf("line %d: mapping key is not a scalar", keyNode.Line)
			}
			child, err := fromNode(valNode)
			if err != nil {
				return Value{}, err
			}
			m.Set(keyNode.Value, child)
		}
		return FromMap(m), nil

	case yaml.AliasNode:
		return fromNode(node.Alias)

	default:
		return Value{}, errors.Newf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func floatNode(f float64) *yaml.Node {
	var s string
	switch {
	case math.IsInf(f, 1):
		s = ".inf"
	case math.IsInf(f, -1):
		s = "-.inf"
	case math.IsNaN(f):
		s = ".nan"
	default:
		// Shortest representation that parses back to the same float64.
		// A bare integer form gets a trailing .0 so the node resolves to
		// !!float implicitly and the encoder emits no explicit tag.
		s = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: s,
	}
}

func parseFloat(s string) (float64, error) {
	switch s {
	case ".inf", "+.inf", ".Inf", "+.Inf":
		return math.Inf(1), nil
	case "-.inf", "-.Inf":
		return math.Inf(-1), nil
	case ".nan", ".NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
