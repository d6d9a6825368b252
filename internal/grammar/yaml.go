package grammar

import (
	"fmt"

	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"gopkg.in/yaml.v3"
)

// patternText is a pattern that must be written as a YAML scalar. Unquoted
// patterns starting with '{' or '[' parse as flow collections, which is the
// most common authoring mistake.
type patternText string

func (p *patternText) UnmarshalYAML(node *yaml.Node) error {
	s, err := scalar(node)
	if err != nil {
		return err
	}
	*p = patternText(s)
	return nil
}

func (p patternText) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: string(p)}, nil
}

// definitionList keeps definitions in document order. It accepts either a
// sequence of single-key mappings or one mapping whose key order is kept.
type definitionList []wordgen.Definition

func (l *definitionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		defs := make(definitionList, 0, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
				return fmt.Errorf("line %d: %w: definitions[%d] must be a single NAME: PATTERN entry",
					item.Line, ErrInvalidDefinition, i)
			}
			d, err := pair(item.Content[0], item.Content[1])
			if err != nil {
				return err
			}
			defs = append(defs, d)
		}
		*l = defs
	case yaml.MappingNode:
		defs := make(definitionList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			d, err := pair(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}
			defs = append(defs, d)
		}
		*l = defs
	default:
		return fmt.Errorf("line %d: definitions must be a list or a mapping", node.Line)
	}
	return nil
}

func (l definitionList) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range l {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: d.Name},
				{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: d.Pattern},
			},
		})
	}
	return seq, nil
}

func pair(key, value *yaml.Node) (wordgen.Definition, error) {
	name, err := scalar(key)
	if err != nil {
		return wordgen.Definition{}, err
	}
	pattern, err := scalar(value)
	if err != nil {
		return wordgen.Definition{}, fmt.Errorf("definition %q: %w", name, err)
	}
	return wordgen.Definition{Name: name, Pattern: pattern}, nil
}

func scalar(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: expected a string, quote patterns that start with '{' or '['", node.Line)
	}
	return node.Value, nil
}
