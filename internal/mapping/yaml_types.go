package mapping

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"caster-engine/internal/common"
	"caster-engine/internal/errors"
)

// StringOrArray is a list written in YAML as one string or a sequence of strings.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return errors.Newf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// UnmarshalYAML accepts "Source -> Target" or {source: Source, target: Target}.
func (p *PairRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		src, dst, ok := strings.Cut(node.Value, "->")
		if !ok {
			return errors.Newf("line %d: expected \"Source -> Target\", got %q", node.Line, node.Value)
		}

		p.Source, p.Target = strings.TrimSpace(src), strings.TrimSpace(dst)

		return nil

	case yaml.MappingNode:
		type plain PairRef

		var v plain
		if err := node.Decode(&v); err != nil {
			return err
		}

		*p = PairRef(v)

		return nil

	default:
		return errors.Newf("line %d: expected pair, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes the arrow form.
func (p PairRef) MarshalYAML() (any, error) {
	return p.String(), nil
}
