package model

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// SchemaConfig is the document form of a Schema:
//
//	$strict: false
//	name: string
//	email:
//	  type: string
//	  tag: email
//	slug:
//	  validator: slug
//
// A scalar rule is a type name. A mapping rule takes type, tag and
// validator, the latter naming an entry of the table given to Build.
type SchemaConfig struct {
	Strict *bool
	Rules  map[string]RuleConfig
}

type RuleConfig struct {
	Type      string `yaml:"type,omitempty"`
	Tag       string `yaml:"tag,omitempty"`
	Validator string `yaml:"validator,omitempty"`
}

const strictKey = "$strict"

func (c *SchemaConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: schema document must be a mapping (line %d)", ErrInvalidRule, node.Line)
	}
	c.Rules = make(map[string]RuleConfig, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if key == strictKey {
			var strict bool
			if err := value.Decode(&strict); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidRule, strictKey, err)
			}
			c.Strict = &strict
			continue
		}
		var rule RuleConfig
		if err := value.Decode(&rule); err != nil {
			return fmt.Errorf("rule %q: %w", key, err)
		}
		c.Rules[key] = rule
	}
	return nil
}

func (r *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		r.Type = node.Value
		return nil
	case yaml.MappingNode:
		var fields map[string]string
		if err := node.Decode(&fields); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		for name, value := range fields {
			switch name {
			case "type":
				r.Type = value
			case "tag":
				r.Tag = value
			case "validator":
				r.Validator = value
			default:
				return fmt.Errorf("%w: unknown field %q (line %d)", ErrInvalidRule, name, node.Line)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: rule must be a type name or a mapping (line %d)", ErrInvalidRule, node.Line)
	}
}

// LoadSchemaYAML reads a schema document.
func LoadSchemaYAML(r io.Reader) (*SchemaConfig, error) {
	var c SchemaConfig
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &SchemaConfig{Rules: map[string]RuleConfig{}}, nil
		}
		return nil, err
	}
	return &c, nil
}

// Build resolves the document into a Schema. Validator names are looked up
// in validators; type names must be known type tags.
func (c *SchemaConfig) Build(validators map[string]Predicate) (*Schema, error) {
	schema := NewSchema(make(map[string]Rule, len(c.Rules)))
	if c.Strict != nil {
		schema.Lenient = !*c.Strict
	}

	keys := make([]string, 0, len(c.Rules))
	for key := range c.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rc := c.Rules[key]
		rule := Rule{Type: rc.Type, Tag: rc.Tag}
		if rc.Type != "" {
			if _, ok := normalizeType(rc.Type); !ok {
				return nil, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidRule, key, rc.Type)
			}
		}
		if rc.Validator != "" {
			fn, ok := validators[rc.Validator]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown validator %q", ErrInvalidRule, key, rc.Validator)
			}
			rule.Validator = fn
		}
		if rule.empty() {
			return nil, fmt.Errorf("%w: %s: rule declares no type, tag or validator", ErrInvalidRule, key)
		}
		schema.Rules[key] = rule
	}
	return schema, nil
}

// ParseSchemaYAML is LoadSchemaYAML followed by Build.
func ParseSchemaYAML(data []byte, validators map[string]Predicate) (*Schema, error) {
	c, err := LoadSchemaYAML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return c.Build(validators)
}
