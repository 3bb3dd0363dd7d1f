package shape

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlShape is the on-disk shape document:
//
//	name: todo
//	fields:
//	  - name: id
//	    identifier: true
//	  - name: done
//	    alias: is_done
//	    default: false
type yamlShape struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name       string `yaml:"name"`
	Identifier bool   `yaml:"identifier"`
	Alias      string `yaml:"alias"`
	Default    any    `yaml:"default"`
	HasDefault bool   `yaml:"-"`
}

// UnmarshalYAML records whether a default key was present, so an explicit
// null default is distinguishable from no default at all.
func (f *yamlField) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlField
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = yamlField(p)
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "default" {
			f.HasDefault = true
		}
	}
	return nil
}

// LoadYAML builds a shape from a YAML shape document.
func LoadYAML(data []byte) (*Shape, error) {
	var doc yamlShape
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse shape: %w", err)
	}
	b := New(doc.Name)
	for _, f := range doc.Fields {
		var opts []FieldOption
		if f.Identifier {
			opts = append(opts, Identifier())
		}
		if f.Alias != "" {
			opts = append(opts, Alias(f.Alias))
		}
		if f.HasDefault {
			opts = append(opts, Default(f.Default))
		}
		b.Field(f.Name, opts...)
	}
	return b.Build()
}

// LoadYAMLFile builds a shape from a YAML shape document on disk.
func LoadYAMLFile(path string) (*Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shape file: %w", err)
	}
	return LoadYAML(data)
}
