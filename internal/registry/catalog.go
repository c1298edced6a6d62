package registry

import (
	"fmt"
	"io"

	"github.com/vk/visualgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Catalog is the editor-facing description of the available node types.
type Catalog struct {
	DataTypes []string      `yaml:"data_types"`
	Nodes     []CatalogNode `yaml:"nodes"`
}

// CatalogNode is one concrete node type, generic types expanded per data type.
type CatalogNode struct {
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	TypeArgs   []string          `yaml:"type_args,omitempty"`
	Label      string            `yaml:"label"`
	Category   string            `yaml:"category"`
	Result     string            `yaml:"result,omitempty"`
	Properties []CatalogProperty `yaml:"properties"`
}

// CatalogProperty describes one property for a property grid.
type CatalogProperty struct {
	Name    string   `yaml:"name"`
	Label   string   `yaml:"label"`
	Kind    string   `yaml:"kind"`
	Type    string   `yaml:"type,omitempty"`
	Options []string `yaml:"options,omitempty"`
}

// Catalog describes the named node types instantiated over dataTypes. Unknown
// names are skipped.
func (r *Registry) Catalog(names []string, dataTypes []cty.Type) Catalog {
	c := Catalog{}
	for _, t := range dataTypes {
		c.DataTypes = append(c.DataTypes, model.TypeName(t))
	}

	for _, name := range names {
		t, ok := r.nodeTypes[name]
		if !ok {
			continue
		}
		for _, args := range typeArgCombinations(t.TypeParams, dataTypes) {
			c.Nodes = append(c.Nodes, describe(t, args))
		}
	}
	return c
}

func describe(t *model.NodeType, args []cty.Type) CatalogNode {
	n := CatalogNode{
		Name:     t.Name,
		Type:     t.Name,
		Label:    t.DisplayLabel(),
		Category: t.Category.String(),
	}
	if len(args) > 0 {
		n.Name = instanceName(t.Name, args)
		for _, a := range args {
			n.TypeArgs = append(n.TypeArgs, model.TypeName(a))
		}
	}
	if t.Category == model.CategoryExpression {
		n.Result = model.TypeName(t.Result(args))
	}
	for _, def := range t.PropertyDefs(args) {
		p := CatalogProperty{
			Name:    def.Name,
			Label:   def.DisplayLabel(),
			Kind:    def.Kind.String(),
			Options: def.Options,
		}
		if def.Kind != model.KindStatement {
			p.Type = model.TypeName(def.Type)
		}
		n.Properties = append(n.Properties, p)
	}
	return n
}

// WriteYAML encodes the catalog.
func (c Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
