package local

import (
	"restyle/internal/tree"
)

// documentYAML is the on-disk document shape.
type documentYAML struct {
	Name         string      `yaml:"name"`
	NativeLayout bool        `yaml:"nativeLayout,omitempty"`
	Root         elementYAML `yaml:"root"`
}

type elementYAML struct {
	Type           string              `yaml:"type"`
	Name           string              `yaml:"name"`
	Properties     []propertyYAML      `yaml:"properties,omitempty"`
	Attributes     map[string]string   `yaml:"attributes,omitempty"`
	AttributeEnums map[string][]string `yaml:"attributeEnums,omitempty"`
	Children       []elementYAML       `yaml:"children,omitempty"`
}

// propertyYAML carries exactly one value kind. An entry with none of the
// value fields decodes as an empty scalar.
type propertyYAML struct {
	Key      string              `yaml:"key"`
	Option   string              `yaml:"option,omitempty"`
	Toggle   *bool               `yaml:"toggle,omitempty"`
	Scalar   *string             `yaml:"scalar,omitempty"`
	Compound []compoundEntryYAML `yaml:"compound,omitempty"`
}

// compoundEntryYAML is one entry of a compound value. Compounds are stored
// as a sequence, not a map, so entry order survives the round trip.
type compoundEntryYAML struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func (e elementYAML) toElement() *tree.Element {
	el := &tree.Element{
		Type:           e.Type,
		Name:           e.Name,
		Attributes:     e.Attributes,
		AttributeEnums: e.AttributeEnums,
	}
	for _, p := range e.Properties {
		el.Properties = append(el.Properties, tree.Property{Key: p.Key, Value: p.toValue()})
	}
	for _, c := range e.Children {
		el.Children = append(el.Children, c.toElement())
	}
	return el
}

func (p propertyYAML) toValue() tree.Value {
	switch {
	case p.Option != "":
		return tree.Option{Name: p.Option}
	case p.Toggle != nil:
		return tree.Toggle{On: *p.Toggle}
	case len(p.Compound) > 0:
		var compound tree.Compound
		for _, e := range p.Compound {
			compound.Set(e.Key, e.Value)
		}
		return compound
	case p.Scalar != nil:
		return tree.Scalar{Text: *p.Scalar}
	default:
		return tree.Scalar{}
	}
}

func fromElement(el *tree.Element) elementYAML {
	out := elementYAML{
		Type:           el.Type,
		Name:           el.Name,
		Attributes:     el.Attributes,
		AttributeEnums: el.AttributeEnums,
	}
	for _, p := range el.Properties {
		out.Properties = append(out.Properties, fromProperty(p))
	}
	for _, c := range el.Children {
		out.Children = append(out.Children, fromElement(c))
	}
	return out
}

func fromProperty(p tree.Property) propertyYAML {
	out := propertyYAML{Key: p.Key}
	switch v := p.Value.(type) {
	case tree.Option:
		out.Option = v.Name
	case tree.Toggle:
		on := v.On
		out.Toggle = &on
	case tree.Compound:
		out.Compound = make([]compoundEntryYAML, 0, len(v.Pairs))
		for _, pair := range v.Pairs {
			out.Compound = append(out.Compound, compoundEntryYAML{Key: pair.Key, Value: pair.Value})
		}
	case tree.Scalar:
		text := v.Text
		out.Scalar = &text
	}
	return out
}
