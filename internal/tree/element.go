package tree

import "fmt"

// Property is one named design property on an element.
type Property struct {
	Key   string
	Value Value
}

// Element is a node in a document's element tree. Properties keep their
// declaration order; that order is the authoritative processing order for
// the remediation engine, including its collision tie-break.
type Element struct {
	Type string
	Name string

	// Properties are the element's design properties, in declaration order.
	Properties []Property

	// Attributes are structural attributes, addressed by name and set
	// outside the design-property list.
	Attributes map[string]string

	// AttributeEnums lists the attributes this element supports and, per
	// attribute, the enumerated values it accepts. An attribute absent
	// from this map is unsupported.
	AttributeEnums map[string][]string

	Children []*Element
}

// Property returns the property with the given key, if present.
func (e *Element) Property(key string) (Property, bool) {
	for _, p := range e.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// HasProperty reports whether the element carries the given property key.
func (e *Element) HasProperty(key string) bool {
	_, ok := e.Property(key)
	return ok
}

// RewriteProperty replaces the key and value of an existing property in
// place, preserving its position in the declaration order.
func (e *Element) RewriteProperty(sourceKey, targetKey string, v Value) error {
	for i, p := range e.Properties {
		if p.Key == sourceKey {
			e.Properties[i] = Property{Key: targetKey, Value: v}
			return nil
		}
	}
	return fmt.Errorf("element %q has no property %q", e.Name, sourceKey)
}

// DeleteProperty removes the property with the given key.
func (e *Element) DeleteProperty(key string) error {
	for i, p := range e.Properties {
		if p.Key == key {
			e.Properties = append(e.Properties[:i], e.Properties[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("element %q has no property %q", e.Name, key)
}

// ReplaceProperty removes any existing property with the given key and
// appends a fresh one. Delete-then-insert keeps replaced compound values
// structurally valid instead of editing them in place.
func (e *Element) ReplaceProperty(key string, v Value) {
	for i, p := range e.Properties {
		if p.Key == key {
			e.Properties = append(e.Properties[:i], e.Properties[i+1:]...)
			break
		}
	}
	e.Properties = append(e.Properties, Property{Key: key, Value: v})
}

// CanSetAttribute reports whether the element supports the named attribute
// and whether value is one of its enumerated values.
func (e *Element) CanSetAttribute(name, value string) error {
	enum, ok := e.AttributeEnums[name]
	if !ok {
		return fmt.Errorf("element type %q does not support attribute %q", e.Type, name)
	}
	for _, v := range enum {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("value %q is not an enumerated value of attribute %q on %q", value, name, e.Type)
}

// SetAttribute sets a supported attribute to an enumerated value.
func (e *Element) SetAttribute(name, value string) error {
	if err := e.CanSetAttribute(name, value); err != nil {
		return err
	}
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[name] = value
	return nil
}
