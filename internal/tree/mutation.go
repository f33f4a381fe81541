package tree

import "fmt"

// Mutation is a queued, not-yet-applied change to one element. Mutations
// are staged during the read-only analysis pass and applied in a separate
// pass after the operator confirms, so the tree is never edited while it
// is being traversed.
type Mutation interface {
	// Apply performs the change against the in-memory element.
	Apply() error
	// Target returns the element the mutation edits. Backends use it to
	// decide which documents a committed batch actually touched.
	Target() *Element
	// Describe renders a one-line human-readable form for logs and the
	// commit batch.
	Describe() string
}

// RewriteProperty replaces a property's key and value, keeping its
// position. Any existing compound value is replaced by the simple target
// value.
type RewriteProperty struct {
	Element     *Element
	SourceKey   string
	TargetKey   string
	TargetValue Value
}

func (m RewriteProperty) Apply() error {
	return m.Element.RewriteProperty(m.SourceKey, m.TargetKey, m.TargetValue)
}

func (m RewriteProperty) Target() *Element { return m.Element }

func (m RewriteProperty) Describe() string {
	return fmt.Sprintf("rewrite %s.%s -> %s=%s", m.Element.Name, m.SourceKey, m.TargetKey, m.TargetValue.Normalize())
}

// DeleteProperty removes a property from the element.
type DeleteProperty struct {
	Element *Element
	Key     string
}

func (m DeleteProperty) Apply() error {
	return m.Element.DeleteProperty(m.Key)
}

func (m DeleteProperty) Target() *Element { return m.Element }

func (m DeleteProperty) Describe() string {
	return fmt.Sprintf("delete %s.%s", m.Element.Name, m.Key)
}

// SetAttribute writes a structural attribute on the element, bypassing the
// design-property list.
type SetAttribute struct {
	Element *Element
	Name    string
	Value   string
}

func (m SetAttribute) Apply() error {
	return m.Element.SetAttribute(m.Name, m.Value)
}

func (m SetAttribute) Target() *Element { return m.Element }

func (m SetAttribute) Describe() string {
	return fmt.Sprintf("set attribute %s.%s=%s", m.Element.Name, m.Name, m.Value)
}

// ReplaceCompound swaps an entire compound property for a newly
// materialized one, delete-then-insert.
type ReplaceCompound struct {
	Element *Element
	Key     string
	Value   Compound
}

func (m ReplaceCompound) Apply() error {
	m.Element.ReplaceProperty(m.Key, m.Value)
	return nil
}

func (m ReplaceCompound) Target() *Element { return m.Element }

func (m ReplaceCompound) Describe() string {
	return fmt.Sprintf("replace %s.%s with %s", m.Element.Name, m.Key, m.Value)
}
