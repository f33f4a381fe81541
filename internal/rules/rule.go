// Package rules loads the remediation rule catalog and resolves rules
// against (property, value, element type) lookup keys.
package rules

import "fmt"

// Action is what a matched rule does to the source property.
type Action string

const (
	// ActionMap rewrites the property to a new key and value.
	ActionMap Action = "map"
	// ActionRemove deletes the property.
	ActionRemove Action = "remove"
	// ActionAttribute redirects the property into a structural attribute
	// and deletes the source property.
	ActionAttribute Action = "attribute"
)

// Wildcard is the element-type scope that matches any type.
const Wildcard = "*"

// SpacingProperty is the compound target property that directional
// spacing rules converge on.
const SpacingProperty = "Spacing"

// Axis is one side of the box model.
type Axis string

const (
	AxisTop    Axis = "top"
	AxisRight  Axis = "right"
	AxisBottom Axis = "bottom"
	AxisLeft   Axis = "left"
)

// Kind is one layer of the box model.
type Kind string

const (
	KindMargin  Kind = "margin"
	KindPadding Kind = "padding"
)

// MapPayload is the action-specific payload of an ActionMap rule.
type MapPayload struct {
	Property string
	Value    string
	// SpacingAxis and SpacingKind are set only on directional spacing
	// rules, whose target property is always SpacingProperty.
	SpacingAxis Axis
	SpacingKind Kind
}

// AttributePayload is the action-specific payload of an ActionAttribute rule.
type AttributePayload struct {
	Name  string
	Value string
}

// Rule is one immutable remediation rule. Exactly one of Map and
// Attribute is populated, matching the action kind.
type Rule struct {
	Property     string
	Value        string
	ElementTypes []string
	Action       Action
	Map          *MapPayload
	Attribute    *AttributePayload
	Reason       string
}

// IsSpacing reports whether the rule contributes to the compound spacing
// aggregate rather than rewriting its property directly.
func (r *Rule) IsSpacing() bool {
	return r.Action == ActionMap && r.Map != nil && r.Map.SpacingAxis != ""
}

// IsWildcard reports whether the rule applies to any element type.
func (r *Rule) IsWildcard() bool {
	for _, t := range r.ElementTypes {
		if t == Wildcard {
			return true
		}
	}
	return len(r.ElementTypes) == 0
}

func validAxis(a Axis) bool {
	switch a {
	case AxisTop, AxisRight, AxisBottom, AxisLeft:
		return true
	}
	return false
}

func validKind(k Kind) bool {
	switch k {
	case KindMargin, KindPadding:
		return true
	}
	return false
}

// validate enforces the rule invariants: the payload must match the
// action kind, and a spacing axis implies the Spacing target property.
func (r *Rule) validate() error {
	switch r.Action {
	case ActionMap:
		if r.Map == nil {
			return fmt.Errorf("map rule for %q/%q is missing its mapped property", r.Property, r.Value)
		}
		if r.Attribute != nil {
			return fmt.Errorf("map rule for %q/%q carries an attribute payload", r.Property, r.Value)
		}
		if r.Map.SpacingAxis != "" {
			if !validAxis(r.Map.SpacingAxis) {
				return fmt.Errorf("rule for %q/%q has unknown spacing axis %q", r.Property, r.Value, r.Map.SpacingAxis)
			}
			if !validKind(r.Map.SpacingKind) {
				return fmt.Errorf("rule for %q/%q has unknown spacing kind %q", r.Property, r.Value, r.Map.SpacingKind)
			}
			if r.Map.Property != SpacingProperty {
				return fmt.Errorf("rule for %q/%q has a spacing axis but targets %q, not %q",
					r.Property, r.Value, r.Map.Property, SpacingProperty)
			}
		}
	case ActionRemove:
		if r.Map != nil || r.Attribute != nil {
			return fmt.Errorf("remove rule for %q/%q must not carry a payload", r.Property, r.Value)
		}
	case ActionAttribute:
		if r.Attribute == nil || r.Attribute.Name == "" {
			return fmt.Errorf("attribute rule for %q/%q is missing its target attribute", r.Property, r.Value)
		}
		if r.Map != nil {
			return fmt.Errorf("attribute rule for %q/%q carries a map payload", r.Property, r.Value)
		}
	default:
		return fmt.Errorf("rule for %q/%q has unknown action %q", r.Property, r.Value, r.Action)
	}
	return nil
}
