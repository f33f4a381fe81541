package engine

import (
	"fmt"

	"go.uber.org/zap"

	"restyle/internal/audit"
	"restyle/internal/rules"
	"restyle/internal/spacing"
	"restyle/internal/tree"
)

// Reasons attached to audit records the processor generates itself, as
// opposed to reasons carried by the matched rule.
const (
	ReasonNoMapping          = "no mapping for this property/value/element combination"
	ReasonCollision          = "duplicate target: collision with prioritized mapping"
	ReasonFoldedIntoSpacing  = "folded into compound Spacing property"
	ReasonProfileUnsupported = "not supported in target profile"
)

// UnsupportedRedirectError marks a redirect-to-attribute that the element
// cannot accept. Per-property and non-fatal: the processor logs it and
// continues with the next property.
type UnsupportedRedirectError struct {
	Element   string
	Attribute string
	Err       error
}

func (e *UnsupportedRedirectError) Error() string {
	return fmt.Sprintf("unsupported redirect of %q on element %q: %v", e.Attribute, e.Element, e.Err)
}

func (e *UnsupportedRedirectError) Unwrap() error { return e.Err }

// DocumentInfo locates the element being processed, for audit records.
type DocumentInfo struct {
	Name      string
	Namespace string
}

// Result is everything one element's analysis produced.
type Result struct {
	Mutations []tree.Mutation
	Records   []audit.Record
}

// Counts tallies the result's records per decision.
func (r Result) Counts() audit.Counts {
	return audit.Count(r.Records)
}

// Processor applies the rule index to single elements.
type Processor struct {
	index       *rules.Index
	targetTypes map[string]struct{}
	log         *zap.Logger
}

// NewProcessor builds a processor restricted to the given element-type
// allowlist.
func NewProcessor(index *rules.Index, targetTypes []string, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	allow := make(map[string]struct{}, len(targetTypes))
	for _, t := range targetTypes {
		allow[t] = struct{}{}
	}
	return &Processor{index: index, targetTypes: allow, log: log}
}

// Process analyzes one element and returns its pending mutations and
// audit records. Elements outside the target-type allowlist, or without
// properties, produce nothing.
func (p *Processor) Process(el *tree.Element, doc DocumentInfo) Result {
	var res Result
	if _, ok := p.targetTypes[el.Type]; !ok {
		return res
	}
	if len(el.Properties) == 0 {
		return res
	}

	record := func(prop tree.Property, decision audit.Decision, mappedProp, mappedVal, reason string) {
		res.Records = append(res.Records, audit.Record{
			Element:        el.Name,
			ElementType:    el.Type,
			Document:       doc.Name,
			Namespace:      doc.Namespace,
			Property:       prop.Key,
			Value:          prop.Value.Normalize(),
			Decision:       decision,
			MappedProperty: mappedProp,
			MappedValue:    mappedVal,
			Reason:         reason,
		})
	}

	// claimed maps a rewrite target property to the source property that
	// claimed it first. First claimant wins; later claimants collide.
	claimed := make(map[string]string)
	var contributions []spacing.Contribution

	// Deletes are staged ahead of every other mutation. A rewrite may
	// claim a key that another property on the same element releases in
	// this batch, and the delete must hit the original property, never
	// the freshly rewritten one.
	var deletes, writes []tree.Mutation

	for _, prop := range el.Properties {
		if !p.index.HasRulesFor(prop.Key) {
			continue
		}
		rule := p.index.Resolve(prop.Key, prop.Value.Normalize(), el.Type)
		if rule == nil {
			record(prop, audit.DecisionSkipped, "", "", ReasonNoMapping)
			continue
		}

		switch {
		case rule.Action == rules.ActionRemove:
			deletes = append(deletes, tree.DeleteProperty{Element: el, Key: prop.Key})
			record(prop, audit.DecisionRemoved, "", "", reasonOr(rule, "obsolete in target profile"))

		case rule.IsSpacing():
			contributions = append(contributions, spacing.Contribution{
				Kind:           rule.Map.SpacingKind,
				Axis:           rule.Map.SpacingAxis,
				Value:          rule.Map.Value,
				SourceProperty: prop.Key,
				SourceValue:    prop.Value.Normalize(),
				Reason:         reasonOr(rule, ReasonFoldedIntoSpacing),
			})

		case rule.Action == rules.ActionMap:
			target := rule.Map.Property
			if winner, taken := claimed[target]; taken {
				p.log.Debug("rewrite collision",
					zap.String("element", el.Name),
					zap.String("target", target),
					zap.String("winner", winner),
					zap.String("loser", prop.Key))
				deletes = append(deletes, tree.DeleteProperty{Element: el, Key: prop.Key})
				record(prop, audit.DecisionRemoved, target, "", ReasonCollision)
				continue
			}
			claimed[target] = prop.Key
			writes = append(writes, tree.RewriteProperty{
				Element:     el,
				SourceKey:   prop.Key,
				TargetKey:   target,
				TargetValue: tree.Option{Name: rule.Map.Value},
			})
			record(prop, audit.DecisionMapped, target, rule.Map.Value, rule.Reason)

		case rule.Action == rules.ActionAttribute:
			name, value := rule.Attribute.Name, rule.Attribute.Value
			if err := el.CanSetAttribute(name, value); err != nil {
				redirectErr := &UnsupportedRedirectError{Element: el.Name, Attribute: name, Err: err}
				p.log.Warn("skipping redirect", zap.Error(redirectErr))
				record(prop, audit.DecisionSkipped, "", "", redirectErr.Error())
				continue
			}
			deletes = append(deletes, tree.DeleteProperty{Element: el, Key: prop.Key})
			writes = append(writes, tree.SetAttribute{Element: el, Name: name, Value: value})
			record(prop, audit.DecisionAttributeSet, name, value, rule.Reason)
		}
	}

	if len(contributions) > 0 {
		deletes, writes = p.aggregateSpacing(el, contributions, record, deletes, writes)
	}
	res.Mutations = append(deletes, writes...)
	return res
}

// aggregateSpacing folds pending contributions plus any existing compound
// spacing value into a single replacement mutation. Contributing source
// properties are deleted but audited as mapped: from the operator's view
// they were folded into the aggregate, not discarded.
func (p *Processor) aggregateSpacing(el *tree.Element, contributions []spacing.Contribution,
	record func(tree.Property, audit.Decision, string, string, string),
	deletes, writes []tree.Mutation) ([]tree.Mutation, []tree.Mutation) {

	var existing tree.Compound
	if prop, ok := el.Property(rules.SpacingProperty); ok {
		if c, isCompound := prop.Value.(tree.Compound); isCompound {
			existing = c
		}
	}

	agg := spacing.Aggregate(existing, contributions)
	for _, ow := range agg.Overwrites {
		p.log.Info("spacing slot overwritten",
			zap.String("element", el.Name),
			zap.String("slot", ow.Slot),
			zap.String("previous", ow.Previous),
			zap.String("next", ow.Next),
			zap.String("source", ow.Source))
	}

	for _, c := range contributions {
		deletes = append(deletes, tree.DeleteProperty{Element: el, Key: c.SourceProperty})
		record(tree.Property{Key: c.SourceProperty, Value: tree.Scalar{Text: c.SourceValue}},
			audit.DecisionMapped,
			rules.SpacingProperty,
			fmt.Sprintf("%s=%s", spacing.Slot(c.Kind, c.Axis), c.Value),
			c.Reason)
	}
	writes = append(writes, tree.ReplaceCompound{
		Element: el,
		Key:     rules.SpacingProperty,
		Value:   agg.Final,
	})
	return deletes, writes
}

// ProcessUnsupportedContainer handles whole-document containers that the
// target profile does not allow to carry design properties at all. Every
// property is deleted unconditionally, bypassing the rule resolver.
func (p *Processor) ProcessUnsupportedContainer(el *tree.Element, doc DocumentInfo) Result {
	var res Result
	for _, prop := range el.Properties {
		res.Mutations = append(res.Mutations, tree.DeleteProperty{Element: el, Key: prop.Key})
		res.Records = append(res.Records, audit.Record{
			Element:     el.Name,
			ElementType: el.Type,
			Document:    doc.Name,
			Namespace:   doc.Namespace,
			Property:    prop.Key,
			Value:       prop.Value.Normalize(),
			Decision:    audit.DecisionRemoved,
			Reason:      ReasonProfileUnsupported,
		})
	}
	return res
}

func reasonOr(r *rules.Rule, fallback string) string {
	if r.Reason != "" {
		return r.Reason
	}
	return fallback
}
