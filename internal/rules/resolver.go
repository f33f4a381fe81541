package rules

// lookupKey is the composite key a rule is indexed under.
type lookupKey struct {
	property    string
	value       string
	elementType string
}

// Index is the read-only lookup structure built once from a catalog.
// Exact (property, value, elementType) keys are checked before wildcard
// (property, value, *) keys; the same property/value pair legitimately
// means different things on different element types, so type-scoped rules
// always win over type-agnostic defaults.
type Index struct {
	exact    map[lookupKey]*Rule
	wildcard map[lookupKey]*Rule

	// properties holds every property name with at least one rule, for
	// the O(1) "is this property interesting" fast path.
	properties map[string]struct{}
}

// NewIndex builds the lookup index. Later catalog entries for an already
// occupied key are ignored; the first definition wins.
func NewIndex(cat *Catalog) *Index {
	ix := &Index{
		exact:      make(map[lookupKey]*Rule),
		wildcard:   make(map[lookupKey]*Rule),
		properties: make(map[string]struct{}),
	}
	for i := range cat.Rules {
		rule := &cat.Rules[i]
		ix.properties[rule.Property] = struct{}{}
		if rule.IsWildcard() {
			k := lookupKey{rule.Property, rule.Value, Wildcard}
			if _, taken := ix.wildcard[k]; !taken {
				ix.wildcard[k] = rule
			}
			continue
		}
		for _, et := range rule.ElementTypes {
			k := lookupKey{rule.Property, rule.Value, et}
			if _, taken := ix.exact[k]; !taken {
				ix.exact[k] = rule
			}
		}
	}
	return ix
}

// Resolve returns the applicable rule for the lookup triple, or nil when
// neither an exact nor a wildcard entry exists. A nil result means "no
// applicable rule", never an error.
func (ix *Index) Resolve(property, value, elementType string) *Rule {
	if r, ok := ix.exact[lookupKey{property, value, elementType}]; ok {
		return r
	}
	if r, ok := ix.wildcard[lookupKey{property, value, Wildcard}]; ok {
		return r
	}
	return nil
}

// HasRulesFor reports whether any rule covers the property name, letting
// callers skip irrelevant properties without building a full lookup key.
func (ix *Index) HasRulesFor(property string) bool {
	_, ok := ix.properties[property]
	return ok
}
