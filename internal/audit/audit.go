// Package audit defines the append-only record stream produced during the
// dry-run analysis pass. Records are created before any mutation is
// committed and consumed once by the reporter at the end of a run.
package audit

// Decision classifies what the engine decided for one property.
type Decision string

const (
	// DecisionMapped: the property was rewritten, or folded into the
	// compound spacing aggregate.
	DecisionMapped Decision = "mapped"
	// DecisionRemoved: the property was deleted, either by a remove rule,
	// a destination collision, or the target-profile container rule.
	DecisionRemoved Decision = "removed"
	// DecisionSkipped: no applicable rule, or a redirect that the element
	// could not accept. The property is left untouched.
	DecisionSkipped Decision = "skipped"
	// DecisionAttributeSet: the property was absorbed into a structural
	// attribute.
	DecisionAttributeSet Decision = "attributeSet"
)

// Record is one row of the audit trail: a single property decision.
// Records are never mutated after creation.
type Record struct {
	Element     string
	ElementType string
	Document    string
	Namespace   string

	Property string
	Value    string

	Decision       Decision
	MappedProperty string
	MappedValue    string
	Reason         string
}

// Counts aggregates records per decision kind.
type Counts map[Decision]int

// Count tallies a record stream.
func Count(records []Record) Counts {
	c := make(Counts)
	for _, r := range records {
		c[r.Decision]++
	}
	return c
}

// Total is the number of counted records across all decisions.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
