// Package spacing merges directional spacing contributions into the
// single compound "Spacing" property.
//
// Several independently triggered rules, one per native spacing property,
// converge on one compound value. The aggregator must not clobber sides
// it was not asked to touch, and must not lose sides that were already
// set before the run.
package spacing

import (
	"fmt"
	"strings"

	"restyle/internal/rules"
	"restyle/internal/tree"
)

// Absent is the neutral default for a box slot. Absent slots are never
// materialized into the final compound value.
const Absent = "None"

// kinds and axes in materialization order.
var (
	kinds = []rules.Kind{rules.KindMargin, rules.KindPadding}
	axes  = []rules.Axis{rules.AxisTop, rules.AxisRight, rules.AxisBottom, rules.AxisLeft}
)

// Contribution is one pending spacing assignment handed off by the
// element processor when a map rule carries a spacing axis.
type Contribution struct {
	Kind  rules.Kind
	Axis  rules.Axis
	Value string

	// SourceProperty and SourceValue identify the native property that
	// triggered the contribution, for the audit trail.
	SourceProperty string
	SourceValue    string
	Reason         string
}

// Slot names the compound entry for one (kind, axis) pair, e.g. "margin-top".
func Slot(kind rules.Kind, axis rules.Axis) string {
	return fmt.Sprintf("%s-%s", kind, axis)
}

// Overwrite notes that a later contribution replaced an earlier value for
// the same slot. Logged even when the new value is identical.
type Overwrite struct {
	Slot     string
	Previous string
	Next     string
	Source   string
}

// Result is the outcome of one aggregation.
type Result struct {
	// Final is the materialized compound value: only non-absent slots,
	// margin before padding, sides in top/right/bottom/left order.
	Final tree.Compound
	// Overwrites lists every slot replacement that happened while
	// applying contributions, for auditability.
	Overwrites []Overwrite
}

// box is the 8-slot state: margin and padding, four sides each.
type box struct {
	slots map[string]string
}

func newBox() *box {
	b := &box{slots: make(map[string]string, 8)}
	for _, k := range kinds {
		for _, a := range axes {
			b.slots[Slot(k, a)] = Absent
		}
	}
	return b
}

// seed parses an existing compound spacing value into the box. Keys not
// in the kind-side format are ignored: malformed existing data must not
// crash the run.
func (b *box) seed(existing tree.Compound) {
	for _, pair := range existing.Pairs {
		if _, _, ok := ParseSlot(pair.Key); !ok {
			continue
		}
		b.slots[pair.Key] = pair.Value
	}
}

// ParseSlot splits a compound key of the form "kind-side". The second
// return is false for keys outside the expected format.
func ParseSlot(key string) (rules.Kind, rules.Axis, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	kind, axis := rules.Kind(parts[0]), rules.Axis(parts[1])
	for _, k := range kinds {
		if kind != k {
			continue
		}
		for _, a := range axes {
			if axis == a {
				return kind, axis, true
			}
		}
	}
	return "", "", false
}

// Aggregate merges contributions over any pre-existing compound spacing
// value. Contributions apply in the given order; later contributions win
// for the same slot. Re-running the aggregation on an already migrated
// element with no new contributions yields the existing value unchanged.
func Aggregate(existing tree.Compound, contributions []Contribution) Result {
	b := newBox()
	b.seed(existing)

	var res Result
	for _, c := range contributions {
		slot := Slot(c.Kind, c.Axis)
		prev := b.slots[slot]
		if prev != Absent {
			res.Overwrites = append(res.Overwrites, Overwrite{
				Slot:     slot,
				Previous: prev,
				Next:     c.Value,
				Source:   c.SourceProperty,
			})
		}
		b.slots[slot] = c.Value
	}

	for _, k := range kinds {
		for _, a := range axes {
			slot := Slot(k, a)
			if v := b.slots[slot]; v != Absent {
				res.Final.Set(slot, v)
			}
		}
	}
	return res
}
