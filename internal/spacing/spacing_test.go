package spacing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"restyle/internal/rules"
	"restyle/internal/tree"
)

func TestAggregate_PreservesExistingSides(t *testing.T) {
	existing := tree.Compound{Pairs: []tree.Pair{{Key: "margin-top", Value: "Small"}}}
	contribs := []Contribution{
		{Kind: rules.KindPadding, Axis: rules.AxisLeft, Value: "Medium", SourceProperty: "Left padding"},
	}

	res := Aggregate(existing, contribs)

	want := tree.Compound{Pairs: []tree.Pair{
		{Key: "margin-top", Value: "Small"},
		{Key: "padding-left", Value: "Medium"},
	}}
	if diff := cmp.Diff(want, res.Final); diff != "" {
		t.Errorf("final compound mismatch (-want +got):\n%s", diff)
	}
	if len(res.Overwrites) != 0 {
		t.Errorf("expected no overwrites, got %v", res.Overwrites)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	existing := tree.Compound{Pairs: []tree.Pair{
		{Key: "margin-top", Value: "Small"},
		{Key: "padding-left", Value: "Medium"},
	}}

	// A fully migrated element has no native spacing properties left, so
	// the aggregator runs with zero contributions.
	once := Aggregate(existing, nil)
	twice := Aggregate(once.Final, nil)

	if diff := cmp.Diff(once.Final, twice.Final); diff != "" {
		t.Errorf("aggregation is not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(existing, twice.Final); diff != "" {
		t.Errorf("already-migrated value changed (-want +got):\n%s", diff)
	}
}

func TestAggregate_LaterContributionWins(t *testing.T) {
	contribs := []Contribution{
		{Kind: rules.KindMargin, Axis: rules.AxisTop, Value: "Small", SourceProperty: "Top margin"},
		{Kind: rules.KindMargin, Axis: rules.AxisTop, Value: "Large", SourceProperty: "Top offset"},
	}

	res := Aggregate(tree.Compound{}, contribs)

	if v, _ := res.Final.Get("margin-top"); v != "Large" {
		t.Errorf("expected the later contribution to win, got %q", v)
	}
	if len(res.Overwrites) != 1 {
		t.Fatalf("expected 1 overwrite, got %v", res.Overwrites)
	}
	ow := res.Overwrites[0]
	if ow.Slot != "margin-top" || ow.Previous != "Small" || ow.Next != "Large" || ow.Source != "Top offset" {
		t.Errorf("unexpected overwrite record: %+v", ow)
	}
}

func TestAggregate_OverwriteLoggedEvenWhenIdentical(t *testing.T) {
	existing := tree.Compound{Pairs: []tree.Pair{{Key: "margin-top", Value: "Small"}}}
	contribs := []Contribution{
		{Kind: rules.KindMargin, Axis: rules.AxisTop, Value: "Small", SourceProperty: "Top margin"},
	}

	res := Aggregate(existing, contribs)
	if len(res.Overwrites) != 1 {
		t.Fatalf("identical overwrite must still be recorded, got %v", res.Overwrites)
	}
}

func TestAggregate_MalformedExistingKeysIgnored(t *testing.T) {
	existing := tree.Compound{Pairs: []tree.Pair{
		{Key: "margin-top", Value: "Small"},
		{Key: "bogus", Value: "x"},
		{Key: "margin-diagonal", Value: "y"},
		{Key: "border-left", Value: "z"},
	}}

	res := Aggregate(existing, nil)

	want := tree.Compound{Pairs: []tree.Pair{{Key: "margin-top", Value: "Small"}}}
	if diff := cmp.Diff(want, res.Final); diff != "" {
		t.Errorf("malformed keys must be dropped (-want +got):\n%s", diff)
	}
}

func TestAggregate_AbsentSidesNeverMaterialized(t *testing.T) {
	contribs := []Contribution{
		{Kind: rules.KindMargin, Axis: rules.AxisTop, Value: Absent, SourceProperty: "Top margin"},
	}
	res := Aggregate(tree.Compound{}, contribs)
	if len(res.Final.Pairs) != 0 {
		t.Errorf("an empty box model must be the empty compound, got %v", res.Final)
	}
}

func TestAggregate_CanonicalSlotOrder(t *testing.T) {
	contribs := []Contribution{
		{Kind: rules.KindPadding, Axis: rules.AxisBottom, Value: "A"},
		{Kind: rules.KindMargin, Axis: rules.AxisLeft, Value: "B"},
		{Kind: rules.KindMargin, Axis: rules.AxisTop, Value: "C"},
	}
	res := Aggregate(tree.Compound{}, contribs)

	want := []tree.Pair{
		{Key: "margin-top", Value: "C"},
		{Key: "margin-left", Value: "B"},
		{Key: "padding-bottom", Value: "A"},
	}
	if diff := cmp.Diff(want, res.Final.Pairs); diff != "" {
		t.Errorf("slot order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSlot(t *testing.T) {
	kind, axis, ok := ParseSlot("padding-right")
	if !ok || kind != rules.KindPadding || axis != rules.AxisRight {
		t.Errorf("ParseSlot(padding-right) = %v %v %v", kind, axis, ok)
	}
	for _, bad := range []string{"padding", "border-top", "margin-middle", ""} {
		if _, _, ok := ParseSlot(bad); ok {
			t.Errorf("ParseSlot(%q) should fail", bad)
		}
	}
}
