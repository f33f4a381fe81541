// Package engine decides, per element, what happens to each design
// property: rewrite, delete, redirect into an attribute, or leave alone.
//
// The processor never mutates anything itself. It emits pending mutations
// plus audit records; the walker applies the mutations in a second pass
// only after the operator confirms. Key behaviors:
//
//   - Rule lookup is exact-then-wildcard, delegated to rules.Index.
//   - Directional spacing matches are folded into one compound "Spacing"
//     property via the spacing aggregator, preserving pre-existing sides.
//   - When two properties on the same element map to the same target, the
//     first one processed wins and the later claimant is deleted. The
//     element's property declaration order is the authoritative tie-break.
//   - Every decision, including every skip, produces an audit record.
package engine
