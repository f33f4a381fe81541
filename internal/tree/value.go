package tree

import "fmt"

// CompoundMarker is the normalized representation of a compound value.
// Rule lookup never descends into compound structures; they are matched
// as an opaque unit.
const CompoundMarker = "(compound)"

// Value is the closed set of design-property value kinds. Every property
// carries exactly one of Option, Toggle, Scalar or Compound.
type Value interface {
	isValue()
	// Normalize returns the string form used as the rule lookup key.
	Normalize() string
}

// Option is a single-option choice value (one name out of an enumeration).
type Option struct {
	Name string
}

// Toggle is a boolean-presence value.
type Toggle struct {
	On bool
}

// Scalar is a plain text value.
type Scalar struct {
	Text string
}

// Compound is a nested key/value structure, for example the box-model
// spacing property. Entry order is preserved as declared.
type Compound struct {
	Pairs []Pair
}

// Pair is one entry of a Compound value.
type Pair struct {
	Key   string
	Value string
}

func (Option) isValue()   {}
func (Toggle) isValue()   {}
func (Scalar) isValue()   {}
func (Compound) isValue() {}

func (o Option) Normalize() string { return o.Name }

func (t Toggle) Normalize() string {
	if t.On {
		return "true"
	}
	return "false"
}

func (s Scalar) Normalize() string { return s.Text }

func (Compound) Normalize() string { return CompoundMarker }

// Get returns the value for key, or false when the key is absent.
func (c Compound) Get(key string) (string, bool) {
	for _, p := range c.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Set inserts or replaces an entry, preserving the position of an
// existing key.
func (c *Compound) Set(key, value string) {
	for i, p := range c.Pairs {
		if p.Key == key {
			c.Pairs[i].Value = value
			return
		}
	}
	c.Pairs = append(c.Pairs, Pair{Key: key, Value: value})
}

// String renders a debug form such as "{margin-top=Small padding-left=Medium}".
func (c Compound) String() string {
	s := "{"
	for i, p := range c.Pairs {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%s", p.Key, p.Value)
	}
	return s + "}"
}
