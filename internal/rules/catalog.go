package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadError is fatal: the rule source is missing or malformed. The run
// stops before any tree is touched.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rule catalog %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Metadata is free-form information carried by the rule source.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// catalogFile is the on-disk YAML shape of the rule source.
type catalogFile struct {
	Metadata Metadata    `yaml:"metadata"`
	Rules    []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Property     string   `yaml:"property"`
	Value        string   `yaml:"value"`
	ElementTypes []string `yaml:"elementTypes"`
	Action       string   `yaml:"action"`

	MappedProperty string `yaml:"mappedProperty"`
	MappedValue    string `yaml:"mappedValue"`
	SpacingAxis    string `yaml:"spacingAxis"`
	SpacingKind    string `yaml:"spacingKind"`

	AttributeName  string `yaml:"attributeName"`
	AttributeValue string `yaml:"attributeValue"`

	Reason  string `yaml:"reason"`
	Comment string `yaml:"comment"`
}

// Catalog is the loaded, validated rule set. Read-only after Load.
type Catalog struct {
	Metadata Metadata
	Rules    []Rule

	// CommentEntries counts source entries without a property name or
	// match value; they are treated as comments and discarded.
	CommentEntries int
}

// Load reads and validates a rule catalog from a YAML file. A missing or
// unparseable source yields a *LoadError. Entries lacking a property name
// or match value are skipped, not errors.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(path, data)
}

// Parse validates raw catalog bytes. The source name is used in errors only.
func Parse(source string, data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	cat := &Catalog{Metadata: file.Metadata}
	for i, entry := range file.Rules {
		if entry.Property == "" || entry.Value == "" {
			cat.CommentEntries++
			continue
		}
		rule, err := entry.toRule()
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		cat.Rules = append(cat.Rules, rule)
	}
	return cat, nil
}

func (e ruleEntry) toRule() (Rule, error) {
	r := Rule{
		Property:     e.Property,
		Value:        e.Value,
		ElementTypes: e.ElementTypes,
		Action:       Action(e.Action),
		Reason:       e.Reason,
	}
	switch r.Action {
	case ActionMap:
		r.Map = &MapPayload{
			Property:    e.MappedProperty,
			Value:       e.MappedValue,
			SpacingAxis: Axis(e.SpacingAxis),
			SpacingKind: Kind(e.SpacingKind),
		}
	case ActionAttribute:
		r.Attribute = &AttributePayload{
			Name:  e.AttributeName,
			Value: e.AttributeValue,
		}
	}
	if err := r.validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Summary is the up-front human-readable description of a loaded catalog.
type Summary struct {
	Total      int
	PerAction  map[Action]int
	Properties []string
}

// Summary computes rule counts and the distinct covered property names,
// sorted for stable output.
func (c *Catalog) Summary() Summary {
	s := Summary{
		Total:     len(c.Rules),
		PerAction: make(map[Action]int),
	}
	seen := make(map[string]struct{})
	for _, r := range c.Rules {
		s.PerAction[r.Action]++
		if _, ok := seen[r.Property]; !ok {
			seen[r.Property] = struct{}{}
			s.Properties = append(s.Properties, r.Property)
		}
	}
	sort.Strings(s.Properties)
	return s
}
