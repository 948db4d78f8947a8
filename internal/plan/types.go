// Package plan defines the tracking plan artifact: the desired set of
// analytics events, properties, and identity traits for a product, together
// with the naming conventions the plan commits to. Plans are authored by
// hand or seeded from an audit, validated against the conventions, and
// diffed against the audited current state.
package plan

import "sort"

// PlanVersion is the current tracking-plan.yaml schema version.
const PlanVersion = 1

// Canonical convention names. These are the only conventions the validator
// knows how to enforce.
const (
	ConventionDotNotation = "dot.notation"
	ConventionSnakeCase   = "snake_case"
)

// Property types a plan may declare.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeDatetime = "datetime"
	TypeArray    = "array"
	TypeObject   = "object"
)

// ValidTypes maps every supported property type to true.
var ValidTypes = map[string]bool{
	TypeString:   true,
	TypeNumber:   true,
	TypeBoolean:  true,
	TypeDatetime: true,
	TypeArray:    true,
	TypeObject:   true,
}

// Conventions declares which naming conventions the plan follows.
type Conventions struct {
	Events     string `yaml:"events" json:"events"`
	Properties string `yaml:"properties" json:"properties"`
}

// Property is one declared event property.
type Property struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Event is one planned analytics event.
type Event struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Origin      string     `yaml:"origin,omitempty" json:"origin,omitempty"`
	Trigger     string     `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Properties  []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Trait is one declared identity trait.
type Trait struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// TraitSet holds the traits for one identity call type.
type TraitSet struct {
	Traits []Trait `yaml:"traits,omitempty" json:"traits,omitempty"`
}

// Identity declares the planned identify and group traits.
type Identity struct {
	Identify TraitSet `yaml:"identify,omitempty" json:"identify,omitempty"`
	Group    TraitSet `yaml:"group,omitempty" json:"group,omitempty"`
}

// TrackingPlan is the target state of a product's instrumentation.
type TrackingPlan struct {
	Version     int         `yaml:"version" json:"version"`
	Conventions Conventions `yaml:"conventions" json:"conventions"`
	Events      []Event     `yaml:"events,omitempty" json:"events,omitempty"`
	Identity    Identity    `yaml:"identity,omitempty" json:"identity,omitempty"`
}

// ApplyDefaults fills the version and convention declarations when absent.
func (p *TrackingPlan) ApplyDefaults() {
	if p.Version == 0 {
		p.Version = PlanVersion
	}
	if p.Conventions.Events == "" {
		p.Conventions.Events = ConventionDotNotation
	}
	if p.Conventions.Properties == "" {
		p.Conventions.Properties = ConventionSnakeCase
	}
}

// EventByName returns the planned event with the given name.
func (p *TrackingPlan) EventByName(name string) (Event, bool) {
	for _, e := range p.Events {
		if e.Name == name {
			return e, true
		}
	}
	return Event{}, false
}

// EventNames returns all planned event names, sorted.
func (p *TrackingPlan) EventNames() []string {
	names := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// PropertyNames returns the event's declared property names, sorted.
func (e *Event) PropertyNames() []string {
	names := make([]string, 0, len(e.Properties))
	for _, prop := range e.Properties {
		names = append(names, prop.Name)
	}
	sort.Strings(names)
	return names
}

// TraitNames returns the set's trait names, sorted.
func (ts *TraitSet) TraitNames() []string {
	names := make([]string, 0, len(ts.Traits))
	for _, t := range ts.Traits {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// sortPlan orders events, properties, and traits by name so generated plans
// serialize the same way every run.
func sortPlan(p *TrackingPlan) {
	sort.Slice(p.Events, func(i, j int) bool { return p.Events[i].Name < p.Events[j].Name })
	for i := range p.Events {
		props := p.Events[i].Properties
		sort.Slice(props, func(a, b int) bool { return props[a].Name < props[b].Name })
	}
	sortTraits(p.Identity.Identify.Traits)
	sortTraits(p.Identity.Group.Traits)
}

func sortTraits(traits []Trait) {
	sort.Slice(traits, func(i, j int) bool { return traits[i].Name < traits[j].Name })
}
