// Package audit extracts the current analytics instrumentation state from a
// repository. It finds track, identify, and group call sites with regex
// heuristics, resolves event names and property keys, and aggregates them
// into the current-state artifact. Extraction is purely static: no target
// code is ever executed.
package audit

import "time"

// StateVersion is the current-state.yaml schema version.
const StateVersion = 1

// Event status values.
const (
	StatusLive     = "live"     // at least one call-site sighting
	StatusOrphaned = "orphaned" // defined in a constant table but never called
)

// Location kinds.
const (
	KindCall       = "call"
	KindDefinition = "definition"
)

// DynamicName marks call sites whose event name is computed at runtime.
// These are excluded from the event list and reported as warnings.
const DynamicName = "<dynamic>"

// Location pinpoints one sighting of an event in the repository.
type Location struct {
	File string `yaml:"file" json:"file"`
	Line int    `yaml:"line" json:"line"`
	Kind string `yaml:"kind" json:"kind"`
}

// Event is one tracked event observed in the codebase.
type Event struct {
	Name       string     `yaml:"name" json:"name"`
	Status     string     `yaml:"status" json:"status"`
	Origin     string     `yaml:"origin" json:"origin"`
	SDK        string     `yaml:"sdk,omitempty" json:"sdk,omitempty"`
	Locations  []Location `yaml:"locations" json:"locations"`
	Properties []string   `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// IdentitySection captures identify or group call usage.
type IdentitySection struct {
	Traits    []string   `yaml:"traits,omitempty" json:"traits,omitempty"`
	Locations []Location `yaml:"locations,omitempty" json:"locations,omitempty"`
}

// NamingPatterns summarizes observed event naming styles.
type NamingPatterns struct {
	Dominant string         `yaml:"dominant,omitempty" json:"dominant,omitempty"`
	Counts   map[string]int `yaml:"counts,omitempty" json:"counts,omitempty"`
}

// CentralizationPatterns reports whether calls flow through a wrapper module.
type CentralizationPatterns struct {
	WrapperDetected bool     `yaml:"wrapper_detected" json:"wrapper_detected"`
	WrapperFiles    []string `yaml:"wrapper_files,omitempty" json:"wrapper_files,omitempty"`
	CallFiles       []string `yaml:"call_files,omitempty" json:"call_files,omitempty"`
}

// ErrorHandlingPatterns counts guarded versus bare analytics calls.
type ErrorHandlingPatterns struct {
	GuardedCalls   int `yaml:"guarded_calls" json:"guarded_calls"`
	UnguardedCalls int `yaml:"unguarded_calls" json:"unguarded_calls"`
}

// Patterns aggregates instrumentation style observations.
type Patterns struct {
	Naming         NamingPatterns         `yaml:"naming" json:"naming"`
	Centralization CentralizationPatterns `yaml:"centralization" json:"centralization"`
	ErrorHandling  ErrorHandlingPatterns  `yaml:"error_handling" json:"error_handling"`
}

// Warning flags a call site the auditor could not fully resolve.
type Warning struct {
	File    string `yaml:"file" json:"file"`
	Line    int    `yaml:"line" json:"line"`
	Message string `yaml:"message" json:"message"`
}

// CurrentState is the audited truth of what the codebase tracks today.
type CurrentState struct {
	Version   int             `yaml:"version" json:"version"`
	ScannedAt time.Time       `yaml:"scanned_at" json:"scanned_at"`
	Root      string          `yaml:"root" json:"root"`
	Events    []Event         `yaml:"events" json:"events"`
	Identify  IdentitySection `yaml:"identify,omitempty" json:"identify,omitempty"`
	Group     IdentitySection `yaml:"group,omitempty" json:"group,omitempty"`
	Patterns  Patterns        `yaml:"patterns" json:"patterns"`
	Warnings  []Warning       `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// EventByName returns the event with the given name.
func (s *CurrentState) EventByName(name string) (Event, bool) {
	for _, e := range s.Events {
		if e.Name == name {
			return e, true
		}
	}
	return Event{}, false
}

// EventNames returns all event names in order.
func (s *CurrentState) EventNames() []string {
	names := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		names = append(names, e.Name)
	}
	return names
}

// LiveEvents returns only events with at least one call sighting.
func (s *CurrentState) LiveEvents() []Event {
	var out []Event
	for _, e := range s.Events {
		if e.Status == StatusLive {
			out = append(out, e)
		}
	}
	return out
}
