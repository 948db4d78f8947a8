// Package delta computes the difference between an audited current state
// and a tracking plan. The result is a pure function of the two artifacts:
// unchanged events are omitted, and every list is sorted, so rendering the
// same inputs always produces identical bytes.
package delta

import (
	"sort"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// Add is a planned event with no counterpart in the code.
type Add struct {
	Name        string
	Description string
	Origin      string
	Properties  []string
}

// Rename pairs an observed event with the planned event that shares its
// definition under a different name.
type Rename struct {
	From       string // name observed in code
	To         string // planned name
	Properties []string
}

// Change is an event present on both sides whose definitions differ.
type Change struct {
	Name           string
	PropsMissing   []string // planned but never observed
	PropsUnplanned []string // observed but not planned
	OriginCurrent  string   // set with OriginPlanned when origins conflict
	OriginPlanned  string
}

// Remove is an observed event the plan no longer wants.
type Remove struct {
	Name      string
	Status    string
	Locations []audit.Location
}

// IdentityDiff compares observed identity traits against the planned set.
type IdentityDiff struct {
	Missing   []string // planned traits never observed
	Unplanned []string // observed traits not in the plan
}

func (d IdentityDiff) empty() bool {
	return len(d.Missing) == 0 && len(d.Unplanned) == 0
}

// Delta is the full difference between current state and tracking plan.
type Delta struct {
	Adds     []Add
	Renames  []Rename
	Changes  []Change
	Removes  []Remove
	Identify IdentityDiff
	Group    IdentityDiff
}

// Empty reports whether the instrumentation already matches the plan.
func (d *Delta) Empty() bool {
	return len(d.Adds) == 0 && len(d.Renames) == 0 && len(d.Changes) == 0 &&
		len(d.Removes) == 0 && d.Identify.empty() && d.Group.empty()
}

// Total returns the number of event-level differences.
func (d *Delta) Total() int {
	return len(d.Adds) + len(d.Renames) + len(d.Changes) + len(d.Removes)
}

// Compute diffs the two artifacts keyed on event name. Either side may be
// nil: a nil plan makes every observed event a removal, a nil state makes
// every planned event an addition.
func Compute(state *audit.CurrentState, p *plan.TrackingPlan) *Delta {
	if state == nil {
		state = &audit.CurrentState{}
	}
	if p == nil {
		p = &plan.TrackingPlan{}
	}

	currentByName := make(map[string]audit.Event)
	for _, e := range state.Events {
		if _, dup := currentByName[e.Name]; !dup {
			currentByName[e.Name] = e
		}
	}
	planByName := make(map[string]plan.Event)
	for _, e := range p.Events {
		if _, dup := planByName[e.Name]; !dup {
			planByName[e.Name] = e
		}
	}

	d := &Delta{}

	var currentOnly, planOnly []string
	for name, cur := range currentByName {
		pe, shared := planByName[name]
		if !shared {
			currentOnly = append(currentOnly, name)
			continue
		}
		if !equalDefinition(cur, pe) {
			d.Changes = append(d.Changes, changeFor(cur, pe))
		}
	}
	for name := range planByName {
		if _, shared := currentByName[name]; !shared {
			planOnly = append(planOnly, name)
		}
	}
	sort.Strings(currentOnly)
	sort.Strings(planOnly)

	// Pair renames greedily in sorted name order so the pairing is
	// deterministic even when several definitions are identical.
	paired := make(map[string]bool)
	for _, curName := range currentOnly {
		cur := currentByName[curName]
		for _, planName := range planOnly {
			if paired[planName] {
				continue
			}
			pe := planByName[planName]
			if equalDefinition(cur, pe) {
				paired[planName] = true
				d.Renames = append(d.Renames, Rename{
					From:       curName,
					To:         planName,
					Properties: pe.PropertyNames(),
				})
				break
			}
		}
	}

	for _, name := range planOnly {
		if paired[name] {
			continue
		}
		pe := planByName[name]
		d.Adds = append(d.Adds, Add{
			Name:        name,
			Description: pe.Description,
			Origin:      pe.Origin,
			Properties:  pe.PropertyNames(),
		})
	}
	for _, name := range currentOnly {
		if renamedFrom(d.Renames, name) {
			continue
		}
		cur := currentByName[name]
		d.Removes = append(d.Removes, Remove{
			Name:      name,
			Status:    cur.Status,
			Locations: cur.Locations,
		})
	}

	sort.Slice(d.Changes, func(i, j int) bool { return d.Changes[i].Name < d.Changes[j].Name })

	d.Identify = diffTraits(state.Identify.Traits, p.Identity.Identify.TraitNames())
	d.Group = diffTraits(state.Group.Traits, p.Identity.Group.TraitNames())

	return d
}

// equalDefinition compares property-key sets and origins. An unknown or
// unstated origin on either side is compatible with anything; only two
// conflicting known origins make definitions differ.
func equalDefinition(cur audit.Event, pe plan.Event) bool {
	if !equalStrings(sortedCopy(cur.Properties), pe.PropertyNames()) {
		return false
	}
	return !originsConflict(cur.Origin, pe.Origin)
}

func originsConflict(current, planned string) bool {
	if current == "" || current == sdks.OriginUnknown {
		return false
	}
	if planned == "" || planned == sdks.OriginUnknown {
		return false
	}
	return current != planned
}

func changeFor(cur audit.Event, pe plan.Event) Change {
	c := Change{Name: cur.Name}

	observed := make(map[string]bool, len(cur.Properties))
	for _, key := range cur.Properties {
		observed[key] = true
	}
	planned := make(map[string]bool, len(pe.Properties))
	for _, prop := range pe.Properties {
		planned[prop.Name] = true
	}

	for name := range planned {
		if !observed[name] {
			c.PropsMissing = append(c.PropsMissing, name)
		}
	}
	for name := range observed {
		if !planned[name] {
			c.PropsUnplanned = append(c.PropsUnplanned, name)
		}
	}
	sort.Strings(c.PropsMissing)
	sort.Strings(c.PropsUnplanned)

	if originsConflict(cur.Origin, pe.Origin) {
		c.OriginCurrent = cur.Origin
		c.OriginPlanned = pe.Origin
	}
	return c
}

func diffTraits(observed, planned []string) IdentityDiff {
	obs := make(map[string]bool, len(observed))
	for _, t := range observed {
		obs[t] = true
	}
	pl := make(map[string]bool, len(planned))
	for _, t := range planned {
		pl[t] = true
	}

	var diff IdentityDiff
	for t := range pl {
		if !obs[t] {
			diff.Missing = append(diff.Missing, t)
		}
	}
	for t := range obs {
		if !pl[t] {
			diff.Unplanned = append(diff.Unplanned, t)
		}
	}
	sort.Strings(diff.Missing)
	sort.Strings(diff.Unplanned)
	return diff
}

func renamedFrom(renames []Rename, name string) bool {
	for _, r := range renames {
		if r.From == name {
			return true
		}
	}
	return false
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
