package plan

import (
	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// FromAudit drafts a tracking plan from an audited current state. Live
// events carry over with names normalized to dot.notation; orphaned events
// are left behind for the delta to surface as removals. Static extraction
// sees only property keys, so every drafted property is typed string for
// the author to refine.
func FromAudit(state *audit.CurrentState) *TrackingPlan {
	p := &TrackingPlan{Version: PlanVersion}
	p.ApplyDefaults()
	if state == nil {
		return p
	}

	drafts := make(map[string]*Event)
	var order []string
	for _, observed := range state.LiveEvents() {
		name := NormalizeEventName(observed.Name)
		if name == "" {
			continue
		}
		draft := drafts[name]
		if draft == nil {
			draft = &Event{Name: name, Origin: observed.Origin}
			drafts[name] = draft
			order = append(order, name)
		} else {
			draft.Origin = mergeOrigin(draft.Origin, observed.Origin)
		}
		for _, key := range observed.Properties {
			addProperty(draft, NormalizePropertyName(key))
		}
	}
	for _, name := range order {
		p.Events = append(p.Events, *drafts[name])
	}

	p.Identity.Identify.Traits = draftTraits(state.Identify.Traits)
	p.Identity.Group.Traits = draftTraits(state.Group.Traits)

	sortPlan(p)
	return p
}

// mergeOrigin combines the origins of two observed events that normalize to
// the same planned name. A known origin wins over unknown; two different
// known origins cancel out.
func mergeOrigin(a, b string) string {
	switch {
	case a == b:
		return a
	case a == sdks.OriginUnknown || a == "":
		return b
	case b == sdks.OriginUnknown || b == "":
		return a
	default:
		return sdks.OriginUnknown
	}
}

func addProperty(e *Event, name string) {
	if name == "" {
		return
	}
	for _, prop := range e.Properties {
		if prop.Name == name {
			return
		}
	}
	e.Properties = append(e.Properties, Property{Name: name, Type: TypeString})
}

func draftTraits(keys []string) []Trait {
	var traits []Trait
	seen := make(map[string]bool)
	for _, key := range keys {
		name := NormalizePropertyName(key)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		traits = append(traits, Trait{Name: name, Type: TypeString})
	}
	sortTraits(traits)
	return traits
}
