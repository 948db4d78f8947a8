package plan

import (
	"reflect"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/audit"
)

func TestFromAudit(t *testing.T) {
	state := &audit.CurrentState{
		Events: []audit.Event{
			{Name: "Dashboard Viewed", Status: audit.StatusLive, Origin: "frontend", Properties: []string{"planType", "orgId"}},
			{Name: "dashboard.viewed", Status: audit.StatusLive, Origin: "unknown", Properties: []string{"plan_type"}},
			{Name: "LEGACY_EXPORT", Status: audit.StatusOrphaned},
			{Name: "Checkout Started", Status: audit.StatusLive, Origin: "backend"},
		},
		Identify: audit.IdentitySection{Traits: []string{"email", "planType"}},
		Group:    audit.IdentitySection{Traits: []string{"plan"}},
	}

	p := FromAudit(state)

	if p.Conventions.Events != ConventionDotNotation {
		t.Errorf("conventions.events = %q", p.Conventions.Events)
	}

	wantNames := []string{"checkout.started", "dashboard.viewed"}
	if got := p.EventNames(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("event names = %v, want %v (orphaned events must not carry over)", got, wantNames)
	}

	dv, _ := p.EventByName("dashboard.viewed")
	if dv.Origin != "frontend" {
		t.Errorf("merged origin = %q, want frontend", dv.Origin)
	}
	if got := dv.PropertyNames(); !reflect.DeepEqual(got, []string{"org_id", "plan_type"}) {
		t.Errorf("merged properties = %v", got)
	}
	for _, prop := range dv.Properties {
		if prop.Type != TypeString {
			t.Errorf("drafted property %s type = %q, want string", prop.Name, prop.Type)
		}
	}

	if got := p.Identity.Identify.TraitNames(); !reflect.DeepEqual(got, []string{"email", "plan_type"}) {
		t.Errorf("identify traits = %v", got)
	}
	if got := p.Identity.Group.TraitNames(); !reflect.DeepEqual(got, []string{"plan"}) {
		t.Errorf("group traits = %v", got)
	}

	if result := Validate(p, Options{}); !result.Valid {
		t.Errorf("drafted plan should validate, errors: %v", result.Errors)
	}
}

func TestFromAudit_Empty(t *testing.T) {
	p := FromAudit(&audit.CurrentState{})
	if len(p.Events) != 0 {
		t.Errorf("events = %v, want none", p.Events)
	}
	if p.Version != PlanVersion {
		t.Errorf("version = %d", p.Version)
	}
}

func TestFromAudit_Nil(t *testing.T) {
	p := FromAudit(nil)
	if p == nil || len(p.Events) != 0 {
		t.Fatalf("nil state should yield an empty plan, got %+v", p)
	}
}

func TestMergeOrigin(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"frontend", "frontend", "frontend"},
		{"frontend", "unknown", "frontend"},
		{"unknown", "backend", "backend"},
		{"frontend", "backend", "unknown"},
		{"", "backend", "backend"},
	}
	for _, tt := range tests {
		if got := mergeOrigin(tt.a, tt.b); got != tt.want {
			t.Errorf("mergeOrigin(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
