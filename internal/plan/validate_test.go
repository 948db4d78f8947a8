package plan

import (
	"strings"
	"testing"
)

func validPlan() *TrackingPlan {
	return &TrackingPlan{
		Version: PlanVersion,
		Conventions: Conventions{
			Events:     ConventionDotNotation,
			Properties: ConventionSnakeCase,
		},
		Events: []Event{
			{
				Name:        "signup.completed",
				Description: "Account created",
				Origin:      "backend",
				Properties: []Property{
					{Name: "plan_type", Type: TypeString, Description: "Chosen plan"},
				},
			},
		},
		Identity: Identity{
			Identify: TraitSet{Traits: []Trait{{Name: "email", Type: TypeString}}},
		},
	}
}

func hasErrorField(result ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e.Field, field) {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *TrackingPlan)
		opts      Options
		wantValid bool
		wantField string
	}{
		{
			name:      "valid plan",
			mutate:    func(p *TrackingPlan) {},
			wantValid: true,
		},
		{
			name:      "event name not dot notation",
			mutate:    func(p *TrackingPlan) { p.Events[0].Name = "Signup Completed" },
			wantValid: false,
			wantField: "events[0].name",
		},
		{
			name: "duplicate event name",
			mutate: func(p *TrackingPlan) {
				p.Events = append(p.Events, Event{Name: "signup.completed"})
			},
			wantValid: false,
			wantField: "events[1].name",
		},
		{
			name:      "missing event name",
			mutate:    func(p *TrackingPlan) { p.Events[0].Name = "" },
			wantValid: false,
			wantField: "events[0].name",
		},
		{
			name:      "unknown origin",
			mutate:    func(p *TrackingPlan) { p.Events[0].Origin = "server" },
			wantValid: false,
			wantField: "events[0].origin",
		},
		{
			name:      "property name not snake case",
			mutate:    func(p *TrackingPlan) { p.Events[0].Properties[0].Name = "planType" },
			wantValid: false,
			wantField: "properties[0].name",
		},
		{
			name:      "unknown property type",
			mutate:    func(p *TrackingPlan) { p.Events[0].Properties[0].Type = "uuid" },
			wantValid: false,
			wantField: "properties[0].type",
		},
		{
			name:      "missing property type",
			mutate:    func(p *TrackingPlan) { p.Events[0].Properties[0].Type = "" },
			wantValid: false,
			wantField: "properties[0].type",
		},
		{
			name: "duplicate property name",
			mutate: func(p *TrackingPlan) {
				p.Events[0].Properties = append(p.Events[0].Properties, Property{Name: "plan_type", Type: TypeString})
			},
			wantValid: false,
			wantField: "properties[1].name",
		},
		{
			name:      "unknown convention",
			mutate:    func(p *TrackingPlan) { p.Conventions.Events = "kebab-case" },
			wantValid: false,
			wantField: "conventions.events",
		},
		{
			name:      "trait name not snake case",
			mutate:    func(p *TrackingPlan) { p.Identity.Identify.Traits[0].Name = "planType" },
			wantValid: false,
			wantField: "identity.identify",
		},
		{
			name:      "unsupported version",
			mutate:    func(p *TrackingPlan) { p.Version = 9 },
			wantValid: false,
			wantField: "version",
		},
		{
			name:      "empty conventions fall back to defaults",
			mutate:    func(p *TrackingPlan) { p.Conventions = Conventions{} },
			wantValid: true,
		},
		{
			name:      "descriptions required and missing",
			mutate:    func(p *TrackingPlan) { p.Events[0].Description = "" },
			opts:      Options{RequireDescriptions: true},
			wantValid: false,
			wantField: "events[0].description",
		},
		{
			name:      "pattern override accepts nonstandard names",
			mutate:    func(p *TrackingPlan) { p.Events[0].Name = "Signup Completed" },
			opts:      Options{EventPattern: `^[A-Z][a-z]+( [A-Z][a-z]+)*$`},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlan()
			tt.mutate(p)

			result := Validate(p, tt.opts)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantField != "" && !hasErrorField(result, tt.wantField) {
				t.Errorf("no error for field %q, got %v", tt.wantField, result.Errors)
			}
		})
	}
}

func TestValidate_NilPlan(t *testing.T) {
	result := Validate(nil, Options{})
	if result.Valid {
		t.Error("nil plan should not validate")
	}
}

func TestValidate_EmptyPlanWarns(t *testing.T) {
	p := &TrackingPlan{Version: PlanVersion}
	result := Validate(p, Options{})
	if !result.Valid {
		t.Fatalf("empty plan should be valid, errors: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "no events") {
			found = true
		}
	}
	if !found {
		t.Errorf("want empty-plan warning, got %v", result.Warnings)
	}
}
