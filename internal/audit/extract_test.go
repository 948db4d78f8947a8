package audit

import (
	"reflect"
	"strings"
	"testing"
)

func TestEventNameFromCall(t *testing.T) {
	defs := map[string]string{"PROJECT_CREATED": "project.created"}

	tests := []struct {
		name     string
		argText  string
		language string
		want     string
		wantOK   bool
	}{
		{
			name:    "inline string literal",
			argText: "('signup.completed', { plan: 'pro' })",
			want:    "signup.completed",
			wantOK:  true,
		},
		{
			name:    "double quoted",
			argText: `("project.created")`,
			want:    "project.created",
			wantOK:  true,
		},
		{
			name:    "envelope form",
			argText: "({ userId: id, event: 'invoice.paid', properties: { amount: 10 } })",
			want:    "invoice.paid",
			wantOK:  true,
		},
		{
			name:    "template literal with interpolation",
			argText: "(`user.${action}`)",
			wantOK:  false,
		},
		{
			name:    "identifier argument",
			argText: "(eventName, props)",
			wantOK:  false,
		},
		{
			name:    "constant reference",
			argText: "(EVENTS.PROJECT_CREATED, { plan: 'free' })",
			want:    "project.created",
			wantOK:  true,
		},
		{
			name:     "python user id first",
			argText:  "('u_123', 'signup.completed', {'plan': plan})",
			language: "Python",
			want:     "signup.completed",
			wantOK:   true,
		},
		{
			name:     "python identifier then literal",
			argText:  "(user_id, 'signup.completed', {'plan': plan})",
			language: "Python",
			want:     "signup.completed",
			wantOK:   true,
		},
		{
			name:    "empty arguments",
			argText: "()",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventNameFromCall(tt.argText, tt.language, defs)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopLevelKeys(t *testing.T) {
	tests := []struct {
		name string
		obj  string
		want []string
	}{
		{
			name: "simple object",
			obj:  "{ plan: 'pro', seats: 3 }",
			want: []string{"plan", "seats"},
		},
		{
			name: "shorthand properties",
			obj:  "{ plan, seats }",
			want: []string{"plan", "seats"},
		},
		{
			name: "nested keys excluded",
			obj:  "{ plan: 'pro', meta: { source: 'web' } }",
			want: []string{"plan", "meta"},
		},
		{
			name: "python dict",
			obj:  "{'plan': user.plan, 'seats': n}",
			want: []string{"plan", "seats"},
		},
		{
			name: "spread ignored",
			obj:  "{ ...base, plan: 'pro' }",
			want: []string{"plan"},
		},
		{
			name: "multiline",
			obj:  "{\n  plan: 'pro',\n  seats: count,\n}",
			want: []string{"plan", "seats"},
		},
		{
			name: "ternary value",
			obj:  "{ plan: isPro ? 'pro' : 'free', seats: 1 }",
			want: []string{"plan", "seats"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topLevelKeys(tt.obj)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("topLevelKeys(%q) = %v, want %v", tt.obj, got, tt.want)
			}
		})
	}
}

func TestTrackProperties(t *testing.T) {
	tests := []struct {
		name    string
		argText string
		want    []string
	}{
		{
			name:    "inline object",
			argText: "('signup.completed', { plan: 'pro', seats: 3 })",
			want:    []string{"plan", "seats"},
		},
		{
			name:    "envelope with properties",
			argText: "({ userId: id, event: 'invoice.paid', properties: { amount: 10, currency: 'usd' } })",
			want:    []string{"amount", "currency"},
		},
		{
			name:    "envelope without properties",
			argText: "({ userId: id, event: 'invoice.paid' })",
			want:    nil,
		},
		{
			name:    "no object argument",
			argText: "('signup.completed')",
			want:    nil,
		},
		{
			name:    "reserved keys dropped",
			argText: "('signup.completed', { distinct_id: id, plan: 'pro' })",
			want:    []string{"plan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trackProperties(tt.argText)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("trackProperties(%q) = %v, want %v", tt.argText, got, tt.want)
			}
		})
	}
}

func TestTraitKeys(t *testing.T) {
	tests := []struct {
		name    string
		argText string
		want    []string
	}{
		{
			name:    "plain object after user id",
			argText: "('u_1', { plan: 'pro', role: 'admin' })",
			want:    []string{"plan", "role"},
		},
		{
			name:    "traits envelope",
			argText: "({ userId: 'u_1', traits: { plan: 'pro' } })",
			want:    []string{"plan"},
		},
		{
			name:    "posthog properties envelope",
			argText: "({ distinctId: 'u_1', properties: { plan: 'pro' } })",
			want:    []string{"plan"},
		},
		{
			name:    "no traits",
			argText: "('u_1')",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := traitKeys(tt.argText)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("traitKeys(%q) = %v, want %v", tt.argText, got, tt.want)
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	got := stringLiterals(`('first', "second", ` + "`third`" + `)`)
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stringLiterals = %v, want %v", got, want)
	}

	if got := stringLiterals("(`user.${action}`)"); got != nil {
		t.Errorf("interpolated template should not count as literal, got %v", got)
	}
}

func TestCallText(t *testing.T) {
	lines := []string{
		"analytics.track('signup.completed', {",
		"  plan: 'pro',",
		"  seats: 3,",
		"})",
		"other()",
	}
	got := callText(lines, 0, len("analytics.track"))
	if got == "" {
		t.Fatal("empty call text")
	}
	for _, want := range []string{"signup.completed", "plan", "seats"} {
		if !strings.Contains(got, want) {
			t.Errorf("call text missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "other") {
		t.Errorf("call text ran past the closing paren: %q", got)
	}
}

func TestExtractDefinitions(t *testing.T) {
	content := `export const EVENTS = {
  PROJECT_CREATED: 'project.created',
  PROJECT_DELETED: "project.deleted",
  API_URL: 'https://example.com',
  RETRIES: '3',
}`

	defs := extractDefinitions("src/lib/events.ts", content)
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d: %+v", len(defs), defs)
	}
	if defs[0].event != "project.created" || defs[0].defKey != "PROJECT_CREATED" {
		t.Errorf("first definition = %+v", defs[0])
	}
	if defs[0].line != 2 {
		t.Errorf("line = %d, want 2", defs[0].line)
	}
	if defs[1].event != "project.deleted" {
		t.Errorf("second definition = %+v", defs[1])
	}
}
