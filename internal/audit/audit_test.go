package audit

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func auditFixture(t *testing.T) *CurrentState {
	t.Helper()
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "package.json", `{
	"dependencies": {
		"react": "^18.0.0",
		"@segment/analytics-next": "^1.70.0"
	}
}`)

	writeFile(t, tmpDir, "src/lib/analytics.ts", `import { AnalyticsBrowser } from '@segment/analytics-next'

export const analytics = AnalyticsBrowser.load({ writeKey: 'k' })

export function trackEvent(name: string, props: Record<string, unknown>) {
  try {
    analytics.track(name, props)
  } catch (err) {
    console.error(err)
  }
}
`)

	writeFile(t, tmpDir, "src/lib/events.ts", `export const EVENTS = {
  PROJECT_CREATED: 'project.created',
  PROJECT_DELETED: 'project.deleted',
}
`)

	writeFile(t, tmpDir, "src/components/Signup.tsx", `import { analytics } from '../lib/analytics'

export function Signup() {
  analytics.track('signup.completed', {
    plan: 'pro',
    seats: 3,
  })
  analytics.identify('u_1', { plan: 'pro' })
}
`)

	writeFile(t, tmpDir, "src/pages/Projects.tsx", `import { analytics } from '../lib/analytics'
import { EVENTS } from '../lib/events'

export function createProject() {
  analytics.track(EVENTS.PROJECT_CREATED, { plan: 'free' })
}
`)

	info, err := scanner.New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	state, err := New(tmpDir, info).Run()
	if err != nil {
		t.Fatal(err)
	}
	return state
}

func TestAuditor_Run(t *testing.T) {
	state := auditFixture(t)

	if state.Version != StateVersion {
		t.Errorf("version = %d, want %d", state.Version, StateVersion)
	}

	wantNames := []string{"project.created", "project.deleted", "signup.completed"}
	if got := state.EventNames(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("event names = %v, want %v", got, wantNames)
	}

	created, _ := state.EventByName("project.created")
	if created.Status != StatusLive {
		t.Errorf("project.created status = %q, want live", created.Status)
	}
	hasDef, hasCall := false, false
	for _, loc := range created.Locations {
		switch loc.Kind {
		case KindDefinition:
			hasDef = true
		case KindCall:
			hasCall = true
			if loc.File != "src/pages/Projects.tsx" {
				t.Errorf("call location file = %q", loc.File)
			}
		}
	}
	if !hasDef || !hasCall {
		t.Errorf("project.created should have definition and call locations: %+v", created.Locations)
	}
	if !reflect.DeepEqual(created.Properties, []string{"plan"}) {
		t.Errorf("project.created properties = %v", created.Properties)
	}
	if created.Origin != "frontend" {
		t.Errorf("project.created origin = %q, want frontend", created.Origin)
	}
	if created.SDK != "segment" {
		t.Errorf("project.created sdk = %q, want segment", created.SDK)
	}

	deleted, _ := state.EventByName("project.deleted")
	if deleted.Status != StatusOrphaned {
		t.Errorf("project.deleted status = %q, want orphaned", deleted.Status)
	}
	if deleted.Origin != "unknown" {
		t.Errorf("project.deleted origin = %q, want unknown", deleted.Origin)
	}

	signup, _ := state.EventByName("signup.completed")
	if signup.Status != StatusLive {
		t.Errorf("signup.completed status = %q, want live", signup.Status)
	}
	if !reflect.DeepEqual(signup.Properties, []string{"plan", "seats"}) {
		t.Errorf("signup.completed properties = %v", signup.Properties)
	}
}

func TestAuditor_IdentifySection(t *testing.T) {
	state := auditFixture(t)

	if len(state.Identify.Locations) != 1 {
		t.Fatalf("identify locations = %+v", state.Identify.Locations)
	}
	if !reflect.DeepEqual(state.Identify.Traits, []string{"plan"}) {
		t.Errorf("identify traits = %v, want [plan]", state.Identify.Traits)
	}
}

func TestAuditor_DynamicWarning(t *testing.T) {
	state := auditFixture(t)

	if len(state.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want exactly one", state.Warnings)
	}
	w := state.Warnings[0]
	if w.File != "src/lib/analytics.ts" {
		t.Errorf("warning file = %q", w.File)
	}
	for _, e := range state.Events {
		if e.Name == DynamicName {
			t.Error("dynamic sighting leaked into the event list")
		}
	}
}

func TestAuditor_Patterns(t *testing.T) {
	state := auditFixture(t)

	if state.Patterns.Naming.Dominant != "dot.notation" {
		t.Errorf("dominant naming = %q, want dot.notation", state.Patterns.Naming.Dominant)
	}
	if state.Patterns.Naming.Counts["dot.notation"] != 3 {
		t.Errorf("dot.notation count = %d, want 3", state.Patterns.Naming.Counts["dot.notation"])
	}

	if !state.Patterns.Centralization.WrapperDetected {
		t.Error("wrapper should be detected")
	}
	if !reflect.DeepEqual(state.Patterns.Centralization.WrapperFiles, []string{"src/lib/analytics.ts"}) {
		t.Errorf("wrapper files = %v", state.Patterns.Centralization.WrapperFiles)
	}

	eh := state.Patterns.ErrorHandling
	if eh.GuardedCalls != 1 {
		t.Errorf("guarded calls = %d, want 1", eh.GuardedCalls)
	}
	if eh.UnguardedCalls != 3 {
		t.Errorf("unguarded calls = %d, want 3", eh.UnguardedCalls)
	}
}

func TestAssemble_MultiSDKAndMixedOrigin(t *testing.T) {
	a := &Auditor{root: "/tmp/shop"}
	sightings := []sighting{
		{event: "checkout.completed", callType: "track", kind: KindCall, sdk: "segment", origin: "frontend", file: "src/ui/Checkout.tsx", line: 10},
		{event: "checkout.completed", callType: "track", kind: KindCall, sdk: "posthog", origin: "backend", file: "server/billing.js", line: 22},
	}

	state := a.assemble(sightings, nil, nil)
	if len(state.Events) != 1 {
		t.Fatalf("events = %+v", state.Events)
	}
	e := state.Events[0]
	if e.SDK != "posthog,segment" {
		t.Errorf("sdk = %q, want posthog,segment", e.SDK)
	}
	if e.Origin != "unknown" {
		t.Errorf("origin = %q, want unknown for disagreeing locations", e.Origin)
	}
	if len(e.Locations) != 2 || e.Locations[0].File != "server/billing.js" {
		t.Errorf("locations not sorted: %+v", e.Locations)
	}
	if state.Root != "shop" {
		t.Errorf("root = %q, want shop", state.Root)
	}
}
