package instrument

import (
	"strings"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

func fixturePlan() *plan.TrackingPlan {
	return &plan.TrackingPlan{
		Version: plan.PlanVersion,
		Events: []plan.Event{
			{
				Name:   "checkout.completed",
				Origin: "frontend",
				Properties: []plan.Property{
					{Name: "coupon", Type: plan.TypeString},
					{Name: "total", Type: plan.TypeNumber},
				},
			},
			{
				Name:   "dashboard.viewed",
				Origin: "frontend",
				Properties: []plan.Property{
					{Name: "org_id", Type: plan.TypeString},
				},
			},
			{
				Name:    "signup.completed",
				Origin:  "frontend",
				Trigger: "Signup form submitted",
				Properties: []plan.Property{
					{Name: "plan", Type: plan.TypeString},
					{Name: "seats", Type: plan.TypeNumber},
				},
			},
		},
		Identity: plan.Identity{
			Identify: plan.TraitSet{Traits: []plan.Trait{{Name: "email", Type: plan.TypeString}}},
		},
	}
}

func fixtureState() *audit.CurrentState {
	loc := []audit.Location{{File: "src/app.ts", Line: 10, Kind: audit.KindCall}}
	return &audit.CurrentState{
		Version: audit.StateVersion,
		Events: []audit.Event{
			{Name: "Dashboard Viewed", Status: audit.StatusLive, Origin: "frontend", Locations: loc, Properties: []string{"org_id"}},
			{Name: "checkout.completed", Status: audit.StatusLive, Origin: "frontend", Locations: loc, Properties: []string{"cart_raw", "total"}},
			{Name: "legacy.export", Status: audit.StatusLive, Origin: "frontend", Locations: loc},
		},
		Identify: audit.IdentitySection{Traits: []string{"internal_id"}, Locations: loc},
	}
}

func fixtureDelta(t *testing.T) (*delta.Delta, *plan.TrackingPlan) {
	t.Helper()
	p := fixturePlan()
	d := delta.Compute(fixtureState(), p)
	if len(d.Adds) != 1 || len(d.Renames) != 1 || len(d.Changes) != 1 || len(d.Removes) != 1 {
		t.Fatalf("fixture delta = %+v", d)
	}
	return d, p
}

func TestNewGenerator(t *testing.T) {
	if _, err := NewGenerator(sdks.Segment, ""); err != nil {
		t.Errorf("browser default: %v", err)
	}
	if _, err := NewGenerator("heap", sdks.VariantBrowser); err == nil {
		t.Error("unknown sdk accepted")
	}
	if _, err := NewGenerator(sdks.Segment, "mobile"); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestGenerate_Sections(t *testing.T) {
	d, p := fixtureDelta(t)
	g, err := NewGenerator(sdks.Segment, sdks.VariantBrowser)
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Generate(d, p)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, telemetry.GeneratedStartMarker) {
		t.Errorf("missing start marker: %q", out[:80])
	}
	if !strings.HasSuffix(out, telemetry.GeneratedEndMarker+"\n") {
		t.Errorf("missing end marker: %q", out[len(out)-80:])
	}

	want := []string{
		"SDK: Segment (browser variant)",
		"## Setup",
		"Install `@segment/analytics-next`",
		"SEGMENT_WRITE_KEY",
		"## Add",
		"### `signup.completed`",
		"Trigger: Signup form submitted.",
		"analytics.track('signup.completed', { plan: '...', seats: 0 })",
		"## Rename",
		"### `Dashboard Viewed` -> `dashboard.viewed`",
		"analytics.track('dashboard.viewed', { org_id: '...' })",
		"## Change",
		"### `checkout.completed`",
		"- add properties: coupon",
		"- stop sending: cart_raw",
		"analytics.track('checkout.completed', { coupon: '...', total: 0 })",
		"## Remove",
		"### `legacy.export`",
		"- src/app.ts:10",
		"## Identity",
		"Add identify traits: email.",
		"analytics.identify('USER_ID', { email: '...' })",
		"Stop sending identify traits: internal_id.",
	}
	for _, s := range want {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q\n%s", s, out)
		}
	}
}

func TestGenerate_NodeVariant(t *testing.T) {
	d, p := fixtureDelta(t)
	g, err := NewGenerator(sdks.Segment, sdks.VariantNode)
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Generate(d, p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "analytics.track({ userId: 'USER_ID', event: 'signup.completed'") {
		t.Errorf("node call shape missing:\n%s", out)
	}
	if !strings.Contains(out, "Install `@segment/analytics-node`") {
		t.Error("node install package missing")
	}
}

func TestGenerate_EmptyDelta(t *testing.T) {
	g, err := NewGenerator(sdks.PostHog, sdks.VariantBrowser)
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Generate(&delta.Delta{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Nothing to implement.") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "## Setup") {
		t.Error("setup section emitted for an empty delta")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g, err := NewGenerator(sdks.Mixpanel, sdks.VariantBrowser)
	if err != nil {
		t.Fatal(err)
	}
	d1, p1 := fixtureDelta(t)
	d2, p2 := fixtureDelta(t)
	out1, err := g.Generate(d1, p1)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := g.Generate(d2, p2)
	if err != nil {
		t.Fatal(err)
	}
	if out1 != out2 {
		t.Error("output differs across runs over identical inputs")
	}
}

func TestWrite(t *testing.T) {
	store := telemetry.NewStore(t.TempDir(), "")
	d, p := fixtureDelta(t)
	g, err := NewGenerator(sdks.Segment, sdks.VariantBrowser)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Write(store, d, p); err != nil {
		t.Fatal(err)
	}
	content, err := store.ReadText(telemetry.InstrumentFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, telemetry.GeneratedStartMarker) {
		t.Error("markers missing from written file")
	}
	if !strings.Contains(content, "## Notes") {
		t.Error("default notes section missing")
	}
}

func TestResolveSDK(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		detected []string
		want     sdks.Name
		wantErr  string
	}{
		{name: "explicit wins", explicit: "mixpanel", detected: []string{"segment"}, want: sdks.Mixpanel},
		{name: "explicit unknown", explicit: "heap", wantErr: "unknown sdk"},
		{name: "single detection", detected: []string{"segment"}, want: sdks.Segment},
		{name: "single unsupported detection", detected: []string{"heap"}, wantErr: "not supported"},
		{name: "none detected", wantErr: "no analytics sdk detected"},
		{name: "ambiguous", detected: []string{"posthog", "segment"}, wantErr: "multiple sdks detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSDK(tt.explicit, tt.detected)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
