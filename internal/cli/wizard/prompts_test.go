package wizard

import (
	"strings"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
)

func TestValidateEventName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "dot notation", input: "signup.completed"},
		{name: "three segments", input: "checkout.coupon.applied"},
		{name: "surrounding whitespace", input: "  signup.completed  "},
		{name: "single word", input: "signup", wantErr: true},
		{name: "title case", input: "Signup Completed", wantErr: true},
		{name: "snake case", input: "signup_completed", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEventName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEventName(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestDescribeEvent(t *testing.T) {
	ev := plan.Event{
		Name:   "signup.completed",
		Origin: "frontend",
		Properties: []plan.Property{
			{Name: "plan", Type: plan.TypeString},
			{Name: "seats", Type: plan.TypeNumber},
		},
	}
	desc := describeEvent(ev)
	if !strings.Contains(desc, "origin: frontend") {
		t.Errorf("desc = %q", desc)
	}
	if !strings.Contains(desc, "properties: plan, seats") {
		t.Errorf("desc = %q", desc)
	}

	bare := describeEvent(plan.Event{Name: "login.completed"})
	if !strings.Contains(bare, "origin: none") {
		t.Errorf("bare desc = %q", bare)
	}
	if strings.Contains(bare, "properties:") {
		t.Errorf("bare desc lists properties: %q", bare)
	}
}

func TestFormatLanguages(t *testing.T) {
	if got := formatLanguages(nil); got != "Unknown" {
		t.Errorf("formatLanguages(nil) = %q", got)
	}

	langs := []scanner.LanguageInfo{
		{Name: "TypeScript", Percentage: 72.4},
		{Name: "Ruby", Percentage: 27.6},
	}
	got := formatLanguages(langs)
	if got != "TypeScript (72%), Ruby (28%)" {
		t.Errorf("formatLanguages = %q", got)
	}
}

func TestFormatSDKs(t *testing.T) {
	if got := formatSDKs(nil); got != "none detected" {
		t.Errorf("formatSDKs(nil) = %q", got)
	}

	detected := []scanner.SDKDetection{
		{Name: "segment", Variant: "browser", Manifest: "npm"},
		{Name: "segment", Variant: "node", Manifest: "npm"},
		{Name: "posthog", Variant: "browser", Manifest: "npm"},
	}
	if got := formatSDKs(detected); got != "segment, posthog" {
		t.Errorf("formatSDKs = %q", got)
	}
}
