// Package instrument turns a computed delta into implementation guidance:
// ready-to-paste call snippets for the chosen SDK and variant, one section
// per kind of change. The guide lands in .telemetry/instrument.md between
// generated markers, so notes written outside them survive regeneration.
package instrument

import (
	"fmt"
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

// Generator renders instrument.md for one SDK variant.
type Generator struct {
	sdk     sdks.SDK
	variant sdks.Variant
	shapes  sdks.CallShapes
}

// NewGenerator builds a generator for the named SDK. An empty variant
// defaults to browser.
func NewGenerator(name sdks.Name, variant sdks.Variant) (*Generator, error) {
	sdk, ok := sdks.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown sdk %q (supported: %s)", name, supportedNames())
	}
	if variant == "" {
		variant = sdks.VariantBrowser
	}
	shapes, ok := sdk.Shapes(variant)
	if !ok {
		return nil, fmt.Errorf("sdk %q has no %q variant", name, variant)
	}
	return &Generator{sdk: sdk, variant: variant, shapes: shapes}, nil
}

// ResolveSDK picks the SDK to emit snippets for. An explicit choice wins;
// otherwise a single detected SDK is used. Zero or several detections need
// the caller to decide.
func ResolveSDK(explicit string, detected []string) (sdks.Name, error) {
	if explicit != "" {
		if !sdks.ValidName(explicit) {
			return "", fmt.Errorf("unknown sdk %q (supported: %s)", explicit, supportedNames())
		}
		return sdks.Name(explicit), nil
	}
	switch len(detected) {
	case 0:
		return "", fmt.Errorf("no analytics sdk detected; pass --sdk (supported: %s)", supportedNames())
	case 1:
		if !sdks.ValidName(detected[0]) {
			return "", fmt.Errorf("detected sdk %q is not supported (supported: %s)", detected[0], supportedNames())
		}
		return sdks.Name(detected[0]), nil
	default:
		return "", fmt.Errorf("multiple sdks detected (%s); pass --sdk to choose one", strings.Join(detected, ", "))
	}
}

// Write renders the guide and writes it into the store's instrument.md,
// preserving anything outside the generated markers.
func (g *Generator) Write(store *telemetry.Store, d *delta.Delta, p *plan.TrackingPlan) error {
	content, err := g.Generate(d, p)
	if err != nil {
		return err
	}
	return store.WriteMarked(telemetry.InstrumentFile, content, defaultNotesSection)
}

// Generate renders the generated section of instrument.md, markers included.
func (g *Generator) Generate(d *delta.Delta, p *plan.TrackingPlan) (string, error) {
	var b strings.Builder
	b.WriteString(telemetry.GeneratedStartMarker + "\n")
	b.WriteString("# Instrumentation Guide\n\n")
	fmt.Fprintf(&b, "SDK: %s (%s variant). Derived from the delta between current-state.yaml and tracking-plan.yaml.\n\n", g.sdk.Label, g.variant)

	if d == nil || d.Empty() {
		b.WriteString("Instrumentation matches the tracking plan. Nothing to implement.\n")
		b.WriteString(telemetry.GeneratedEndMarker + "\n")
		return b.String(), nil
	}

	g.setupSection(&b)
	if err := g.addSection(&b, d, p); err != nil {
		return "", err
	}
	if err := g.renameSection(&b, d, p); err != nil {
		return "", err
	}
	if err := g.changeSection(&b, d, p); err != nil {
		return "", err
	}
	removeSection(&b, d)
	if err := g.identitySection(&b, d, p); err != nil {
		return "", err
	}

	b.WriteString(telemetry.GeneratedEndMarker + "\n")
	return b.String(), nil
}

func (g *Generator) setupSection(b *strings.Builder) {
	b.WriteString("## Setup\n\n")
	fmt.Fprintf(b, "Install `%s` and initialize once:\n\n", g.shapes.Install)
	writeSnippet(b, g.shapes.Init)
	if len(g.sdk.EnvKeys) > 0 {
		fmt.Fprintf(b, "Common key environment variables: %s.\n\n", strings.Join(g.sdk.EnvKeys, ", "))
	}
}

func (g *Generator) addSection(b *strings.Builder, d *delta.Delta, p *plan.TrackingPlan) error {
	if len(d.Adds) == 0 {
		return nil
	}
	b.WriteString("## Add\n\n")
	for _, a := range d.Adds {
		fmt.Fprintf(b, "### `%s`\n\n", a.Name)
		if ev, ok := planEvent(p, a.Name); ok {
			if ev.Trigger != "" {
				fmt.Fprintf(b, "Trigger: %s.\n\n", ev.Trigger)
			} else if ev.Description != "" {
				fmt.Fprintf(b, "%s\n\n", ev.Description)
			}
		}
		snippet, err := g.trackSnippet(a.Name, p)
		if err != nil {
			return err
		}
		writeSnippet(b, snippet)
	}
	return nil
}

func (g *Generator) renameSection(b *strings.Builder, d *delta.Delta, p *plan.TrackingPlan) error {
	if len(d.Renames) == 0 {
		return nil
	}
	b.WriteString("## Rename\n\n")
	for _, r := range d.Renames {
		fmt.Fprintf(b, "### `%s` -> `%s`\n\n", r.From, r.To)
		b.WriteString("Update every call site to the new name:\n\n")
		snippet, err := g.trackSnippet(r.To, p)
		if err != nil {
			return err
		}
		writeSnippet(b, snippet)
	}
	return nil
}

func (g *Generator) changeSection(b *strings.Builder, d *delta.Delta, p *plan.TrackingPlan) error {
	if len(d.Changes) == 0 {
		return nil
	}
	b.WriteString("## Change\n\n")
	for _, c := range d.Changes {
		fmt.Fprintf(b, "### `%s`\n\n", c.Name)
		if len(c.PropsMissing) > 0 {
			fmt.Fprintf(b, "- add properties: %s\n", strings.Join(c.PropsMissing, ", "))
		}
		if len(c.PropsUnplanned) > 0 {
			fmt.Fprintf(b, "- stop sending: %s\n", strings.Join(c.PropsUnplanned, ", "))
		}
		if c.OriginCurrent != "" || c.OriginPlanned != "" {
			fmt.Fprintf(b, "- move the call: code sends from %s, plan wants %s\n", c.OriginCurrent, c.OriginPlanned)
		}
		b.WriteString("\nTarget call shape:\n\n")
		snippet, err := g.trackSnippet(c.Name, p)
		if err != nil {
			return err
		}
		writeSnippet(b, snippet)
	}
	return nil
}

func removeSection(b *strings.Builder, d *delta.Delta) {
	if len(d.Removes) == 0 {
		return
	}
	b.WriteString("## Remove\n\n")
	for _, r := range d.Removes {
		fmt.Fprintf(b, "### `%s`\n\n", r.Name)
		if r.Status == audit.StatusOrphaned {
			b.WriteString("Defined but never called. Delete the definition at:\n\n")
		} else {
			b.WriteString("Not in the tracking plan. Delete the calls at:\n\n")
		}
		for _, loc := range r.Locations {
			fmt.Fprintf(b, "- %s:%d\n", loc.File, loc.Line)
		}
		b.WriteString("\n")
	}
}

func (g *Generator) identitySection(b *strings.Builder, d *delta.Delta, p *plan.TrackingPlan) error {
	identify := len(d.Identify.Missing) > 0 || len(d.Identify.Unplanned) > 0
	group := len(d.Group.Missing) > 0 || len(d.Group.Unplanned) > 0
	if !identify && !group {
		return nil
	}

	b.WriteString("## Identity\n\n")
	if len(d.Identify.Missing) > 0 {
		fmt.Fprintf(b, "Add identify traits: %s.\n\n", strings.Join(d.Identify.Missing, ", "))
		snippet, err := g.render(g.shapes.Identify, map[string]string{
			"traits": traitsLiteral(identityTraits(p, false)),
		})
		if err != nil {
			return err
		}
		writeSnippet(b, snippet)
	}
	if len(d.Identify.Unplanned) > 0 {
		fmt.Fprintf(b, "Stop sending identify traits: %s.\n\n", strings.Join(d.Identify.Unplanned, ", "))
	}
	if len(d.Group.Missing) > 0 {
		fmt.Fprintf(b, "Add group traits: %s.\n\n", strings.Join(d.Group.Missing, ", "))
		snippet, err := g.render(g.shapes.Group, map[string]string{
			"traits": traitsLiteral(identityTraits(p, true)),
		})
		if err != nil {
			return err
		}
		writeSnippet(b, snippet)
	}
	if len(d.Group.Unplanned) > 0 {
		fmt.Fprintf(b, "Stop sending group traits: %s.\n\n", strings.Join(d.Group.Unplanned, ", "))
	}
	return nil
}

func (g *Generator) trackSnippet(name string, p *plan.TrackingPlan) (string, error) {
	var props []plan.Property
	if ev, ok := planEvent(p, name); ok {
		props = ev.Properties
	}
	return g.render(g.shapes.Track, map[string]string{
		"event":      name,
		"properties": propsLiteral(props),
	})
}

// render fills a call shape template. Every placeholder the catalog uses
// gets a value so rendering cannot fail on a shape that mentions one the
// caller did not think of.
func (g *Generator) render(tmpl string, extra map[string]string) (string, error) {
	vars := map[string]string{
		"event":      "",
		"properties": "{}",
		"user_id":    "USER_ID",
		"traits":     "{}",
		"group_id":   "GROUP_ID",
		"group_type": "company",
	}
	for k, v := range extra {
		vars[k] = v
	}
	return sdks.RenderSnippet(tmpl, vars)
}

func planEvent(p *plan.TrackingPlan, name string) (plan.Event, bool) {
	if p == nil {
		return plan.Event{}, false
	}
	return p.EventByName(name)
}

func identityTraits(p *plan.TrackingPlan, group bool) []plan.Trait {
	if p == nil {
		return nil
	}
	if group {
		return p.Identity.Group.Traits
	}
	return p.Identity.Identify.Traits
}

func propsLiteral(props []plan.Property) string {
	if len(props) == 0 {
		return "{}"
	}
	parts := make([]string, len(props))
	for i, prop := range props {
		parts[i] = fmt.Sprintf("%s: %s", prop.Name, valueExample(prop.Type))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func traitsLiteral(traits []plan.Trait) string {
	if len(traits) == 0 {
		return "{}"
	}
	parts := make([]string, len(traits))
	for i, t := range traits {
		parts[i] = fmt.Sprintf("%s: %s", t.Name, valueExample(t.Type))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// valueExample is a type-shaped example value for snippet property maps.
func valueExample(typ string) string {
	switch typ {
	case plan.TypeNumber:
		return "0"
	case plan.TypeBoolean:
		return "false"
	case plan.TypeDatetime:
		return "new Date().toISOString()"
	case plan.TypeArray:
		return "[]"
	case plan.TypeObject:
		return "{}"
	default:
		return "'...'"
	}
}

func writeSnippet(b *strings.Builder, code string) {
	b.WriteString("```js\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
}

func supportedNames() string {
	names := sdks.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

const defaultNotesSection = `

## Notes

Project-specific instrumentation notes go here. This section is preserved
when the guide is regenerated.
`
