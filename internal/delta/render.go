package delta

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const maxLocationRefs = 3

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	renameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
	changeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	removeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Render returns the delta.md artifact. The output is a pure function of
// the delta: no timestamps, all lists pre-sorted, so unchanged inputs
// produce identical bytes.
func Render(d *Delta) string {
	var b strings.Builder
	b.WriteString("# Tracking Delta\n\n")

	if d.Empty() {
		b.WriteString("Instrumentation matches the tracking plan. Nothing to do.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Events: %d to add, %d to rename, %d to change, %d to remove.\n",
		len(d.Adds), len(d.Renames), len(d.Changes), len(d.Removes))

	if len(d.Adds) > 0 {
		b.WriteString("\n## Add\n\n")
		for _, a := range d.Adds {
			b.WriteString("- " + eventRef(a.Name, a.Origin))
			if len(a.Properties) > 0 {
				b.WriteString(": " + strings.Join(a.Properties, ", "))
			}
			b.WriteString("\n")
			if a.Description != "" {
				b.WriteString("  " + a.Description + "\n")
			}
		}
	}

	if len(d.Renames) > 0 {
		b.WriteString("\n## Rename\n\n")
		for _, r := range d.Renames {
			fmt.Fprintf(&b, "- `%s` -> `%s`\n", r.From, r.To)
		}
	}

	if len(d.Changes) > 0 {
		b.WriteString("\n## Change\n\n")
		for _, c := range d.Changes {
			fmt.Fprintf(&b, "- `%s`\n", c.Name)
			if len(c.PropsMissing) > 0 {
				b.WriteString("  - add properties: " + strings.Join(c.PropsMissing, ", ") + "\n")
			}
			if len(c.PropsUnplanned) > 0 {
				b.WriteString("  - stop sending: " + strings.Join(c.PropsUnplanned, ", ") + "\n")
			}
			if c.OriginPlanned != "" {
				fmt.Fprintf(&b, "  - origin: code sends from %s, plan wants %s\n", c.OriginCurrent, c.OriginPlanned)
			}
		}
	}

	if len(d.Removes) > 0 {
		b.WriteString("\n## Remove\n\n")
		for _, r := range d.Removes {
			b.WriteString("- " + eventRef(r.Name, r.Status))
			if refs := locationRefs(r); refs != "" {
				b.WriteString(": " + refs)
			}
			b.WriteString("\n")
		}
	}

	identify := identityLines("identify", d.Identify)
	group := identityLines("group", d.Group)
	if len(identify)+len(group) > 0 {
		b.WriteString("\n## Identity\n\n")
		for _, line := range append(identify, group...) {
			b.WriteString("- " + line + "\n")
		}
	}

	return b.String()
}

// Summary returns a colorized one-screen version for the terminal.
func Summary(d *Delta) string {
	if d.Empty() {
		return okStyle.Render("instrumentation matches the tracking plan") + "\n"
	}

	var lines []string
	lines = append(lines, titleStyle.Render("tracking delta"))

	for _, a := range d.Adds {
		line := addStyle.Render("  + " + a.Name)
		if a.Origin != "" {
			line += mutedStyle.Render(" (" + a.Origin + ")")
		}
		lines = append(lines, line)
	}
	for _, r := range d.Renames {
		lines = append(lines, renameStyle.Render("  > "+r.From+" -> "+r.To))
	}
	for _, c := range d.Changes {
		line := changeStyle.Render("  ~ " + c.Name)
		if detail := changeDetail(c); detail != "" {
			line += mutedStyle.Render(" (" + detail + ")")
		}
		lines = append(lines, line)
	}
	for _, r := range d.Removes {
		line := removeStyle.Render("  - " + r.Name)
		if r.Status != "" {
			line += mutedStyle.Render(" (" + r.Status + ")")
		}
		lines = append(lines, line)
	}
	for _, line := range identityLines("identify", d.Identify) {
		lines = append(lines, mutedStyle.Render("  "+line))
	}
	for _, line := range identityLines("group", d.Group) {
		lines = append(lines, mutedStyle.Render("  "+line))
	}

	return strings.Join(lines, "\n") + "\n"
}

func eventRef(name, qualifier string) string {
	if qualifier == "" {
		return "`" + name + "`"
	}
	return fmt.Sprintf("`%s` (%s)", name, qualifier)
}

func locationRefs(r Remove) string {
	var refs []string
	for i, loc := range r.Locations {
		if i == maxLocationRefs {
			refs = append(refs, fmt.Sprintf("(+%d more)", len(r.Locations)-maxLocationRefs))
			break
		}
		refs = append(refs, fmt.Sprintf("%s:%d", loc.File, loc.Line))
	}
	return strings.Join(refs, ", ")
}

func changeDetail(c Change) string {
	var parts []string
	if len(c.PropsMissing) > 0 {
		parts = append(parts, "add: "+strings.Join(c.PropsMissing, ", "))
	}
	if len(c.PropsUnplanned) > 0 {
		parts = append(parts, "drop: "+strings.Join(c.PropsUnplanned, ", "))
	}
	if c.OriginPlanned != "" {
		parts = append(parts, c.OriginCurrent+" -> "+c.OriginPlanned)
	}
	return strings.Join(parts, "; ")
}

func identityLines(label string, diff IdentityDiff) []string {
	var lines []string
	if len(diff.Missing) > 0 {
		lines = append(lines, label+": add traits: "+strings.Join(diff.Missing, ", "))
	}
	if len(diff.Unplanned) > 0 {
		lines = append(lines, label+": stop sending: "+strings.Join(diff.Unplanned, ", "))
	}
	return lines
}
