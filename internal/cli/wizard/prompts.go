// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// ConfirmProjectInfo presents the detected project facts for confirmation
// and light editing.
func ConfirmProjectInfo(info *scanner.ProjectInfo) (*scanner.ProjectInfo, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Detected Project").
				Description(fmt.Sprintf(
					"Project: %s\nLanguages: %s\nFramework: %s\nAnalytics SDKs: %s",
					info.Name, formatLanguages(info.Languages), orNone(info.Framework), formatSDKs(info.SDKs),
				)),

			huh.NewConfirm().
				Title("Is this correct?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	if confirmed {
		return info, nil
	}

	return editProjectInfo(info)
}

func editProjectInfo(info *scanner.ProjectInfo) (*scanner.ProjectInfo, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Value(&info.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Framework (optional)").
				Value(&info.Framework),

			huh.NewInput().
				Title("Package Manager (optional)").
				Value(&info.PackageManager),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	return info, nil
}

// ChooseSDK picks the SDK and runtime variant to emit snippets for.
// Detected SDKs are listed first.
func ChooseSDK(detected []scanner.SDKDetection) (sdks.Name, sdks.Variant, error) {
	var options []huh.Option[string]
	seen := make(map[string]bool)
	for _, d := range detected {
		if !seen[d.Name] && sdks.ValidName(d.Name) {
			seen[d.Name] = true
			options = append(options, huh.NewOption(fmt.Sprintf("%s (detected via %s)", d.Name, d.Manifest), d.Name))
		}
	}
	for _, name := range sdks.Names() {
		if !seen[string(name)] {
			options = append(options, huh.NewOption(string(name), string(name)))
		}
	}

	var chosen string
	variant := string(sdks.VariantBrowser)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target Analytics SDK").
				Options(options...).
				Value(&chosen),

			huh.NewSelect[string]().
				Title("Runtime Variant").
				Options(
					huh.NewOption("browser", string(sdks.VariantBrowser)),
					huh.NewOption("node", string(sdks.VariantNode)),
				).
				Value(&variant),
		),
	)

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return sdks.Name(chosen), sdks.Variant(variant), nil
}

// ReviewDraft walks the drafted events one at a time, letting the user
// adopt, rename, or skip each. The returned plan keeps only adopted events.
func ReviewDraft(draft *plan.TrackingPlan) (*plan.TrackingPlan, error) {
	reviewed := &plan.TrackingPlan{
		Version:     draft.Version,
		Conventions: draft.Conventions,
		Identity:    draft.Identity,
	}

	for _, ev := range draft.Events {
		decision := "adopt"

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewNote().
					Title(ev.Name).
					Description(describeEvent(ev)),

				huh.NewSelect[string]().
					Title("Keep this event in the plan?").
					Options(
						huh.NewOption("Adopt as is", "adopt"),
						huh.NewOption("Rename", "rename"),
						huh.NewOption("Skip", "skip"),
					).
					Value(&decision),
			),
		)

		if err := form.Run(); err != nil {
			return nil, fmt.Errorf("prompt cancelled: %w", err)
		}

		switch decision {
		case "skip":
			continue
		case "rename":
			name := ev.Name
			rename := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("New event name").
						Value(&name).
						Validate(validateEventName),
				),
			)
			if err := rename.Run(); err != nil {
				return nil, fmt.Errorf("prompt cancelled: %w", err)
			}
			ev.Name = strings.TrimSpace(name)
		}

		reviewed.Events = append(reviewed.Events, ev)
	}

	sort.Slice(reviewed.Events, func(i, j int) bool {
		return reviewed.Events[i].Name < reviewed.Events[j].Name
	})
	return reviewed, nil
}

func validateEventName(s string) error {
	if !plan.EventNamePattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("use dot.notation, e.g. signup.completed")
	}
	return nil
}

func describeEvent(ev plan.Event) string {
	parts := []string{fmt.Sprintf("origin: %s", orNone(ev.Origin))}
	if len(ev.Properties) > 0 {
		names := make([]string, len(ev.Properties))
		for i, p := range ev.Properties {
			names[i] = p.Name
		}
		parts = append(parts, "properties: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "\n")
}

func formatLanguages(languages []scanner.LanguageInfo) string {
	if len(languages) == 0 {
		return "Unknown"
	}
	var parts []string
	for _, lang := range languages {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", lang.Name, lang.Percentage))
	}
	return strings.Join(parts, ", ")
}

func formatSDKs(detected []scanner.SDKDetection) string {
	if len(detected) == 0 {
		return "none detected"
	}
	var parts []string
	seen := make(map[string]bool)
	for _, d := range detected {
		if !seen[d.Name] {
			seen[d.Name] = true
			parts = append(parts, d.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
