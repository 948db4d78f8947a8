// Package skills embeds the instrumentation skill pack: one agent-facing
// document per workflow phase plus the shared reference material, a
// manifest describing them, and an installer that copies the pack into a
// target repository's .claude/skills directory.
package skills

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var embeddedManifest string

//go:embed business_case.md
var embeddedBusinessCase string

//go:embed model.md
var embeddedModel string

//go:embed audit.md
var embeddedAudit string

//go:embed design.md
var embeddedDesign string

//go:embed instrument.md
var embeddedInstrument string

//go:embed implement.md
var embeddedImplement string

//go:embed maintain.md
var embeddedMaintain string

//go:embed reference/*.md
var referenceFS embed.FS

// skillFiles maps manifest filenames to their embedded content.
var skillFiles = map[string]string{
	"business_case.md": embeddedBusinessCase,
	"model.md":         embeddedModel,
	"audit.md":         embeddedAudit,
	"design.md":        embeddedDesign,
	"instrument.md":    embeddedInstrument,
	"implement.md":     embeddedImplement,
	"maintain.md":      embeddedMaintain,
}

// LoadManifest parses the embedded manifest.
func LoadManifest() (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal([]byte(embeddedManifest), &manifest); err != nil {
		return nil, fmt.Errorf("parse skills manifest: %w", err)
	}
	return &manifest, nil
}

// LoadSkills resolves every manifest entry to its embedded document,
// sorted by priority.
func LoadSkills(manifest *Manifest) ([]Skill, error) {
	skills := make([]Skill, 0, len(manifest.Skills))

	for _, entry := range manifest.Skills {
		content, ok := skillFiles[entry.File]
		if !ok {
			return nil, fmt.Errorf("skill file %q not found for skill %q", entry.File, entry.Name)
		}
		skills = append(skills, Skill{
			Entry:   entry,
			Content: content,
		})
	}

	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Entry.Priority < skills[j].Entry.Priority
	})

	return skills, nil
}

// ReferenceFile returns one embedded reference document by filename.
func ReferenceFile(name string) (string, error) {
	content, err := referenceFS.ReadFile("reference/" + name)
	if err != nil {
		return "", fmt.Errorf("reference file %q not embedded: %w", name, err)
	}
	return string(content), nil
}

// ReferenceNames lists the embedded reference documents, sorted.
func ReferenceNames() []string {
	entries, err := referenceFS.ReadDir("reference")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
