package skills

import (
	"fmt"
	"os"
	"path/filepath"
)

// installPrefix namespaces installed skill directories so the pack cannot
// collide with a project's own skills.
const installPrefix = "tracksmith-"

// InstalledName returns the directory name a skill installs under.
func InstalledName(entry SkillEntry) string {
	return installPrefix + entry.Name
}

// InstallProjectSkills writes the skill pack into rootDir/.claude/skills,
// one directory per skill holding SKILL.md and the skill's reference
// documents. A skill whose SKILL.md already exists is left alone unless
// force is set.
func InstallProjectSkills(rootDir string, force bool) error {
	manifest, err := LoadManifest()
	if err != nil {
		return err
	}
	loaded, err := LoadSkills(manifest)
	if err != nil {
		return err
	}

	for _, sk := range loaded {
		if err := installSkill(rootDir, sk, force); err != nil {
			return fmt.Errorf("install skill %s: %w", sk.Entry.Name, err)
		}
	}

	return nil
}

func installSkill(rootDir string, sk Skill, force bool) error {
	dir := filepath.Join(rootDir, ".claude", "skills", InstalledName(sk.Entry))
	skillPath := filepath.Join(dir, "SKILL.md")

	if _, err := os.Stat(skillPath); err == nil && !force {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(skillPath, []byte(sk.Content), 0644); err != nil {
		return err
	}

	if len(sk.Entry.References) == 0 {
		return nil
	}
	refDir := filepath.Join(dir, "reference")
	if err := os.MkdirAll(refDir, 0755); err != nil {
		return err
	}
	for _, ref := range sk.Entry.References {
		content, err := ReferenceFile(ref)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(refDir, ref), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
