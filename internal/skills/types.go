package skills

import "strings"

// SkillEntry is one skill definition from the manifest.
type SkillEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	File        string   `yaml:"file"`
	Priority    int      `yaml:"priority"`
	Phases      []string `yaml:"phases"`
	References  []string `yaml:"references"`
}

// Manifest is the complete skill pack manifest.
type Manifest struct {
	Skills []SkillEntry `yaml:"skills"`
}

// Skill is a loaded skill with its document content.
type Skill struct {
	Entry   SkillEntry
	Content string
}

// Body returns the document with its YAML frontmatter block removed.
func (s Skill) Body() string {
	const fence = "---\n"
	if !strings.HasPrefix(s.Content, fence) {
		return s.Content
	}
	rest := s.Content[len(fence):]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return s.Content
	}
	return strings.TrimLeft(rest[end+1+len(fence):], "\n")
}
