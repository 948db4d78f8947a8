package skills

import "strings"

// Selector composes skills by workflow phase.
type Selector struct {
	skills []Skill
}

// NewSelector wraps a priority-sorted slice of loaded skills.
func NewSelector(skills []Skill) *Selector {
	return &Selector{skills: skills}
}

// SelectForPhase joins the documents of every skill matching the phase,
// in priority order, separated by blank lines. Skills with no declared
// phases apply to every phase.
func (s *Selector) SelectForPhase(phase string) string {
	var parts []string
	for _, skill := range s.skills {
		if s.matchesPhase(skill, phase) {
			parts = append(parts, skill.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// SkillsForPhase returns the names of skills matching the phase.
func (s *Selector) SkillsForPhase(phase string) []string {
	var names []string
	for _, skill := range s.skills {
		if s.matchesPhase(skill, phase) {
			names = append(names, skill.Entry.Name)
		}
	}
	return names
}

// SelectByNames joins the named skills' documents in priority order.
// Unknown names are skipped.
func (s *Selector) SelectByNames(names []string) string {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	var parts []string
	for _, skill := range s.skills {
		if nameSet[skill.Entry.Name] {
			parts = append(parts, skill.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ByName returns the named skill.
func (s *Selector) ByName(name string) (Skill, bool) {
	for _, skill := range s.skills {
		if skill.Entry.Name == name {
			return skill, true
		}
	}
	return Skill{}, false
}

func (s *Selector) matchesPhase(skill Skill, phase string) bool {
	if len(skill.Entry.Phases) == 0 {
		return true
	}
	for _, p := range skill.Entry.Phases {
		if p == phase {
			return true
		}
	}
	return false
}
