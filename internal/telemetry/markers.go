package telemetry

import "strings"

// Markers delimiting the regenerated section of markdown artifacts.
// Content outside the markers belongs to the user and survives regeneration.
const (
	GeneratedStartMarker = "<!-- tracksmith:generated:start -->"
	GeneratedEndMarker   = "<!-- tracksmith:generated:end -->"
)

// MarkedContent is a markdown artifact split at the generated markers.
type MarkedContent struct {
	Pre        string // content before the start marker
	Generated  string // the generated section, markers included
	Custom     string // content after the end marker
	HasMarkers bool
}

// SplitMarked splits content at the generated markers. Content without
// markers is treated as entirely custom, so a regeneration never clobbers
// a hand-written file.
func SplitMarked(content string) *MarkedContent {
	result := &MarkedContent{}

	startIdx := strings.Index(content, GeneratedStartMarker)
	endIdx := strings.Index(content, GeneratedEndMarker)
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		result.Custom = content
		return result
	}

	result.HasMarkers = true
	result.Pre = content[:startIdx]
	result.Generated = content[startIdx : endIdx+len(GeneratedEndMarker)]
	result.Custom = content[endIdx+len(GeneratedEndMarker):]
	return result
}

// HasCustomContent reports whether any non-whitespace custom content exists.
func (m *MarkedContent) HasCustomContent() bool {
	return strings.TrimSpace(m.Custom) != ""
}

// WriteMarked writes a freshly generated section into the named artifact,
// preserving hand-written content outside the markers. generated must carry
// the markers itself. defaultCustom is appended instead when the artifact is
// new or has no custom content. A marker-less existing file is kept in full
// below the generated section.
func (s *Store) WriteMarked(name, generated, defaultCustom string) error {
	existing, err := s.ReadText(name)
	if err != nil {
		return err
	}
	if existing == "" {
		return s.WriteText(name, generated+defaultCustom)
	}

	parsed := SplitMarked(existing)
	custom := parsed.Custom
	if !parsed.HasCustomContent() {
		custom = defaultCustom
	} else if !parsed.HasMarkers {
		custom = "\n\n" + strings.TrimLeft(custom, "\n")
	}
	return s.WriteText(name, parsed.Pre+generated+custom)
}
