package audit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// Auditor extracts the current instrumentation state from a scanned
// repository.
type Auditor struct {
	root    string
	project *scanner.ProjectInfo
}

// New creates an Auditor for the given root directory and scan result.
func New(root string, project *scanner.ProjectInfo) *Auditor {
	return &Auditor{root: root, project: project}
}

// Run reads every source file found by the scan and assembles the
// current-state artifact.
func (a *Auditor) Run() (*CurrentState, error) {
	contents := make(map[string]string, len(a.project.SourceFiles))
	for _, rel := range a.project.SourceFiles {
		data, err := os.ReadFile(filepath.Join(a.root, filepath.FromSlash(rel)))
		if err != nil {
			continue // files can vanish between scan and audit
		}
		contents[rel] = string(data)
	}

	files := make([]string, 0, len(contents))
	for rel := range contents {
		files = append(files, rel)
	}
	sort.Strings(files)

	// First pass: constant tables, so call sites referencing constants
	// resolve to real event names.
	var all []sighting
	defs := make(map[string]string)
	for _, rel := range files {
		for _, s := range extractDefinitions(rel, contents[rel]) {
			all = append(all, s)
			if _, ok := defs[s.defKey]; !ok {
				defs[s.defKey] = s.event
			}
		}
	}

	// Second pass: call sites.
	wrapperFiles := make(map[string]bool)
	callFiles := make(map[string]bool)
	for _, rel := range files {
		fileSightings := a.extractFile(rel, contents[rel], defs)
		for _, s := range fileSightings {
			if s.kind == KindCall {
				callFiles[rel] = true
			}
		}
		if callFiles[rel] && fileHasWrapperDef(contents[rel]) {
			wrapperFiles[rel] = true
		}
		all = append(all, fileSightings...)
	}

	return a.assemble(all, wrapperFiles, callFiles), nil
}

// assemble merges raw sightings into the sorted current-state artifact.
func (a *Auditor) assemble(all []sighting, wrapperFiles, callFiles map[string]bool) *CurrentState {
	state := &CurrentState{
		Version:   StateVersion,
		ScannedAt: time.Now().UTC().Truncate(time.Second),
		Root:      filepath.Base(a.root),
	}

	events := make(map[string]*Event)
	origins := make(map[string]map[string]bool)
	sdkSets := make(map[string]map[string]bool)
	guarded, unguarded := 0, 0

	for _, s := range all {
		if s.kind == KindCall {
			if s.guarded {
				guarded++
			} else {
				unguarded++
			}
		}

		switch s.callType {
		case "identify":
			state.Identify.Locations = append(state.Identify.Locations, Location{File: s.file, Line: s.line, Kind: s.kind})
			state.Identify.Traits = append(state.Identify.Traits, s.props...)
			continue
		case "group":
			state.Group.Locations = append(state.Group.Locations, Location{File: s.file, Line: s.line, Kind: s.kind})
			state.Group.Traits = append(state.Group.Traits, s.props...)
			continue
		}

		if s.dynamic {
			state.Warnings = append(state.Warnings, Warning{
				File:    s.file,
				Line:    s.line,
				Message: "dynamic event name; call cannot be audited statically",
			})
			continue
		}

		e := events[s.event]
		if e == nil {
			e = &Event{Name: s.event}
			events[s.event] = e
			origins[s.event] = make(map[string]bool)
			sdkSets[s.event] = make(map[string]bool)
		}
		e.Locations = append(e.Locations, Location{File: s.file, Line: s.line, Kind: s.kind})
		e.Properties = append(e.Properties, s.props...)
		if s.kind == KindCall {
			if s.origin != "" {
				origins[s.event][s.origin] = true
			}
			if s.sdk != "" {
				sdkSets[s.event][s.sdk] = true
			}
		}
	}

	for name, e := range events {
		e.Status = StatusOrphaned
		for _, loc := range e.Locations {
			if loc.Kind == KindCall {
				e.Status = StatusLive
				break
			}
		}
		e.Origin = singleOrigin(origins[name])
		e.SDK = joinSet(sdkSets[name])
		e.Properties = dedupSorted(e.Properties)
		sortLocations(e.Locations)
		state.Events = append(state.Events, *e)
	}
	sort.Slice(state.Events, func(i, j int) bool { return state.Events[i].Name < state.Events[j].Name })

	state.Identify.Traits = dedupSorted(state.Identify.Traits)
	sortLocations(state.Identify.Locations)
	state.Group.Traits = dedupSorted(state.Group.Traits)
	sortLocations(state.Group.Locations)

	sort.Slice(state.Warnings, func(i, j int) bool {
		if state.Warnings[i].File != state.Warnings[j].File {
			return state.Warnings[i].File < state.Warnings[j].File
		}
		return state.Warnings[i].Line < state.Warnings[j].Line
	})

	state.Patterns = Patterns{
		Naming:         namingPatterns(state.Events),
		Centralization: centralization(wrapperFiles, callFiles),
		ErrorHandling:  ErrorHandlingPatterns{GuardedCalls: guarded, UnguardedCalls: unguarded},
	}

	return state
}

func namingPatterns(events []Event) NamingPatterns {
	if len(events) == 0 {
		return NamingPatterns{}
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[ClassifyNaming(e.Name)]++
	}

	dominant := ""
	best := 0
	styles := make([]string, 0, len(counts))
	for style := range counts {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	for _, style := range styles {
		if counts[style] > best {
			best = counts[style]
			dominant = style
		}
	}

	return NamingPatterns{Dominant: dominant, Counts: counts}
}

func centralization(wrapperFiles, callFiles map[string]bool) CentralizationPatterns {
	c := CentralizationPatterns{
		WrapperDetected: len(wrapperFiles) > 0,
		WrapperFiles:    sortedKeys(wrapperFiles),
		CallFiles:       sortedKeys(callFiles),
	}
	return c
}

// singleOrigin collapses per-location origins: one known origin wins,
// disagreement or no information yields unknown.
func singleOrigin(set map[string]bool) string {
	var known []string
	for o := range set {
		if o != sdks.OriginUnknown {
			known = append(known, o)
		}
	}
	if len(known) == 1 {
		return known[0]
	}
	return sdks.OriginUnknown
}

// joinSet renders a set as a sorted comma-joined string.
func joinSet(set map[string]bool) string {
	if len(set) == 0 {
		return ""
	}
	return strings.Join(sortedKeys(set), ",")
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func sortLocations(locs []Location) {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].File != locs[j].File {
			return locs[i].File < locs[j].File
		}
		if locs[i].Line != locs[j].Line {
			return locs[i].Line < locs[j].Line
		}
		return locs[i].Kind < locs[j].Kind
	})
}
