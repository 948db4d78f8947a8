package audit

import (
	"regexp"
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
)

// maxCallSpan caps how many lines a single call's arguments may span.
const maxCallSpan = 12

// guardLookback is how many lines above a call are checked for error guards.
const guardLookback = 5

// sighting is one raw observation before merging.
type sighting struct {
	event    string
	callType string // track, identify, group
	kind     string // call or definition
	sdk      string
	origin   string
	file     string
	line     int
	props    []string
	guarded  bool
	dynamic  bool
	defKey   string // constant identifier, definition sightings only
}

var (
	envelopeEventPattern  = regexp.MustCompile(`\bevent\s*:\s*['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`)
	propertiesSubPattern  = regexp.MustCompile(`\bproperties\s*[:=]\s*{`)
	traitsSubPattern      = regexp.MustCompile(`\btraits\s*[:=]\s*{`)
	constRefPattern       = regexp.MustCompile(`^[A-Za-z_$][\w$]*\s*\.\s*([A-Z][A-Z0-9_]{2,})`)
	bareConstPattern      = regexp.MustCompile(`^([A-Z][A-Z0-9_]{2,})\b`)
	identPattern          = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// reservedKeys are envelope fields of the SDK wire formats, not event
// properties.
var reservedKeys = map[string]bool{
	"userId": true, "user_id": true, "distinctId": true, "distinct_id": true,
	"anonymousId": true, "anonymous_id": true, "event": true, "properties": true,
	"traits": true, "groupId": true, "group_id": true, "groupType": true,
	"groupKey": true, "group_key": true, "context": true, "timestamp": true,
	"integrations": true,
}

// extractFile finds analytics call sightings in one source file. defs maps
// constant identifiers to event names for resolving constant references.
func (a *Auditor) extractFile(rel, content string, defs map[string]string) []sighting {
	lines := strings.Split(content, "\n")
	language := scanner.LanguageForFile(rel)
	fileOrigin := originForFile(rel, language, a.project)

	var out []sighting

	for i, line := range lines {
		if isCommentLine(line) {
			continue
		}

		for _, m := range trackCallPattern.FindAllStringSubmatchIndex(line, -1) {
			receiver := line[m[2]:m[3]]
			method := line[m[4]:m[5]]
			if !callBelongsToSDK(receiver, method) {
				continue
			}

			argText := callText(lines, i, m[1]-1)
			s := sighting{
				callType: "track",
				kind:     KindCall,
				sdk:      ResolveSDK(receiver, method, a.project),
				origin:   fileOrigin,
				file:     rel,
				line:     i + 1,
				guarded:  guardedAt(lines, i),
			}

			name, ok := eventNameFromCall(argText, language, defs)
			if !ok {
				s.event = DynamicName
				s.dynamic = true
				out = append(out, s)
				continue
			}
			s.event = name
			s.props = trackProperties(argText)
			out = append(out, s)
		}

		for _, m := range identifyCallPattern.FindAllStringSubmatchIndex(line, -1) {
			receiver := line[m[2]:m[3]]
			method := line[m[4]:m[5]]
			if !callBelongsToSDK(receiver, method) {
				continue
			}
			argText := callText(lines, i, m[1]-1)
			out = append(out, sighting{
				callType: "identify",
				kind:     KindCall,
				sdk:      ResolveSDK(receiver, method, a.project),
				origin:   fileOrigin,
				file:     rel,
				line:     i + 1,
				props:    traitKeys(argText),
				guarded:  guardedAt(lines, i),
			})
		}

		for _, m := range groupCallPattern.FindAllStringSubmatchIndex(line, -1) {
			receiver := line[m[2]:m[3]]
			method := line[m[4]:m[5]]
			if !callBelongsToSDK(receiver, method) {
				continue
			}
			argText := callText(lines, i, m[1]-1)
			out = append(out, sighting{
				callType: "group",
				kind:     KindCall,
				sdk:      ResolveSDK(receiver, method, a.project),
				origin:   fileOrigin,
				file:     rel,
				line:     i + 1,
				props:    traitKeys(argText),
				guarded:  guardedAt(lines, i),
			})
		}

		if m := peopleSetPattern.FindStringIndex(line); m != nil {
			argText := callText(lines, i, m[1]-1)
			out = append(out, sighting{
				callType: "identify",
				kind:     KindCall,
				sdk:      "mixpanel",
				origin:   fileOrigin,
				file:     rel,
				line:     i + 1,
				props:    traitKeys(argText),
				guarded:  guardedAt(lines, i),
			})
		}

		if m := groupsSetPattern.FindStringIndex(line); m != nil {
			argText := callText(lines, i, m[1]-1)
			out = append(out, sighting{
				callType: "group",
				kind:     KindCall,
				sdk:      "mixpanel",
				origin:   fileOrigin,
				file:     rel,
				line:     i + 1,
				props:    traitKeys(argText),
				guarded:  guardedAt(lines, i),
			})
		}
	}

	return out
}

// extractDefinitions finds constant-table entries mapping identifiers to
// event names.
func extractDefinitions(rel, content string) []sighting {
	var out []sighting
	for i, line := range strings.Split(content, "\n") {
		if isCommentLine(line) {
			continue
		}
		for _, m := range definitionEntryPattern.FindAllStringSubmatch(line, -1) {
			if !definitionValuePattern.MatchString(m[2]) {
				continue
			}
			out = append(out, sighting{
				event:    m[2],
				callType: "track",
				kind:     KindDefinition,
				file:     rel,
				line:     i + 1,
				defKey:   m[1],
			})
		}
	}
	return out
}

// callBelongsToSDK filters out unrelated receiver.method( matches.
func callBelongsToSDK(receiver, method string) bool {
	if _, unique := methodSDKs[method]; unique {
		return true
	}
	return IsAnalyticsReceiver(receiver)
}

// callText returns the argument text of a call, starting at the opening
// paren and joined across lines until the parens balance.
func callText(lines []string, row, openCol int) string {
	depth := 0
	var quote rune
	var b strings.Builder

	for i := row; i < len(lines) && i < row+maxCallSpan; i++ {
		text := lines[i]
		if i == row {
			if openCol >= len(text) {
				continue
			}
			text = text[openCol:]
		}
		for _, r := range text {
			b.WriteRune(r)
			if quote != 0 {
				if r == quote {
					quote = 0
				}
				continue
			}
			switch r {
			case '\'', '"', '`':
				quote = r
			case '(', '{', '[':
				depth++
			case ')', '}', ']':
				depth--
				if depth == 0 {
					return b.String()
				}
			}
		}
		b.WriteRune('\n')
	}
	return b.String()
}

// eventNameFromCall resolves the event name of a track call. ok=false means
// the name is computed at runtime and cannot be audited statically.
func eventNameFromCall(argText, language string, defs map[string]string) (name string, ok bool) {
	inner := strings.TrimSpace(strings.TrimPrefix(argText, "("))
	if inner == "" {
		return "", false
	}

	// Name literals live before any object argument.
	head := argText
	if i := strings.Index(argText, "{"); i >= 0 {
		head = argText[:i]
	}

	switch inner[0] {
	case '\'', '"', '`':
		lits := stringLiterals(head)
		if len(lits) == 0 {
			return "", false // template literal with interpolation
		}
		// Python server SDKs take the user id first and the event second.
		if language == "Python" && len(lits) >= 2 {
			return lits[1], true
		}
		return lits[0], true
	case '{':
		if m := envelopeEventPattern.FindStringSubmatch(argText); m != nil {
			return m[1], true
		}
		return "", false
	default:
		if m := constRefPattern.FindStringSubmatch(inner); m != nil {
			if resolved, found := defs[m[1]]; found {
				return resolved, true
			}
		}
		if m := bareConstPattern.FindStringSubmatch(inner); m != nil {
			if resolved, found := defs[m[1]]; found {
				return resolved, true
			}
		}
		// Python positional form: track(user_id, 'event.name', {...})
		if language == "Python" {
			if lits := stringLiterals(head); len(lits) > 0 {
				return lits[0], true
			}
		}
		return "", false
	}
}

// stringLiterals returns quoted literals in order of appearance. Template
// literals containing interpolation do not count.
func stringLiterals(text string) []string {
	var out []string
	var quote rune
	var cur []rune
	for _, r := range text {
		if quote != 0 {
			if r == quote {
				s := string(cur)
				if quote != '`' || !strings.Contains(s, "${") {
					out = append(out, s)
				}
				quote = 0
				cur = nil
				continue
			}
			cur = append(cur, r)
			continue
		}
		if r == '\'' || r == '"' || r == '`' {
			quote = r
		}
	}
	return out
}

// trackProperties extracts event property keys from a track call's arguments.
func trackProperties(argText string) []string {
	if loc := propertiesSubPattern.FindStringIndex(argText); loc != nil {
		return filterReserved(topLevelKeys(argText[loc[1]-1:]))
	}

	inner := strings.TrimSpace(strings.TrimPrefix(argText, "("))
	if strings.HasPrefix(inner, "{") && envelopeEventPattern.MatchString(argText) {
		// envelope without a properties object carries no event properties
		return nil
	}

	if i := strings.Index(argText, "{"); i >= 0 {
		return filterReserved(topLevelKeys(argText[i:]))
	}
	return nil
}

// traitKeys extracts user or group trait keys from identify/group arguments.
func traitKeys(argText string) []string {
	if loc := traitsSubPattern.FindStringIndex(argText); loc != nil {
		return filterReserved(topLevelKeys(argText[loc[1]-1:]))
	}
	if loc := propertiesSubPattern.FindStringIndex(argText); loc != nil {
		// posthog-node identify carries traits under properties
		return filterReserved(topLevelKeys(argText[loc[1]-1:]))
	}
	if i := strings.Index(argText, "{"); i >= 0 {
		return filterReserved(topLevelKeys(argText[i:]))
	}
	return nil
}

// topLevelKeys extracts the keys at the first nesting level of an object or
// dict literal. Shorthand properties ({ plan }) count as keys.
func topLevelKeys(obj string) []string {
	var keys []string
	depth := 0
	skipValue := false
	var quote rune
	var cur []rune

	flush := func() {
		name := string(cur)
		cur = nil
		if name != "" && identPattern.MatchString(name) {
			keys = append(keys, name)
		}
	}

	for _, r := range obj {
		if quote != 0 {
			if r == quote {
				quote = 0
			} else if !skipValue {
				cur = append(cur, r)
			}
			continue
		}

		switch r {
		case '\'', '"', '`':
			quote = r
		case '{', '[', '(':
			depth++
			if depth == 1 {
				cur = nil
				skipValue = false
			}
		case '}', ']', ')':
			if depth == 1 && !skipValue {
				flush()
			}
			depth--
			if depth <= 0 {
				return keys
			}
		case ':':
			if depth == 1 && !skipValue {
				flush()
				skipValue = true
			}
		case ',':
			if depth == 1 {
				if !skipValue {
					flush()
				}
				skipValue = false
				cur = nil
			}
		case ' ', '\t', '\n', '\r':
			// identifier boundary, keep accumulating
		default:
			if depth == 1 && !skipValue {
				cur = append(cur, r)
			}
		}
	}
	return keys
}

// filterReserved drops SDK envelope fields and duplicate keys.
func filterReserved(keys []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		if reservedKeys[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// guardedAt reports whether the call at row sits under an error guard.
func guardedAt(lines []string, row int) bool {
	start := row - guardLookback
	if start < 0 {
		start = 0
	}
	for i := row; i >= start; i-- {
		if IsGuardLine(lines[i]) {
			return true
		}
	}
	return false
}

// fileHasWrapperDef reports whether the file defines a tracking wrapper.
func fileHasWrapperDef(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if IsWrapperDefinition(line) {
			return true
		}
	}
	return false
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}
