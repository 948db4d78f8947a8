package audit

import (
	"regexp"
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// trackCallPattern matches receiver.method( for the event-emitting methods
// of every supported SDK.
var trackCallPattern = regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\s*\.\s*(track|capture|logEvent)\s*\(`)

// identifyCallPattern matches user identification calls.
var identifyCallPattern = regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\s*\.\s*(identify|setUserId)\s*\(`)

// groupCallPattern matches account/group association calls.
var groupCallPattern = regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\s*\.\s*(group|groupIdentify|setGroup|set_group)\s*\(`)

// peopleSetPattern matches Mixpanel's people.set trait calls.
var peopleSetPattern = regexp.MustCompile(`\b(mixpanel|mp)\s*\.\s*people\s*\.\s*set\s*\(`)

// groupsSetPattern matches Mixpanel's groups.set trait calls.
var groupsSetPattern = regexp.MustCompile(`\b(mixpanel|mp)\s*\.\s*groups\s*\.\s*set\s*\(`)

// definitionEntryPattern matches constant-table entries that map a
// SCREAMING_SNAKE identifier to a string value, e.g. PROJECT_CREATED: 'project.created'.
var definitionEntryPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9_]{2,})\s*[:=]\s*['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`)

// definitionValuePattern accepts values that look like event names: lowercase
// or capitalized words joined by dots, underscores, or spaces.
var definitionValuePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*([. _][A-Za-z0-9]+)+$`)

// wrapperDefPatterns match function definitions that look like an in-house
// tracking wrapper.
var wrapperDefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfunction\s+\w*(track|analytic|telemetr)\w*\s*\(`),
	regexp.MustCompile(`(?i)\bconst\s+\w*(track|analytic|telemetr)\w*\s*=\s*(async\s*)?\(`),
	regexp.MustCompile(`(?i)\bdef\s+\w*track\w*\s*\(`),
	regexp.MustCompile(`(?i)\bfunc\s+\w*(Track|Analytic|Telemetr)\w*\s*\(`),
}

// guardPatterns mark a call as guarded when found on the call line or in the
// few lines above it.
var guardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btry\s*[{:]`),
	regexp.MustCompile(`\.catch\s*\(`),
	regexp.MustCompile(`\?\.\s*(track|capture|identify|group|logEvent)`),
	regexp.MustCompile(`(?i)\bif\s*\(?\s*(window\.)?(analytics|posthog|mixpanel|amplitude|rudderanalytics|accoil)\b`),
	regexp.MustCompile(`(analytics|posthog|mixpanel|amplitude|rudderanalytics|accoil)\s*&&`),
	regexp.MustCompile(`\bexcept\b`),
	regexp.MustCompile(`\brescue\b`),
}

// analyticsReceiverPattern accepts receivers that plausibly denote an
// analytics client.
var analyticsReceiverPattern = regexp.MustCompile(`(?i)^(analytics|rudderanalytics|segment|posthog|mixpanel|amplitude|accoil|mp|ph|client|tracker|telemetry|tracking)$`)

// receiverSDKs maps unambiguous receiver names to their SDK.
var receiverSDKs = map[string]sdks.Name{
	"rudderanalytics": sdks.RudderStack,
	"posthog":         sdks.PostHog,
	"ph":              sdks.PostHog,
	"mixpanel":        sdks.Mixpanel,
	"mp":              sdks.Mixpanel,
	"amplitude":       sdks.Amplitude,
	"accoil":          sdks.Accoil,
	"segment":         sdks.Segment,
}

// methodSDKs maps methods unique to one SDK.
var methodSDKs = map[string]sdks.Name{
	"capture":       sdks.PostHog,
	"groupIdentify": sdks.PostHog,
	"logEvent":      sdks.Amplitude,
	"setGroup":      sdks.Amplitude,
	"set_group":     sdks.Mixpanel,
}

// backendPathSegments and frontendPathSegments classify call origin from the
// file's directory.
var backendPathSegments = map[string]bool{
	"server": true, "api": true, "backend": true, "functions": true,
	"workers": true, "lambda": true, "jobs": true,
}

var frontendPathSegments = map[string]bool{
	"client": true, "frontend": true, "web": true, "ui": true,
	"components": true, "pages": true, "views": true, "hooks": true,
}

// backendLanguages always run server-side.
var backendLanguages = map[string]bool{
	"Python": true, "Ruby": true, "Go": true, "Java": true,
	"Kotlin": true, "PHP": true, "C#": true,
}

// frontendExtensions ship to the browser.
var frontendExtensions = map[string]bool{
	".jsx": true, ".tsx": true, ".vue": true, ".svelte": true,
}

// IsAnalyticsReceiver reports whether the receiver name plausibly denotes an
// analytics client.
func IsAnalyticsReceiver(name string) bool {
	return analyticsReceiverPattern.MatchString(name)
}

// IsWrapperDefinition reports whether the line defines a tracking wrapper
// function.
func IsWrapperDefinition(line string) bool {
	for _, pattern := range wrapperDefPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// IsGuardLine reports whether the line carries an error guard for analytics
// calls.
func IsGuardLine(line string) bool {
	for _, pattern := range guardPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// ResolveSDK attributes a call to an SDK from its receiver and method,
// falling back to the project's detected SDKs when the receiver is generic.
func ResolveSDK(receiver, method string, project *scanner.ProjectInfo) string {
	if sdk, ok := methodSDKs[method]; ok {
		return string(sdk)
	}
	if sdk, ok := receiverSDKs[strings.ToLower(receiver)]; ok {
		// "segment" receivers could front a RudderStack migration; trust
		// the manifest when it disagrees.
		if sdk == sdks.Segment && project != nil && !project.HasSDK(string(sdks.Segment)) && project.HasSDK(string(sdks.RudderStack)) {
			return string(sdks.RudderStack)
		}
		return string(sdk)
	}

	// Generic receivers (analytics, client, tracker): attribute only when the
	// manifest narrows it to a single SDK.
	if project != nil {
		if names := project.DetectedSDKNames(); len(names) == 1 {
			return names[0]
		}
	}
	return ""
}

// originForFile infers where code in the given file executes.
func originForFile(rel, language string, project *scanner.ProjectInfo) string {
	dir := strings.ToLower(rel)
	for _, seg := range strings.Split(dir, "/") {
		if backendPathSegments[seg] {
			return sdks.OriginBackend
		}
		if frontendPathSegments[seg] {
			return sdks.OriginFrontend
		}
	}

	if backendLanguages[language] {
		return sdks.OriginBackend
	}
	if ext := extOf(rel); frontendExtensions[ext] {
		return sdks.OriginFrontend
	}

	if project != nil && project.FrontendFramework() {
		return sdks.OriginFrontend
	}

	return sdks.OriginUnknown
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

// namingStyles classify event names for the patterns section.
var namingStyles = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"dot.notation", regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9]*)+$`)},
	{"snake_case", regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)+$`)},
	{"Title Case", regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*( [A-Z][a-zA-Z0-9]*)+$`)},
	{"camelCase", regexp.MustCompile(`^[a-z][a-z0-9]*([A-Z][a-zA-Z0-9]*)+$`)},
	{"kebab-case", regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)},
	{"SCREAMING_SNAKE", regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)+$`)},
}

// ClassifyNaming returns the naming style of an event name.
func ClassifyNaming(name string) string {
	for _, style := range namingStyles {
		if style.pattern.MatchString(name) {
			return style.name
		}
	}
	return "other"
}
