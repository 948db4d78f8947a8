// Package sdks is the catalog of supported analytics SDKs: how each one is
// detected in a target repository and the identify/group/track call shapes
// to emit for it. The catalog is pure data; it performs no I/O.
package sdks

import "sort"

// Name identifies a supported analytics SDK.
type Name string

const (
	Segment     Name = "segment"
	Amplitude   Name = "amplitude"
	Mixpanel    Name = "mixpanel"
	PostHog     Name = "posthog"
	Accoil      Name = "accoil"
	RudderStack Name = "rudderstack"
)

// Variant distinguishes the runtime a call shape targets.
type Variant string

const (
	VariantBrowser Variant = "browser"
	VariantNode    Variant = "node"
)

// Origin classifies where an analytics call executes.
const (
	OriginFrontend = "frontend"
	OriginBackend  = "backend"
	OriginUnknown  = "unknown"
)

// Manifest kinds used by detection rules.
const (
	ManifestNPM   = "npm"   // package.json
	ManifestPip   = "pip"   // requirements.txt, pyproject.toml
	ManifestGem   = "gem"   // Gemfile
	ManifestGoMod = "gomod" // go.mod
)

// DetectRule declares dependency names whose presence in a manifest kind
// indicates the SDK, and what origin that implies.
type DetectRule struct {
	Manifest string
	Variant  Variant
	Origin   string
	Packages []string
}

// CallShapes holds the documented call shapes for one SDK variant.
// Snippet templates use {{event}}, {{properties}}, {{user_id}}, {{traits}},
// {{group_id}} and {{group_type}} placeholders (see RenderSnippet).
type CallShapes struct {
	Install  string // package to add to the target project
	Init     string // initialization snippet
	Track    string
	Identify string
	Group    string
}

// SDK describes one supported analytics SDK.
type SDK struct {
	Name     Name
	Label    string // display name, e.g. "Segment"
	Detect   []DetectRule
	EnvKeys  []string // env var names that carry the write key / token
	Variants map[Variant]CallShapes
}

// Shapes returns the call shapes for the given variant.
func (s SDK) Shapes(v Variant) (CallShapes, bool) {
	shapes, ok := s.Variants[v]
	return shapes, ok
}

var catalog = []SDK{
	{
		Name:  Segment,
		Label: "Segment",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"@segment/analytics-next", "analytics.js"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"@segment/analytics-node", "analytics-node"}},
			{Manifest: ManifestPip, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"segment-analytics-python", "analytics-python"}},
			{Manifest: ManifestGem, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"analytics-ruby", "segment"}},
			{Manifest: ManifestGoMod, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"github.com/segmentio/analytics-go", "gopkg.in/segmentio/analytics-go.v3"}},
		},
		EnvKeys: []string{"SEGMENT_WRITE_KEY", "NEXT_PUBLIC_SEGMENT_WRITE_KEY", "REACT_APP_SEGMENT_WRITE_KEY"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "@segment/analytics-next",
				Init:     "import { AnalyticsBrowser } from '@segment/analytics-next'\nconst analytics = AnalyticsBrowser.load({ writeKey: '<WRITE_KEY>' })",
				Track:    "analytics.track('{{event}}', {{properties}})",
				Identify: "analytics.identify('{{user_id}}', {{traits}})",
				Group:    "analytics.group('{{group_id}}', {{traits}})",
			},
			VariantNode: {
				Install:  "@segment/analytics-node",
				Init:     "import { Analytics } from '@segment/analytics-node'\nconst analytics = new Analytics({ writeKey: '<WRITE_KEY>' })",
				Track:    "analytics.track({ userId: '{{user_id}}', event: '{{event}}', properties: {{properties}} })",
				Identify: "analytics.identify({ userId: '{{user_id}}', traits: {{traits}} })",
				Group:    "analytics.group({ userId: '{{user_id}}', groupId: '{{group_id}}', traits: {{traits}} })",
			},
		},
	},
	{
		Name:  Amplitude,
		Label: "Amplitude",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"@amplitude/analytics-browser", "amplitude-js"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"@amplitude/analytics-node", "@amplitude/node"}},
			{Manifest: ManifestPip, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"amplitude-analytics"}},
		},
		EnvKeys: []string{"AMPLITUDE_API_KEY", "NEXT_PUBLIC_AMPLITUDE_API_KEY", "VITE_AMPLITUDE_API_KEY"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "@amplitude/analytics-browser",
				Init:     "import * as amplitude from '@amplitude/analytics-browser'\namplitude.init('<API_KEY>')",
				Track:    "amplitude.track('{{event}}', {{properties}})",
				Identify: "amplitude.setUserId('{{user_id}}')\nconst identify = new amplitude.Identify()\namplitude.identify(identify)",
				Group:    "amplitude.setGroup('{{group_type}}', '{{group_id}}')",
			},
			VariantNode: {
				Install:  "@amplitude/analytics-node",
				Init:     "import { init, track, identify, Identify } from '@amplitude/analytics-node'\ninit('<API_KEY>')",
				Track:    "track('{{event}}', {{properties}}, { user_id: '{{user_id}}' })",
				Identify: "const identifyObj = new Identify()\nidentify(identifyObj, { user_id: '{{user_id}}' })",
				Group:    "setGroup('{{group_type}}', '{{group_id}}', { user_id: '{{user_id}}' })",
			},
		},
	},
	{
		Name:  Mixpanel,
		Label: "Mixpanel",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"mixpanel-browser"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"mixpanel"}},
			{Manifest: ManifestPip, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"mixpanel"}},
			{Manifest: ManifestGem, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"mixpanel-ruby"}},
		},
		EnvKeys: []string{"MIXPANEL_TOKEN", "MIXPANEL_PROJECT_TOKEN", "NEXT_PUBLIC_MIXPANEL_TOKEN"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "mixpanel-browser",
				Init:     "import mixpanel from 'mixpanel-browser'\nmixpanel.init('<PROJECT_TOKEN>')",
				Track:    "mixpanel.track('{{event}}', {{properties}})",
				Identify: "mixpanel.identify('{{user_id}}')",
				Group:    "mixpanel.set_group('{{group_type}}', '{{group_id}}')",
			},
			VariantNode: {
				Install:  "mixpanel",
				Init:     "const Mixpanel = require('mixpanel')\nconst mixpanel = Mixpanel.init('<PROJECT_TOKEN>')",
				Track:    "mixpanel.track('{{event}}', {{properties}})",
				Identify: "mixpanel.people.set('{{user_id}}', {{traits}})",
				Group:    "mixpanel.groups.set('{{group_type}}', '{{group_id}}', {{traits}})",
			},
		},
	},
	{
		Name:  PostHog,
		Label: "PostHog",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"posthog-js"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"posthog-node"}},
			{Manifest: ManifestPip, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"posthog"}},
			{Manifest: ManifestGem, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"posthog-ruby"}},
			{Manifest: ManifestGoMod, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"github.com/posthog/posthog-go"}},
		},
		EnvKeys: []string{"POSTHOG_API_KEY", "NEXT_PUBLIC_POSTHOG_KEY", "VITE_POSTHOG_KEY"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "posthog-js",
				Init:     "import posthog from 'posthog-js'\nposthog.init('<PROJECT_API_KEY>', { api_host: 'https://us.i.posthog.com' })",
				Track:    "posthog.capture('{{event}}', {{properties}})",
				Identify: "posthog.identify('{{user_id}}', {{traits}})",
				Group:    "posthog.group('{{group_type}}', '{{group_id}}', {{traits}})",
			},
			VariantNode: {
				Install:  "posthog-node",
				Init:     "import { PostHog } from 'posthog-node'\nconst client = new PostHog('<PROJECT_API_KEY>')",
				Track:    "client.capture({ distinctId: '{{user_id}}', event: '{{event}}', properties: {{properties}} })",
				Identify: "client.identify({ distinctId: '{{user_id}}', properties: {{traits}} })",
				Group:    "client.groupIdentify({ groupType: '{{group_type}}', groupKey: '{{group_id}}', properties: {{traits}} })",
			},
		},
	},
	{
		Name:  Accoil,
		Label: "Accoil",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"accoil-analytics"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"@accoil/analytics-node"}},
		},
		EnvKeys: []string{"ACCOIL_API_KEY"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "accoil-analytics",
				Init:     "import accoil from 'accoil-analytics'\naccoil.init('<API_KEY>')",
				Track:    "accoil.track('{{event}}')",
				Identify: "accoil.identify('{{user_id}}', {{traits}})",
				Group:    "accoil.group('{{group_id}}', {{traits}})",
			},
			VariantNode: {
				Install:  "@accoil/analytics-node",
				Init:     "const accoil = require('@accoil/analytics-node')('<API_KEY>')",
				Track:    "accoil.track({ userId: '{{user_id}}', event: '{{event}}' })",
				Identify: "accoil.identify({ userId: '{{user_id}}', traits: {{traits}} })",
				Group:    "accoil.group({ accountId: '{{group_id}}', traits: {{traits}} })",
			},
		},
	},
	{
		Name:  RudderStack,
		Label: "RudderStack",
		Detect: []DetectRule{
			{Manifest: ManifestNPM, Variant: VariantBrowser, Origin: OriginFrontend,
				Packages: []string{"@rudderstack/analytics-js", "rudder-sdk-js"}},
			{Manifest: ManifestNPM, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"@rudderstack/rudder-sdk-node"}},
			{Manifest: ManifestPip, Variant: VariantNode, Origin: OriginBackend,
				Packages: []string{"rudder-sdk-python"}},
		},
		EnvKeys: []string{"RUDDERSTACK_WRITE_KEY", "RUDDER_WRITE_KEY", "NEXT_PUBLIC_RUDDERSTACK_WRITE_KEY"},
		Variants: map[Variant]CallShapes{
			VariantBrowser: {
				Install:  "@rudderstack/analytics-js",
				Init:     "import { RudderAnalytics } from '@rudderstack/analytics-js'\nconst rudderanalytics = new RudderAnalytics()\nrudderanalytics.load('<WRITE_KEY>', '<DATA_PLANE_URL>')",
				Track:    "rudderanalytics.track('{{event}}', {{properties}})",
				Identify: "rudderanalytics.identify('{{user_id}}', {{traits}})",
				Group:    "rudderanalytics.group('{{group_id}}', {{traits}})",
			},
			VariantNode: {
				Install:  "@rudderstack/rudder-sdk-node",
				Init:     "import Analytics from '@rudderstack/rudder-sdk-node'\nconst client = new Analytics('<WRITE_KEY>', { dataPlaneUrl: '<DATA_PLANE_URL>' })",
				Track:    "client.track({ userId: '{{user_id}}', event: '{{event}}', properties: {{properties}} })",
				Identify: "client.identify({ userId: '{{user_id}}', traits: {{traits}} })",
				Group:    "client.group({ userId: '{{user_id}}', groupId: '{{group_id}}', traits: {{traits}} })",
			},
		},
	},
}

// Catalog returns all supported SDKs sorted by name.
func Catalog() []SDK {
	out := make([]SDK, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the SDK with the given name.
func Lookup(name Name) (SDK, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return SDK{}, false
}

// Names returns all SDK names sorted.
func Names() []Name {
	names := make([]Name, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.Name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ValidName reports whether name is a supported SDK name.
func ValidName(name string) bool {
	_, ok := Lookup(Name(name))
	return ok
}
