// Package lint checks the telemetry artifacts for consistency: every
// current-state event must carry file:line evidence, plan-side names must
// follow the declared conventions, and a delta older than its inputs is
// flagged as stale. Lint never rewrites anything; it only reports.
package lint

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

// Rule identifiers carried on findings.
const (
	RuleEvidence          = "evidence"
	RuleLocation          = "location"
	RuleEventName         = "event-name"
	RulePropertyName      = "property-name"
	RuleDuplicateEvent    = "duplicate-event"
	RuleDuplicateProperty = "duplicate-property"
	RulePropertyType      = "property-type"
	RuleOrigin            = "origin"
	RuleStaleDelta        = "stale-delta"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one lint rule violation.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Artifact string   `json:"artifact"`
	Message  string   `json:"message"`
}

// Report collects findings in artifact order.
type Report struct {
	Findings []Finding `json:"findings"`
}

func (r *Report) add(rule string, severity Severity, artifact, message string) {
	r.Findings = append(r.Findings, Finding{Rule: rule, Severity: severity, Artifact: artifact, Message: message})
}

// HasErrors reports whether any finding is an error.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errors, warnings int) {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// Text renders the report for the terminal, one finding per line.
func (r *Report) Text() string {
	if len(r.Findings) == 0 {
		return "no findings\n"
	}
	var b strings.Builder
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s [%s] %s: %s\n", f.Severity, f.Rule, f.Artifact, f.Message)
	}
	errors, warnings := r.Counts()
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", errors, warnings)
	return b.String()
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Inputs are the loaded artifacts to lint. A nil State or Plan means the
// artifact is absent and its rules are skipped. The regexes override the
// canonical convention patterns when non-nil.
type Inputs struct {
	State *audit.CurrentState
	Plan  *plan.TrackingPlan

	EventRE *regexp.Regexp
	PropRE  *regexp.Regexp

	// Modification times drive the stale-delta rule; zero values are
	// ignored.
	StateMod time.Time
	PlanMod  time.Time
	DeltaMod time.Time
	HasDelta bool
}

var knownOrigins = map[string]bool{
	sdks.OriginFrontend: true,
	sdks.OriginBackend:  true,
	sdks.OriginUnknown:  true,
}

// Run executes every rule against the artifacts present.
func Run(in Inputs) *Report {
	r := &Report{}

	if in.State != nil {
		lintState(r, in.State)
	}
	if in.Plan != nil {
		eventRE := in.EventRE
		if eventRE == nil {
			eventRE = plan.EventNamePattern
		}
		propRE := in.PropRE
		if propRE == nil {
			propRE = plan.PropertyNamePattern
		}
		lintPlan(r, in.Plan, eventRE, propRE)
	}

	if in.HasDelta {
		stale := (!in.StateMod.IsZero() && in.DeltaMod.Before(in.StateMod)) ||
			(!in.PlanMod.IsZero() && in.DeltaMod.Before(in.PlanMod))
		if stale {
			r.add(RuleStaleDelta, SeverityWarning, telemetry.DeltaFile,
				"delta.md is older than its inputs; rerun \"tracksmith delta\"")
		}
	}

	return r
}

func lintState(r *Report, state *audit.CurrentState) {
	artifact := telemetry.CurrentStateFile

	seen := make(map[string]bool)
	for _, e := range state.Events {
		if seen[e.Name] {
			r.add(RuleDuplicateEvent, SeverityError, artifact, fmt.Sprintf("duplicate event name %q", e.Name))
		}
		seen[e.Name] = true

		if len(e.Locations) == 0 {
			r.add(RuleEvidence, SeverityError, artifact,
				fmt.Sprintf("event %q has no file:line evidence", e.Name))
		}
		lintLocations(r, artifact, fmt.Sprintf("event %q", e.Name), e.Locations)

		if !knownOrigins[e.Origin] {
			r.add(RuleOrigin, SeverityError, artifact,
				fmt.Sprintf("event %q has origin %q (want frontend, backend, or unknown)", e.Name, e.Origin))
		}
	}

	lintLocations(r, artifact, "identify", state.Identify.Locations)
	lintLocations(r, artifact, "group", state.Group.Locations)
}

func lintLocations(r *Report, artifact, owner string, locations []audit.Location) {
	for _, loc := range locations {
		if loc.File == "" || loc.Line < 1 {
			r.add(RuleLocation, SeverityError, artifact,
				fmt.Sprintf("%s has invalid location %q:%d", owner, loc.File, loc.Line))
		}
	}
}

func lintPlan(r *Report, p *plan.TrackingPlan, eventRE, propRE *regexp.Regexp) {
	artifact := telemetry.TrackingPlanFile

	seen := make(map[string]bool)
	for _, e := range p.Events {
		if seen[e.Name] {
			r.add(RuleDuplicateEvent, SeverityError, artifact, fmt.Sprintf("duplicate event name %q", e.Name))
		}
		seen[e.Name] = true

		if !eventRE.MatchString(e.Name) {
			r.add(RuleEventName, SeverityError, artifact,
				fmt.Sprintf("event name %q does not match the events convention", e.Name))
		}
		if e.Origin != "" && !knownOrigins[e.Origin] {
			r.add(RuleOrigin, SeverityError, artifact,
				fmt.Sprintf("event %q has origin %q (want frontend, backend, or unknown)", e.Name, e.Origin))
		}

		props := make(map[string]bool)
		for _, prop := range e.Properties {
			if props[prop.Name] {
				r.add(RuleDuplicateProperty, SeverityError, artifact,
					fmt.Sprintf("event %q declares property %q twice", e.Name, prop.Name))
			}
			props[prop.Name] = true

			if !propRE.MatchString(prop.Name) {
				r.add(RulePropertyName, SeverityError, artifact,
					fmt.Sprintf("property %q of event %q does not match the properties convention", prop.Name, e.Name))
			}
			if !plan.ValidTypes[prop.Type] {
				r.add(RulePropertyType, SeverityError, artifact,
					fmt.Sprintf("property %q of event %q has unknown type %q", prop.Name, e.Name, prop.Type))
			}
		}
	}

	lintTraits(r, artifact, "identify", p.Identity.Identify.Traits, propRE)
	lintTraits(r, artifact, "group", p.Identity.Group.Traits, propRE)
}

func lintTraits(r *Report, artifact, owner string, traits []plan.Trait, propRE *regexp.Regexp) {
	seen := make(map[string]bool)
	for _, t := range traits {
		if seen[t.Name] {
			r.add(RuleDuplicateProperty, SeverityError, artifact,
				fmt.Sprintf("%s declares trait %q twice", owner, t.Name))
		}
		seen[t.Name] = true

		if !propRE.MatchString(t.Name) {
			r.add(RulePropertyName, SeverityError, artifact,
				fmt.Sprintf("%s trait %q does not match the properties convention", owner, t.Name))
		}
		if t.Type != "" && !plan.ValidTypes[t.Type] {
			r.add(RulePropertyType, SeverityError, artifact,
				fmt.Sprintf("%s trait %q has unknown type %q", owner, t.Name, t.Type))
		}
	}
}
