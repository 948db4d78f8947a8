package plan

import (
	"fmt"
	"regexp"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// Canonical convention patterns. Event names are lowercase dot-separated
// segments (object.action); property and trait keys are snake_case.
var (
	EventNamePattern    = regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9]*)+$`)
	PropertyNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
)

// conventionPatterns maps declared convention names to their patterns.
var conventionPatterns = map[string]*regexp.Regexp{
	ConventionDotNotation: EventNamePattern,
	ConventionSnakeCase:   PropertyNamePattern,
}

// validOrigins lists the origin values a plan event may declare. Empty means
// the plan does not constrain where the event fires.
var validOrigins = map[string]bool{
	"":                  true,
	sdks.OriginFrontend: true,
	sdks.OriginBackend:  true,
	sdks.OriginUnknown:  true,
}

// ValidationError is one rule violation found in a tracking plan.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the outcome of validating a tracking plan.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

func (r *ValidationResult) fail(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func (r *ValidationResult) warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Options adjusts validation. The zero value enforces the plan's declared
// conventions and does not require descriptions.
type Options struct {
	// EventPattern and PropertyPattern override the convention patterns
	// with custom regular expressions when non-empty.
	EventPattern    string
	PropertyPattern string

	// RequireDescriptions makes missing event and property descriptions
	// errors instead of ignoring them.
	RequireDescriptions bool
}

// namePattern pairs a compiled pattern with the label used in messages.
type namePattern struct {
	re    *regexp.Regexp
	label string
}

// Validate checks a tracking plan against its declared conventions.
func Validate(p *TrackingPlan, opts Options) ValidationResult {
	result := ValidationResult{Valid: true}

	if p == nil {
		result.fail("plan", "plan is nil")
		return result
	}

	if p.Version != 0 && p.Version != PlanVersion {
		result.fail("version", fmt.Sprintf("unsupported version %d (this build understands %d)", p.Version, PlanVersion))
	}

	events := resolvePattern(&result, "conventions.events", p.Conventions.Events, ConventionDotNotation, opts.EventPattern)
	props := resolvePattern(&result, "conventions.properties", p.Conventions.Properties, ConventionSnakeCase, opts.PropertyPattern)

	if len(p.Events) == 0 {
		result.warn("plan declares no events")
	}

	seen := make(map[string]bool)
	for i, e := range p.Events {
		field := fmt.Sprintf("events[%d]", i)

		if e.Name == "" {
			result.fail(field+".name", "name is required")
		} else {
			if seen[e.Name] {
				result.fail(field+".name", fmt.Sprintf("duplicate event name %q", e.Name))
			}
			seen[e.Name] = true
			if events.re != nil && !events.re.MatchString(e.Name) {
				result.fail(field+".name", fmt.Sprintf("event name %q does not match %s", e.Name, events.label))
			}
		}

		if !validOrigins[e.Origin] {
			result.fail(field+".origin", fmt.Sprintf("unknown origin %q (want frontend, backend, or unknown)", e.Origin))
		}

		if opts.RequireDescriptions && e.Description == "" {
			result.fail(field+".description", fmt.Sprintf("event %q has no description", e.Name))
		}

		validateProperties(&result, field, e.Properties, props, opts)
	}

	validateTraits(&result, "identity.identify", p.Identity.Identify.Traits, props)
	validateTraits(&result, "identity.group", p.Identity.Group.Traits, props)

	return result
}

// resolvePattern picks the pattern for a convention field: a regex override
// when given, otherwise the pattern named by the declaration. A zero-valued
// namePattern is returned after recording an error so later checks do not
// cascade.
func resolvePattern(result *ValidationResult, field, declared, fallback, override string) namePattern {
	if override != "" {
		re, err := regexp.Compile(override)
		if err != nil {
			result.fail(field, fmt.Sprintf("invalid pattern override %q: %v", override, err))
			return namePattern{}
		}
		return namePattern{re: re, label: "the configured pattern"}
	}
	if declared == "" {
		declared = fallback
	}
	re, ok := conventionPatterns[declared]
	if !ok {
		result.fail(field, fmt.Sprintf("unknown convention %q", declared))
		return namePattern{}
	}
	return namePattern{re: re, label: fmt.Sprintf("the %s convention", declared)}
}

func validateProperties(result *ValidationResult, field string, list []Property, props namePattern, opts Options) {
	seen := make(map[string]bool)
	for i, prop := range list {
		pf := fmt.Sprintf("%s.properties[%d]", field, i)

		if prop.Name == "" {
			result.fail(pf+".name", "name is required")
		} else {
			if seen[prop.Name] {
				result.fail(pf+".name", fmt.Sprintf("duplicate property name %q", prop.Name))
			}
			seen[prop.Name] = true
			if props.re != nil && !props.re.MatchString(prop.Name) {
				result.fail(pf+".name", fmt.Sprintf("property name %q does not match %s", prop.Name, props.label))
			}
		}

		if prop.Type == "" {
			result.fail(pf+".type", "type is required")
		} else if !ValidTypes[prop.Type] {
			result.fail(pf+".type", fmt.Sprintf("unknown property type %q", prop.Type))
		}

		if opts.RequireDescriptions && prop.Description == "" {
			result.fail(pf+".description", fmt.Sprintf("property %q has no description", prop.Name))
		}
	}
}

func validateTraits(result *ValidationResult, field string, traits []Trait, props namePattern) {
	seen := make(map[string]bool)
	for i, t := range traits {
		tf := fmt.Sprintf("%s.traits[%d]", field, i)

		if t.Name == "" {
			result.fail(tf+".name", "name is required")
			continue
		}
		if seen[t.Name] {
			result.fail(tf+".name", fmt.Sprintf("duplicate trait name %q", t.Name))
		}
		seen[t.Name] = true
		if props.re != nil && !props.re.MatchString(t.Name) {
			result.fail(tf+".name", fmt.Sprintf("trait name %q does not match %s", t.Name, props.label))
		}
		if t.Type != "" && !ValidTypes[t.Type] {
			result.fail(tf+".type", fmt.Sprintf("unknown trait type %q", t.Type))
		}
	}
}
