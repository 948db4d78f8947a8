package sdks

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([a-z_][a-z0-9_]*)\}\}`)

// RenderSnippet substitutes {{placeholder}} tokens in a call shape template.
// It returns an error listing any placeholders missing from vars, so emitted
// guidance never ships with raw template tokens.
func RenderSnippet(tmpl string, vars map[string]string) (string, error) {
	var missing []string
	result := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing snippet placeholders: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Placeholders returns the distinct placeholder names referenced by the
// template in order of first appearance.
func Placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
