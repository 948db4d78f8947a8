package plan

import (
	"strings"
	"unicode"
)

// NormalizeEventName converts an observed event name to dot.notation:
// "Dashboard Viewed" becomes "dashboard.viewed", "PROJECT_CREATED" becomes
// "project.created", "signupCompleted" becomes "signup.completed". Names
// already in dot.notation pass through unchanged.
func NormalizeEventName(observed string) string {
	return strings.Join(splitWords(observed), ".")
}

// NormalizePropertyName converts an observed property or trait key to
// snake_case.
func NormalizePropertyName(observed string) string {
	return strings.Join(splitWords(observed), "_")
}

// splitWords breaks a name into lowercase words on separators and camelCase
// boundaries. An uppercase run followed by a lowercase letter splits before
// its last letter, so "HTTPServer" yields [http server].
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = nil
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
