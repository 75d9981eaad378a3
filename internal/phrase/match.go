package phrase

import (
	"regexp"
	"strings"
)

// triggerPattern matches an in-progress dot-phrase trigger: a dot followed by
// zero or more word characters, with nothing between the match and the cursor.
// The permissive variant (underscore and hyphen allowed) is canonical.
var triggerPattern = regexp.MustCompile(`\.([a-zA-Z0-9_-]*)$`)

// Match inspects the text strictly before cursor and reports the in-progress
// trigger query, excluding the leading dot. Any non-word character between the
// dot and the cursor breaks the match.
func Match(text string, cursor int) (string, bool) {
	if cursor < 0 || cursor > len(text) {
		return "", false
	}
	m := triggerPattern.FindStringSubmatch(text[:cursor])
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Filter returns the phrases whose trigger has query as a case-insensitive
// prefix, preserving insertion order. An empty query matches every phrase.
func Filter(phrases []Phrase, query string) []Phrase {
	q := strings.ToLower(query)
	var out []Phrase
	for _, p := range phrases {
		if strings.HasPrefix(strings.ToLower(p.Trigger), q) {
			out = append(out, p)
		}
	}
	return out
}
