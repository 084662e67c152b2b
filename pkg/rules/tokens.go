package rules

import "regexp"

var tokenRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Expand fills {name} placeholders in source from the token map.
// Unknown tokens are left verbatim, so a literal "{foo}" survives a map
// that has no "foo" entry.
func Expand(source string, tokens map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(source, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := tokens[name]; ok {
			return v
		}
		return m
	})
}
