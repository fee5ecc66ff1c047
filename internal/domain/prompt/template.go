package prompt

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Variables returns the {{name}} placeholders in content, in order of
// appearance. Repeated names are repeated.
func Variables(content string) []string {
	matches := placeholder.FindAllStringSubmatch(content, -1)
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		vars = append(vars, m[1])
	}
	return vars
}

// Render replaces each placeholder with its value. Placeholders without a
// value are left as written.
func Render(content string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(content, func(m string) string {
		name := m[2 : len(m)-2]
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}

// ValidContent reports whether content carries at least 10 characters once
// surrounding whitespace is trimmed.
func ValidContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	return len([]rune(trimmed)) >= 10
}
