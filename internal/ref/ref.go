// Package ref resolves dbt ref() tokens embedded in SQL-like strings.
//
// A token such as ref('orders') becomes the bare model name, which is also
// the LookML view name. Strings without tokens are returned unchanged.
package ref

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// tokenPattern matches ref('name') with either quote style.
	tokenPattern = regexp.MustCompile(`ref\(\s*['"](\w*)['"]\s*\)`)

	// gapPattern matches the text between a closing brace and the next "$".
	gapPattern = regexp.MustCompile(`}(.*?)\$`)
)

// Resolve replaces every ref token in expr with its model name.
//
// When normalizeSpacing is set, all whitespace is removed and every "=" is
// padded to " = " before substitution. After substitution the text between
// each "}" and the following "$" is padded with one space on each side, so
// "${a.x}=${b.y}" and "${a.x} = ${b.y}" normalize to the same shape.
func Resolve(expr string, normalizeSpacing bool) string {
	if !tokenPattern.MatchString(expr) {
		return expr
	}
	out := expr
	if normalizeSpacing {
		out = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, out)
		out = strings.ReplaceAll(out, "=", " = ")
	}
	out = tokenPattern.ReplaceAllString(out, "${1}")
	return gapPattern.ReplaceAllString(out, "} ${1} $$")
}

// Extract returns the model names referenced by expr in order of first
// appearance.
func Extract(expr string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(expr, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Single returns the one model referenced by expr.
func Single(expr string) (string, error) {
	names := Extract(expr)
	switch {
	case len(names) == 0 || names[0] == "":
		return "", fmt.Errorf("invalid ref %q: expected ref('<model>')", expr)
	case len(names) > 1:
		return "", fmt.Errorf("invalid ref %q: references %d models, expected one", expr, len(names))
	}
	return names[0], nil
}

// StripEscapes removes backslash escape characters.
func StripEscapes(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}
