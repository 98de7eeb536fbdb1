package metadata

import (
	"slices"
	"strings"
)

// ShouldInclude reports whether a type should be recorded. With no patterns
// every type is included; otherwise qualifiedName must contain at least one
// pattern as a literal substring.
func ShouldInclude(qualifiedName string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return slices.ContainsFunc(patterns, func(p string) bool {
		return strings.Contains(qualifiedName, p)
	})
}
