package matcher

import "strings"

// Match reports whether name satisfies pattern: "*" matches everything,
// otherwise pattern is a prefix of name.
func Match(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == "" {
		return false
	}
	return strings.HasPrefix(name, pattern)
}

// MatchAny reports whether any pattern matches name.
func MatchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}
