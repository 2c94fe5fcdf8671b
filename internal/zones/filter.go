package zones

import (
	"path"
	"strings"
)

// Filter applies allow/deny glob patterns to IANA zone names.
type Filter struct {
	allow []string
	deny  []string
}

// NewFilter creates a Filter with the given allow and deny patterns.
// An empty allow list admits every zone that no deny pattern matches.
func NewFilter(allow, deny []string) *Filter {
	return &Filter{
		allow: allow,
		deny:  deny,
	}
}

// Allowed reports whether zone passes the filter. Deny wins over allow.
// A nil Filter allows everything.
func (f *Filter) Allowed(zone string) bool {
	if f == nil {
		return true
	}
	if MatchAny(f.deny, zone) {
		return false
	}
	if len(f.allow) == 0 {
		return true
	}
	return MatchAny(f.allow, zone)
}

// MatchAny checks if a value matches any pattern in a list.
// Returns true if any pattern matches, false for empty pattern list.
func MatchAny(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, value) {
			return true
		}
	}
	return false
}

// MatchPattern matches a zone name against a glob pattern.
// "*" does not cross "/", so "America/*" matches "America/Chicago" but not
// "America/Indiana/Knox"; use "America/*/*" for the latter.
// Matching is case-insensitive. Returns false for invalid patterns.
func MatchPattern(pattern, value string) bool {
	matched, err := path.Match(pattern, value)
	if err != nil {
		return false
	}
	if matched {
		return true
	}
	matched, _ = path.Match(strings.ToLower(pattern), strings.ToLower(value))
	return matched
}
