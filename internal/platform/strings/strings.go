// Package strings holds small string slice helpers shared across packages
package strings

import "strings"

// IfEmpty returns def when v has no elements
func IfEmpty(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

// MustPrefix asserts s starts with a slash and returns it
func MustPrefix(s string) string {
	if !strings.HasPrefix(s, "/") {
		panic("route prefix must start with /: " + s)
	}
	return s
}

// Dedup returns v with duplicates removed, preserving first-seen order
func Dedup(v []string) []string {
	if len(v) < 2 {
		return v
	}
	seen := make(map[string]struct{}, len(v))
	out := v[:0]
	for _, s := range v {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
