// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"

	"server/internal/domain"
)

// Derive lowers the name, collapses whitespace runs into single hyphens and
// strips every character outside [a-z0-9-]. The result is deterministic for
// a given name. An empty result is a validation failure, never a sentinel.
func Derive(name string) (string, error) {
	lowered := strings.ToLower(name)
	hyphenated := strings.Join(strings.Fields(lowered), "-")

	var b strings.Builder
	b.Grow(len(hyphenated))
	for _, r := range hyphenated {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" {
		return "", domain.ErrEmptySlug
	}
	return out, nil
}
