// Package ident canonicalizes catalog identifiers for comparison.
//
// It is a leaf package: pkg/core and the matching code depend on it, and it
// depends only on the standard library.
package ident

import "strings"

// Normalize lowercases name, replaces every rune outside [a-z0-9_] with an
// underscore, collapses underscore runs and trims underscores at both ends.
//
//	Normalize("Customer Orders (2024)") == "customer_orders_2024"
//	Normalize("__") == ""
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))

	prevUnderscore := false
	for _, r := range lower {
		if !isIdentRune(r) {
			r = '_'
		}
		if r == '_' {
			if prevUnderscore {
				continue
			}
			prevUnderscore = true
		} else {
			prevUnderscore = false
		}
		b.WriteRune(r)
	}

	return strings.Trim(b.String(), "_")
}

func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
