// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for catalog products
// (e.g., "aluminum-oil-can"). This package handles normalization, accent
// removal, and character sanitization.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. NFD normalization splits characters from their combining accents.
//  2. Combining marks are stripped (é → e).
//  3. The result is lowercased, non-alphanumerics become hyphens.
//  4. Consecutive and boundary hyphens are collapsed/trimmed.
func From(input string) string {
	// 1-2. Decompose and drop combining marks.
	stripper := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)

	ascii, _, err := transform.String(stripper, input)
	if err != nil {
		// Fall back to the raw input; sanitization below still applies.
		ascii = input
	}

	// 3. Lowercase and replace disallowed characters with hyphens.
	lowered := strings.ToLower(ascii)
	lowered = strings.ReplaceAll(lowered, " ", "-")
	lowered = nonAlphanumeric.ReplaceAllString(lowered, "-")

	// 4. Collapse and trim hyphens.
	lowered = multiHyphen.ReplaceAllString(lowered, "-")
	return strings.Trim(lowered, "-")
}
