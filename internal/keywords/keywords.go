// Package keywords normalizes entry names and queries into keyword tokens
// for index building and query matching.
package keywords

import (
	"regexp"
	"strings"
)

var (
	// Section-number prefixes like "2.1. Getting Started".
	sectionPrefixRe = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+`)
	separatorRe     = regexp.MustCompile(`[\s\-_.()<>,:]+`)
)

// stopWords are tokens too generic to discriminate between doc types.
var stopWords = map[string]struct{}{
	"and":     {},
	"the":     {},
	"for":     {},
	"with":    {},
	"from":    {},
	"using":   {},
	"objects": {},
	"object":  {},
}

// Extract lowercases text, strips a leading section-number prefix, splits on
// whitespace and punctuation separators, and returns the remaining tokens
// deduplicated in first-seen order. Tokens of length <= 2 and stop words are
// dropped. No stemming, no locale handling.
func Extract(text string) []string {
	lowered := strings.ToLower(text)
	lowered = sectionPrefixRe.ReplaceAllString(lowered, "")

	tokens := separatorRe.Split(lowered, -1)

	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
