// Package format renders search results and paginated document bodies as
// plain text for the tool layer.
package format

import (
	"fmt"
	"strings"

	"github.com/yriveiro/opencode-python-docs/internal/docservice"
	"github.com/yriveiro/opencode-python-docs/internal/models"
	"github.com/yriveiro/opencode-python-docs/internal/searchindex"
)

// DefaultDocWindow is the pagination window when the caller gives no limit.
const DefaultDocWindow = 10000

// SearchResults renders a search outcome. An empty result set is a normal
// message, not an error; when type inference ran its suggestions are
// appended so the caller has an actionable next step.
func SearchResults(query string, res docservice.FallbackResult) string {
	var b strings.Builder

	if len(res.Results) == 0 {
		fmt.Fprintf(&b, "No results for %q.\n", query)
		if res.TypeInference != nil && len(res.TypeInference.InferredTypes) > 0 {
			b.WriteString("Types that may match this query: ")
			b.WriteString(strings.Join(res.TypeInference.InferredTypes, ", "))
			b.WriteString("\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%d result(s) for %q", len(res.Results), query)
	if res.FallbackUsed {
		b.WriteString(" (type filter broadened via inference)")
	}
	b.WriteString(":\n\n")

	for _, entry := range res.Results {
		fmt.Fprintf(&b, "- %s (%s) — %s\n", entry.Name, entry.Type, entry.Path)
	}

	if res.FallbackUsed && res.TypeInference != nil && len(res.TypeInference.InferredTypes) > 0 {
		fmt.Fprintf(&b, "\nInferred types: %s\n",
			strings.Join(res.TypeInference.InferredTypes, ", "))
	}
	return b.String()
}

// TypeSuggestions renders a type-inference result for the debug/preview tool.
func TypeSuggestions(res searchindex.TypeInferenceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", res.Query)
	fmt.Fprintf(&b, "Confidence: %.0f/100\n", res.Confidence)

	if len(res.InferredTypes) == 0 {
		b.WriteString("No type suggestions: no keyword in the index matched.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Suggested types: %s\n", strings.Join(res.InferredTypes, ", "))
	if len(res.AlternativeTypes) > 0 {
		fmt.Fprintf(&b, "Alternatives: %s\n", strings.Join(res.AlternativeTypes, ", "))
	}
	if len(res.MatchingKeywords) > 0 {
		fmt.Fprintf(&b, "Matched keywords: %s\n", strings.Join(res.MatchingKeywords, ", "))
	}
	return b.String()
}

// Document renders a windowed slice of a document body. When anchor names
// a known section only that section is returned; an unknown anchor yields
// the available-anchors listing plus the default window. A continuation
// hint is appended when content remains past the window.
func Document(doc *models.FetchedDoc, anchor string, offset, limit int) string {
	if limit <= 0 {
		limit = DefaultDocWindow
	}

	var b strings.Builder
	source := "fetched"
	if doc.FromCache {
		source = "cached"
	}
	fmt.Fprintf(&b, "# %s (%s)\n\n", doc.Path, source)

	if anchor != "" {
		if section, ok := anchorSlice(doc, anchor); ok {
			b.WriteString(section)
			return b.String()
		}
		fmt.Fprintf(&b, "Anchor %q not found. %s\n\n", anchor, anchorListing(doc))
	}

	body := []rune(doc.Body)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(body) {
		fmt.Fprintf(&b, "(offset %d is past the end of the document, length %d)\n", offset, len(body))
		return b.String()
	}

	end := offset + limit
	if end > len(body) {
		end = len(body)
	}
	b.WriteString(string(body[offset:end]))

	if end < len(body) {
		fmt.Fprintf(&b, "\n\n--- %d of %d characters shown; continue with offset=%d ---\n",
			end-offset, len(body), end)
	}
	return b.String()
}

// anchorSlice returns the body slice covered by the named anchor.
func anchorSlice(doc *models.FetchedDoc, name string) (string, bool) {
	if doc.AnchorIndex == nil {
		return "", false
	}
	for _, a := range doc.AnchorIndex.Anchors {
		if a.Name == name {
			body := []rune(doc.Body)
			start, end := a.StartOffset, a.EndOffset
			if start < 0 || end > len(body) || start >= end {
				return "", false
			}
			return string(body[start:end]), true
		}
	}
	return "", false
}

func anchorListing(doc *models.FetchedDoc) string {
	if doc.AnchorIndex == nil || len(doc.AnchorIndex.Anchors) == 0 {
		return "This document has no anchors."
	}
	names := make([]string, 0, len(doc.AnchorIndex.Anchors))
	for _, a := range doc.AnchorIndex.Anchors {
		names = append(names, a.Name)
	}
	return "Available anchors: " + strings.Join(names, ", ")
}
