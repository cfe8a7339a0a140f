package searchindex

import (
	"sort"
	"strings"

	"github.com/yriveiro/opencode-python-docs/internal/keywords"
)

const (
	maxInferredTypes    = 3
	maxAlternativeTypes = 3
	maxMatchingKeywords = 5
)

// TypeInferenceResult ranks the doc types most likely to match a free-text
// query. Confidence is 0..100; 0 means no keyword matched at all.
type TypeInferenceResult struct {
	Query            string   `json:"query"`
	InferredTypes    []string `json:"inferredTypes"`
	AlternativeTypes []string `json:"alternativeTypes"`
	Confidence       float64  `json:"confidence"`
	MatchingKeywords []string `json:"matchingKeywords"`
}

// InferTypes matches the query against the index's keyword mappings and
// accumulates mapping scores per doc type. A mapping matches when its keyword
// is a substring of the lowercased query or an exact extracted query token.
// The index is not mutated.
func InferTypes(query string, idx *SearchIndex) TypeInferenceResult {
	result := TypeInferenceResult{Query: query}

	lowered := strings.ToLower(query)
	if strings.TrimSpace(lowered) == "" {
		return result
	}

	queryKeywords := make(map[string]struct{})
	for _, kw := range keywords.Extract(query) {
		queryKeywords[kw] = struct{}{}
	}

	typeScores := make(map[string]int)
	var typeOrder []string // first-accumulated order, stable tie-break
	var matched []string
	matchCount := 0
	totalScore := 0

	for _, mapping := range idx.KeywordMappings {
		_, isToken := queryKeywords[mapping.Keyword]
		if !isToken && !strings.Contains(lowered, mapping.Keyword) {
			continue
		}

		matchCount++
		totalScore += mapping.Score
		matched = append(matched, mapping.Keyword)

		for _, typ := range mapping.Types {
			if _, seen := typeScores[typ]; !seen {
				typeOrder = append(typeOrder, typ)
			}
			typeScores[typ] += mapping.Score
		}
	}

	if matchCount == 0 {
		return result
	}

	ranked := typeOrder
	sort.SliceStable(ranked, func(i, j int) bool {
		return typeScores[ranked[i]] > typeScores[ranked[j]]
	})

	result.InferredTypes = clip(ranked, 0, maxInferredTypes)
	result.AlternativeTypes = clip(ranked, maxInferredTypes, maxAlternativeTypes)
	result.MatchingKeywords = clip(matched, 0, maxMatchingKeywords)
	result.Confidence = min(100, float64(matchCount)*10+float64(totalScore)/100)

	return result
}

func clip(s []string, offset, n int) []string {
	if offset >= len(s) {
		return nil
	}
	s = s[offset:]
	if len(s) > n {
		s = s[:n]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
