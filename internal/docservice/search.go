package docservice

import (
	"strings"

	"github.com/yriveiro/opencode-python-docs/internal/models"
	"github.com/yriveiro/opencode-python-docs/internal/searchindex"
)

// topInferredTypes is how many inferred types get their own filtered pass
// during fallback.
const topInferredTypes = 2

// FallbackResult is the outcome of SearchWithFallback. TypeInference is
// only set when the fallback path ran.
type FallbackResult struct {
	Results       []models.DocEntry
	FallbackUsed  bool
	TypeInference *searchindex.TypeInferenceResult
}

// Search scans the index in order and returns entries whose name contains
// the query as a case-insensitive substring, optionally restricted to one
// doc type. Scanning stops as soon as limit entries match.
func Search(index *models.DocIndex, query, docType string, limit int) []models.DocEntry {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	loweredQuery := strings.ToLower(query)
	loweredType := strings.ToLower(docType)

	var results []models.DocEntry
	for _, entry := range index.Entries {
		if !strings.Contains(strings.ToLower(entry.Name), loweredQuery) {
			continue
		}
		if docType != "" && strings.ToLower(entry.Type) != loweredType {
			continue
		}
		results = append(results, entry)
		if len(results) == limit {
			break
		}
	}
	return results
}

// SearchWithFallback runs an exact search first. When a type filter was
// given and matched nothing, it infers likely types from the query and
// merges filtered searches for the top inferred types with an unfiltered
// search. Inferred-type hits rank ahead of generic substring hits: a wrong
// type filter self-corrects instead of returning nothing.
func (s *Service) SearchWithFallback(index *models.DocIndex, idx *searchindex.SearchIndex, query, docType string, limit int) FallbackResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := Search(index, query, docType, limit)
	if len(results) > 0 || docType == "" {
		return FallbackResult{Results: results}
	}

	inference := searchindex.InferTypes(query, idx)

	perTypeLimit := (limit + 1) / 2
	var merged []models.DocEntry
	for i, typ := range inference.InferredTypes {
		if i == topInferredTypes {
			break
		}
		merged = append(merged, Search(index, query, typ, perTypeLimit)...)
	}
	merged = append(merged, Search(index, query, "", limit)...)

	// Dedup by path, first occurrence wins, preserving merge order.
	seen := make(map[string]struct{}, len(merged))
	deduped := merged[:0]
	for _, entry := range merged {
		if _, dup := seen[entry.Path]; dup {
			continue
		}
		seen[entry.Path] = struct{}{}
		deduped = append(deduped, entry)
		if len(deduped) == limit {
			break
		}
	}

	return FallbackResult{
		Results:       deduped,
		FallbackUsed:  true,
		TypeInference: &inference,
	}
}
