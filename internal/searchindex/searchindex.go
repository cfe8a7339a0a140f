// Package searchindex derives a keyword->type search index from a raw
// documentation index and infers likely doc types for free-text queries.
package searchindex

import (
	"sort"
	"time"

	"github.com/yriveiro/opencode-python-docs/internal/keywords"
	"github.com/yriveiro/opencode-python-docs/internal/models"
)

const (
	maxTypesPerKeyword = 5
	maxSampleEntries   = 3
	// Types with fewer occurrences for a keyword are noise, unless the
	// keyword lives under a single type.
	minTypeOccurrences = 2
)

// KeywordMapping associates one keyword with the doc types it occurs under,
// ranked most-frequent first. Score is the total occurrence count of the
// keyword across all entries.
type KeywordMapping struct {
	Keyword       string   `json:"keyword"`
	Types         []string `json:"types"`
	SampleEntries []string `json:"sampleEntries"`
	Score         int      `json:"score"`
}

// SearchIndex is the derived keyword->type structure for one documentation
// version. It is rebuildable from the doc index and safe to cache or discard.
type SearchIndex struct {
	Version         string           `json:"version"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	TotalEntries    int              `json:"totalEntries"`
	TypeStats       map[string]int   `json:"typeStats"`
	KeywordMappings []KeywordMapping `json:"keywordMappings"`
}

// keywordStats accumulates per-keyword counters during a single index scan.
type keywordStats struct {
	typeCounts map[string]int
	typeOrder  []string // first-seen order, tie-break for the ranked sort
	samples    []string
	total      int
}

// Build scans the doc index once and produces the search index: per-type
// entry counts and keyword mappings sorted by score descending. Runs in
// O(total keyword occurrences) so stdlib-sized indexes stay cheap.
func Build(index *models.DocIndex, version string) *SearchIndex {
	typeStats := make(map[string]int)
	stats := make(map[string]*keywordStats)
	var keywordOrder []string

	for _, entry := range index.Entries {
		typeStats[entry.Type]++

		for _, kw := range keywords.Extract(entry.Name) {
			ks, ok := stats[kw]
			if !ok {
				ks = &keywordStats{typeCounts: make(map[string]int)}
				stats[kw] = ks
				keywordOrder = append(keywordOrder, kw)
			}
			if _, seen := ks.typeCounts[entry.Type]; !seen {
				ks.typeOrder = append(ks.typeOrder, entry.Type)
			}
			ks.typeCounts[entry.Type]++
			ks.total++
			if len(ks.samples) < maxSampleEntries {
				ks.samples = append(ks.samples, entry.Name+" ("+entry.Type+")")
			}
		}
	}

	mappings := make([]KeywordMapping, 0, len(keywordOrder))
	for _, kw := range keywordOrder {
		ks := stats[kw]
		types := rankTypes(ks)
		if len(types) == 0 {
			continue
		}
		mappings = append(mappings, KeywordMapping{
			Keyword:       kw,
			Types:         types,
			SampleEntries: ks.samples,
			Score:         ks.total,
		})
	}

	// Stable keeps first-seen order between equal scores.
	sort.SliceStable(mappings, func(i, j int) bool {
		return mappings[i].Score > mappings[j].Score
	})

	return &SearchIndex{
		Version:         version,
		GeneratedAt:     time.Now().UTC(),
		TotalEntries:    len(index.Entries),
		TypeStats:       typeStats,
		KeywordMappings: mappings,
	}
}

// rankTypes orders a keyword's types by occurrence count descending and
// filters out low-signal ones: a type must occur at least twice, unless the
// keyword occurs under exactly one type total. At most 5 types are kept.
func rankTypes(ks *keywordStats) []string {
	ranked := make([]string, len(ks.typeOrder))
	copy(ranked, ks.typeOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ks.typeCounts[ranked[i]] > ks.typeCounts[ranked[j]]
	})

	singleType := len(ks.typeOrder) == 1

	var out []string
	for _, typ := range ranked {
		if ks.typeCounts[typ] < minTypeOccurrences && !singleType {
			continue
		}
		out = append(out, typ)
		if len(out) == maxTypesPerKeyword {
			break
		}
	}
	return out
}
