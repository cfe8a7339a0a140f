// Package models defines the domain types for the documentation service.
package models

import "time"

// DocEntry describes one documentation page as listed by the upstream index.
type DocEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// DocIndex is the full entry list for one documentation version.
// Entry order is the upstream presentation order; entries are not
// required to be unique by path.
type DocIndex struct {
	Entries []DocEntry `json:"entries"`
}

// Anchor marks a navigable section inside a document body.
// Offsets are character positions into the converted body.
type Anchor struct {
	Name         string `json:"name"`
	Heading      string `json:"heading"`
	Level        int    `json:"level"`
	StartOffset  int    `json:"startOffset"`
	EndOffset    int    `json:"endOffset"`
	ParentAnchor string `json:"parentAnchor,omitempty"`
}

// AnchorIndex lists the anchors of a converted document.
// The current converter emits no anchors; the type is kept so cached
// payloads and the pagination layer are ready once it does.
type AnchorIndex struct {
	Anchors     []Anchor `json:"anchors"`
	TotalLength int      `json:"totalLength"`
}

// DocSchemaVersion tags the cached document payload shape. Bump it when
// CachedDoc changes incompatibly; readers treat a mismatch as a cache miss.
const DocSchemaVersion = 1

// CachedDoc is the persisted form of a fetched document.
type CachedDoc struct {
	SchemaVersion int          `json:"schemaVersion"`
	Body          string       `json:"body"`
	AnchorIndex   *AnchorIndex `json:"anchorIndex"`
	FetchedAt     time.Time    `json:"fetchedAt"`
}

// FetchedDoc is what the document service hands to callers: the cached
// payload plus read-time metadata that is never persisted.
type FetchedDoc struct {
	Path        string
	Body        string
	AnchorIndex *AnchorIndex
	FetchedAt   time.Time
	FromCache   bool
}
