// Package docservice orchestrates cache lookups, upstream fetches, and the
// search/fallback protocol over documentation indexes.
package docservice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yriveiro/opencode-python-docs/internal/cache"
	"github.com/yriveiro/opencode-python-docs/internal/models"
	"github.com/yriveiro/opencode-python-docs/internal/searchindex"
)

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 20

// Fetcher retrieves raw index and page data from the documentation source.
type Fetcher interface {
	FetchIndex(ctx context.Context, version string) (*models.DocIndex, error)
	FetchPage(ctx context.Context, version, path string) (string, error)
}

// Converter turns raw markup into a Markdown body plus anchor index.
type Converter interface {
	Convert(html string) (string, *models.AnchorIndex, error)
}

// Service is the documentation lookup service. All collaborators are
// injected; the cache TTLs come from configuration.
type Service struct {
	store     *cache.Store
	fetcher   Fetcher
	converter Converter
	logger    *slog.Logger
	indexTTL  time.Duration
	docTTL    time.Duration
}

// New creates a Service.
func New(store *cache.Store, fetcher Fetcher, converter Converter, logger *slog.Logger, indexTTL, docTTL time.Duration) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		converter: converter,
		logger:    logger,
		indexTTL:  indexTTL,
		docTTL:    docTTL,
	}
}

// GetIndex returns the doc index for a version, from cache when fresh,
// otherwise refetched from upstream. A failed cache write is logged and
// ignored: caching is best effort, not a correctness dependency.
func (s *Service) GetIndex(ctx context.Context, version string) (*models.DocIndex, error) {
	key := s.store.IndexKey(version)
	if s.store.IsValid(key, s.indexTTL) {
		if index, ok := cache.Read[models.DocIndex](s.store, key); ok {
			return &index, nil
		}
	}

	index, err := s.fetcher.FetchIndex(ctx, version)
	if err != nil {
		s.logger.Error("index fetch failed",
			slog.String("version", version), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.store.Write(key, index); err != nil {
		s.logger.Warn("index cache write failed",
			slog.String("version", version), slog.String("error", err.Error()))
	}
	return index, nil
}

// GetSearchIndex returns the derived search index for a version, rebuilding
// it from the doc index when the cached copy is stale or unreadable. The
// rebuild is local; only the doc index itself may hit the network.
func (s *Service) GetSearchIndex(ctx context.Context, version string) (*searchindex.SearchIndex, error) {
	key := s.store.SearchIndexKey(version)
	if s.store.IsValid(key, s.indexTTL) {
		if idx, ok := cache.Read[searchindex.SearchIndex](s.store, key); ok {
			return &idx, nil
		}
	}

	docIndex, err := s.GetIndex(ctx, version)
	if err != nil {
		return nil, err
	}

	idx := searchindex.Build(docIndex, version)
	if err := s.store.Write(key, idx); err != nil {
		s.logger.Warn("search index cache write failed",
			slog.String("version", version), slog.String("error", err.Error()))
	}
	return idx, nil
}

// GetDoc returns one document, from cache when fresh, otherwise fetched and
// converted. Cached payloads with an outdated schema version or a missing
// anchor index are treated as misses so shape drift forces a refetch.
func (s *Service) GetDoc(ctx context.Context, version, path string) (*models.FetchedDoc, error) {
	path = normalizePath(path)
	key := s.store.DocKey(version, path)

	if s.store.IsValid(key, s.docTTL) {
		if cached, ok := cache.Read[models.CachedDoc](s.store, key); ok &&
			cached.SchemaVersion == models.DocSchemaVersion && cached.AnchorIndex != nil {
			return &models.FetchedDoc{
				Path:        path,
				Body:        cached.Body,
				AnchorIndex: cached.AnchorIndex,
				FetchedAt:   cached.FetchedAt,
				FromCache:   true,
			}, nil
		}
	}

	html, err := s.fetcher.FetchPage(ctx, version, path)
	if err != nil {
		s.logger.Error("page fetch failed",
			slog.String("version", version), slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	body, anchors, err := s.converter.Convert(html)
	if err != nil {
		s.logger.Error("markup conversion failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	doc := models.CachedDoc{
		SchemaVersion: models.DocSchemaVersion,
		Body:          body,
		AnchorIndex:   anchors,
		FetchedAt:     fetchedAt,
	}
	if err := s.store.Write(key, doc); err != nil {
		// The fetched content is still served even when persisting fails.
		s.logger.Warn("doc cache write failed",
			slog.String("path", path), slog.String("error", err.Error()))
	}

	return &models.FetchedDoc{
		Path:        path,
		Body:        body,
		AnchorIndex: anchors,
		FetchedAt:   fetchedAt,
		FromCache:   false,
	}, nil
}

// RunGarbageCollection sweeps the cache with the configured TTLs.
func (s *Service) RunGarbageCollection() cache.GCStats {
	return s.store.RunGarbageCollection(s.indexTTL, s.docTTL)
}

// normalizePath strips the upstream page suffix so cache keys and fetch
// paths agree regardless of how the caller spells the path.
func normalizePath(path string) string {
	return strings.TrimSuffix(path, ".html")
}
