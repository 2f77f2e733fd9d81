package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ecorec/backend/internal/domain"
	"github.com/ecorec/backend/internal/logging"
	"github.com/ecorec/backend/internal/metrics"
)

const defaultTopN = 5

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	DefaultPath string
	Similarity  SimilarityConfig
	Filter      FilterConfig
	DefaultTopN int
	CacheTTL    time.Duration
}

// CatalogSnapshot is a cleaned catalog and its similarity index, built once per
// source path and held for the life of the process
type CatalogSnapshot struct {
	Path          string
	Products      []domain.Product
	Index         *SimilarityIndex
	Clean         domain.CleanStats
	BuiltAt       time.Time
	BuildDuration time.Duration
	fingerprint   string
}

// Stats describes the snapshot
func (s *CatalogSnapshot) Stats() domain.CatalogStats {
	return domain.CatalogStats{
		Path:           s.Path,
		Products:       len(s.Products),
		VocabularySize: s.Index.VocabularySize(),
		Clean:          s.Clean,
		BuiltAt:        s.BuiltAt,
		BuildDuration:  s.BuildDuration.String(),
	}
}

// CatalogService is the application state behind every presentation layer:
// it loads and indexes catalogs on first use and answers search, recommend
// and browse requests against them
type CatalogService struct {
	source   domain.CatalogSource
	cache    domain.CacheRepository
	cleaner  *Cleaner
	filter   *FilterEngine
	cfg      CatalogServiceConfig
	log      zerolog.Logger
	mu       sync.Mutex
	snapshot map[string]*CatalogSnapshot
}

// NewCatalogService creates a catalog service. cache may be nil to disable
// recommendation caching.
func NewCatalogService(
	source domain.CatalogSource,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
) *CatalogService {
	if config.DefaultTopN <= 0 {
		config.DefaultTopN = defaultTopN
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = time.Hour
	}

	return &CatalogService{
		source:   source,
		cache:    cache,
		cleaner:  NewCleaner(),
		filter:   NewFilterEngine(config.Filter),
		cfg:      config,
		log:      logging.Component("catalog"),
		snapshot: make(map[string]*CatalogSnapshot),
	}
}

// Init returns the snapshot for path, building it on first use. An empty path
// means the configured default. Snapshots are never invalidated.
func (s *CatalogService) Init(ctx context.Context, path string) (*CatalogSnapshot, error) {
	if path == "" {
		path = s.cfg.DefaultPath
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no catalog path", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.snapshot[path]; ok {
		return snap, nil
	}

	snap, err := s.build(ctx, path)
	if err != nil {
		return nil, err
	}
	s.snapshot[path] = snap
	return snap, nil
}

// build loads, cleans and indexes the catalog at path
func (s *CatalogService) build(ctx context.Context, path string) (*CatalogSnapshot, error) {
	start := time.Now()

	raw, err := s.source.Load(ctx, path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("catalog load failed")
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	products, stats := s.cleaner.Clean(raw)
	index := BuildSimilarityIndex(products, s.cfg.Similarity)
	elapsed := time.Since(start)

	metrics.RecordCatalogBuild(elapsed, stats.RawRows, stats.Kept)
	s.log.Info().
		Str("path", path).
		Int("raw_rows", stats.RawRows).
		Int("kept", stats.Kept).
		Int("invalid_price", stats.InvalidPrice).
		Int("missing_field", stats.MissingField).
		Int("rejected_material", stats.RejectedMaterial).
		Int("numeric_material", stats.NumericMaterial).
		Int("vocabulary", index.VocabularySize()).
		Dur("elapsed", elapsed).
		Msg("catalog built")

	return &CatalogSnapshot{
		Path:          path,
		Products:      products,
		Index:         index,
		Clean:         stats,
		BuiltAt:       time.Now(),
		BuildDuration: elapsed,
		fingerprint:   fingerprint(products, s.cfg.Similarity),
	}, nil
}

// Search runs the filter engine over the catalog at path
func (s *CatalogService) Search(
	ctx context.Context,
	path, query string,
	opts domain.FilterOptions,
) (domain.SearchResult, error) {
	if opts.Mode == "" {
		opts.Mode = domain.FilterModeNone
	}
	if err := opts.Validate(); err != nil {
		return domain.SearchResult{}, err
	}

	snap, err := s.Init(ctx, path)
	if err != nil {
		return domain.SearchResult{}, err
	}

	return s.filter.Filter(snap.Products, query, opts), nil
}

// Recommend returns up to n products similar to the named one. n <= 0 uses the
// configured default. An unknown name yields an empty slice.
// Flow: check cache -> rank from similarity index -> cache -> return
func (s *CatalogService) Recommend(
	ctx context.Context,
	path, name string,
	n int,
) ([]domain.Recommendation, error) {
	if n <= 0 {
		n = s.cfg.DefaultTopN
	}

	snap, err := s.Init(ctx, path)
	if err != nil {
		return nil, err
	}

	cacheKey := s.generateCacheKey(snap, name, n)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		metrics.RecordCacheLookup(true)
		return cached, nil
	}
	metrics.RecordCacheLookup(false)

	recs := Recommend(name, snap.Products, snap.Index, n)

	if err := s.setInCache(ctx, cacheKey, recs); err != nil {
		// Caching is best effort
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("recommendation cache write failed")
	}

	return recs, nil
}

// Browse handles one interaction of the catalog page: search with filters,
// pick the selected product from the results (the first one by default) and
// recommend neighbours for it
func (s *CatalogService) Browse(ctx context.Context, path string, req domain.BrowseRequest) (*domain.BrowseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.Search(ctx, path, req.Query, req.Options)
	if err != nil {
		return nil, err
	}

	resp := &domain.BrowseResponse{
		Search:          result,
		Recommendations: []domain.Recommendation{},
	}
	if result.Status != domain.SearchStatusMatched {
		return resp, nil
	}

	selected := result.Rows[0]
	if req.Selected != "" {
		idx := findByName(result.Rows, req.Selected)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q is not in the search results", domain.ErrInvalidRequest, req.Selected)
		}
		selected = result.Rows[idx]
	}
	resp.Selected = &selected

	recs, err := s.Recommend(ctx, path, selected.Name, req.N)
	if err != nil {
		return nil, err
	}
	resp.Recommendations = recs

	return resp, nil
}

// Stats describes the catalog at path, building it if needed
func (s *CatalogService) Stats(ctx context.Context, path string) (domain.CatalogStats, error) {
	snap, err := s.Init(ctx, path)
	if err != nil {
		return domain.CatalogStats{}, err
	}
	return snap.Stats(), nil
}

// generateCacheKey creates a cache key for a recommendation lookup.
// Format: "recommend:{fingerprint}:{escaped name}:{n}"
func (s *CatalogService) generateCacheKey(snap *CatalogSnapshot, name string, n int) string {
	return fmt.Sprintf("recommend:%s:%s:%d", snap.fingerprint, url.QueryEscape(name), n)
}

// getFromCache retrieves a recommendation list from cache
func (s *CatalogService) getFromCache(ctx context.Context, key string) ([]domain.Recommendation, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		}
		return nil, domain.ErrCacheMiss
	}

	var recs []domain.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, domain.ErrCacheMiss
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return recs, nil
}

// setInCache stores a recommendation list in cache
func (s *CatalogService) setInCache(ctx context.Context, key string, recs []domain.Recommendation) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cfg.CacheTTL)
}

// fingerprint identifies a catalog's content so cached recommendations from a
// different file version are never served
func fingerprint(products []domain.Product, cfg SimilarityConfig) string {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatBool(cfg.IncludeMaterial)))
	for _, p := range products {
		fmt.Fprintf(h, "\x00%s\x00%s\x00%s\x00%s\x00%g\x00%g\x00%d",
			p.Name, p.Category, p.Material, p.Brand, p.Price, p.Rating, p.ReviewsCount)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
