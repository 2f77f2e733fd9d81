package usecase

import (
	"sort"
	"strings"

	"github.com/ecorec/backend/internal/domain"
)

// Top-rated defaults
const (
	defaultTopRatedMinRating  = 4.5
	defaultTopRatedMinReviews = 1
)

// FilterConfig holds the thresholds of the top-rated filter. A nil threshold
// uses the default.
type FilterConfig struct {
	TopRatedMinRating  *float64
	TopRatedMinReviews *int
}

// FilterEngine narrows a catalog by free text and optional filters
type FilterEngine struct {
	minRating  float64
	minReviews int
}

// NewFilterEngine creates a filter engine
func NewFilterEngine(cfg FilterConfig) *FilterEngine {
	e := &FilterEngine{minRating: defaultTopRatedMinRating, minReviews: defaultTopRatedMinReviews}
	if cfg.TopRatedMinRating != nil {
		e.minRating = *cfg.TopRatedMinRating
	}
	if cfg.TopRatedMinReviews != nil {
		e.minReviews = *cfg.TopRatedMinReviews
	}
	return e
}

// Filter matches query case-insensitively against name or category, then
// applies the filter mode. A blank query returns SearchStatusNoQuery; a query
// that leaves nothing returns SearchStatusNoMatches.
func (e *FilterEngine) Filter(catalog []domain.Product, query string, opts domain.FilterOptions) domain.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{Status: domain.SearchStatusNoQuery, Rows: []domain.Product{}}
	}

	needle := strings.ToLower(query)
	rows := make([]domain.Product, 0)
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			rows = append(rows, p)
		}
	}

	switch opts.Mode {
	case domain.FilterModeTopRated:
		rows = e.topRated(rows)
	case domain.FilterModePriceRange:
		rows = priceRange(rows, opts.MinPrice, opts.MaxPrice)
	}

	status := domain.SearchStatusMatched
	if len(rows) == 0 {
		status = domain.SearchStatusNoMatches
	}
	return domain.SearchResult{Status: status, Query: query, Rows: rows}
}

// topRated keeps well-rated rows with more than the minimum reviews, best rating first
func (e *FilterEngine) topRated(rows []domain.Product) []domain.Product {
	kept := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		if p.Rating >= e.minRating && p.ReviewsCount > e.minReviews {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Rating > kept[j].Rating })
	return kept
}

// priceRange keeps rows with min <= price <= max
func priceRange(rows []domain.Product, min, max float64) []domain.Product {
	kept := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		if p.Price >= min && p.Price <= max {
			kept = append(kept, p)
		}
	}
	return kept
}
