package usecase

import (
	"sort"

	"github.com/ecorec/backend/internal/domain"
)

// Recommend returns the n products most similar to the product named name,
// in descending similarity order with ties broken by catalog order.
//
// The name is looked up by exact match in the full catalog (first occurrence).
// An unknown name, n <= 0 or an index that does not cover the catalog yields
// an empty result. The queried product never appears in its own result.
func Recommend(name string, catalog []domain.Product, index *SimilarityIndex, n int) []domain.Recommendation {
	recs := []domain.Recommendation{}
	if n <= 0 || index.Len() != len(catalog) {
		return recs
	}

	selected := findByName(catalog, name)
	if selected < 0 {
		return recs
	}

	type ranked struct {
		idx   int
		score float64
	}
	row := index.Row(selected)
	candidates := make([]ranked, 0, len(row))
	for i, score := range row {
		if i == selected {
			continue
		}
		candidates = append(candidates, ranked{idx: i, score: score})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	for _, c := range candidates {
		recs = append(recs, domain.Recommendation{Product: catalog[c.idx], Score: c.score})
	}
	return recs
}

// findByName returns the index of the first product named name, or -1
func findByName(catalog []domain.Product, name string) int {
	for i, p := range catalog {
		if p.Name == name {
			return i
		}
	}
	return -1
}
