package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecorec/backend/internal/domain"
)

const testCatalog = `name,category,material,brand,price,rating,reviewsCount
Glass Water Bottle,Kitchen,Glass,Acme,$12.00,4.4,30
Steel Water Bottle,Kitchen,Steel,Acme,$25.00,4.8,120
Bamboo Toothbrush,Oral Care,Bamboo,Verde,$4.99,4.6,80
Bamboo Toothbrush Kids,Oral Care,Bamboo,Verde,$3.99,4.2,15
Red Tote,Bags,Red Cotton,Acme,$9.00,4.9,5
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	return path
}

// execute runs the CLI with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ECOREC_LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	catalog := writeCatalog(t)

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "--json", "search", "bottle")
		require.NoError(t, err)

		var result domain.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, domain.SearchStatusMatched, result.Status)
		assert.Len(t, result.Rows, 2)
	})

	t.Run("top rated", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "--json", "search", "bottle", "--mode", "topRated")
		require.NoError(t, err)

		var result domain.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Steel Water Bottle", result.Rows[0].Name)
	})

	t.Run("price range flags", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "--json", "search", "kitchen",
			"--mode", "priceRange", "--min-price", "20", "--max-price", "30")
		require.NoError(t, err)

		var result domain.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Steel Water Bottle", result.Rows[0].Name)
	})

	t.Run("table output", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "search", "toothbrush")
		require.NoError(t, err)
		assert.Contains(t, out, "2 products matching \"toothbrush\"")
		assert.Contains(t, out, "Bamboo Toothbrush Kids")
		assert.Contains(t, out, "$3.99")
	})

	t.Run("no query and no matches", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "search")
		require.NoError(t, err)
		assert.Contains(t, out, "Enter a search query")

		out, err = execute(t, "--catalog", catalog, "search", "zzz")
		require.NoError(t, err)
		assert.Contains(t, out, "No products found")
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := execute(t, "--catalog", catalog, "search", "bottle", "--mode", "cheapest")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestRecommendCommand(t *testing.T) {
	catalog := writeCatalog(t)

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "--json", "recommend", "Bamboo Toothbrush", "-n", "1")
		require.NoError(t, err)

		var resp struct {
			Name            string                  `json:"name"`
			Recommendations []domain.Recommendation `json:"recommendations"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "Bamboo Toothbrush", resp.Name)
		require.Len(t, resp.Recommendations, 1)
		assert.Equal(t, "Bamboo Toothbrush Kids", resp.Recommendations[0].Product.Name)
	})

	t.Run("multi word name without quotes", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "recommend", "Glass", "Water", "Bottle", "-n", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Steel Water Bottle | Acme | $25.00")
	})

	t.Run("unknown product", func(t *testing.T) {
		out, err := execute(t, "--catalog", catalog, "recommend", "Nope")
		require.NoError(t, err)
		assert.Contains(t, out, "No recommendations found")
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := execute(t, "--catalog", catalog, "recommend")
		assert.Error(t, err)
	})
}

func TestStatsCommand(t *testing.T) {
	catalog := writeCatalog(t)

	out, err := execute(t, "--catalog", catalog, "--json", "stats")
	require.NoError(t, err)

	var stats domain.CatalogStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 4, stats.Products)
	assert.Equal(t, 5, stats.Clean.RawRows)
	assert.Equal(t, 1, stats.Clean.RejectedMaterial)
	assert.Equal(t, catalog, stats.Path)
}

func TestMissingCatalog(t *testing.T) {
	_, err := execute(t, "--catalog", filepath.Join(t.TempDir(), "missing.csv"), "stats")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
