package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecorec/backend/internal/domain"
)

func rawRow(name, material, price string) domain.RawRecord {
	return domain.RawRecord{
		Name:         name,
		Category:     "Home",
		Material:     material,
		Brand:        "EcoBrand",
		Price:        price,
		Rating:       "4.5",
		ReviewsCount: "10",
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$4.99", 4.99, true},
		{"12", 12, true},
		{"$1,299.00", 1299, true},
		{"USD 7.5 each", 7.5, true},
		{"-3.00", 3, true},
		{"", 0, false},
		{"free", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"$12.50 - $15.00", 0, false},
		{"NaN", 0, false},
		{"1.#IND", 0, false},
		{" N/A ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizePrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestIsRejectedMaterial(t *testing.T) {
	tests := []struct {
		material string
		want     bool
	}{
		{"Bamboo", false},
		{"Red Bamboo", true},
		{"NAVY cotton", true},
		{"Goldenrod Fiber", false},
		{"Glass", false},
		{"Stainless Steel", false},
		{"Heart", true},
		{"Square Bamboo", true},
		{"BPA Free", true},
		{"Travel Size", true},
		{"Portable", true},
		{"Scented", true},
		{"12 Count", true},
		{"16 oz", true},
		{"16oz", true},
		{"12oz Glass", true},
		{"Bamboo 16oz", true},
		{"8ft", true},
		{"2in", true},
		{"10g", true},
		{"250ML Glass", true},
		{"Unscented", true},
		{"Scentless Wax", true},
		{"Counts", true},
		{"2 Pieces", true},
		{"Packs", true},
		{"Linen", false},
		{"Cotton Blend", false},
		{"Ingeo", false},
		{"Wood.", true},
		{`5" Bamboo`, true},
		{"12345", true},
		{"100% Cotton", false},
		{"Recycled Paper", false},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRejectedMaterial(tt.material))
		})
	}
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "N/A", "n/a", "#N/A", "NULL", "null", "NaN", "nan", "None", "<NA>"} {
		assert.True(t, IsMissing(v), "%q should count as missing", v)
	}
	for _, v := range []string{"Bamboo", "na", "Nan Bamboo", "none", "0"} {
		assert.False(t, IsMissing(v), "%q should not count as missing", v)
	}
}

func TestHasMoreDigitsThanLetters(t *testing.T) {
	assert.True(t, HasMoreDigitsThanLetters("12 x 34 ab"))
	assert.True(t, HasMoreDigitsThanLetters("2024"))
	assert.False(t, HasMoreDigitsThanLetters("100% Cotton"))
	assert.False(t, HasMoreDigitsThanLetters("ab12"))
	assert.False(t, HasMoreDigitsThanLetters(""))
}

func TestClean(t *testing.T) {
	cleaner := NewCleaner()

	raw := []domain.RawRecord{
		rawRow("Bamboo Toothbrush", "Bamboo", "$4.99"),            // kept
		rawRow("Bamboo Toothbrush Red", "Red Bamboo", "$4.99"),    // color
		rawRow("Mystery Item", "Bamboo", "call for price"),        // price
		rawRow("", "Bamboo", "3.00"),                              // missing name
		rawRow("Numbers", "12 x 34 ab", "3.00"),                   // numeric dominance
		rawRow("Cotton Bag", "Organic Cotton", "$12.00"),          // kept
		{Name: "No Rating", Category: "Home", Material: "Hemp", Brand: "B", Price: "1", ReviewsCount: "3"},
		{Name: "Bad Rating", Category: "Home", Material: "Hemp", Brand: "B", Price: "1", Rating: "7", ReviewsCount: "3"},
		{Name: "Float Count", Category: "Home", Material: "Hemp", Brand: "B", Price: "1", Rating: "4", ReviewsCount: "12.0"},
		{Name: "Neg Count", Category: "Home", Material: "Hemp", Brand: "B", Price: "1", Rating: "4", ReviewsCount: "-1"},
		{Name: "Blank Brand", Category: "Home", Material: "Hemp", Brand: "  ", Price: "1", Rating: "4", ReviewsCount: "1"},
	}

	products, stats := cleaner.Clean(raw)

	require.Len(t, products, 3)
	assert.Equal(t, "Bamboo Toothbrush", products[0].Name)
	assert.Equal(t, "Cotton Bag", products[1].Name)
	assert.Equal(t, "Float Count", products[2].Name)
	assert.Equal(t, 12, products[2].ReviewsCount)

	for i, p := range products {
		assert.Equal(t, i, p.Index, "indices must be contiguous")
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.False(t, math.IsNaN(p.Price))
		assert.False(t, IsRejectedMaterial(p.Material))
		assert.False(t, HasMoreDigitsThanLetters(p.Material))
	}

	assert.Equal(t, domain.CleanStats{
		RawRows:          11,
		Kept:             3,
		InvalidPrice:     1,
		MissingField:     5,
		RejectedMaterial: 1,
		NumericMaterial:  1,
	}, stats)
	assert.Equal(t, 8, stats.Dropped())
}

func TestClean_PriceNormalizedFirst(t *testing.T) {
	products, _ := NewCleaner().Clean([]domain.RawRecord{rawRow("Jar", "Glass", "$1,299.50 USD")})
	require.Len(t, products, 1)
	assert.InDelta(t, 1299.5, products[0].Price, 1e-9)
}

func TestClean_Empty(t *testing.T) {
	products, stats := NewCleaner().Clean(nil)
	assert.Empty(t, products)
	assert.Equal(t, 0, stats.Kept)
}

func TestClean_NullTokensCountAsMissing(t *testing.T) {
	nullBrand := rawRow("Null Brand", "Bamboo", "$3.00")
	nullBrand.Brand = "NULL"
	noneCategory := rawRow("None Category", "Bamboo", "$3.00")
	noneCategory.Category = "None"
	naRating := rawRow("NA Rating", "Bamboo", "$3.00")
	naRating.Rating = "NA"
	nanReviews := rawRow("NaN Reviews", "Bamboo", "$3.00")
	nanReviews.ReviewsCount = "nan"

	raw := []domain.RawRecord{
		rawRow("Jar", "Glass", "$4.00"),
		rawRow("NA Material", "N/A", "$3.00"),
		rawRow("NaN Material", "NaN", "$3.00"),
		nullBrand,
		noneCategory,
		naRating,
		nanReviews,
		rawRow("NaN Price", "Bamboo", "NaN"),
	}

	products, stats := NewCleaner().Clean(raw)

	require.Len(t, products, 1)
	assert.Equal(t, "Jar", products[0].Name)
	assert.Equal(t, 6, stats.MissingField)
	assert.Equal(t, 1, stats.InvalidPrice)
}
