package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/ecorec/backend/internal/domain"
	"github.com/ecorec/backend/internal/logging"
)

// Ratings above this are treated as malformed
const maxRating = 5.0

// colorNames are colors that scraped rows put in the material column
var colorNames = []string{
	"red", "blue", "green", "yellow", "black", "white", "orange", "purple",
	"pink", "brown", "gray", "grey", "beige", "ivory", "teal", "navy", "gold",
	"silver", "bronze", "maroon", "violet", "indigo", "turquoise", "magenta",
	"lime", "peach", "olive", "coral", "aqua", "mint", "mustard", "lavender",
	"tan", "charcoal", "burgundy", "cream", "amber", "apricot", "azure",
	"chocolate", "copper", "crimson", "cyan", "emerald", "fuchsia", "jade",
	"khaki", "lemon", "mauve", "ochre", "plum", "rose", "ruby", "salmon",
	"sapphire", "scarlet", "taupe", "topaz", "ultramarine", "vermilion",
	"wine", "zinc",
}

// shapeNames are geometric shapes that show up in the material column
var shapeNames = []string{
	"circle", "square", "rectangle", "triangle", "oval", "hexagon", "octagon",
	"pentagon", "cylinder", "sphere", "cube", "cone", "pyramid", "diamond",
	"ellipse", "star", "heart", "crescent", "torus", "rhombus",
	"parallelogram", "trapezoid", "semicircle", "octahedron", "tetrahedron",
	"dodecahedron", "icosahedron", "prism", "cuboid",
}

// packagingTokens are count and packaging words. Each also matches its plural.
var packagingTokens = []string{"count", "piece", "pack", "travel size", "portable", "all", "free"}

// measurementUnits are volume, length and weight units. They also match when
// written directly after a number, as in "16oz".
var measurementUnits = []string{
	"ounces", "oz", "ml", "g", "kg", "mm", "in", "ft", "ply", "inches", "cm",
	"gallons", "pounds",
}

// materialRejectPattern matches material values that are really color, shape,
// size, scent or packaging metadata. Color and shape names match whole words only.
var materialRejectPattern = buildMaterialRejectPattern()

func buildMaterialRejectPattern() *regexp.Regexp {
	alt := func(lists ...[]string) string {
		var words []string
		for _, list := range lists {
			for _, w := range list {
				words = append(words, regexp.QuoteMeta(w))
			}
		}
		return strings.Join(words, "|")
	}
	return regexp.MustCompile(`(?i)` +
		`\b(?:` + alt(colorNames, shapeNames) + `)\b` +
		`|\b(?:` + alt(packagingTokens) + `)s?\b` +
		`|(?:\b|\d)(?:` + alt(measurementUnits) + `)\b` +
		`|scent` +
		`|[".]|^\d+$`)
}

// nullTokens are cell values that spreadsheet and dataframe exports write for
// a missing value. Matching is exact and case-sensitive.
var nullTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// IsMissing reports whether a trimmed cell value is blank or a null token
func IsMissing(value string) bool {
	if value == "" {
		return true
	}
	_, ok := nullTokens[value]
	return ok
}

// priceNoisePattern matches everything that is not part of a plain decimal number
var priceNoisePattern = regexp.MustCompile(`[^\d.]+`)

// Cleaner turns raw scraped rows into a catalog of complete, plausible products
type Cleaner struct {
	log zerolog.Logger
}

// NewCleaner creates a new catalog cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{log: logging.Component("cleaner")}
}

// Clean runs the cleaning pipeline and returns the kept rows with fresh
// contiguous indices, plus counts of what was dropped and why.
//
// Steps, in order: price normalization, completeness, material rejection,
// numeric dominance. A row is counted under the first step that drops it.
func (c *Cleaner) Clean(raw []domain.RawRecord) ([]domain.Product, domain.CleanStats) {
	stats := domain.CleanStats{RawRows: len(raw)}
	products := make([]domain.Product, 0, len(raw))

	for i, rec := range raw {
		// Step 1: price normalization
		price, ok := NormalizePrice(rec.Price)
		if !ok {
			stats.InvalidPrice++
			c.log.Debug().Int("row", i).Str("price", rec.Price).Msg("dropped: invalid price")
			continue
		}

		// Step 2: completeness
		product, ok := completeProduct(rec, price)
		if !ok {
			stats.MissingField++
			c.log.Debug().Int("row", i).Str("name", rec.Name).Msg("dropped: missing field")
			continue
		}

		// Step 3: material rejection
		if IsRejectedMaterial(product.Material) {
			stats.RejectedMaterial++
			c.log.Debug().Int("row", i).Str("material", product.Material).Msg("dropped: rejected material")
			continue
		}

		// Step 4: numeric dominance
		if HasMoreDigitsThanLetters(product.Material) {
			stats.NumericMaterial++
			c.log.Debug().Int("row", i).Str("material", product.Material).Msg("dropped: numeric material")
			continue
		}

		product.Index = len(products)
		products = append(products, product)
	}

	stats.Kept = len(products)
	return products, stats
}

// NormalizePrice strips every character that is not a digit or a decimal point
// and parses what is left. The second result is false for a null token or
// when nothing parseable remains.
func NormalizePrice(raw string) (float64, bool) {
	if IsMissing(strings.TrimSpace(raw)) {
		return 0, false
	}
	cleaned := priceNoisePattern.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}

// completeProduct builds a product from a raw row, reporting false when any
// required field is missing or unparseable
func completeProduct(rec domain.RawRecord, price float64) (domain.Product, bool) {
	p := domain.Product{
		Name:     strings.TrimSpace(rec.Name),
		Category: strings.TrimSpace(rec.Category),
		Material: strings.TrimSpace(rec.Material),
		Brand:    strings.TrimSpace(rec.Brand),
		Price:    price,
	}
	if IsMissing(p.Name) || IsMissing(p.Category) || IsMissing(p.Material) || IsMissing(p.Brand) {
		return domain.Product{}, false
	}

	rawRating := strings.TrimSpace(rec.Rating)
	if IsMissing(rawRating) {
		return domain.Product{}, false
	}
	rating, err := strconv.ParseFloat(rawRating, 64)
	if err != nil || math.IsNaN(rating) || rating < 0 || rating > maxRating {
		return domain.Product{}, false
	}
	p.Rating = rating

	reviews, ok := parseCount(rec.ReviewsCount)
	if !ok {
		return domain.Product{}, false
	}
	p.ReviewsCount = reviews

	return p, true
}

// parseCount parses a non-negative integer count. Integral floats like "12.0"
// are accepted since numeric columns with blanks are often exported that way.
func parseCount(raw string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if IsMissing(s) {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// IsRejectedMaterial reports whether a material value is really color, shape,
// unit or packaging metadata, contains a quote or period, or is all digits
func IsRejectedMaterial(material string) bool {
	return materialRejectPattern.MatchString(material)
}

// HasMoreDigitsThanLetters reports whether digits outnumber letters in s
func HasMoreDigitsThanLetters(s string) bool {
	var digits, letters int
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	return digits > letters
}
