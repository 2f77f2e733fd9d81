package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Product is one cleaned catalog row. Index is its position in the cleaned
// catalog and is the join key into the similarity matrix.
type Product struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Material     string  `json:"material"`
	Brand        string  `json:"brand"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviewsCount"`
}

// Label renders the product the way selection lists show it
func (p Product) Label() string {
	return fmt.Sprintf("%s | %s | $%.2f", p.Name, p.Brand, p.Price)
}

// RawRecord is an uncleaned catalog row as read from the source file.
// An empty string means the cell was missing.
type RawRecord struct {
	Name         string
	Category     string
	Material     string
	Brand        string
	Price        string
	Rating       string
	ReviewsCount string
}

// FilterMode selects the optional narrowing applied after the text match
type FilterMode string

const (
	FilterModeNone       FilterMode = "none"
	FilterModeTopRated   FilterMode = "topRated"
	FilterModePriceRange FilterMode = "priceRange"
)

// Default price bounds used when the caller does not pick a range
const (
	DefaultMinPrice = 0.0
	DefaultMaxPrice = 100.0
)

// FilterOptions holds the optional filters of a search. The price bounds are
// only read, and only validated, in FilterModePriceRange.
type FilterOptions struct {
	Mode     FilterMode `json:"mode" validate:"omitempty,oneof=none topRated priceRange"`
	MinPrice float64    `json:"minPrice"`
	MaxPrice float64    `json:"maxPrice"`
}

// DefaultFilterOptions returns options with no filter mode and the default price range
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Mode:     FilterModeNone,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validatePriceRange, FilterOptions{})
	return v
}

// validatePriceRange requires 0 <= MinPrice <= MaxPrice when the price range filter is on
func validatePriceRange(sl validator.StructLevel) {
	o := sl.Current().Interface().(FilterOptions)
	if o.Mode != FilterModePriceRange {
		return
	}
	if o.MinPrice < 0 {
		sl.ReportError(o.MinPrice, "MinPrice", "minPrice", "gte", "0")
	}
	if o.MaxPrice < o.MinPrice {
		sl.ReportError(o.MaxPrice, "MaxPrice", "maxPrice", "gtefield", "MinPrice")
	}
}

// Validate checks the options and wraps any failure in ErrInvalidRequest
func (o FilterOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// SearchStatus distinguishes "nothing asked" from "nothing found"
type SearchStatus string

const (
	SearchStatusNoQuery   SearchStatus = "no_query"
	SearchStatusNoMatches SearchStatus = "no_matches"
	SearchStatusMatched   SearchStatus = "matched"
)

// SearchResult is the outcome of a filter pass over the catalog
type SearchResult struct {
	Status SearchStatus `json:"status"`
	Query  string       `json:"query"`
	Rows   []Product    `json:"rows"`
}

// Recommendation is a neighbour of a selected product with its similarity score
type Recommendation struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

// BrowseRequest is one interaction of the catalog page: search, filter, select
type BrowseRequest struct {
	Query    string        `json:"query"`
	Options  FilterOptions `json:"options"`
	Selected string        `json:"selected,omitempty"`
	N        int           `json:"n,omitempty" validate:"gte=0,lte=100"`
}

// Validate checks the request and its filter options
func (r BrowseRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// BrowseResponse carries everything the presentation layer renders for one interaction
type BrowseResponse struct {
	Search          SearchResult     `json:"search"`
	Selected        *Product         `json:"selected,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// CleanStats counts what the cleaning pipeline kept and why rows were dropped
type CleanStats struct {
	RawRows          int `json:"rawRows"`
	Kept             int `json:"kept"`
	InvalidPrice     int `json:"invalidPrice"`
	MissingField     int `json:"missingField"`
	RejectedMaterial int `json:"rejectedMaterial"`
	NumericMaterial  int `json:"numericMaterial"`
}

// Dropped returns the total number of rows removed by cleaning
func (s CleanStats) Dropped() int {
	return s.InvalidPrice + s.MissingField + s.RejectedMaterial + s.NumericMaterial
}

// CatalogStats describes a built catalog snapshot
type CatalogStats struct {
	Path           string     `json:"path"`
	Products       int        `json:"products"`
	VocabularySize int        `json:"vocabularySize"`
	Clean          CleanStats `json:"clean"`
	BuiltAt        time.Time  `json:"builtAt"`
	BuildDuration  string     `json:"buildDuration"`
}
