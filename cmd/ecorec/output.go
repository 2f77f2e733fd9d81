package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/ecorec/backend/internal/domain"
)

// printer renders command results as tables or JSON
type printer struct {
	w        io.Writer
	jsonMode bool
	heading  *color.Color
	muted    *color.Color
}

func newPrinter(w io.Writer, jsonMode bool) *printer {
	return &printer{
		w:        w,
		jsonMode: jsonMode,
		heading:  color.New(color.FgGreen, color.Bold),
		muted:    color.New(color.FgYellow),
	}
}

func (p *printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) searchResult(result domain.SearchResult) error {
	if p.jsonMode {
		return p.writeJSON(result)
	}

	switch result.Status {
	case domain.SearchStatusNoQuery:
		p.muted.Fprintln(p.w, "Enter a search query to see products.")
		return nil
	case domain.SearchStatusNoMatches:
		p.muted.Fprintf(p.w, "No products found for %q.\n", result.Query)
		return nil
	}

	p.heading.Fprintf(p.w, "%d products matching %q\n", len(result.Rows), result.Query)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tMATERIAL\tBRAND\tPRICE\tRATING\tREVIEWS")
	for _, r := range result.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%.1f\t%d\n",
			r.Name, r.Category, r.Material, r.Brand, r.Price, r.Rating, r.ReviewsCount)
	}
	return tw.Flush()
}

func (p *printer) recommendations(name string, recs []domain.Recommendation) error {
	if p.jsonMode {
		return p.writeJSON(map[string]interface{}{
			"name":            name,
			"recommendations": recs,
		})
	}

	if len(recs) == 0 {
		p.muted.Fprintf(p.w, "No recommendations found for %q.\n", name)
		return nil
	}

	p.heading.Fprintf(p.w, "Products similar to %q\n", name)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tPRODUCT")
	for _, r := range recs {
		fmt.Fprintf(tw, "%.3f\t%s\n", r.Score, r.Product.Label())
	}
	return tw.Flush()
}

func (p *printer) catalogStats(stats domain.CatalogStats) error {
	if p.jsonMode {
		return p.writeJSON(stats)
	}

	p.heading.Fprintf(p.w, "Catalog %s\n", stats.Path)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Products\t%d\n", stats.Products)
	fmt.Fprintf(tw, "Vocabulary\t%d terms\n", stats.VocabularySize)
	fmt.Fprintf(tw, "Raw rows\t%d\n", stats.Clean.RawRows)
	fmt.Fprintf(tw, "Dropped\t%d\n", stats.Clean.Dropped())
	fmt.Fprintf(tw, "  invalid price\t%d\n", stats.Clean.InvalidPrice)
	fmt.Fprintf(tw, "  missing field\t%d\n", stats.Clean.MissingField)
	fmt.Fprintf(tw, "  rejected material\t%d\n", stats.Clean.RejectedMaterial)
	fmt.Fprintf(tw, "  numeric material\t%d\n", stats.Clean.NumericMaterial)
	fmt.Fprintf(tw, "Build time\t%s\n", stats.BuildDuration)
	return tw.Flush()
}
