// Package catalogfile reads raw product rows from the catalog source file.
package catalogfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ecorec/backend/internal/domain"
)

// Column names of the catalog file
const (
	ColumnName         = "name"
	ColumnCategory     = "category"
	ColumnMaterial     = "material"
	ColumnBrand        = "brand"
	ColumnPrice        = "price"
	ColumnRating       = "rating"
	ColumnReviewsCount = "reviewsCount"
)

var requiredColumns = []string{
	ColumnName, ColumnCategory, ColumnMaterial, ColumnBrand,
	ColumnPrice, ColumnRating, ColumnReviewsCount,
}

// Loader reads CSV or JSON catalog files
type Loader struct{}

// NewLoader creates a new catalog file loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every row of the file at path. Files ending in .json are read as
// an array of objects; anything else is read as CSV with a header row.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}

// ReadCSV parses a CSV catalog. Columns are matched by header name, case-insensitively.
func ReadCSV(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrCatalogUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrCatalogUnavailable, err)
	}

	positions, err := columnPositions(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}

		cell := func(column string) string {
			idx := positions[column]
			if idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		records = append(records, domain.RawRecord{
			Name:         cell(ColumnName),
			Category:     cell(ColumnCategory),
			Material:     cell(ColumnMaterial),
			Brand:        cell(ColumnBrand),
			Price:        cell(ColumnPrice),
			Rating:       cell(ColumnRating),
			ReviewsCount: cell(ColumnReviewsCount),
		})
	}

	return records, nil
}

// columnPositions maps each required column to its index in the header
func columnPositions(header []string) (map[string]int, error) {
	byLower := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := byLower[key]; !dup {
			byLower[key] = i
		}
	}

	positions := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		idx, ok := byLower[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions[col] = idx
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return positions, nil
}

// ReadJSON parses a JSON array of product objects. Values may be strings or numbers;
// null and absent keys count as missing.
func ReadJSON(r io.Reader) ([]domain.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", domain.ErrCatalogUnavailable, err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		lowered := make(map[string]interface{}, len(row))
		for k, v := range row {
			lowered[strings.ToLower(k)] = v
		}
		field := func(column string) string {
			return stringify(lowered[strings.ToLower(column)])
		}

		records = append(records, domain.RawRecord{
			Name:         field(ColumnName),
			Category:     field(ColumnCategory),
			Material:     field(ColumnMaterial),
			Brand:        field(ColumnBrand),
			Price:        field(ColumnPrice),
			Rating:       field(ColumnRating),
			ReviewsCount: field(ColumnReviewsCount),
		})
	}

	return records, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
