package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads the catalogue CSV from some source.
type Loader interface {
	Load(ctx context.Context) (*Catalog, error)
}

// fileLoader implements Loader for a local CSV file.
type fileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a file-based catalogue loader.
func NewFileLoader(path string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:   path,
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads the local catalogue file. A missing file yields an empty
// catalogue rather than an error; the storefront stays up without products.
func (l *fileLoader) Load(_ context.Context) (*Catalog, error) {
	file, err := os.Open(l.path)
	if err != nil {
		l.logger.Warn().Err(err).Str("file", l.path).Msg("catalogue file unavailable, starting empty")
		return New(nil), nil
	}
	defer file.Close()

	cat, err := Parse(file)
	if err != nil {
		l.logger.Warn().Err(err).Str("file", l.path).Msg("catalogue file malformed, starting empty")
		return New(nil), nil
	}

	l.logger.Info().
		Str("file", l.path).
		Int("products", cat.Len()).
		Msg("catalogue loaded")

	return cat, nil
}

// Parse reads catalogue CSV content. The header row names the columns; any
// pre-existing id column is ignored and image ids are re-derived from row
// position so row 1 always maps to images/1.png.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	price := func(record []string, name string) float64 {
		value, err := strconv.ParseFloat(field(record, name), 64)
		if err != nil {
			return 0
		}
		return value
	}

	var products []Product
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalogue row %d: %w", len(products)+1, err)
		}

		id := len(products) + 1
		products = append(products, Product{
			ImageID:   id,
			Name:      field(record, "name"),
			Category:  field(record, "category"),
			Price10:   price(record, "price10"),
			Price20:   price(record, "price20"),
			Price30:   price(record, "price30"),
			ImagePath: fmt.Sprintf("images/%d.png", id),
		})
	}

	return New(products), nil
}
