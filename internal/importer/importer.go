package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/logging"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products keyed by
// name. Expected columns: name, description, price, category, image, color,
// color_code. A row with an empty name adds another image to the product
// above it.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	logger     *zap.Logger

	categoryIDs map[string]int64
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		logger:      logging.OrNop(logger),
		categoryIDs: make(map[string]int64),
	}
}

type csvRow struct {
	line     int
	Name     string
	Desc     string
	Price    string
	Category string
	Images   []domain.ProductImage
}

// Run parses CSV rows and upserts one product per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("csv header must contain a name column")
	}

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return fmt.Errorf("line %d: invalid price %q for %q", row.line, row.Price, row.Name)
	}

	p := domain.Product{
		Name:        row.Name,
		Description: row.Desc,
		Price:       price.Round(2),
		Images:      row.Images,
	}
	if row.Category != "" {
		id, err := i.categoryID(ctx, row.Category)
		if err != nil {
			return fmt.Errorf("line %d: category %q: %w", row.line, row.Category, err)
		}
		p.CategoryID = &id
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("line %d: upsert product %q: %w", row.line, row.Name, err)
	}
	i.logger.Debug("importer: product saved", zap.String("name", row.Name), zap.Int("images", len(row.Images)))
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (int64, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	c, err := i.categories.Upsert(ctx, name)
	if err != nil {
		return 0, err
	}
	i.categoryIDs[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	image := pick(record, index, "image")
	if name == "" && image == "" {
		return nil
	}

	row := &csvRow{
		Name:     name,
		Desc:     pick(record, index, "description"),
		Price:    pick(record, index, "price"),
		Category: pick(record, index, "category"),
	}
	if image != "" {
		row.Images = []domain.ProductImage{{
			Image:     image,
			Color:     pick(record, index, "color"),
			ColorCode: pick(record, index, "color_code"),
		}}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
