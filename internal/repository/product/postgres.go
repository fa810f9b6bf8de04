package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-api/internal/db"
	"shop-api/internal/domain"
	"shop-api/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

const productSelect = `
SELECT p.id, p.category_id, COALESCE(c.name, ''), p.name, p.description, p.price::text, p.created_at
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
`

var orderClauses = map[domain.ProductOrdering]string{
	domain.OrderByID:        "p.id ASC",
	domain.OrderByPrice:     "p.price ASC, p.id ASC",
	domain.OrderByPriceDesc: "p.price DESC, p.id ASC",
	domain.OrderByName:      "p.name ASC",
	domain.OrderByNameDesc:  "p.name DESC",
}

func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	orderBy, ok := orderClauses[filter.Ordering]
	if !ok {
		return nil, fmt.Errorf("%w: ordering %q", domain.ErrInvalidInput, filter.Ordering)
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	q := productSelect
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY " + orderBy

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, result); err != nil {
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)), zap.String("search", filter.Search))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+`WHERE p.id = $1`, id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Error("product repo: get", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	list := []domain.Product{*p}
	if err := r.attachImages(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}

	id, err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		const q = `
INSERT INTO products (category_id, name, description, price)
VALUES ($1, $2, $3, $4::numeric)
ON CONFLICT (name) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    description = EXCLUDED.description,
    price = EXCLUDED.price
RETURNING id
`
		var id int64
		if err := tx.QueryRow(ctx, q, product.CategoryID, product.Name, product.Description, product.Price.StringFixed(2)).Scan(&id); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
			return 0, err
		}
		for _, img := range product.Images {
			if _, err := tx.Exec(ctx,
				`INSERT INTO product_images (product_id, image, color, color_code) VALUES ($1, $2, $3, $4)`,
				id, img.Image, img.Color, img.ColorCode); err != nil {
				return 0, err
			}
		}
		return id, nil
	})
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("name", product.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("product repo: upserted", zap.String("name", product.Name), zap.Int64("id", id))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) attachImages(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, product_id, image, color, color_code
FROM product_images
WHERE product_id = ANY($1)
ORDER BY id ASC
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byProduct := make(map[int64][]domain.ProductImage)
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.Color, &img.ColorCode); err != nil {
			return err
		}
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range products {
		products[i].Images = byProduct[products[i].ID]
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Description, &price, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	return &p, nil
}
