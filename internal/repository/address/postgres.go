package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-api/internal/db"
	"shop-api/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const addressColumns = `id, user_id, order_id, address, city, zip_code, created_at`

func (r *postgresRepo) Create(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error) {
	if strings.TrimSpace(a.Address) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.ZipCode) == "" {
		return nil, fmt.Errorf("%w: address, city and zip_code are required", domain.ErrInvalidInput)
	}
	const q = `
INSERT INTO shipping_addresses (user_id, order_id, address, city, zip_code)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + addressColumns
	out, err := scanAddress(r.pool.QueryRow(ctx, q, a.UserID, a.OrderID,
		strings.TrimSpace(a.Address), strings.TrimSpace(a.City), strings.TrimSpace(a.ZipCode)))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.ShippingAddress, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+addressColumns+` FROM shipping_addresses WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShippingAddress
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func scanAddress(row pgx.Row) (*domain.ShippingAddress, error) {
	var a domain.ShippingAddress
	if err := row.Scan(&a.ID, &a.UserID, &a.OrderID, &a.Address, &a.City, &a.ZipCode, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
