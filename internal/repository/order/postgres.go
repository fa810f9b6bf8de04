package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

const orderColumns = `id, user_id, session_token::text, status, shipping_address_id, created_at`

func (r *postgresRepo) FindOpenOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var (
		q   string
		arg interface{}
	)
	if owner.IsUser() {
		q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND status = 'Pending'`
		arg = owner.UserID
	} else {
		q = `SELECT ` + orderColumns + ` FROM orders WHERE session_token = $1::uuid AND status = 'Pending'`
		arg = owner.SessionToken.String()
	}
	return scanOrder(r.pool.QueryRow(ctx, q, arg))
}

func (r *postgresRepo) CreateOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var (
		userID *int64
		token  *string
	)
	if owner.IsUser() {
		id := owner.UserID
		userID = &id
	} else {
		s := owner.SessionToken.String()
		token = &s
	}

	const q = `
INSERT INTO orders (user_id, session_token, status)
VALUES ($1, $2::uuid, 'Pending')
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, userID, token))
	if err != nil {
		if db.IsUniqueViolation(err) {
			r.logger.Debug("order repo: open order race lost", zap.Stringer("owner", owner))
			return nil, domain.ErrConflict
		}
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, owner.UserID)
		}
		r.logger.Error("order repo: create", zap.Stringer("owner", owner), zap.Error(err))
		return nil, err
	}
	r.logger.Info("order repo: created", zap.Int64("order_id", o.ID), zap.Stringer("owner", owner))
	return o, nil
}

func (r *postgresRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// AdoptAnonymous moves the open order of an anonymous session to userID, but
// only while the user has no open order of their own. It returns
// domain.ErrNotFound when there is nothing to adopt.
func (r *postgresRepo) AdoptAnonymous(ctx context.Context, token uuid.UUID, userID int64) (*domain.Order, error) {
	const q = `
UPDATE orders
SET user_id = $1,
    session_token = NULL
WHERE session_token = $2::uuid AND status = 'Pending'
  AND NOT EXISTS (SELECT 1 FROM orders WHERE user_id = $1 AND status = 'Pending')
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, userID, token.String()))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	r.logger.Info("order repo: adopted anonymous order", zap.Int64("order_id", o.ID), zap.Int64("user_id", userID))
	return o, nil
}

func (r *postgresRepo) SetShippingAddress(ctx context.Context, orderID, addressID int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET shipping_address_id = $1 WHERE id = $2`, addressID, orderID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const itemSelect = `
SELECT oi.id, oi.order_id, oi.product_id, oi.color, oi.size, oi.quantity, oi.created_at,
       p.category_id, COALESCE(c.name, ''), p.name, p.description, p.price::text, p.created_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
LEFT JOIN categories c ON c.id = p.category_id
`

func (r *postgresRepo) FindItem(ctx context.Context, orderID, productID int64, variant domain.Variant) (*domain.OrderItem, error) {
	q := itemSelect + `WHERE oi.order_id = $1 AND oi.product_id = $2 AND oi.color = $3 AND oi.size = $4`
	item, err := scanItem(r.pool.QueryRow(ctx, q, orderID, productID, variant.Color, variant.Size))
	if err != nil {
		return nil, err
	}
	return item, r.attachImages(ctx, []*domain.OrderItem{item})
}

func (r *postgresRepo) GetItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, itemSelect+`WHERE oi.id = $1`, id))
	if err != nil {
		return nil, err
	}
	return item, r.attachImages(ctx, []*domain.OrderItem{item})
}

// UpsertItem merges a quantity into the (order, product, color, size) line in
// a single statement, so concurrent adds of the same line serialize on the
// unique key instead of racing a read-modify-write.
func (r *postgresRepo) UpsertItem(ctx context.Context, in UpsertItemInput) (*domain.OrderItem, error) {
	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := in.Variant.Validate(); err != nil {
		return nil, err
	}

	var q string
	switch in.Mode {
	case domain.Accumulate:
		q = `
INSERT INTO order_items (order_id, product_id, color, size, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ON CONSTRAINT order_items_line_key
DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
RETURNING id`
	case domain.Replace:
		q = `
INSERT INTO order_items (order_id, product_id, color, size, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ON CONSTRAINT order_items_line_key
DO UPDATE SET quantity = EXCLUDED.quantity
RETURNING id`
	default:
		return nil, fmt.Errorf("%w: unknown quantity mode %d", domain.ErrInvalidInput, in.Mode)
	}

	var id int64
	err := r.pool.QueryRow(ctx, q, in.OrderID, in.ProductID, in.Variant.Color, in.Variant.Size, in.Quantity).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, db.ConstraintName(err))
		}
		if db.IsInvalidValue(err) {
			return nil, fmt.Errorf("%w: line quantity must not exceed %d", domain.ErrInvalidInput, domain.MaxItemQuantity)
		}
		r.logger.Error("order repo: upsert item",
			zap.Int64("order_id", in.OrderID),
			zap.Int64("product_id", in.ProductID),
			zap.Error(err))
		return nil, err
	}
	return r.GetItem(ctx, id)
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.OrderItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE order_items SET quantity = $1 WHERE id = $2`, quantity, itemID)
	if err != nil {
		if db.IsInvalidValue(err) {
			return nil, fmt.Errorf("%w: quantity %d", domain.ErrInvalidInput, quantity)
		}
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetItem(ctx, itemID)
}

func (r *postgresRepo) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, itemSelect+`WHERE oi.order_id = $1 ORDER BY oi.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, items); err != nil {
		return nil, err
	}

	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, itemID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) attachImages(ctx context.Context, items []*domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
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
	for _, item := range items {
		item.Product.Images = byProduct[item.ProductID]
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		token  *string
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &token, &status, &o.ShippingAddressID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if token != nil {
		parsed, err := uuid.Parse(*token)
		if err != nil {
			return nil, fmt.Errorf("order %d: session token %q: %w", o.ID, *token, err)
		}
		o.SessionToken = &parsed
	}
	return &o, nil
}

func scanItem(row pgx.Row) (*domain.OrderItem, error) {
	var (
		item  domain.OrderItem
		p     domain.Product
		price string
	)
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Variant.Color,
		&item.Variant.Size,
		&item.Quantity,
		&item.CreatedAt,
		&p.CategoryID,
		&p.CategoryName,
		&p.Name,
		&p.Description,
		&price,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.ID = item.ProductID
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	item.Product = &p
	return &item, nil
}
