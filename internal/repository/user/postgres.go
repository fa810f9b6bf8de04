package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

const userSelect = `
SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.created_at,
       COALESCE(p.telefonumber, ''), COALESCE(p.address, ''), COALESCE(p.city, ''),
       COALESCE(p.zip_code, ''), COALESCE(p.birthday, ''),
       COALESCE(p.is_verified, FALSE), COALESCE(p.verification_token, ''), COALESCE(p.password_reset_token, '')
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	id, err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		var id int64
		err := tx.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
			u.Username, strings.ToLower(u.Email), u.PasswordHash, u.FirstName, u.LastName,
		).Scan(&id)
		if err != nil {
			return 0, err
		}
		_, err = tx.Exec(ctx, `
INSERT INTO user_profiles (user_id, telefonumber, address, city, zip_code, birthday, is_verified, verification_token)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
			id, u.Profile.Telefonumber, u.Profile.Address, u.Profile.City, u.Profile.ZipCode, u.Profile.Birthday,
			u.IsVerified, u.VerificationToken,
		)
		return id, err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("user repo: create", zap.String("username", u.Username), zap.Error(err))
		return nil, err
	}
	r.logger.Info("user repo: created", zap.Int64("user_id", id))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, userSelect+`WHERE u.id = $1`, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, userSelect+`WHERE lower(u.email) = lower($1) LIMIT 1`, email))
}

func (r *postgresRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	const where = `WHERE u.username = $1 OR lower(u.email) = lower($1)
ORDER BY (u.username = $1) DESC
LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, userSelect+where, login))
}

func (r *postgresRepo) MarkVerified(ctx context.Context, id int64) error {
	return r.execProfile(ctx, `UPDATE user_profiles SET is_verified = TRUE, verification_token = '' WHERE user_id = $1`, id)
}

func (r *postgresRepo) SetPasswordResetToken(ctx context.Context, id int64, token string) error {
	return r.execProfile(ctx, `UPDATE user_profiles SET password_reset_token = $2 WHERE user_id = $1`, id, token)
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		cmd, err := tx.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
		if err != nil {
			return struct{}{}, err
		}
		if cmd.RowsAffected() == 0 {
			return struct{}{}, domain.ErrNotFound
		}
		_, err = tx.Exec(ctx, `UPDATE user_profiles SET password_reset_token = '' WHERE user_id = $1`, id)
		return struct{}{}, err
	})
	return err
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error) {
	var email *string
	if upd.Email != nil {
		lower := strings.ToLower(strings.TrimSpace(*upd.Email))
		email = &lower
	}
	_, err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		cmd, err := tx.Exec(ctx, `
UPDATE users SET
    first_name = COALESCE($2, first_name),
    last_name  = COALESCE($3, last_name),
    email      = COALESCE($4, email)
WHERE id = $1`, id, upd.FirstName, upd.LastName, email)
		if err != nil {
			return struct{}{}, err
		}
		if cmd.RowsAffected() == 0 {
			return struct{}{}, domain.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
INSERT INTO user_profiles (user_id, telefonumber, address, city, zip_code, birthday)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
    telefonumber = COALESCE(EXCLUDED.telefonumber, user_profiles.telefonumber),
    address      = COALESCE(EXCLUDED.address, user_profiles.address),
    city         = COALESCE(EXCLUDED.city, user_profiles.city),
    zip_code     = COALESCE(EXCLUDED.zip_code, user_profiles.zip_code),
    birthday     = COALESCE(EXCLUDED.birthday, user_profiles.birthday)`,
			id, upd.Telefonumber, upd.Address, upd.City, upd.ZipCode, upd.Birthday)
		return struct{}{}, err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("user repo: deleted", zap.Int64("user_id", id))
	return nil
}

func (r *postgresRepo) execProfile(ctx context.Context, q string, args ...interface{}) error {
	cmd, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.Profile.Telefonumber,
		&u.Profile.Address,
		&u.Profile.City,
		&u.Profile.ZipCode,
		&u.Profile.Birthday,
		&u.IsVerified,
		&u.VerificationToken,
		&u.PasswordResetToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("user repo: scan", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
