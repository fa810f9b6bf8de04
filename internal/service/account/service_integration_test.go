package account

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap/zaptest"

	"shop-api/internal/migrate"
	tokenrepo "shop-api/internal/repository/token"
	userrepo "shop-api/internal/repository/user"
)

func TestRegisterAndLogin_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()

	logger := zaptest.NewLogger(t)
	if err := migrate.Apply(ctx, pool, logger); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	mailer := &captureMailer{}
	svc := New(userrepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), mailer, Config{
		PublicBaseURL: "http://127.0.0.1:8080",
		FrontendURL:   "http://localhost:4200",
	}, logger)

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "integration@example.com",
		Password: goodPassword,
		Name:     "Int",
		Lastname: "User",
		City:     "Testville",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 || u.Profile.City != "Testville" {
		t.Fatalf("unexpected user %+v", u)
	}

	q := linkQuery(t, mailer.last().Text)
	if err := svc.VerifyEmail(ctx, q.Get("email"), q.Get("token")); err != nil {
		t.Fatalf("verify: %v", err)
	}

	_, access, refresh, err := svc.Login(ctx, "IntUser", goodPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected tokens, got access=%q refresh=%q", access, refresh)
	}
	if _, err := svc.LookupByToken(ctx, access); err != nil {
		t.Fatalf("lookup: %v", err)
	}
}

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE tokens, user_profiles, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
