package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-api/internal/config"
	"shop-api/internal/db"
	"shop-api/internal/events"
	"shop-api/internal/httpserver"
	"shop-api/internal/logging"
	"shop-api/internal/mail"
	addressrepo "shop-api/internal/repository/address"
	categoryrepo "shop-api/internal/repository/category"
	orderrepo "shop-api/internal/repository/order"
	productrepo "shop-api/internal/repository/product"
	tokenrepo "shop-api/internal/repository/token"
	userrepo "shop-api/internal/repository/user"
	accountsvc "shop-api/internal/service/account"
	cartsvc "shop-api/internal/service/cart"
	categorysvc "shop-api/internal/service/category"
	"shop-api/internal/service/identity"
	"shop-api/internal/service/pricing"
	productsvc "shop-api/internal/service/product"
	"shop-api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	store := sessionStore(ctx, cfg, logger)

	publisher := events.NewNoop()
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("publishing cart events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher", zap.Error(err))
		}
	}()

	mailer := mail.NewLog(logger)
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, logger)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	cartService := cartsvc.New(
		orderrepo.NewPostgres(dbpool, logger),
		productRepo,
		addressrepo.NewPostgres(dbpool),
		pricing.New(cfg.Currency),
		cartsvc.WithEvents(publisher),
		cartsvc.WithLogger(logger),
	)
	accountService := accountsvc.New(
		userrepo.NewPostgres(dbpool, logger),
		tokenrepo.NewPostgres(dbpool),
		mailer,
		accountsvc.Config{
			PublicBaseURL: cfg.PublicBaseURL,
			FrontendURL:   cfg.FrontendURL,
			AccessTTL:     cfg.AccessTokenTTL,
			RefreshTTL:    cfg.RefreshTokenTTL,
		},
		logger,
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		ProductSvc:  productService,
		CategorySvc: categoryService,
		AccountSvc:  accountService,
		Identity:    identity.New(store, logger),
	}, httpserver.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SessionCookie: cfg.SessionCookie,
		SessionTTL:    cfg.SessionTTL,
		Currency:      cfg.Currency.String(),
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// sessionStore prefers Redis so anonymous carts survive restarts and are
// shared between replicas; without REDIS_ADDR sessions live in memory.
func sessionStore(ctx context.Context, cfg config.Config, logger *zap.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, using in-memory session store")
		return session.NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return session.NewRedis(client, cfg.SessionTTL)
}
