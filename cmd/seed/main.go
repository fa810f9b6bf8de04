package main

import (
	"context"

	"go.uber.org/zap"

	"shop-api/internal/config"
	"shop-api/internal/db"
	"shop-api/internal/logging"
	categoryrepo "shop-api/internal/repository/category"
	productrepo "shop-api/internal/repository/product"
	"shop-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, categoryrepo.NewPostgres(pool), productrepo.NewPostgres(pool, logger), logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}
