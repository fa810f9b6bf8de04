package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"shop-api/internal/config"
	"shop-api/internal/db"
	"shop-api/internal/importer"
	"shop-api/internal/logging"
	categoryrepo "shop-api/internal/repository/category"
	productrepo "shop-api/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,description,price,category,image,color,color_code)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New("importer", cfg.LogLevel)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.String("file", filePath), zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool), logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("import finished",
		zap.Int("products", count),
		zap.String("file", filePath),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
