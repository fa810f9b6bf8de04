package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/logging"
)

type CategoryWriter interface {
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Category    string
	Name        string
	Description string
	Price       string
	Images      []domain.ProductImage
}

var products = []productSeed{
	{
		Category:    "Shirts",
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee for demo purposes",
		Price:       "19.99",
		Images: []domain.ProductImage{
			{Image: "products/demo-tee-white.png", Color: "white", ColorCode: "#ffffff"},
			{Image: "products/demo-tee-black.png", Color: "black", ColorCode: "#000000"},
		},
	},
	{
		Category:    "Shirts",
		Name:        "Demo Hoodie",
		Description: "Warm hoodie with demo logo",
		Price:       "49.00",
		Images: []domain.ProductImage{
			{Image: "products/demo-hoodie-grey.png", Color: "grey", ColorCode: "#808080"},
		},
	},
	{
		Category:    "Accessories",
		Name:        "Demo Mug",
		Description: "Ceramic mug with demo logo",
		Price:       "12.99",
		Images: []domain.ProductImage{
			{Image: "products/demo-mug.png"},
		},
	},
}

// Apply inserts basic seed data for manual testing. Products are keyed by
// name, so running it twice leaves the catalog unchanged.
func Apply(ctx context.Context, categories CategoryWriter, productRepo ProductWriter, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	categoryIDs := make(map[string]int64)

	for _, p := range products {
		id, ok := categoryIDs[p.Category]
		if !ok {
			c, err := categories.Upsert(ctx, p.Category)
			if err != nil {
				return fmt.Errorf("upsert category %s: %w", p.Category, err)
			}
			id = c.ID
			categoryIDs[p.Category] = id
		}

		categoryID := id
		saved, err := productRepo.Upsert(ctx, domain.Product{
			CategoryID:  &categoryID,
			Name:        p.Name,
			Description: p.Description,
			Price:       decimal.RequireFromString(p.Price),
			Images:      p.Images,
		})
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		logger.Info("seed: product", zap.Int64("id", saved.ID), zap.String("name", saved.Name))
	}

	return nil
}
