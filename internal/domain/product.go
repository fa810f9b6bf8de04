package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64
	Name string
}

type ProductImage struct {
	ID        int64
	ProductID int64
	Image     string
	Color     string
	ColorCode string
}

type Product struct {
	ID           int64
	CategoryID   *int64
	CategoryName string
	Name         string
	Description  string
	Price        decimal.Decimal
	Images       []ProductImage
	CreatedAt    time.Time
}

// ProductOrdering is a whitelisted sort key for catalog listings.
type ProductOrdering string

const (
	OrderByID        ProductOrdering = ""
	OrderByPrice     ProductOrdering = "price"
	OrderByPriceDesc ProductOrdering = "-price"
	OrderByName      ProductOrdering = "name"
	OrderByNameDesc  ProductOrdering = "-name"
)

func (o ProductOrdering) Valid() bool {
	switch o {
	case OrderByID, OrderByPrice, OrderByPriceDesc, OrderByName, OrderByNameDesc:
		return true
	}
	return false
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Ordering   ProductOrdering
}
