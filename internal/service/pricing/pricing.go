package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"shop-api/internal/domain"
)

// Money is an amount in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String renders the amount with two fraction digits, e.g. "29.00".
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// Projector derives order totals from the current catalog price of each line.
type Projector struct {
	unit currency.Unit
}

func New(unit currency.Unit) *Projector {
	return &Projector{unit: unit}
}

func (p *Projector) Currency() currency.Unit {
	return p.unit
}

// LineTotal is quantity times unit price. Lines without a loaded product
// count as zero.
func (p *Projector) LineTotal(item domain.OrderItem) Money {
	if item.Product == nil {
		return Money{Amount: decimal.Zero, Currency: p.unit}
	}
	amount := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
	return Money{Amount: amount, Currency: p.unit}
}

func (p *Projector) Total(items []domain.OrderItem) Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(p.LineTotal(item).Amount)
	}
	return Money{Amount: total, Currency: p.unit}
}
