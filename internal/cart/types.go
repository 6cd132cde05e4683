package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a session cart. Name, price, image and
// reference are snapshots taken at the last successful validation; the stock
// ceiling records what was available then.
type Line struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImagePath    string          `json:"image_path"`
	Reference    string          `json:"reference"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
}

// Subtotal returns quantity times the snapshot price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the session-scoped shopping cart document.
type Cart struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// lineIndex returns the position of the product's line, or -1.
func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// removeLine drops the line at index i preserving order.
func (c *Cart) removeLine(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// Totals is the computed money summary of a cart.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// ComputeTotals derives the cart money summary: flat shipping below the
// free-shipping threshold, waived at or above it. An empty cart ships free.
func ComputeTotals(c *Cart, shippingFee, freeThreshold decimal.Decimal) Totals {
	totals := Totals{
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
	if c.IsEmpty() {
		return totals
	}

	for _, line := range c.Lines {
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal())
		totals.ItemCount += line.Quantity
	}
	if totals.Subtotal.LessThan(freeThreshold) {
		totals.Shipping = shippingFee
	}
	totals.Total = totals.Subtotal.Add(totals.Shipping)
	return totals
}
