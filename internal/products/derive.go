package products

import (
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
)

var oneHundred = decimal.New(100, 0)

// EffectivePrice returns the price a customer pays right now: the promo price
// when one is set below the list price, the list price otherwise.
func EffectivePrice(p *models.Product) decimal.Decimal {
	if IsOnPromotion(p) {
		return *p.PromoPrice
	}
	return p.Price
}

// IsOnPromotion reports whether the product has a promo price strictly below
// its list price. A promo price at or above list counts as no promotion.
func IsOnPromotion(p *models.Product) bool {
	return p.PromoPrice != nil && p.PromoPrice.LessThan(p.Price)
}

// Savings returns the absolute discount against the list price; zero when not
// on promotion.
func Savings(p *models.Product) decimal.Decimal {
	if !IsOnPromotion(p) {
		return decimal.Zero
	}
	return p.Price.Sub(*p.PromoPrice)
}

// SavingsPercent returns the discount as a truncated whole percentage.
func SavingsPercent(p *models.Product) int {
	if !IsOnPromotion(p) || p.Price.IsZero() {
		return 0
	}
	percent := Savings(p).Mul(oneHundred).Div(p.Price)
	return int(percent.IntPart())
}

// IsLowStock reports whether the stock level sits at or below the product's
// reorder threshold.
func IsLowStock(p *models.Product) bool {
	return p.Stock <= p.LowStockThreshold
}

// IsAvailable reports whether the product can be added to a cart.
func IsAvailable(p *models.Product) bool {
	return p.IsActive && p.Stock > 0
}
