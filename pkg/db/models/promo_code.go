package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/pkg/enums"
)

// PromoCode reduces an order subtotal when valid at placement time.
type PromoCode struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string          `gorm:"column:code;not null;uniqueIndex"`
	Description   string          `gorm:"column:description;not null;default:''"`
	Kind          enums.PromoKind `gorm:"column:kind;not null"`
	Value         decimal.Decimal `gorm:"column:value;type:numeric(10,2);not null"`
	MinimumAmount decimal.Decimal `gorm:"column:minimum_amount;type:numeric(10,2);not null;default:0"`
	MaxUses       *int            `gorm:"column:max_uses"`
	UseCount      int             `gorm:"column:use_count;not null;default:0"`
	StartsAt      time.Time       `gorm:"column:starts_at;not null"`
	EndsAt        time.Time       `gorm:"column:ends_at;not null"`
	IsActive      bool            `gorm:"column:is_active;not null"`
}

// IsValidAt reports whether the code can be redeemed at the given instant:
// active, inside the validity window, and under the usage cap when one is set.
func (p PromoCode) IsValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartsAt) || now.After(p.EndsAt) {
		return false
	}
	if p.MaxUses != nil && p.UseCount >= *p.MaxUses {
		return false
	}
	return true
}
