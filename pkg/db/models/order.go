package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/pkg/enums"
)

// Order is the immutable-once-placed checkout record. Monetary fields are
// computed at placement (total = subtotal + shipping - discount) and never
// edited afterwards.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number            string              `gorm:"column:number;not null;uniqueIndex"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status            enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Subtotal          decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingFee       decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(10,2);not null;default:0"`
	Discount          decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total             decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	PromoCode         *string             `gorm:"column:promo_code"`
	BillingAddressID  uuid.UUID           `gorm:"column:billing_address_id;type:uuid;not null"`
	ShippingAddressID uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	CustomerNotes     string              `gorm:"column:customer_notes;not null;default:''"`
	Lines             []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
