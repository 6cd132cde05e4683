package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/pkg/enums"
)

// Product is the canonical catalog listing. Pricing and availability
// derivations live in internal/products and are computed, never stored.
type Product struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string                 `gorm:"column:name;not null"`
	Description       string                 `gorm:"column:description;not null;default:''"`
	Price             decimal.Decimal        `gorm:"column:price;type:numeric(10,2);not null"`
	PromoPrice        *decimal.Decimal       `gorm:"column:promo_price;type:numeric(10,2)"`
	Stock             int                    `gorm:"column:stock;not null;default:0"`
	LowStockThreshold int                    `gorm:"column:low_stock_threshold;not null;default:5"`
	Reference         *string                `gorm:"column:reference;uniqueIndex"`
	SKU               *string                `gorm:"column:sku;uniqueIndex"`
	Barcode           string                 `gorm:"column:barcode;not null;default:''"`
	WeightKG          *decimal.Decimal       `gorm:"column:weight_kg;type:numeric(8,2)"`
	Dimensions        string                 `gorm:"column:dimensions;not null;default:''"`
	Color             string                 `gorm:"column:color;not null;default:''"`
	Material          string                 `gorm:"column:material;not null;default:''"`
	Condition         enums.ProductCondition `gorm:"column:condition;not null;default:'new'"`
	CategoryID        uuid.UUID              `gorm:"column:category_id;type:uuid;not null"`
	Category          *Category              `gorm:"foreignKey:CategoryID"`
	BrandID           *uuid.UUID             `gorm:"column:brand_id;type:uuid"`
	Brand             *Brand                 `gorm:"foreignKey:BrandID"`
	SupplierID        *uuid.UUID             `gorm:"column:supplier_id;type:uuid"`
	PrimaryImagePath  string                 `gorm:"column:primary_image_path;not null;default:''"`
	IsActive          bool                   `gorm:"column:is_active;not null"`
	IsFeatured        bool                   `gorm:"column:is_featured;not null;default:false"`
	IsNew             bool                   `gorm:"column:is_new;not null;default:false"`
	MetaTitle         string                 `gorm:"column:meta_title;not null;default:''"`
	MetaDescription   string                 `gorm:"column:meta_description;not null;default:''"`
	Images            []ProductImage         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
