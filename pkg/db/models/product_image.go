package models

import "github.com/google/uuid"

// ProductImage is an ordered gallery entry owned by a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ImagePath string    `gorm:"column:image_path;not null"`
	AltText   string    `gorm:"column:alt_text;not null;default:''"`
	Position  int       `gorm:"column:position;not null;default:0"`
}
