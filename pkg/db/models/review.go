package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating for a product; one per (product, user).
// Approval is a back-office action.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating     int       `gorm:"column:rating;not null"`
	Title      string    `gorm:"column:title;not null"`
	Body       string    `gorm:"column:body;not null;default:''"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
