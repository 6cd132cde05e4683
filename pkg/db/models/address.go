package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/boutiquemaison/storefront-backend/pkg/enums"
)

// Address belongs to a customer. At most one address per (user, type) carries
// IsDefault; the accounts service clears the previous default on write rather
// than relying on a database constraint.
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Label      string            `gorm:"column:label;not null;default:''"`
	FirstName  string            `gorm:"column:first_name;not null"`
	LastName   string            `gorm:"column:last_name;not null"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      string            `gorm:"column:line2;not null;default:''"`
	City       string            `gorm:"column:city;not null"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	Country    string            `gorm:"column:country;not null;default:'Tunisie'"`
	Phone      string            `gorm:"column:phone;not null;default:''"`
	Type       enums.AddressType `gorm:"column:type;not null;default:'shipping'"`
	IsDefault  bool              `gorm:"column:is_default;not null;default:false"`
	IsActive   bool              `gorm:"column:is_active;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
