package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier holds sourcing metadata for back-office use.
type Supplier struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null;uniqueIndex"`
	Description  string    `gorm:"column:description;not null;default:''"`
	Email        string    `gorm:"column:email;not null;default:''"`
	Phone        string    `gorm:"column:phone;not null;default:''"`
	Address      string    `gorm:"column:address;not null;default:''"`
	Website      string    `gorm:"column:website;not null;default:''"`
	ContactName  string    `gorm:"column:contact_name;not null;default:''"`
	PaymentTerms string    `gorm:"column:payment_terms;not null;default:''"`
	LeadTimeDays *int      `gorm:"column:lead_time_days"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
