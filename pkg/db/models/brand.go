package models

import "github.com/google/uuid"

// Brand identifies the manufacturer shown on product cards and filters.
type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	LogoPath    *string   `gorm:"column:logo_path"`
	Website     string    `gorm:"column:website;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null"`
}
