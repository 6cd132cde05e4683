package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the self-referencing navigation hierarchy. The parent
// link makes a potential graph; the service layer keeps it a tree by refusing
// reparents onto a descendant.
type Category struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null;uniqueIndex"`
	Description  string     `gorm:"column:description;not null;default:''"`
	ImagePath    *string    `gorm:"column:image_path"`
	ParentID     *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Slug         string     `gorm:"column:slug;not null;uniqueIndex"`
	Icon         string     `gorm:"column:icon;not null;default:''"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	Children     []Category `gorm:"foreignKey:ParentID"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
