package models

import "time"

// Category is a node in the category forest. Names are unique across the
// whole tree, not only among siblings.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	ParentID    *uint     `gorm:"index" json:"parent_id"`
	Parent      *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }
