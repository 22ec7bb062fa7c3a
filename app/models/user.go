package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. Users with a Vendor profile may list products.
type User struct {
	gorm.Model
	Username string  `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email    string  `gorm:"size:255;not null" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Age      *int    `json:"age,omitempty"`
	Vendor   *Vendor `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// Vendor is the selling profile attached to exactly one User.
type Vendor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Image       *string   `gorm:"size:255" json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Vendor) TableName() string { return "vendors" }
