package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the concrete product variant.
type Kind string

const (
	KindPhysical Kind = "physical"
	KindDigital  Kind = "digital"
)

// Kinds lists every product kind in a stable order.
var Kinds = []Kind{KindPhysical, KindDigital}

// ParseKind accepts "physical" or "digital".
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPhysical, KindDigital:
		return Kind(s), true
	}
	return "", false
}

// Product is implemented by every concrete product variant.
type Product interface {
	Base() *ProductBase
	Kind() Kind
}

// NewProduct returns an empty product of the given kind.
func NewProduct(kind Kind) Product {
	if kind == KindDigital {
		return &DigitalProduct{}
	}
	return &PhysicalProduct{}
}

// ProductBase holds the columns shared by both product tables. The
// (category_id, slug) pair is unique within each table.
type ProductBase struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Image       *string         `gorm:"size:255" json:"image,omitempty"`
	VendorID    uint            `gorm:"not null;index" json:"vendor_id"`
	CategoryID  uint            `gorm:"not null;index:,unique,composite:category_slug" json:"category_id"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Active      bool            `gorm:"not null;default:true" json:"is_active"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Slug        string          `gorm:"size:120;not null;index:,unique,composite:category_slug" json:"slug"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InStock is derived from the current stock level.
func (b *ProductBase) InStock() bool { return b.Stock > 0 }

// PhysicalProduct is a shippable good.
type PhysicalProduct struct {
	ProductBase
	Dimensions *string             `gorm:"size:100" json:"dimensions,omitempty"`
	Weight     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"weight"`
}

func (PhysicalProduct) TableName() string     { return "physical_products" }
func (p *PhysicalProduct) Base() *ProductBase { return &p.ProductBase }
func (p *PhysicalProduct) Kind() Kind         { return KindPhysical }

// DigitalProduct is a downloadable or hosted good.
type DigitalProduct struct {
	ProductBase
	OS           *string `gorm:"column:os;size:100" json:"os,omitempty"`
	Requirements *string `gorm:"type:text" json:"requirements,omitempty"`
}

func (DigitalProduct) TableName() string     { return "digital_products" }
func (p *DigitalProduct) Base() *ProductBase { return &p.ProductBase }
func (p *DigitalProduct) Kind() Kind         { return KindDigital }
