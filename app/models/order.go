package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. No transition graph is enforced.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order groups physical and digital line items for one user. ID is a random
// UUID so ids reveal nothing about order volume.
type Order struct {
	ID            string              `gorm:"primaryKey;size:36" json:"order_id"`
	UserID        uint                `gorm:"not null;index" json:"user_id"`
	User          *User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Status        Status              `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	PhysicalItems []PhysicalOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"physical_items"`
	DigitalItems  []DigitalOrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"digital_items"`
}

func (Order) TableName() string { return "orders" }

// PhysicalOrderItem links an order to a physical product.
type PhysicalOrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"size:36;not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   PhysicalProduct `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

func (PhysicalOrderItem) TableName() string { return "physical_order_items" }

// DigitalOrderItem links an order to a digital product.
type DigitalOrderItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   string         `gorm:"size:36;not null;index" json:"order_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Product   DigitalProduct `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int            `gorm:"not null" json:"quantity"`
}

func (DigitalOrderItem) TableName() string { return "digital_order_items" }

// Line is a kind-agnostic view of one line item, priced from the product
// as currently loaded.
type Line struct {
	ID        uint            `json:"id"`
	Kind      Kind            `json:"kind"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Subtotal is price × quantity using the product's current price.
func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (i PhysicalOrderItem) Subtotal() decimal.Decimal { return Subtotal(i.Product.Price, i.Quantity) }
func (i DigitalOrderItem) Subtotal() decimal.Decimal  { return Subtotal(i.Product.Price, i.Quantity) }

// Lines flattens both item collections, physical first.
func (o *Order) Lines() []Line {
	lines := make([]Line, 0, len(o.PhysicalItems)+len(o.DigitalItems))
	for _, it := range o.PhysicalItems {
		lines = append(lines, Line{
			ID: it.ID, Kind: KindPhysical, ProductID: it.ProductID, Name: it.Product.Name,
			UnitPrice: it.Product.Price, Quantity: it.Quantity, Subtotal: it.Subtotal(),
		})
	}
	for _, it := range o.DigitalItems {
		lines = append(lines, Line{
			ID: it.ID, Kind: KindDigital, ProductID: it.ProductID, Name: it.Product.Name,
			UnitPrice: it.Product.Price, Quantity: it.Quantity, Subtotal: it.Subtotal(),
		})
	}
	return lines
}

// Total sums every line subtotal. Prices are read from the loaded products,
// so a later price change alters the total of historical orders.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.PhysicalItems {
		total = total.Add(it.Subtotal())
	}
	for _, it := range o.DigitalItems {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount is the number of line items across both collections.
func (o *Order) ItemCount() int { return len(o.PhysicalItems) + len(o.DigitalItems) }
