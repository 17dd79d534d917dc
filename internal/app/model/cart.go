package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds one buyer's pending purchases across any number of sellers.
// TotalAmount is derived from the items and recomputed before every persist;
// Version backs the optimistic compare-and-swap on writes.
type Cart struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	BuyerID     uint            `gorm:"not null;uniqueIndex" json:"buyer_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Version     uint            `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product+variant line. SellerID and UnitPrice are snapshots
// taken when the item was added; they are not refreshed on reads and can
// drift from the live catalog until checkout revalidation.
type CartItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CartID    uint            `gorm:"not null;index" json:"cart_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	SellerID  uint            `gorm:"not null;index" json:"seller_id"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	Color     string          `gorm:"not null" json:"color"`
	Size      string          `gorm:"not null" json:"size"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal returns unit price times quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Matches reports whether the item carries the same product+variant identity.
// Within one cart no two items may match; adds accumulate quantity instead.
func (i *CartItem) Matches(productID uint, color, size string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size
}

// FindItem returns the line with the given product+variant identity, or nil.
func (c *Cart) FindItem(productID uint, color, size string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].Matches(productID, color, size) {
			return &c.Items[idx]
		}
	}
	return nil
}

// FindItemByID returns the line with the given item ID, or nil.
func (c *Cart) FindItemByID(itemID uint) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// RemoveItemByID drops the line with the given ID from the in-memory item
// list. Returns whether a line was removed.
func (c *Cart) RemoveItemByID(itemID uint) bool {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return true
		}
	}
	return false
}

// RecomputeTotal re-derives TotalAmount from the current items. Must be
// called after every item mutation, before the cart is persisted.
func (c *Cart) RecomputeTotal() {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].LineTotal())
	}
	c.TotalAmount = total
}
