package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	SellerID    uint            `gorm:"not null;index" json:"seller_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Colors      string          `gorm:"type:text" json:"colors"` // comma-separated variant values
	Sizes       string          `gorm:"type:text" json:"sizes"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	Status      ProductStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Seller    Seller     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CartItems []CartItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// Purchasable reports whether the product can currently be added to a cart
// or pass checkout revalidation.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.Status == ProductStatusApproved
}
