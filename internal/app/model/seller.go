package model

import (
	"time"

	"gorm.io/gorm"
)

// Seller is the merchant that owns catalog products. Carts snapshot the
// seller ID onto each line item, so checkout groups are keyed by this ID.
type Seller struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"uniqueIndex" json:"email"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:SellerID" json:"-"`
}

func (Seller) TableName() string {
	return "sellers"
}
