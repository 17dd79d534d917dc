package repository

import (
	"errors"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductRepository is the read-side catalog accessor the cart engine
// snapshots from. The engine never mutates the catalog; Create exists for
// seeding and the seller-facing catalog surface.
type ProductRepository interface {
	FindByID(id uint) (*model.Product, error)
	FindActiveApproved(id uint) (*model.Product, error)
	FindAll() ([]model.Product, error)
	Create(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Seller").First(&product, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveApproved looks up a product filtered to the currently purchasable
// subset (active and approved). Returns gorm.ErrRecordNotFound when the
// product is missing, deactivated, or not approved.
func (r *productRepository) FindActiveApproved(id uint) (*model.Product, error) {
	logger.Debug("Finding active approved product in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.
		Where("id = ? AND is_active = ? AND status = ?", id, true, model.ProductStatusApproved).
		First(&product).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find active approved product in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Preload("Seller").
		Where("is_active = ? AND status = ?", true, model.ProductStatusApproved).
		Order("products.id ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products in database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"seller_id": product.SellerID,
			"name":      product.Name,
		})
		return err
	}
	return nil
}
