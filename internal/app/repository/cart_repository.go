package repository

import (
	"errors"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrCartConflict is returned when a save loses the version race against a
// concurrent write to the same cart. The caller re-reads and retries.
var ErrCartConflict = errors.New("cart was modified concurrently")

type CartRepository interface {
	FindByBuyerID(buyerID uint) (*model.Cart, error)
	Create(cart *model.Cart) error
	Save(cart *model.Cart) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByBuyerID(buyerID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by buyer ID in database", map[string]interface{}{
		"buyer_id": buyerID,
	})

	var cart model.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Where("buyer_id = ?", buyerID).
		First(&cart).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find cart by buyer ID in database", err, map[string]interface{}{
				"buyer_id": buyerID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart found by buyer ID in database", map[string]interface{}{
		"buyer_id":   buyerID,
		"cart_id":    cart.ID,
		"item_count": len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"buyer_id":   cart.BuyerID,
		"item_count": len(cart.Items),
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"buyer_id": cart.BuyerID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"buyer_id": cart.BuyerID,
		"cart_id":  cart.ID,
	})
	return nil
}

// Save persists the cart and its line items with compare-and-swap semantics:
// the update only applies when the in-memory Version still matches the stored
// row, so two racing read-modify-write cycles cannot silently clobber each
// other. On success the in-memory Version is bumped to match the store.
func (r *cartRepository) Save(cart *model.Cart) error {
	logger.Debug("Saving cart in database", map[string]interface{}{
		"cart_id":    cart.ID,
		"buyer_id":   cart.BuyerID,
		"version":    cart.Version,
		"item_count": len(cart.Items),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"total_amount": cart.TotalAmount,
				"version":      cart.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartConflict
		}

		keptIDs := make([]uint, 0, len(cart.Items))
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			if err := tx.Save(&cart.Items[i]).Error; err != nil {
				return err
			}
			keptIDs = append(keptIDs, cart.Items[i].ID)
		}

		stale := tx.Where("cart_id = ?", cart.ID)
		if len(keptIDs) > 0 {
			stale = stale.Where("id NOT IN ?", keptIDs)
		}
		return stale.Delete(&model.CartItem{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrCartConflict) {
			logger.Warn("Cart save lost version race", map[string]interface{}{
				"cart_id":  cart.ID,
				"buyer_id": cart.BuyerID,
				"version":  cart.Version,
			})
		} else {
			logger.Error("Failed to save cart in database", err, map[string]interface{}{
				"cart_id":  cart.ID,
				"buyer_id": cart.BuyerID,
			})
		}
		return err
	}

	cart.Version++

	logger.Debug("Cart saved in database", map[string]interface{}{
		"cart_id": cart.ID,
		"version": cart.Version,
	})
	return nil
}
