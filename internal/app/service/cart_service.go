package service

import (
	"errors"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/pkg/cache"
	"github.com/openbasket/openbasket-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// CartSummary is the display-level view of a buyer's cart.
type CartSummary struct {
	ItemCount    int             `json:"item_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	SellerCount  int             `json:"seller_count"`
	SellerGroups []GroupSummary  `json:"seller_groups"`
}

type CartService interface {
	GetCart(buyerID uint) (*model.Cart, error)
	AddItem(buyerID, productID uint, quantity int, color, size string) (*model.Cart, error)
	UpdateItemQuantity(buyerID, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(buyerID, itemID uint) (*model.Cart, error)
	ClearCart(buyerID uint) error
	GetSummary(buyerID uint) (*CartSummary, error)
}

type cartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	summaryCache *cache.SummaryCache
}

// NewCartService builds the cart service. summaryCache may be nil, which
// disables summary caching.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	summaryCache *cache.SummaryCache,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		summaryCache: summaryCache,
	}
}

// GetCart returns the buyer's cart, or an empty unpersisted representation
// when no cart exists yet. A missing cart is never an error.
func (s *cartService) GetCart(buyerID uint) (*model.Cart, error) {
	logger.Debug("Fetching buyer cart", map[string]interface{}{
		"buyer_id": buyerID,
	})

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCart(buyerID), nil
		}
		logger.Error("Failed to fetch buyer cart", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		return nil, err
	}

	return cart, nil
}

// AddItem snapshots the product's seller and current price onto a new line
// item, or accumulates quantity onto the existing line with the same
// (product, color, size) identity. The product must be active and approved
// at add-time; it is not re-checked until checkout.
func (s *cartService) AddItem(buyerID, productID uint, quantity int, color, size string) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"buyer_id":   buyerID,
		"product_id": productID,
		"quantity":   quantity,
		"color":      color,
		"size":       size,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindActiveApproved(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product unavailable", map[string]interface{}{
				"buyer_id":   buyerID,
				"product_id": productID,
			})
			return nil, ErrProductUnavailable
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Lazy cart creation on first add.
		cart = &model.Cart{
			BuyerID: buyerID,
			Items: []model.CartItem{{
				ProductID: productID,
				SellerID:  product.SellerID,
				Quantity:  quantity,
				Color:     color,
				Size:      size,
				UnitPrice: product.Price,
			}},
		}
		cart.RecomputeTotal()
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
		s.summaryCache.Invalidate(buyerID)
		logger.Info("Cart created with first item", map[string]interface{}{
			"buyer_id": buyerID,
			"cart_id":  cart.ID,
		})
		return cart, nil
	}

	if existing := cart.FindItem(productID, color, size); existing != nil {
		logger.Debug("Accumulating quantity onto existing line item", map[string]interface{}{
			"cart_item_id": existing.ID,
			"old_qty":      existing.Quantity,
			"added_qty":    quantity,
		})
		existing.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			SellerID:  product.SellerID,
			Quantity:  quantity,
			Color:     color,
			Size:      size,
			UnitPrice: product.Price,
		})
	}

	cart.RecomputeTotal()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.summaryCache.Invalidate(buyerID)

	logger.Info("Item added to cart", map[string]interface{}{
		"buyer_id":   buyerID,
		"cart_id":    cart.ID,
		"item_count": len(cart.Items),
	})
	return cart, nil
}

// UpdateItemQuantity sets the line's quantity to an absolute value. A value
// of zero or less removes the line entirely.
func (s *cartService) UpdateItemQuantity(buyerID, itemID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"buyer_id":     buyerID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item := cart.FindItemByID(itemID)
	if item == nil {
		logger.Warn("Cart item not found for update", map[string]interface{}{
			"buyer_id":     buyerID,
			"cart_item_id": itemID,
		})
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		cart.RemoveItemByID(itemID)
	} else {
		item.Quantity = quantity
	}

	cart.RecomputeTotal()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.summaryCache.Invalidate(buyerID)

	return cart, nil
}

// RemoveItem deletes the line item. Removing an item that is already gone is
// not an error; the totals are still recomputed and persisted.
func (s *cartService) RemoveItem(buyerID, itemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"buyer_id":     buyerID,
		"cart_item_id": itemID,
	})

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if !cart.RemoveItemByID(itemID) {
		logger.Debug("Cart item already absent, totals recomputed anyway", map[string]interface{}{
			"buyer_id":     buyerID,
			"cart_item_id": itemID,
		})
	}

	cart.RecomputeTotal()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.summaryCache.Invalidate(buyerID)

	return cart, nil
}

// ClearCart empties the cart and zeroes the total. The cart row itself is
// kept, so the buyer's next add reuses it.
func (s *cartService) ClearCart(buyerID uint) error {
	logger.Info("Clearing buyer cart", map[string]interface{}{
		"buyer_id": buyerID,
	})

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	cart.Items = []model.CartItem{}
	cart.RecomputeTotal()
	if err := s.cartRepo.Save(cart); err != nil {
		return err
	}
	s.summaryCache.Invalidate(buyerID)

	logger.Info("Buyer cart cleared", map[string]interface{}{
		"buyer_id": buyerID,
		"cart_id":  cart.ID,
	})
	return nil
}

// GetSummary returns the per-seller display rollup, served from the summary
// cache when one is configured.
func (s *cartService) GetSummary(buyerID uint) (*CartSummary, error) {
	var cached CartSummary
	if s.summaryCache.Get(buyerID, &cached) {
		logger.Debug("Cart summary served from cache", map[string]interface{}{
			"buyer_id": buyerID,
		})
		return &cached, nil
	}

	cart, err := s.GetCart(buyerID)
	if err != nil {
		return nil, err
	}

	groups := SummarizeBySeller(cart)
	summary := &CartSummary{
		ItemCount:    len(cart.Items),
		TotalAmount:  cart.TotalAmount,
		SellerCount:  len(groups),
		SellerGroups: groups,
	}
	s.summaryCache.Set(buyerID, summary)

	return summary, nil
}

func emptyCart(buyerID uint) *model.Cart {
	return &model.Cart{
		BuyerID:     buyerID,
		Items:       []model.CartItem{},
		TotalAmount: decimal.Zero,
	}
}
