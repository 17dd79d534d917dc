package service

import (
	"errors"
	"fmt"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Checkout validation failure codes. Callers key buyer-facing remediation
// off these, so they are part of the API contract.
const (
	CheckoutCodeEmptyCart          = "EMPTY_CART"
	CheckoutCodeInvalidCart        = "INVALID_CART"
	CheckoutCodeMalformedItem      = "MALFORMED_ITEM"
	CheckoutCodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CheckoutCodeSellerMismatch     = "SELLER_MISMATCH"
)

// CheckoutError is a typed validation failure. ProductID names the offending
// product (zero for cart-level failures) so the buyer can be prompted to fix
// that specific line instead of the whole cart failing opaquely.
type CheckoutError struct {
	Code      string `json:"code"`
	ProductID uint   `json:"product_id,omitempty"`
	Message   string `json:"message"`
}

func (e *CheckoutError) Error() string {
	return e.Message
}

// SellerOrderProposal is one seller's slice of the checkout plan, priced and
// ready to become an order.
type SellerOrderProposal struct {
	SellerID     uint             `json:"seller_id"`
	Items        []model.CartItem `json:"items"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
	ShippingCost decimal.Decimal  `json:"shipping_cost"`
	Tax          decimal.Decimal  `json:"tax"`
	Total        decimal.Decimal  `json:"total"`
}

// CheckoutPlan is the fully priced, per-seller breakdown handed to order
// creation after validation passes.
type CheckoutPlan struct {
	SellerGroups  []SellerOrderProposal `json:"seller_groups"`
	TotalSubtotal decimal.Decimal       `json:"total_subtotal"`
	TotalShipping decimal.Decimal       `json:"total_shipping"`
	TotalTax      decimal.Decimal       `json:"total_tax"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	SellerCount   int                   `json:"seller_count"`
	CanProceed    bool                  `json:"can_proceed"`
}

type CheckoutService interface {
	ValidateForCheckout(buyerID uint) (*CheckoutPlan, error)
}

type checkoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	rates       RatePolicy
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	rates RatePolicy,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		rates:       rates,
	}
}

// ValidateForCheckout re-verifies every line item against the live catalog
// and, when everything passes, prices the cart into a per-seller plan.
// Validation is fail-fast: the first stale or malformed item aborts the
// attempt and no partial plan is returned. Snapshot price drift is accepted
// deliberately; the buyer pays the price shown in the cart.
func (s *checkoutService) ValidateForCheckout(buyerID uint) (*CheckoutPlan, error) {
	logger.Info("Validating cart for checkout", map[string]interface{}{
		"buyer_id": buyerID,
	})

	cart, err := s.cartRepo.FindByBuyerID(buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CheckoutError{
				Code:    CheckoutCodeEmptyCart,
				Message: "cart is empty",
			}
		}
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		return nil, err
	}

	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"buyer_id": buyerID,
		})
		return nil, &CheckoutError{
			Code:    CheckoutCodeEmptyCart,
			Message: "cart is empty",
		}
	}

	if !IsValidForCheckout(cart) {
		logger.Warn("Checkout rejected: cart has no seller groups", map[string]interface{}{
			"buyer_id": buyerID,
		})
		return nil, &CheckoutError{
			Code:    CheckoutCodeInvalidCart,
			Message: "cart is not valid for checkout",
		}
	}

	for idx := range cart.Items {
		item := &cart.Items[idx]

		if item.ProductID == 0 || item.Quantity <= 0 || !item.UnitPrice.IsPositive() {
			logger.Warn("Checkout rejected: malformed line item", map[string]interface{}{
				"buyer_id":     buyerID,
				"cart_item_id": item.ID,
				"product_id":   item.ProductID,
			})
			return nil, &CheckoutError{
				Code:      CheckoutCodeMalformedItem,
				ProductID: item.ProductID,
				Message:   "cart item is missing required fields",
			}
		}

		product, err := s.productRepo.FindActiveApproved(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Checkout rejected: product no longer available", map[string]interface{}{
					"buyer_id":   buyerID,
					"product_id": item.ProductID,
				})
				return nil, &CheckoutError{
					Code:      CheckoutCodeProductUnavailable,
					ProductID: item.ProductID,
					Message:   fmt.Sprintf("product %d is no longer available", item.ProductID),
				}
			}
			logger.Error("Failed to revalidate product at checkout", err, map[string]interface{}{
				"buyer_id":   buyerID,
				"product_id": item.ProductID,
			})
			return nil, err
		}

		// The snapshot must still point at the product's current owner. A
		// reassigned product fails checkout; the snapshot is never silently
		// refreshed.
		if product.SellerID != item.SellerID {
			logger.Warn("Checkout rejected: product seller changed since add", map[string]interface{}{
				"buyer_id":        buyerID,
				"product_id":      item.ProductID,
				"snapshot_seller": item.SellerID,
				"current_seller":  product.SellerID,
			})
			return nil, &CheckoutError{
				Code:      CheckoutCodeSellerMismatch,
				ProductID: item.ProductID,
				Message:   fmt.Sprintf("product %d changed seller since it was added", item.ProductID),
			}
		}
	}

	plan := s.buildPlan(cart)

	logger.Info("Checkout validation passed", map[string]interface{}{
		"buyer_id":     buyerID,
		"seller_count": plan.SellerCount,
		"grand_total":  plan.GrandTotal,
	})
	return plan, nil
}

// buildPlan prices the validated cart: shipping once per seller group, tax on
// the group subtotal only, and rounding applied once when each group total is
// computed, never re-applied at aggregation.
func (s *checkoutService) buildPlan(cart *model.Cart) *CheckoutPlan {
	groups := GroupBySeller(cart)

	plan := &CheckoutPlan{
		SellerGroups:  make([]SellerOrderProposal, 0, len(groups)),
		TotalSubtotal: decimal.Zero,
		TotalShipping: decimal.Zero,
		TotalTax:      decimal.Zero,
		SellerCount:   len(groups),
		CanProceed:    true,
	}

	for _, g := range groups {
		shipping := s.rates.ShippingFee()
		tax := s.rates.TaxOn(g.Subtotal)
		total := g.Subtotal.Add(shipping).Add(tax).Round(2)

		plan.SellerGroups = append(plan.SellerGroups, SellerOrderProposal{
			SellerID:     g.SellerID,
			Items:        g.Items,
			Subtotal:     g.Subtotal,
			ShippingCost: shipping,
			Tax:          tax,
			Total:        total,
		})

		plan.TotalSubtotal = plan.TotalSubtotal.Add(g.Subtotal)
		plan.TotalShipping = plan.TotalShipping.Add(shipping)
		plan.TotalTax = plan.TotalTax.Add(tax)
	}

	plan.GrandTotal = plan.TotalSubtotal.Add(plan.TotalShipping).Add(plan.TotalTax)
	return plan
}
