package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/openbasket/openbasket-backend/internal/errors"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/internal/app/service"
	"github.com/openbasket/openbasket-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

// Quantity is a pointer so zero passes binding; zero or less deletes the item.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the buyer's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(buyerID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		ctrl.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// AddItem adds a product+variant line to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	cart, err := ctrl.cartService.AddItem(buyerID, req.ProductID, req.Quantity, req.Color, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "quantity must be at least 1")
		case errors.Is(err, service.ErrProductUnavailable):
			log.Warn("Product unavailable for cart", map[string]interface{}{
				"buyer_id":   buyerID,
				"product_id": req.ProductID,
			})
			apperrors.BadRequest(c, apperrors.ProductUnavailable, "product unavailable")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"buyer_id":   buyerID,
				"product_id": req.ProductID,
			})
			ctrl.respondStoreError(c, err)
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"buyer_id":   buyerID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"cart": cart,
	})
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateItemQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := ctrl.itemIDParam(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"buyer_id":     buyerID,
			"cart_item_id": itemID,
			"error":        err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(buyerID, itemID, *req.Quantity)
	if err != nil {
		ctrl.respondMutationError(c, err, buyerID, itemID)
		return
	}

	log.Info("Cart item quantity updated", map[string]interface{}{
		"buyer_id":     buyerID,
		"cart_item_id": itemID,
		"quantity":     *req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// RemoveItem deletes a line from the cart
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := ctrl.itemIDParam(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(buyerID, itemID)
	if err != nil {
		ctrl.respondMutationError(c, err, buyerID, itemID)
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"buyer_id":     buyerID,
		"cart_item_id": itemID,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(buyerID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		ctrl.respondStoreError(c, err)
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"buyer_id": buyerID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetSummary returns the per-seller rollup used by cart badges and the
// checkout review screen
// GET /api/v1/cart/summary
func (ctrl *CartController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	summary, err := ctrl.cartService.GetSummary(buyerID)
	if err != nil {
		log.Error("Failed to fetch cart summary", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		ctrl.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (ctrl *CartController) itemIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid cart item ID")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *CartController) respondMutationError(c *gin.Context, err error, buyerID, itemID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "cart not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "cart item not found")
	default:
		log.Error("Cart mutation failed", err, map[string]interface{}{
			"buyer_id":     buyerID,
			"cart_item_id": itemID,
		})
		ctrl.respondStoreError(c, err)
	}
}

// respondStoreError maps persistence failures: a lost version race is a 409
// the caller retries, everything else is surfaced through the store taxonomy.
func (ctrl *CartController) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrCartConflict) {
		apperrors.Conflict(c, apperrors.CartConflict, "cart was modified concurrently, please retry")
		return
	}
	info := apperrors.ParseStoreError(err)
	apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
}
