package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/openbasket/openbasket-backend/internal/errors"
	"github.com/openbasket/openbasket-backend/internal/app/service"
	"github.com/openbasket/openbasket-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// ValidateForCheckout revalidates the cart against the live catalog and
// returns the priced per-seller plan, or a typed failure naming the
// offending product
// POST /api/v1/checkout/validate
func (ctrl *CheckoutController) ValidateForCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buyerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	plan, err := ctrl.checkoutService.ValidateForCheckout(buyerID)
	if err != nil {
		var checkoutErr *service.CheckoutError
		if errors.As(err, &checkoutErr) {
			log.Warn("Checkout validation failed", map[string]interface{}{
				"buyer_id":   buyerID,
				"code":       checkoutErr.Code,
				"product_id": checkoutErr.ProductID,
			})
			apperrors.RespondWithProductError(
				c,
				checkoutStatus(checkoutErr.Code),
				checkoutErr.Code,
				checkoutErr.Message,
				checkoutErr.ProductID,
			)
			return
		}

		log.Error("Checkout validation errored", err, map[string]interface{}{
			"buyer_id": buyerID,
		})
		info := apperrors.ParseStoreError(err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	log.Info("Checkout plan produced", map[string]interface{}{
		"buyer_id":     buyerID,
		"seller_count": plan.SellerCount,
		"grand_total":  plan.GrandTotal,
	})

	c.JSON(http.StatusOK, plan)
}

// checkoutStatus distinguishes caller mistakes (empty or malformed cart) from
// staleness the buyer has to resolve by editing the cart.
func checkoutStatus(code string) int {
	switch code {
	case service.CheckoutCodeProductUnavailable, service.CheckoutCodeSellerMismatch:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
