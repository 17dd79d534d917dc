package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/openbasket/openbasket-backend/internal/errors"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/internal/middleware"
	"gorm.io/gorm"
)

// ProductController is the thin read-only catalog surface the cart engine
// snapshots from. Catalog management lives with sellers, outside this service.
type ProductController struct {
	productRepo repository.ProductRepository
}

func NewProductController(productRepo repository.ProductRepository) *ProductController {
	return &ProductController{
		productRepo: productRepo,
	}
}

// ListProducts returns the purchasable catalog
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productRepo.FindAll()
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid product ID")
		return
	}

	product, err := ctrl.productRepo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
