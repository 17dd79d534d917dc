package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/internal/app/service"
	"github.com/openbasket/openbasket-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCheckoutControllerTest(t *testing.T) (*gin.Engine, service.CartService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo, nil)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, service.DefaultRatePolicy())
	checkoutController := NewCheckoutController(checkoutService)

	seller := &model.Seller{Name: "Test Seller", Email: "seller@example.com"}
	testDB.Create(seller)

	product := &model.Product{
		SellerID: seller.ID,
		Name:     "Test Product",
		Price:    decimal.RequireFromString("40.00"),
		IsActive: true,
		Status:   model.ProductStatusApproved,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkout/validate", func(c *gin.Context) {
		setBuyerInContext(c, testBuyerID)
		checkoutController.ValidateForCheckout(c)
	})

	return router, cartService, testDB, product
}

func TestCheckoutController_Validate_Success(t *testing.T) {
	router, cartService, _, product := setupCheckoutControllerTest(t)

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout/validate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var plan service.CheckoutPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.True(t, plan.CanProceed)
	assert.Equal(t, 1, plan.SellerCount)
	// 40.00 + 10.00 shipping + 2.00 tax
	assert.True(t, plan.GrandTotal.Equal(decimal.RequireFromString("52.00")),
		"grand total = %s", plan.GrandTotal)
}

func TestCheckoutController_Validate_EmptyCart(t *testing.T) {
	router, _, _, _ := setupCheckoutControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout/validate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_CART")
}

func TestCheckoutController_Validate_StaleProductConflicts(t *testing.T) {
	router, cartService, testDB, product := setupCheckoutControllerTest(t)

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	require.NoError(t, err)

	require.NoError(t, testDB.Model(product).Update("is_active", false).Error)

	req := httptest.NewRequest(http.MethodPost, "/checkout/validate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error     string `json:"error"`
		ProductID uint   `json:"product_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PRODUCT_UNAVAILABLE", resp.Error)
	assert.Equal(t, product.ID, resp.ProductID)
}
