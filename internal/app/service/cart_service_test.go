package service

import (
	"testing"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBuyerID = uint(42)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, nil)

	return cartService, testDB
}

func seedProduct(t *testing.T, testDB *gorm.DB, sellerID uint, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		SellerID: sellerID,
		Name:     "Test Product",
		Price:    decimal.RequireFromString(price),
		IsActive: true,
		Status:   model.ProductStatusApproved,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func seedSeller(t *testing.T, testDB *gorm.DB, name string) *model.Seller {
	t.Helper()
	seller := &model.Seller{Name: name, Email: name + "@example.com"}
	require.NoError(t, testDB.Create(seller).Error)
	return seller
}

func TestCartService_GetCart_EmptyRepresentation(t *testing.T) {
	cartService, _ := setupCartServiceTest(t)

	// No cart exists yet; must not error.
	cart, err := cartService.GetCart(testBuyerID)
	require.NoError(t, err)
	assert.Equal(t, testBuyerID, cart.BuyerID)
	assert.Empty(t, cart.Items)
	assertDecimal(t, "0", cart.TotalAmount)
}

func TestCartService_AddItem_CreatesCartLazily(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "20.00")

	cart, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, seller.ID, cart.Items[0].SellerID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assertDecimal(t, "20.00", cart.Items[0].UnitPrice)
	assertDecimal(t, "40.00", cart.TotalAmount)
}

func TestCartService_AddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "20.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	require.NoError(t, err)

	// Catalog price changes after the add; the cart keeps the snapshot.
	require.NoError(t, testDB.Model(product).Update("price", decimal.RequireFromString("99.00")).Error)

	cart, err := cartService.GetCart(testBuyerID)
	require.NoError(t, err)
	assertDecimal(t, "20.00", cart.Items[0].UnitPrice)
	assertDecimal(t, "20.00", cart.TotalAmount)
}

func TestCartService_AddItem_AccumulatesSameVariant(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)
	cart, err := cartService.AddItem(testBuyerID, product.ID, 3, "red", "M")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assertDecimal(t, "50.00", cart.TotalAmount)
}

func TestCartService_AddItem_DifferentVariantsAreSeparateLines(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	require.NoError(t, err)
	cart, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "L")
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assertDecimal(t, "20.00", cart.TotalAmount)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 0, "red", "M")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddItem_ProductMissing(t *testing.T) {
	cartService, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(testBuyerID, 9999, 1, "red", "M")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddItem_ProductInactive(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")
	require.NoError(t, testDB.Model(product).Update("is_active", false).Error)

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddItem_ProductNotApproved(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")
	require.NoError(t, testDB.Model(product).Update("status", model.ProductStatusPending).Error)

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_UpdateItemQuantity_AbsoluteSet(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	cart, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = cartService.UpdateItemQuantity(testBuyerID, itemID, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, cart.Items[0].Quantity)
	assertDecimal(t, "70.00", cart.TotalAmount)
}

func TestCartService_UpdateItemQuantity_ZeroRemovesItem(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	productA := seedProduct(t, testDB, seller.ID, "10.00")
	productB := seedProduct(t, testDB, seller.ID, "25.00")

	cart, err := cartService.AddItem(testBuyerID, productA.ID, 2, "red", "M")
	require.NoError(t, err)
	itemID := cart.Items[0].ID
	_, err = cartService.AddItem(testBuyerID, productB.ID, 1, "blue", "L")
	require.NoError(t, err)

	cart, err = cartService.UpdateItemQuantity(testBuyerID, itemID, 0)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, productB.ID, cart.Items[0].ProductID)
	assertDecimal(t, "25.00", cart.TotalAmount)

	// Deletion is persisted, not just in-memory.
	cart, err = cartService.GetCart(testBuyerID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_UpdateItemQuantity_CartNotFound(t *testing.T) {
	cartService, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateItemQuantity(testBuyerID, 1, 3)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_UpdateItemQuantity_ItemNotFound(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 1, "red", "M")
	require.NoError(t, err)

	_, err = cartService.UpdateItemQuantity(testBuyerID, 9999, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	cart, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = cartService.RemoveItem(testBuyerID, itemID)
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assertDecimal(t, "0", cart.TotalAmount)
}

func TestCartService_RemoveItem_AbsentItemIsNoOp(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(testBuyerID, 9999)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assertDecimal(t, "20.00", cart.TotalAmount)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	seller := seedSeller(t, testDB, "s1")
	product := seedProduct(t, testDB, seller.ID, "10.00")

	_, err := cartService.AddItem(testBuyerID, product.ID, 2, "red", "M")
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(testBuyerID))

	cart, err := cartService.GetCart(testBuyerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assertDecimal(t, "0", cart.TotalAmount)

	// The cart row is kept: clearing twice is fine and the next add reuses it.
	require.NoError(t, cartService.ClearCart(testBuyerID))
	var count int64
	require.NoError(t, testDB.Model(&model.Cart{}).Where("buyer_id = ?", testBuyerID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartService_ClearCart_NoCartIsNoOp(t *testing.T) {
	cartService, _ := setupCartServiceTest(t)
	assert.NoError(t, cartService.ClearCart(testBuyerID))
}

func TestCartService_TotalTracksEveryMutation(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	sellerA := seedSeller(t, testDB, "s1")
	sellerB := seedSeller(t, testDB, "s2")
	productA := seedProduct(t, testDB, sellerA.ID, "20.00")
	productB := seedProduct(t, testDB, sellerB.ID, "15.50")

	cart, err := cartService.AddItem(testBuyerID, productA.ID, 2, "red", "M")
	require.NoError(t, err)
	assertDecimal(t, "40.00", cart.TotalAmount)

	cart, err = cartService.AddItem(testBuyerID, productB.ID, 3, "blue", "S")
	require.NoError(t, err)
	assertDecimal(t, "86.50", cart.TotalAmount)

	cart, err = cartService.UpdateItemQuantity(testBuyerID, cart.Items[1].ID, 1)
	require.NoError(t, err)
	assertDecimal(t, "55.50", cart.TotalAmount)

	cart, err = cartService.RemoveItem(testBuyerID, cart.Items[0].ID)
	require.NoError(t, err)
	assertDecimal(t, "15.50", cart.TotalAmount)
}

func TestCartService_GetSummary(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t)
	sellerA := seedSeller(t, testDB, "s1")
	sellerB := seedSeller(t, testDB, "s2")
	productA := seedProduct(t, testDB, sellerA.ID, "20.00")
	productB := seedProduct(t, testDB, sellerA.ID, "15.00")
	productC := seedProduct(t, testDB, sellerB.ID, "50.00")

	_, err := cartService.AddItem(testBuyerID, productA.ID, 2, "red", "M")
	require.NoError(t, err)
	_, err = cartService.AddItem(testBuyerID, productB.ID, 1, "blue", "L")
	require.NoError(t, err)
	_, err = cartService.AddItem(testBuyerID, productC.ID, 1, "black", "S")
	require.NoError(t, err)

	summary, err := cartService.GetSummary(testBuyerID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 2, summary.SellerCount)
	assertDecimal(t, "105.00", summary.TotalAmount)
	require.Len(t, summary.SellerGroups, 2)
	assertDecimal(t, "55.00", summary.SellerGroups[0].Subtotal)
	assertDecimal(t, "50.00", summary.SellerGroups[1].Subtotal)
}

func TestCartService_GetSummary_EmptyCart(t *testing.T) {
	cartService, _ := setupCartServiceTest(t)

	summary, err := cartService.GetSummary(testBuyerID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ItemCount)
	assert.Equal(t, 0, summary.SellerCount)
	assertDecimal(t, "0", summary.TotalAmount)
}
