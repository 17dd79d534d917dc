package service

import (
	"testing"

	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(t, want).Equal(got), "expected %s, got %s", want, got.String())
}

func multiSellerCart(t *testing.T) *model.Cart {
	t.Helper()
	return &model.Cart{
		BuyerID: 1,
		Items: []model.CartItem{
			{ID: 1, ProductID: 10, SellerID: 100, Quantity: 2, Color: "red", Size: "M", UnitPrice: dec(t, "20")},
			{ID: 2, ProductID: 11, SellerID: 100, Quantity: 1, Color: "blue", Size: "L", UnitPrice: dec(t, "15")},
			{ID: 3, ProductID: 12, SellerID: 200, Quantity: 1, Color: "black", Size: "S", UnitPrice: dec(t, "50")},
		},
	}
}

func TestGroupBySeller_PartitionsBySnapshotSeller(t *testing.T) {
	cart := multiSellerCart(t)

	groups := GroupBySeller(cart)

	require.Len(t, groups, 2)
	assert.Equal(t, uint(100), groups[0].SellerID)
	assert.Equal(t, uint(200), groups[1].SellerID)
	assert.Len(t, groups[0].Items, 2)
	assert.Len(t, groups[1].Items, 1)
	assertDecimal(t, "55", groups[0].Subtotal)
	assertDecimal(t, "50", groups[1].Subtotal)
}

func TestGroupBySeller_EveryItemInExactlyOneGroup(t *testing.T) {
	cart := multiSellerCart(t)

	groups := GroupBySeller(cart)

	seen := make(map[uint]int)
	total := 0
	for _, g := range groups {
		total += len(g.Items)
		for _, item := range g.Items {
			seen[item.ID]++
		}
	}
	assert.Equal(t, len(cart.Items), total)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestGroupBySeller_PreservesCartOrder(t *testing.T) {
	cart := &model.Cart{
		Items: []model.CartItem{
			{ID: 1, SellerID: 200, ProductID: 1, Quantity: 1, UnitPrice: decimal.New(1, 0)},
			{ID: 2, SellerID: 100, ProductID: 2, Quantity: 1, UnitPrice: decimal.New(1, 0)},
			{ID: 3, SellerID: 200, ProductID: 3, Quantity: 1, UnitPrice: decimal.New(1, 0)},
		},
	}

	groups := GroupBySeller(cart)

	require.Len(t, groups, 2)
	// First-appearance order: seller 200 before seller 100.
	assert.Equal(t, uint(200), groups[0].SellerID)
	assert.Equal(t, uint(100), groups[1].SellerID)
	// Cart order within the group.
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, uint(1), groups[0].Items[0].ID)
	assert.Equal(t, uint(3), groups[0].Items[1].ID)
}

func TestGroupBySeller_EmptyCart(t *testing.T) {
	groups := GroupBySeller(&model.Cart{})
	assert.Empty(t, groups)
}

func TestSummarizeBySeller(t *testing.T) {
	cart := multiSellerCart(t)

	summaries := SummarizeBySeller(cart)

	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].ItemCount)
	assert.Equal(t, 1, summaries[1].ItemCount)
	assertDecimal(t, "55", summaries[0].Subtotal)
	assertDecimal(t, "50", summaries[1].Subtotal)

	total := 0
	for _, s := range summaries {
		total += s.ItemCount
	}
	assert.Equal(t, len(cart.Items), total)
}

func TestIsValidForCheckout(t *testing.T) {
	assert.False(t, IsValidForCheckout(nil))
	assert.False(t, IsValidForCheckout(&model.Cart{}))
	assert.True(t, IsValidForCheckout(multiSellerCart(t)))
}
