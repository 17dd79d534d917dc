package service

import (
	"github.com/openbasket/openbasket-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// SellerGroup is the subset of a cart's line items belonging to one seller,
// plus the computed subtotal. Groups are computed on read, never persisted.
type SellerGroup struct {
	SellerID uint             `json:"seller_id"`
	Items    []model.CartItem `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// GroupSummary is the display-level rollup of one seller group.
type GroupSummary struct {
	SellerID  uint            `json:"seller_id"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// GroupBySeller partitions the cart's items by snapshotted seller ID. Groups
// are ordered by first appearance in the cart and items keep their cart order
// within each group, so the partition is deterministic for a given cart.
func GroupBySeller(cart *model.Cart) []SellerGroup {
	groups := make([]SellerGroup, 0)
	index := make(map[uint]int)

	for _, item := range cart.Items {
		pos, seen := index[item.SellerID]
		if !seen {
			pos = len(groups)
			index[item.SellerID] = pos
			groups = append(groups, SellerGroup{
				SellerID: item.SellerID,
				Subtotal: decimal.Zero,
			})
		}
		groups[pos].Items = append(groups[pos].Items, item)
		groups[pos].Subtotal = groups[pos].Subtotal.Add(item.LineTotal())
	}

	return groups
}

// SummarizeBySeller returns the per-seller item counts and subtotals.
// ItemCount counts line items, not quantities, so the counts across all
// groups always sum to the cart's item count.
func SummarizeBySeller(cart *model.Cart) []GroupSummary {
	groups := GroupBySeller(cart)
	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, GroupSummary{
			SellerID:  g.SellerID,
			ItemCount: len(g.Items),
			Subtotal:  g.Subtotal,
		})
	}
	return summaries
}

// IsValidForCheckout reports whether the cart has at least one seller group.
// Necessary but not sufficient: full revalidation happens in the checkout
// service.
func IsValidForCheckout(cart *model.Cart) bool {
	return cart != nil && len(cart.Items) > 0
}
