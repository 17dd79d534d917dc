package service

import "github.com/shopspring/decimal"

// RatePolicy supplies the shipping and tax rates applied to each seller group
// at checkout. Deployments swap rates without touching the aggregation code.
type RatePolicy interface {
	// ShippingFee is charged once per seller group, never per item.
	ShippingFee() decimal.Decimal
	// TaxOn computes the tax owed on a group subtotal. Shipping is never taxed.
	TaxOn(subtotal decimal.Decimal) decimal.Decimal
}

// FlatRatePolicy charges a fixed shipping fee per seller group and a flat
// percentage tax on each group subtotal.
type FlatRatePolicy struct {
	shippingFee decimal.Decimal
	taxRate     decimal.Decimal
}

func NewFlatRatePolicy(shippingFee, taxRate decimal.Decimal) FlatRatePolicy {
	return FlatRatePolicy{shippingFee: shippingFee, taxRate: taxRate}
}

// DefaultRatePolicy returns the stock marketplace rates: 10.00 shipping per
// seller group and 5% tax on the subtotal.
func DefaultRatePolicy() FlatRatePolicy {
	return NewFlatRatePolicy(
		decimal.RequireFromString("10.00"),
		decimal.RequireFromString("0.05"),
	)
}

func (p FlatRatePolicy) ShippingFee() decimal.Decimal {
	return p.shippingFee
}

func (p FlatRatePolicy) TaxOn(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.taxRate)
}
