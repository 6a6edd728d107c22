package helpers

import (
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SellerGroup is the set of line items one seller fulfils, with its totals.
type SellerGroup struct {
	SellerID       string          `json:"sellerId"`
	SellerName     string          `json:"sellerName"`
	Items          []cart.LineItem `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Commission     decimal.Decimal `json:"commission"`
}

// Total is the subtotal plus the group's single delivery charge.
func (g SellerGroup) Total() decimal.Decimal {
	return g.Subtotal.Add(g.DeliveryCharge)
}

// HasDigital reports whether any item in the group is a digital product.
func (g SellerGroup) HasDigital() bool {
	for _, item := range g.Items {
		if item.DigitalProduct {
			return true
		}
	}
	return false
}

// Split partitions line items by seller in first-occurrence order. Items of one
// seller ship together, so the group's delivery charge is the highest item charge.
func Split(lines []cart.LineItem, commissionRate decimal.Decimal) []SellerGroup {
	index := make(map[string]int, len(lines))
	groups := []SellerGroup{}
	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(groups)
			index[line.SellerID] = i
			groups = append(groups, SellerGroup{
				SellerID:       line.SellerID,
				SellerName:     line.SellerName,
				Subtotal:       decimal.Zero,
				DeliveryCharge: decimal.Zero,
			})
		}
		g := &groups[i]
		g.Items = append(g.Items, line)
		g.Subtotal = g.Subtotal.Add(line.Subtotal())
		if line.DeliveryCharge.GreaterThan(g.DeliveryCharge) {
			g.DeliveryCharge = line.DeliveryCharge
		}
	}
	for i := range groups {
		groups[i].Commission = Commission(groups[i].Subtotal, commissionRate)
	}
	return groups
}

// Commission applies a percentage rate to a subtotal, rounded to cents.
func Commission(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(hundred).Round(2)
}

// Totals sums subtotal, delivery and grand total across groups.
func Totals(groups []SellerGroup) (subtotal, delivery, total decimal.Decimal) {
	subtotal, delivery = decimal.Zero, decimal.Zero
	for _, g := range groups {
		subtotal = subtotal.Add(g.Subtotal)
		delivery = delivery.Add(g.DeliveryCharge)
	}
	return subtotal, delivery, subtotal.Add(delivery)
}
