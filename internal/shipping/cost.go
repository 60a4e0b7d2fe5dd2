package shipping

import "bookhub/pkg/models"

// Method kinds. Digital methods never charge and never gate checkout.
const (
	KindDigital  = "digital"
	KindPhysical = "physical"
)

// PhysicalCount returns the number of physical units in the cart.
func PhysicalCount(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		if it.Format == models.FormatPhysical {
			n += it.Quantity
		}
	}
	return n
}

// EbookOnly reports whether every line item is an ebook.
func EbookOnly(items []models.CartItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it.Format != models.FormatEbook {
			return false
		}
	}
	return true
}

// Subtotal sums price × quantity over the cart.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Cost is the single authoritative shipping formula. Ebook-only carts
// ship for free regardless of method; a subtotal at or above the
// method's free-shipping threshold ships free; otherwise the method's
// base cost plus its per-item cost for every physical unit applies.
func Cost(m models.ShippingMethod, items []models.CartItem, subtotal float64) float64 {
	if EbookOnly(items) || m.Kind == KindDigital {
		return 0
	}
	if m.FreeShippingThreshold > 0 && subtotal >= m.FreeShippingThreshold {
		return 0
	}
	return m.BaseCost + m.CostPerItem*float64(PhysicalCount(items))
}

// Estimate prices shipping before a method is chosen: a flat ₦500 base
// plus ₦200 for each physical unit beyond the first. Quotes only; a
// placed order with physical items always uses a real method's Cost.
func Estimate(items []models.CartItem) float64 {
	n := PhysicalCount(items)
	if n == 0 {
		return 0
	}
	return 500 + 200*float64(n-1)
}
