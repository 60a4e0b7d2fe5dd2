package checkout

import "math"

// Nigerian VAT rate.
const VATRate = 0.075

// VAT returns the tax on a subtotal, rounded to the kobo.
func VAT(subtotal float64) float64 {
	return math.Round(subtotal*VATRate*100) / 100
}
