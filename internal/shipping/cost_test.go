package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookhub/pkg/models"
)

func physical(qty int, price float64) models.CartItem {
	return models.CartItem{BookID: "b", Format: models.FormatPhysical, Price: price, Quantity: qty}
}

func ebook(qty int, price float64) models.CartItem {
	return models.CartItem{BookID: "e", Format: models.FormatEbook, Price: price, Quantity: qty}
}

func TestCostPerItem(t *testing.T) {
	m := models.ShippingMethod{Kind: KindPhysical, BaseCost: 500, CostPerItem: 200}
	cart := []models.CartItem{physical(3, 1000)}

	assert.Equal(t, 1100.0, Cost(m, cart, Subtotal(cart)))
}

func TestCostFreeShippingThreshold(t *testing.T) {
	m := models.ShippingMethod{Kind: KindPhysical, BaseCost: 500, CostPerItem: 200, FreeShippingThreshold: 5000}

	cart := []models.CartItem{physical(2, 3000)} // subtotal 6000
	assert.Equal(t, 0.0, Cost(m, cart, Subtotal(cart)))

	cheap := []models.CartItem{physical(2, 1000)} // subtotal 2000
	assert.Equal(t, 900.0, Cost(m, cheap, Subtotal(cheap)))
}

func TestCostEbookOnly(t *testing.T) {
	m := models.ShippingMethod{Kind: KindPhysical, BaseCost: 500, CostPerItem: 200}
	cart := []models.CartItem{ebook(3, 1000)}

	assert.Equal(t, 0.0, Cost(m, cart, Subtotal(cart)))
}

func TestCostDigitalMethod(t *testing.T) {
	m := models.ShippingMethod{Kind: KindDigital}
	cart := []models.CartItem{physical(2, 1000)}

	assert.Equal(t, 0.0, Cost(m, cart, Subtotal(cart)))
}

func TestEstimate(t *testing.T) {
	// flat 500 plus 200 for each physical unit beyond the first
	assert.Equal(t, 500.0, Estimate([]models.CartItem{physical(1, 100)}))
	assert.Equal(t, 900.0, Estimate([]models.CartItem{physical(3, 100)}))
	assert.Equal(t, 0.0, Estimate([]models.CartItem{ebook(3, 100)}))

	mixed := []models.CartItem{ebook(2, 100), physical(2, 100)}
	assert.Equal(t, 700.0, Estimate(mixed))
}

func TestEbookOnly(t *testing.T) {
	assert.True(t, EbookOnly([]models.CartItem{ebook(1, 100), ebook(2, 50)}))
	assert.False(t, EbookOnly([]models.CartItem{ebook(1, 100), physical(1, 50)}))
	assert.False(t, EbookOnly(nil))
}

func TestSubtotal(t *testing.T) {
	cart := []models.CartItem{ebook(2, 1500), physical(1, 2000)}
	assert.Equal(t, 5000.0, Subtotal(cart))
}
