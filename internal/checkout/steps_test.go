package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookhub/pkg/models"
)

func ebookCart() []models.CartItem {
	return []models.CartItem{{BookID: "b1", Format: models.FormatEbook, Price: 1000, Quantity: 1}}
}

func mixedCart() []models.CartItem {
	return []models.CartItem{
		{BookID: "b1", Format: models.FormatEbook, Price: 1000, Quantity: 1},
		{BookID: "b2", Format: models.FormatPhysical, Price: 2000, Quantity: 2},
	}
}

func validForm() models.CheckoutForm {
	var f models.CheckoutForm
	f.Shipping = models.Address{
		FirstName: "Ada", LastName: "Obi", Email: "ada@example.com",
		Street: "12 Marina Rd", City: "Ikeja", State: "Lagos", LGA: "Ikeja",
	}
	f.Billing.SameAsShipping = true
	f.Payment.Method = "card"
	f.ShippingMethodID = "ship-standard"
	return f
}

func TestStepsEbookOnly(t *testing.T) {
	steps := Steps(ebookCart())

	assert.Len(t, steps, 2)
	assert.Equal(t, StepCustomerInfo, steps[0].Title)
	assert.Equal(t, StepPayment, steps[1].Title)
	assert.Equal(t, 1, steps[0].Number)
	assert.Equal(t, 2, steps[1].Number)
}

func TestStepsWithPhysicalItems(t *testing.T) {
	steps := Steps(mixedCart())

	assert.Len(t, steps, 4)
	titles := []string{steps[0].Title, steps[1].Title, steps[2].Title, steps[3].Title}
	assert.Equal(t, []string{StepCustomerInfo, StepShippingAddress, StepShippingMethod, StepPayment}, titles)
}

func TestStepValidCustomerInfo(t *testing.T) {
	var f models.CheckoutForm
	assert.False(t, StepValid(StepCustomerInfo, f))

	f.Shipping.FirstName = "Ada"
	f.Shipping.LastName = "Obi"
	assert.False(t, StepValid(StepCustomerInfo, f))

	f.Shipping.Email = "not-an-email"
	assert.False(t, StepValid(StepCustomerInfo, f))

	f.Shipping.Email = "ada@example.com"
	assert.True(t, StepValid(StepCustomerInfo, f))
}

func TestStepValidAddressBilling(t *testing.T) {
	f := validForm()
	assert.True(t, StepValid(StepShippingAddress, f))

	// with its own billing address, billing fields become mandatory
	f.Billing.SameAsShipping = false
	assert.False(t, StepValid(StepShippingAddress, f))

	f.Billing.Street = "1 Broad St"
	f.Billing.City = "Lagos Island"
	f.Billing.State = "Lagos"
	assert.True(t, StepValid(StepShippingAddress, f))
}

func TestCompletedStepsDerivedFromForm(t *testing.T) {
	steps := Steps(mixedCart())

	var f models.CheckoutForm
	f.Shipping.FirstName = "Ada"
	f.Shipping.LastName = "Obi"
	f.Shipping.Email = "ada@example.com"

	assert.Equal(t, []int{1}, CompletedSteps(steps, f))

	// wiping a field un-completes the step; there is no stored history
	f.Shipping.Email = ""
	assert.Empty(t, CompletedSteps(steps, f))
}

func TestCanNavigateNoJumpAhead(t *testing.T) {
	steps := Steps(mixedCart())
	var f models.CheckoutForm
	f.Shipping.FirstName = "Ada"
	f.Shipping.LastName = "Obi"
	f.Shipping.Email = "ada@example.com"

	assert.True(t, CanNavigate(steps, f, 2, 2))  // current step always allowed
	assert.True(t, CanNavigate(steps, f, 2, 1))  // back to a completed step
	assert.False(t, CanNavigate(steps, f, 2, 3)) // not completed yet
	assert.False(t, CanNavigate(steps, f, 1, 4))
}

func TestFirstInvalidStep(t *testing.T) {
	steps := Steps(mixedCart())

	f := validForm()
	assert.Nil(t, FirstInvalidStep(steps, f))

	f.ShippingMethodID = ""
	bad := FirstInvalidStep(steps, f)
	if assert.NotNil(t, bad) {
		assert.Equal(t, StepShippingMethod, bad.Title)
	}
}

func TestVAT(t *testing.T) {
	assert.Equal(t, 750.0, VAT(10000))
	assert.Equal(t, 150.0, VAT(2000))
	assert.Equal(t, 0.0, VAT(0))
}
