package checkout

import (
	"strings"

	"bookhub/internal/shipping"
	"bookhub/pkg/models"
)

// Step titles.
const (
	StepCustomerInfo    = "Customer Info"
	StepShippingAddress = "Shipping Address"
	StepShippingMethod  = "Shipping Method"
	StepPayment         = "Payment"
)

type Step struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Steps derives the flow from the cart: customer info always comes
// first and payment always comes last; the two shipping steps only
// exist when at least one line item is physical. Ebook-only carts get
// the short two-step flow.
func Steps(items []models.CartItem) []Step {
	titles := []string{StepCustomerInfo}
	if shipping.PhysicalCount(items) > 0 {
		titles = append(titles, StepShippingAddress, StepShippingMethod)
	}
	titles = append(titles, StepPayment)

	steps := make([]Step, len(titles))
	for i, t := range titles {
		steps[i] = Step{Number: i + 1, Title: t}
	}
	return steps
}

func filled(ss ...string) bool {
	for _, s := range ss {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// StepValid is the pure per-step gate. It only reads the form, never
// any stored history.
func StepValid(title string, form models.CheckoutForm) bool {
	switch title {
	case StepCustomerInfo:
		return filled(form.Shipping.FirstName, form.Shipping.LastName, form.Shipping.Email) &&
			strings.Contains(form.Shipping.Email, "@")
	case StepShippingAddress:
		if !filled(form.Shipping.Street, form.Shipping.City, form.Shipping.State, form.Shipping.LGA) {
			return false
		}
		if form.Billing.SameAsShipping {
			return true
		}
		return filled(form.Billing.Street, form.Billing.City, form.Billing.State)
	case StepShippingMethod:
		return filled(form.ShippingMethodID)
	case StepPayment:
		return filled(form.Payment.Method)
	}
	return false
}

// CompletedSteps re-runs every predicate against the current form.
func CompletedSteps(steps []Step, form models.CheckoutForm) []int {
	var done []int
	for _, s := range steps {
		if StepValid(s.Title, form) {
			done = append(done, s.Number)
		}
	}
	return done
}

// CanNavigate permits moving to a step only if it is already completed
// or is the current step; jumping ahead is refused.
func CanNavigate(steps []Step, form models.CheckoutForm, current, target int) bool {
	if target == current {
		return true
	}
	for _, n := range CompletedSteps(steps, form) {
		if n == target {
			return true
		}
	}
	return false
}

// FirstInvalidStep returns the first step whose gate fails, or nil when
// the whole flow validates.
func FirstInvalidStep(steps []Step, form models.CheckoutForm) *Step {
	for i := range steps {
		if !StepValid(steps[i].Title, form) {
			return &steps[i]
		}
	}
	return nil
}
