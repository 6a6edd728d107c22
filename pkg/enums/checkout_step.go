package enums

import "fmt"

// CheckoutStep names a write performed for a seller group while placing an order.
type CheckoutStep string

const (
	CheckoutStepCreateOrder       CheckoutStep = "create_order"
	CheckoutStepCreateInvoice     CheckoutStep = "create_invoice"
	CheckoutStepLinkInvoice       CheckoutStep = "link_invoice"
	CheckoutStepUpdateSellerStats CheckoutStep = "update_seller_stats"
	CheckoutStepNotify            CheckoutStep = "notify"
)

var validCheckoutSteps = []CheckoutStep{
	CheckoutStepCreateOrder,
	CheckoutStepCreateInvoice,
	CheckoutStepLinkInvoice,
	CheckoutStepUpdateSellerStats,
	CheckoutStepNotify,
}

// String implements fmt.Stringer.
func (v CheckoutStep) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CheckoutStep.
func (v CheckoutStep) IsValid() bool {
	for _, candidate := range validCheckoutSteps {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
