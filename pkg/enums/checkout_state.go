package enums

import "fmt"

// CheckoutState is a node of the checkout session state machine.
type CheckoutState string

const (
	CheckoutStateCart             CheckoutState = "cart"
	CheckoutStateAddressRequired  CheckoutState = "address_required"
	CheckoutStatePaymentSelection CheckoutState = "payment_selection"
	CheckoutStatePlacing          CheckoutState = "placing"
	CheckoutStateDone             CheckoutState = "done"
	CheckoutStateFailedPartial    CheckoutState = "failed_partial"
	CheckoutStateFailedAll        CheckoutState = "failed_all"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateCart,
	CheckoutStateAddressRequired,
	CheckoutStatePaymentSelection,
	CheckoutStatePlacing,
	CheckoutStateDone,
	CheckoutStateFailedPartial,
	CheckoutStateFailedAll,
}

// String implements fmt.Stringer.
func (v CheckoutState) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CheckoutState.
func (v CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
