package checkout

import (
	"fmt"

	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/shopspring/decimal"
)

var transitions = map[enums.CheckoutState][]enums.CheckoutState{
	enums.CheckoutStateCart:             {enums.CheckoutStateAddressRequired, enums.CheckoutStatePaymentSelection},
	enums.CheckoutStateAddressRequired:  {enums.CheckoutStatePaymentSelection},
	enums.CheckoutStatePaymentSelection: {enums.CheckoutStatePlacing},
	enums.CheckoutStatePlacing:          {enums.CheckoutStateDone, enums.CheckoutStateFailedPartial, enums.CheckoutStateFailedAll},
	enums.CheckoutStateFailedPartial:    {enums.CheckoutStateDone},
	enums.CheckoutStateFailedAll:        {enums.CheckoutStatePaymentSelection},
}

// CanTransition reports whether the checkout may move from one state to another.
func CanTransition(from, to enums.CheckoutState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Session is the state of one checkout invocation for a user.
type Session struct {
	UserID         string                `json:"userId"`
	State          enums.CheckoutState   `json:"state"`
	History        []enums.CheckoutState `json:"history"`
	Items          []cart.LineItem       `json:"items"`
	Groups         []helpers.SellerGroup `json:"groups"`
	Removed        []string              `json:"removed"`
	CommissionRate decimal.Decimal       `json:"commissionRate"`
	CODAllowed     bool                  `json:"codAllowed"`
	Address        helpers.Address       `json:"address"`
	MissingAddress []string              `json:"missingAddress"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DeliveryCharge decimal.Decimal       `json:"deliveryCharge"`
	Total          decimal.Decimal       `json:"total"`

	cart models.Cart
}

func newSession(userID string) *Session {
	return &Session{
		UserID:         userID,
		State:          enums.CheckoutStateCart,
		History:        []enums.CheckoutState{enums.CheckoutStateCart},
		Removed:        []string{},
		MissingAddress: []string{},
	}
}

// Transition moves the session to the next state, recording it in the history.
func (s *Session) Transition(to enums.CheckoutState) error {
	if !CanTransition(s.State, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move checkout from %s to %s", s.State, to)).
			WithDetails(map[string]string{"from": string(s.State), "to": string(to)})
	}
	s.State = to
	s.History = append(s.History, to)
	return nil
}
