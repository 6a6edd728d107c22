package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-checkout/internal/notifications"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"go.uber.org/multierr"
)

const (
	outcomePlaced   = "placed"
	outcomePartial  = "partial"
	outcomeFailed   = "failed_all"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type locker interface {
	Acquire(ctx context.Context, id string) (release func(context.Context) error, ok bool, err error)
}

// Service executes checkout orchestration.
type Service interface {
	Prepare(ctx context.Context, userID string) (*Session, error)
	SaveAddress(ctx context.Context, userID string, address helpers.Address) (*Session, error)
	PlaceOrder(ctx context.Context, userID string, payment helpers.Payment) (*Result, error)
}

// Result is the outcome of a placement with at least one order written.
type Result struct {
	State       enums.CheckoutState   `json:"state"`
	History     []enums.CheckoutState `json:"history"`
	Orders      []PlacedOrder         `json:"orders"`
	Failures    []GroupFailure        `json:"failures"`
	Removed     []string              `json:"removed"`
	CartCleared bool                  `json:"cartCleared"`
	Retained    []string              `json:"retained"`
}

// FailureDetails is attached to the error returned when no seller group succeeded.
type FailureDetails struct {
	State    enums.CheckoutState   `json:"state"`
	History  []enums.CheckoutState `json:"history"`
	Failures []GroupFailure        `json:"failures"`
}

type ServiceParams struct {
	Users      store.Collection[models.User]
	Sellers    store.Collection[models.Seller]
	Orders     store.Collection[models.Order]
	Invoices   store.Collection[models.Invoice]
	AppInfo    store.Collection[models.AppInfo]
	Normalizer *cart.Normalizer
	Notifier   notifications.Notifier
	Locker     locker
	Config     config.CheckoutConfig
	Logger     *logger.Logger
	Metrics    *metrics.CheckoutMetrics
	Now        func() time.Time
}

type service struct {
	users      store.Collection[models.User]
	sellers    store.Collection[models.Seller]
	orders     store.Collection[models.Order]
	invoices   store.Collection[models.Invoice]
	appInfo    store.Collection[models.AppInfo]
	normalizer *cart.Normalizer
	notifier   notifications.Notifier
	locker     locker
	cfg        config.CheckoutConfig
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users collection required")
	}
	if params.Sellers == nil {
		return nil, fmt.Errorf("sellers collection required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders collection required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice collection required")
	}
	if params.AppInfo == nil {
		return nil, fmt.Errorf("appinfo collection required")
	}
	if params.Normalizer == nil {
		return nil, fmt.Errorf("cart normalizer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	cfg := params.Config
	if cfg.CashOnDeliveryLabel == "" {
		cfg.CashOnDeliveryLabel = "Cash on Delivery"
	}
	return &service{
		users:      params.Users,
		sellers:    params.Sellers,
		orders:     params.Orders,
		invoices:   params.Invoices,
		appInfo:    params.AppInfo,
		normalizer: params.Normalizer,
		notifier:   notifier,
		locker:     params.Locker,
		cfg:        cfg,
		logg:       params.Logger,
		metrics:    params.Metrics,
		now:        now,
	}, nil
}

// Prepare normalizes the cart, splits it by seller and decides whether the
// shopper must provide an address before choosing a payment method.
func (s *service) Prepare(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, normalized, diff, err := s.normalizer.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(normalized.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithDetails(map[string]any{"removed": diff.Removed})
	}

	sess := newSession(userID)
	sess.cart = diff.Cart
	sess.Items = normalized.Items
	sess.Removed = diff.Removed
	sess.CommissionRate = s.commissionRate(ctx)
	sess.Groups = helpers.Split(normalized.Items, sess.CommissionRate)
	sess.Subtotal, sess.DeliveryCharge, sess.Total = helpers.Totals(sess.Groups)
	sess.CODAllowed = !normalized.HasDigital()
	sess.Address = helpers.AddressOf(user)
	sess.MissingAddress = user.MissingAddressFields()

	next := enums.CheckoutStatePaymentSelection
	if len(sess.MissingAddress) > 0 {
		next = enums.CheckoutStateAddressRequired
	}
	if err := sess.Transition(next); err != nil {
		return nil, err
	}
	return sess, nil
}

// SaveAddress validates and stores the shipping address, then moves the
// session on to payment selection.
func (s *service) SaveAddress(ctx context.Context, userID string, address helpers.Address) (*Session, error) {
	if err := helpers.ValidateAddress(address); err != nil {
		return nil, err
	}
	sess, err := s.Prepare(ctx, userID)
	if err != nil {
		return nil, err
	}

	var clean models.User
	address.Apply(&clean)
	fields := store.Fields{
		"city":        clean.City,
		"street":      clean.Street,
		"country":     clean.Country,
		"postal_code": clean.PostalCode,
	}
	if err := s.users.Update(ctx, userID, fields); err != nil {
		if store.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}

	sess.Address = helpers.AddressOf(&clean)
	sess.MissingAddress = []string{}
	if sess.State == enums.CheckoutStateAddressRequired {
		if err := sess.Transition(enums.CheckoutStatePaymentSelection); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// PlaceOrder writes one order and invoice per seller group. Groups are written
// one after another; a failed group is recorded and the rest still run.
func (s *service) PlaceOrder(ctx context.Context, userID string, payment helpers.Payment) (*Result, error) {
	start := s.now()
	outcome := outcomeError
	defer func() {
		s.metrics.ObservePlacement(outcome, s.now().Sub(start))
	}()
	ctx = s.logg.WithUserID(ctx, userID)

	// Method and prepaid details do not depend on the cart; reject them before
	// the lock or any store read.
	if err := helpers.ValidatePayment(payment, false, s.cfg.CashOnDeliveryLabel); err != nil {
		outcome = outcomeRejected
		return nil, err
	}

	release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := s.Prepare(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.State == enums.CheckoutStateAddressRequired {
		outcome = outcomeRejected
		return nil, helpers.ValidateAddress(sess.Address)
	}
	if err := helpers.ValidatePayment(payment, !sess.CODAllowed, s.cfg.CashOnDeliveryLabel); err != nil {
		outcome = outcomeRejected
		return nil, err
	}
	if err := sess.Transition(enums.CheckoutStatePlacing); err != nil {
		return nil, err
	}

	cod := helpers.IsCashOnDelivery(payment.Method, s.cfg.CashOnDeliveryLabel)
	placed := []PlacedOrder{}
	failures := []GroupFailure{}
	var groupErrs error
	for _, group := range sess.Groups {
		order, failure := s.runGroup(ctx, &groupRun{userID: userID, payment: payment, cod: cod, group: group})
		if failure != nil {
			failures = append(failures, *failure)
			groupErrs = multierr.Append(groupErrs, *failure)
			continue
		}
		placed = append(placed, *order)
	}

	if len(placed) == 0 {
		outcome = outcomeFailed
		if err := sess.Transition(enums.CheckoutStateFailedAll); err != nil {
			return nil, err
		}
		if err := sess.Transition(enums.CheckoutStatePaymentSelection); err != nil {
			return nil, err
		}
		s.logg.Error(ctx, "order placement failed for every seller", groupErrs)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, groupErrs, "order placement failed").
			WithDetails(FailureDetails{State: sess.State, History: sess.History, Failures: failures})
	}

	result := &Result{
		Orders:   placed,
		Failures: failures,
		Removed:  sess.Removed,
	}
	result.Retained, result.CartCleared = s.clearCart(ctx, userID, sess, failures)

	outcome = outcomePlaced
	if len(failures) > 0 {
		outcome = outcomePartial
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"failed_groups": len(multierr.Errors(groupErrs)),
			"error":         groupErrs.Error(),
		}), "order placement partially failed")
		if err := sess.Transition(enums.CheckoutStateFailedPartial); err != nil {
			return nil, err
		}
	}
	if err := sess.Transition(enums.CheckoutStateDone); err != nil {
		return nil, err
	}
	result.State = sess.State
	result.History = sess.History

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"orders":   len(placed),
		"failures": len(failures),
	}), "checkout completed")
	return result, nil
}

// clearCart empties the stored cart after a placement. With RetainFailedItems
// the entries of failed seller groups stay in the cart. A failed write is
// logged; the orders already exist.
func (s *service) clearCart(ctx context.Context, userID string, sess *Session, failures []GroupFailure) ([]string, bool) {
	remaining := models.Cart{}
	retained := []string{}
	if s.cfg.RetainFailedItems && len(failures) > 0 {
		failed := make(map[string]struct{}, len(failures))
		for _, f := range failures {
			failed[f.SellerID] = struct{}{}
		}
		for _, item := range sess.Items {
			if _, ok := failed[item.SellerID]; !ok {
				continue
			}
			if entry, ok := sess.cart[item.CartKey]; ok {
				remaining[item.CartKey] = entry
				retained = append(retained, item.CartKey)
			}
		}
	}

	if err := s.users.Update(ctx, userID, store.Fields{"cart": remaining}); err != nil {
		s.logg.Error(ctx, "failed to clear cart after checkout", err)
		return retained, false
	}
	return retained, true
}

func (s *service) acquire(ctx context.Context, userID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, ok, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to release checkout lock")
		}
	}, nil
}
