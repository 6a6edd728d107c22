package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-checkout/internal/notifications"
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

// GroupFailure names the seller whose writes stopped and the step that failed.
type GroupFailure struct {
	SellerID   string             `json:"sellerId"`
	SellerName string             `json:"sellerName"`
	Step       enums.CheckoutStep `json:"step"`
	Message    string             `json:"message"`

	err error
}

func (f GroupFailure) Error() string {
	return fmt.Sprintf("seller %s failed at %s: %v", f.SellerID, f.Step, f.err)
}

func (f GroupFailure) Unwrap() error { return f.err }

// PlacedOrder is one seller group that produced an order and its invoice.
type PlacedOrder struct {
	SellerID   string         `json:"sellerId"`
	SellerName string         `json:"sellerName"`
	Order      models.Order   `json:"order"`
	Invoice    models.Invoice `json:"invoice"`
}

// groupRun carries one seller group through the write steps.
type groupRun struct {
	userID  string
	payment helpers.Payment
	cod     bool
	group   helpers.SellerGroup
	order   *models.Order
	invoice *models.Invoice
}

type sagaStep struct {
	name enums.CheckoutStep
	run  func(context.Context, *groupRun) error
}

// writeSteps run in order; the first failure stops the group.
func (s *service) writeSteps() []sagaStep {
	return []sagaStep{
		{name: enums.CheckoutStepCreateOrder, run: s.createOrder},
		{name: enums.CheckoutStepCreateInvoice, run: s.createInvoice},
		{name: enums.CheckoutStepLinkInvoice, run: s.linkInvoice},
		{name: enums.CheckoutStepUpdateSellerStats, run: s.updateSellerStats},
	}
}

// runGroup writes one seller group. The notify step runs after the writes and
// its failure is only logged.
func (s *service) runGroup(ctx context.Context, run *groupRun) (*PlacedOrder, *GroupFailure) {
	ctx = s.logg.WithSellerID(ctx, run.group.SellerID)

	for _, step := range s.writeSteps() {
		if err := step.run(ctx, run); err != nil {
			s.metrics.IncStepFailure(string(step.name))
			s.logg.Error(s.logg.WithField(ctx, "checkout_step", string(step.name)), "seller group write failed", err)
			return nil, &GroupFailure{
				SellerID:   run.group.SellerID,
				SellerName: run.group.SellerName,
				Step:       step.name,
				Message:    fmt.Sprintf("order with %s could not be placed", sellerLabel(run.group)),
				err:        err,
			}
		}
	}
	s.metrics.IncGroupPlaced()

	if err := s.notify(ctx, run); err != nil {
		s.metrics.IncStepFailure(string(enums.CheckoutStepNotify))
		s.logg.Error(s.logg.WithField(ctx, "checkout_step", string(enums.CheckoutStepNotify)), "order notification failed", err)
	}

	return &PlacedOrder{
		SellerID:   run.group.SellerID,
		SellerName: run.group.SellerName,
		Order:      *run.order,
		Invoice:    *run.invoice,
	}, nil
}

func (s *service) createOrder(ctx context.Context, run *groupRun) error {
	g := run.group
	order := &models.Order{
		UserID:         run.userID,
		SellerID:       g.SellerID,
		ProductPrice:   g.Subtotal,
		DeliveryCharge: g.DeliveryCharge,
		Products:       models.StringList{},
		ProductsID:     models.OrderProducts{},
		Variants:       models.Variants{},
		Commission:     g.Commission,
		PaymentStatus:  enums.PaymentStatusPending,
		OrderStatus:    enums.OrderStatusHold,
		PaymentMethod:  run.payment.Method,
	}
	if !run.cod {
		order.TransactionID = run.payment.TransactionID
		order.PaymentNumber = run.payment.PaymentNumber
	}
	for _, item := range g.Items {
		order.Products = append(order.Products, item.ProductID)
		order.ProductsID = append(order.ProductsID, models.OrderProduct{
			ID:       item.ProductID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
		if !item.SelectedVariant.IsEmpty() {
			order.Variants[item.ProductID] = *item.SelectedVariant
		}
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	run.order = order
	return nil
}

func (s *service) createInvoice(ctx context.Context, run *groupRun) error {
	g := run.group
	invoice := &models.Invoice{
		Order:          run.order.ID,
		Status:         enums.InvoiceStatusPending,
		TotalAmount:    g.Total(),
		ProductPrice:   g.Subtotal,
		DeliveryCharge: g.DeliveryCharge,
		Commission:     g.Commission,
		User:           run.userID,
		Seller:         g.SellerID,
		TransactionID:  run.order.TransactionID,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return fmt.Errorf("create invoice for order %s: %w", run.order.ID, err)
	}
	run.invoice = invoice
	return nil
}

func (s *service) linkInvoice(ctx context.Context, run *groupRun) error {
	if err := s.orders.Update(ctx, run.order.ID, store.Fields{"invoice": run.invoice.ID}); err != nil {
		return fmt.Errorf("link invoice %s to order %s: %w", run.invoice.ID, run.order.ID, err)
	}
	run.order.Invoice = run.invoice.ID
	return nil
}

// updateSellerStats adds the group to the seller's running totals. Balance only
// grows for prepaid orders; cash on delivery is credited once collected.
func (s *service) updateSellerStats(ctx context.Context, run *groupRun) error {
	g := run.group
	deltas := store.Fields{
		"total_sale":       g.Subtotal,
		"total_commission": g.Commission,
		"total_orders":     1,
	}
	if !run.cod {
		deltas["total_balance"] = g.Total().Sub(g.Commission)
	}
	if err := s.sellers.Increment(ctx, g.SellerID, deltas); err != nil {
		return fmt.Errorf("update seller %s stats: %w", g.SellerID, err)
	}
	return nil
}

func (s *service) notify(ctx context.Context, run *groupRun) error {
	return s.notifier.OrderPlaced(ctx, notifications.OrderPlacedEvent{
		OccurredAt:    s.now().UTC(),
		OrderID:       run.order.ID,
		InvoiceID:     run.invoice.ID,
		UserID:        run.userID,
		SellerID:      run.group.SellerID,
		TotalAmount:   run.group.Total(),
		PaymentMethod: run.payment.Method,
	})
}

func sellerLabel(g helpers.SellerGroup) string {
	if g.SellerName != "" {
		return g.SellerName
	}
	return g.SellerID
}
