package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

// Service exposes a shopper's placed orders.
type Service interface {
	List(ctx context.Context, userID string, page, perPage int, filters ListFilters) (*OrderList, error)
	Get(ctx context.Context, userID, orderID string) (*OrderDetail, error)
}

type service struct {
	orders   store.Collection[models.Order]
	invoices store.Collection[models.Invoice]
}

// NewService builds the orders read service.
func NewService(orders store.Collection[models.Order], invoices store.Collection[models.Invoice]) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders collection required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice collection required")
	}
	return &service{orders: orders, invoices: invoices}, nil
}

func (s *service) List(ctx context.Context, userID string, page, perPage int, filters ListFilters) (*OrderList, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	conds := []store.Filter{store.Eq("user_id", userID)}
	if filters.OrderStatus != nil {
		if !filters.OrderStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		conds = append(conds, store.Eq("order_status", string(*filters.OrderStatus)))
	}
	if filters.PaymentStatus != nil {
		if !filters.PaymentStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		conds = append(conds, store.Eq("payment_status", string(*filters.PaymentStatus)))
	}
	if filters.SellerID != "" {
		conds = append(conds, store.Eq("seller_id", filters.SellerID))
	}

	var filter store.Filter = conds[0]
	if len(conds) > 1 {
		filter = store.And(conds...)
	}
	list, err := s.orders.GetList(ctx, page, perPage, store.ListOptions{
		Filter: filter,
		Sort:   []string{"-created"},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Get returns an order owned by the user with its invoice. Orders of other
// users are reported as missing.
func (s *service) Get(ctx context.Context, userID, orderID string) (*OrderDetail, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.orders.GetOne(ctx, orderID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	detail := &OrderDetail{Order: *order, Total: order.Total().StringFixed(2)}
	if order.Invoice == "" {
		return detail, nil
	}
	invoice, err := s.invoices.GetOne(ctx, order.Invoice)
	switch {
	case err == nil:
		detail.Invoice = invoice
	case store.IsNotFound(err):
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return detail, nil
}
