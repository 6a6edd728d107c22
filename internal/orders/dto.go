package orders

import (
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

// ListFilters narrow a user's order history.
type ListFilters struct {
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	SellerID      string
}

// OrderList is one page of a user's orders, newest first.
type OrderList = store.ListResult[models.Order]

// OrderDetail is the confirmation view of a placed order.
type OrderDetail struct {
	Order   models.Order    `json:"order"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
	Total   string          `json:"total"`
}
