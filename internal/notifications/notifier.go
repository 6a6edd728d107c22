// Package notifications publishes order events after checkout has written an
// order and its invoice. Publishing is best effort; the caller logs failures.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "order_placed"

// OrderPlacedEvent is emitted once per seller group that produced an order and invoice.
type OrderPlacedEvent struct {
	EventID       string          `json:"event_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	OrderID       string          `json:"order_id"`
	InvoiceID     string          `json:"invoice_id"`
	UserID        string          `json:"user_id"`
	SellerID      string          `json:"seller_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// Notifier is the notification hook run as the last checkout step.
type Notifier interface {
	OrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}

// Closer is implemented by notifiers holding transport resources.
type Closer interface {
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) OrderPlaced(context.Context, OrderPlacedEvent) error { return nil }

// encode fills the envelope defaults and marshals the event.
func encode(event OrderPlacedEvent) (OrderPlacedEvent, []byte, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return event, nil, fmt.Errorf("marshal %s event: %w", EventOrderPlaced, err)
	}
	return event, data, nil
}

// Deps carries the transports a notifier may be built on.
type Deps struct {
	Publisher publisher
	Writer    messageWriter
	Logger    *logger.Logger
}

// New selects a notifier by the configured kind.
func New(cfg config.NotifierConfig, deps Deps) (Notifier, error) {
	switch cfg.Kind {
	case "", config.NotifierNone:
		return Noop{}, nil
	case config.NotifierPubSub:
		return NewPubSub(deps.Publisher, deps.Logger)
	case config.NotifierKafka:
		return NewKafka(deps.Writer, deps.Logger)
	default:
		return nil, fmt.Errorf("unknown notifier kind %q", cfg.Kind)
	}
}
