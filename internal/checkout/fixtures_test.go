package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-checkout/internal/notifications"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/angelmondragon/storefront-checkout/pkg/store/storetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const cod = "Cash on Delivery"

var errOutage = fmt.Errorf("%w: connection reset", store.ErrUnavailable)

type fixture struct {
	users    *storetest.Memory[models.User]
	products *storetest.Memory[models.Product]
	sellers  *storetest.Memory[models.Seller]
	orders   *storetest.Memory[models.Order]
	invoices *storetest.Memory[models.Invoice]
	appInfo  *storetest.Memory[models.AppInfo]
	notifier *recordingNotifier
	locker   *stubLocker
	cfg      config.CheckoutConfig
}

func newFixture(cartEntries models.Cart) *fixture {
	return &fixture{
		users: storetest.New(store.CollectionUsers, models.User{
			Base:       models.Base{ID: "u1"},
			Name:       "Shopper",
			City:       "Dhaka",
			Street:     "12 Lake Road",
			Country:    "Bangladesh",
			PostalCode: "1207",
			Cart:       cartEntries,
		}),
		sellers: storetest.New(store.CollectionSellers,
			models.Seller{Base: models.Base{ID: "S1"}, Name: "North Traders", AdminVerified: true},
			models.Seller{Base: models.Base{ID: "S2"}, Name: "South Crafts", AdminVerified: true},
		),
		products: storetest.New(store.CollectionProducts,
			product("p1", "S1", "100", "0", false),
			product("p2", "S1", "250", "50", false),
			product("p3", "S2", "40", "10", false),
			product("ebook", "S2", "15", "0", true),
		),
		orders:   storetest.New[models.Order](store.CollectionOrders),
		invoices: storetest.New[models.Invoice](store.CollectionInvoice),
		appInfo: storetest.New(store.CollectionAppInfo,
			models.AppInfo{Base: models.Base{ID: "app"}, Commission: decimal.NewFromInt(10)},
		),
		notifier: &recordingNotifier{},
		cfg:      config.CheckoutConfig{CashOnDeliveryLabel: cod},
	}
}

func (f *fixture) service(t *testing.T) Service {
	t.Helper()
	norm, err := cart.NewNormalizer(f.users, f.products, f.sellers, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	params := ServiceParams{
		Users:      f.users,
		Sellers:    f.sellers,
		Orders:     f.orders,
		Invoices:   f.invoices,
		AppInfo:    f.appInfo,
		Normalizer: norm,
		Notifier:   f.notifier,
		Config:     f.cfg,
		Logger:     logger.Nop(),
		Metrics:    metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		Now:        func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	if f.locker != nil {
		params.Locker = f.locker
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func (f *fixture) user(t *testing.T) models.User {
	t.Helper()
	u, ok := f.users.Peek("u1")
	if !ok {
		t.Fatal("user u1 missing")
	}
	return u
}

func product(id, seller, price, delivery string, digital bool) models.Product {
	return models.Product{
		Base:           models.Base{ID: id},
		Name:           "Product " + id,
		Price:          decimal.RequireFromString(price),
		Stock:          10,
		DeliveryCharge: decimal.RequireFromString(delivery),
		DigitalProduct: digital,
		Seller:         seller,
		Status:         enums.ProductStatusPublished,
	}
}

func entry(id string, qty int, price string) models.CartEntry {
	return models.CartEntry{ID: id, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func twoSellerCart() models.Cart {
	return models.Cart{
		"p1": entry("p1", 1, "100"),
		"p3": entry("p3", 2, "40"),
	}
}

func prepaid() helpers.Payment {
	return helpers.Payment{Method: "bKash", TransactionID: "TX-991", PaymentNumber: "01700000000"}
}

type recordingNotifier struct {
	events []notifications.OrderPlacedEvent
	err    error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, event notifications.OrderPlacedEvent) error {
	n.events = append(n.events, event)
	return n.err
}

type stubLocker struct {
	busy     bool
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(context.Context, string) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.busy {
		return nil, false, nil
	}
	l.acquired++
	return func(context.Context) error {
		l.released++
		return nil
	}, true, nil
}

func failCreateForSeller(sellerID string) func(storetest.Op, string, *models.Order) error {
	return func(op storetest.Op, _ string, rec *models.Order) error {
		if op == storetest.OpCreate && rec != nil && rec.SellerID == sellerID {
			return errOutage
		}
		return nil
	}
}

var errNotifier = errors.New("broker unavailable")
