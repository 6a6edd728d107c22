package cart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/angelmondragon/storefront-checkout/pkg/store/storetest"
	"github.com/shopspring/decimal"
)

var errOutage = fmt.Errorf("%w: connection refused", store.ErrUnavailable)

type fixture struct {
	users    *storetest.Memory[models.User]
	products *storetest.Memory[models.Product]
	sellers  *storetest.Memory[models.Seller]
	norm     *Normalizer
}

func newFixture(t *testing.T, cart models.Cart) *fixture {
	t.Helper()

	f := &fixture{
		users: storetest.New(store.CollectionUsers, models.User{
			Base: models.Base{ID: "u1"},
			Name: "Shopper",
			Cart: cart,
		}),
		sellers: storetest.New(store.CollectionSellers,
			models.Seller{Base: models.Base{ID: "s1"}, Name: "Verified Goods", AdminVerified: true},
			models.Seller{Base: models.Base{ID: "s2"}, Name: "Pending Seller", AdminVerified: false},
		),
		products: storetest.New(store.CollectionProducts,
			product("p1", "s1", "100", "20", 5, enums.ProductStatusPublished),
			product("p2", "s1", "50", "50", 10, enums.ProductStatusPublished),
			product("p3", "s2", "70", "0", 10, enums.ProductStatusPublished),
			product("p4", "s1", "80", "0", 10, enums.ProductStatusDraft),
			product("p5", "ghost", "10", "0", 10, enums.ProductStatusPublished),
		),
	}

	norm, err := NewNormalizer(f.users, f.products, f.sellers, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	f.norm = norm
	return f
}

func product(id, seller, price, delivery string, stock int, status enums.ProductStatus) models.Product {
	return models.Product{
		Base:           models.Base{ID: id},
		Name:           "Product " + id,
		Price:          decimal.RequireFromString(price),
		Stock:          stock,
		DeliveryCharge: decimal.RequireFromString(delivery),
		Seller:         seller,
		Status:         status,
	}
}

func entry(id string, qty int) models.CartEntry {
	return models.CartEntry{ID: id, Quantity: qty, Price: decimal.NewFromInt(1)}
}

func isOutage(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}
