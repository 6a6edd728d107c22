package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/shopspring/decimal"
)

type DropReason string

const (
	DropQuantityNotPositive DropReason = "quantity_not_positive"
	DropProductNotFound     DropReason = "product_not_found"
	DropProductUnpublished  DropReason = "product_unpublished"
	DropSellerNotFound      DropReason = "seller_not_found"
	DropSellerUnverified    DropReason = "seller_unverified"
)

// LineItem is a validated cart entry carrying live product data.
type LineItem struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	CartKey         string          `json:"cartKey"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SelectedVariant *models.Variant `json:"selectedVariant,omitempty"`
	DeliveryCharge  decimal.Decimal `json:"deliveryCharge"`
	DigitalProduct  bool            `json:"digitalProduct"`
	Stock           int             `json:"stock"`
	SellerID        string          `json:"sellerId"`
	SellerName      string          `json:"sellerName"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Dropped struct {
	CartKey   string     `json:"cartKey"`
	ProductID string     `json:"productId"`
	Reason    DropReason `json:"reason"`
}

type Normalized struct {
	Items   []LineItem
	Dropped []Dropped
}

func (n *Normalized) HasDigital() bool {
	for _, item := range n.Items {
		if item.DigitalProduct {
			return true
		}
	}
	return false
}

// Diff is the outcome of reconciling the persisted cart with a normalization run.
type Diff struct {
	Removed []string
	Cart    models.Cart
}

// Normalizer validates persisted cart entries against live product and seller records.
type Normalizer struct {
	users    store.Collection[models.User]
	products store.Collection[models.Product]
	sellers  store.Collection[models.Seller]
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

func NewNormalizer(users store.Collection[models.User], products store.Collection[models.Product], sellers store.Collection[models.Seller], logg *logger.Logger, m *metrics.CheckoutMetrics) (*Normalizer, error) {
	if users == nil {
		return nil, fmt.Errorf("users collection required")
	}
	if products == nil {
		return nil, fmt.Errorf("products collection required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("sellers collection required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Normalizer{users: users, products: products, sellers: sellers, logg: logg, metrics: m}, nil
}

// Normalize walks the cart in key order. Missing or ineligible records drop the
// entry; any other store failure aborts the run.
func (n *Normalizer) Normalize(ctx context.Context, cart models.Cart) (*Normalized, error) {
	keys := make([]string, 0, len(cart))
	for key := range cart {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &Normalized{Items: []LineItem{}, Dropped: []Dropped{}}
	sellers := newSellerCache(n.sellers)

	for _, key := range keys {
		entry := cart[key]
		drop := func(reason DropReason) {
			result.Dropped = append(result.Dropped, Dropped{CartKey: key, ProductID: entry.ID, Reason: reason})
			n.metrics.IncCartDrop(string(reason))
		}

		if entry.Quantity <= 0 {
			drop(DropQuantityNotPositive)
			continue
		}

		product, err := n.products.GetOne(ctx, entry.ID)
		if err != nil {
			if store.IsNotFound(err) {
				drop(DropProductNotFound)
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product.Status != enums.ProductStatusPublished {
			drop(DropProductUnpublished)
			continue
		}

		seller, err := sellers.get(ctx, product.Seller)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
		}
		if seller == nil {
			drop(DropSellerNotFound)
			continue
		}
		if !seller.AdminVerified {
			drop(DropSellerUnverified)
			continue
		}

		result.Items = append(result.Items, LineItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			CartKey:         key,
			Quantity:        entry.Quantity,
			Price:           product.Price,
			SelectedVariant: entry.SelectedVariant,
			DeliveryCharge:  product.DeliveryCharge,
			DigitalProduct:  product.DigitalProduct,
			Stock:           product.Stock,
			SellerID:        seller.ID,
			SellerName:      seller.Name,
		})
	}

	return result, nil
}

// Reconcile removes dropped entries from the persisted cart with a single write.
// A run without drops writes nothing.
func (n *Normalizer) Reconcile(ctx context.Context, userID string, cart models.Cart, normalized *Normalized) (*Diff, error) {
	if normalized == nil || len(normalized.Dropped) == 0 {
		return &Diff{Removed: []string{}, Cart: cart}, nil
	}

	pruned := cart.Clone()
	removed := make([]string, 0, len(normalized.Dropped))
	for _, d := range normalized.Dropped {
		delete(pruned, d.CartKey)
		removed = append(removed, d.CartKey)
	}

	if err := n.users.Update(ctx, userID, store.Fields{"cart": pruned}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save reconciled cart")
	}

	n.logg.Info(n.logg.WithFields(ctx, map[string]any{
		"user_id": userID,
		"removed": removed,
	}), "cart entries removed during normalization")

	return &Diff{Removed: removed, Cart: pruned}, nil
}

// Load reads the user, normalizes its cart and reconciles the stored copy.
// The returned user carries the reconciled cart.
func (n *Normalizer) Load(ctx context.Context, userID string) (*models.User, *Normalized, *Diff, error) {
	user, err := LoadUser(ctx, n.users, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	normalized, err := n.Normalize(ctx, user.Cart)
	if err != nil {
		return nil, nil, nil, err
	}
	diff, err := n.Reconcile(ctx, userID, user.Cart, normalized)
	if err != nil {
		return nil, nil, nil, err
	}
	user.Cart = diff.Cart
	return user, normalized, diff, nil
}

// LoadUser maps store failures for a user lookup onto coded errors.
func LoadUser(ctx context.Context, users store.Collection[models.User], userID string) (*models.User, error) {
	user, err := users.GetOne(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Cart == nil {
		user.Cart = models.Cart{}
	}
	return user, nil
}

// sellerCache remembers seller lookups, including misses, for one normalization run.
type sellerCache struct {
	sellers store.Collection[models.Seller]
	seen    map[string]*models.Seller
}

func newSellerCache(sellers store.Collection[models.Seller]) *sellerCache {
	return &sellerCache{sellers: sellers, seen: map[string]*models.Seller{}}
}

func (c *sellerCache) get(ctx context.Context, id string) (*models.Seller, error) {
	if seller, ok := c.seen[id]; ok {
		return seller, nil
	}
	seller, err := c.sellers.GetOne(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			c.seen[id] = nil
			return nil, nil
		}
		return nil, err
	}
	c.seen[id] = seller
	return seller, nil
}
