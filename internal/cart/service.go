package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/shopspring/decimal"
)

// Service exposes the shopper's cart.
type Service interface {
	Get(ctx context.Context, userID string) (*View, error)
	AddItem(ctx context.Context, userID string, input AddItemInput) (*View, error)
	SetQuantity(ctx context.Context, userID, cartKey string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, cartKey string) (*View, error)
}

type AddItemInput struct {
	ProductID string
	Quantity  int
	Variant   *models.Variant
}

// View is the normalized cart returned to callers.
type View struct {
	Items     []LineItem      `json:"items"`
	Removed   []string        `json:"removed"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

type service struct {
	users      store.Collection[models.User]
	products   store.Collection[models.Product]
	sellers    store.Collection[models.Seller]
	normalizer *Normalizer
}

func NewService(users store.Collection[models.User], products store.Collection[models.Product], sellers store.Collection[models.Seller], normalizer *Normalizer) (Service, error) {
	if users == nil || products == nil || sellers == nil {
		return nil, fmt.Errorf("cart collections required")
	}
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer required")
	}
	return &service{users: users, products: products, sellers: sellers, normalizer: normalizer}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*View, error) {
	_, normalized, diff, err := s.normalizer.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newView(normalized, diff.Removed), nil
}

// AddItem merges quantity into an existing entry for the same cart key and refreshes the price snapshot.
func (s *service) AddItem(ctx context.Context, userID string, input AddItemInput) (*View, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.GetOne(ctx, productID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status != enums.ProductStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	seller, err := s.sellers.GetOne(ctx, product.Seller)
	if err != nil && !store.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	if seller == nil || !seller.AdminVerified {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller is not accepting orders")
	}

	user, err := LoadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	variant := input.Variant
	if variant.IsEmpty() {
		variant = nil
	}
	key := Key(product.ID, variant)
	entry := user.Cart[key]
	quantity := entry.Quantity + input.Quantity

	if err := checkStock(product, quantity); err != nil {
		return nil, err
	}

	user.Cart[key] = models.CartEntry{
		ID:              product.ID,
		Quantity:        quantity,
		Price:           product.Price,
		SelectedVariant: variant,
	}
	if err := s.saveCart(ctx, userID, user.Cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity replaces an entry's quantity; zero or less removes the entry.
func (s *service) SetQuantity(ctx context.Context, userID, cartKey string, quantity int) (*View, error) {
	user, err := LoadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	entry, ok := user.Cart[cartKey]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if quantity <= 0 {
		delete(user.Cart, cartKey)
	} else {
		// A vanished product is left for the normalizer to purge.
		product, err := s.products.GetOne(ctx, entry.ID)
		switch {
		case err == nil:
			if err := checkStock(product, quantity); err != nil {
				return nil, err
			}
		case !store.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		entry.Quantity = quantity
		user.Cart[cartKey] = entry
	}
	if err := s.saveCart(ctx, userID, user.Cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, cartKey string) (*View, error) {
	return s.SetQuantity(ctx, userID, cartKey, 0)
}

// checkStock caps physical goods at the live stock level.
func checkStock(product *models.Product, quantity int) error {
	if product.DigitalProduct || quantity <= product.Stock {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").WithDetails(map[string]any{
		"productId": product.ID,
		"available": product.Stock,
		"requested": quantity,
	})
}

func (s *service) saveCart(ctx context.Context, userID string, cart models.Cart) error {
	if err := s.users.Update(ctx, userID, store.Fields{"cart": cart}); err != nil {
		if store.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func newView(normalized *Normalized, removed []string) *View {
	view := &View{Items: normalized.Items, Removed: removed, Subtotal: decimal.Zero}
	for _, item := range normalized.Items {
		view.Subtotal = view.Subtotal.Add(item.Subtotal())
		view.ItemCount += item.Quantity
	}
	return view
}
