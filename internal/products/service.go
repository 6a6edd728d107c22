package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/pagination"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

// Service exposes the published catalog shoppers add to their carts.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID string) (*ProductDTO, error)
}

type service struct {
	products store.Collection[models.Product]
	sellers  store.Collection[models.Seller]
}

func NewService(products store.Collection[models.Product], sellers store.Collection[models.Seller]) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("products collection required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("sellers collection required")
	}
	return &service{products: products, sellers: sellers}, nil
}

// ListProducts pages published products. Products of unverified or missing
// sellers stay in the page count but are not returned.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	filter, err := buildFilter(input.Filters)
	if err != nil {
		return nil, err
	}

	page := pagination.NormalizePage(input.Page)
	perPage := pagination.NormalizePerPage(input.PerPage)
	list, err := s.products.GetList(ctx, page, perPage, store.ListOptions{
		Filter: filter,
		Sort:   []string{"-created"},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cache := map[string]*models.Seller{}
	result := &ProductListResult{
		Page:       list.Page,
		PerPage:    list.PerPage,
		TotalItems: list.TotalItems,
		TotalPages: list.TotalPages,
		Products:   make([]*ProductDTO, 0, len(list.Items)),
	}
	for i := range list.Items {
		p := &list.Items[i]
		seller, err := s.verifiedSeller(ctx, cache, p.Seller)
		if err != nil {
			return nil, err
		}
		if seller == nil {
			continue
		}
		result.Products = append(result.Products, NewProductDTO(p, seller))
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*ProductDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	p, err := s.products.GetOne(ctx, productID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if p.Status != enums.ProductStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	seller, err := s.verifiedSeller(ctx, map[string]*models.Seller{}, p.Seller)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(p, seller), nil
}

// verifiedSeller returns nil without error when the seller is missing or unverified.
func (s *service) verifiedSeller(ctx context.Context, cache map[string]*models.Seller, id string) (*models.Seller, error) {
	if seller, ok := cache[id]; ok {
		return seller, nil
	}
	seller, err := s.sellers.GetOne(ctx, id)
	switch {
	case err == nil:
		if !seller.AdminVerified {
			seller = nil
		}
	case store.IsNotFound(err):
		seller = nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	cache[id] = seller
	return seller, nil
}

func buildFilter(f ProductListFilters) (store.Filter, error) {
	conds := []store.Filter{store.Eq("status", string(enums.ProductStatusPublished))}
	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, store.Contains("name", q))
	}
	if f.SellerID != "" {
		conds = append(conds, store.Eq("seller", f.SellerID))
	}
	if f.PriceMin != nil && f.PriceMax != nil && f.PriceMin.GreaterThan(*f.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
	}
	if f.PriceMin != nil {
		conds = append(conds, store.Gte("price", *f.PriceMin))
	}
	if f.PriceMax != nil {
		conds = append(conds, store.Lte("price", *f.PriceMax))
	}
	if f.Digital != nil {
		conds = append(conds, store.Eq("digital_product", *f.Digital))
	}
	return store.And(conds...), nil
}
