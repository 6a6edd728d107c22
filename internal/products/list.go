package product

import "github.com/shopspring/decimal"

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Query    string           `json:"q,omitempty"`
	SellerID string           `json:"sellerId,omitempty"`
	PriceMin *decimal.Decimal `json:"priceMin,omitempty"`
	PriceMax *decimal.Decimal `json:"priceMax,omitempty"`
	Digital  *bool            `json:"digital,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter the catalog.
type ListProductsInput struct {
	Filters ProductListFilters
	Page    int
	PerPage int
}

// ProductListResult is one catalog page.
type ProductListResult struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
	Products   []*ProductDTO `json:"products"`
}
