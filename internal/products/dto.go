package product

import (
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/shopspring/decimal"
)

// ProductDTO is the shopper-facing view of a published product.
type ProductDTO struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Price          decimal.Decimal     `json:"price"`
	DeliveryCharge decimal.Decimal     `json:"deliveryCharge"`
	InStock        bool                `json:"inStock"`
	Stock          int                 `json:"stock"`
	DigitalProduct bool                `json:"digitalProduct"`
	Status         enums.ProductStatus `json:"status"`
	Seller         *SellerSummaryDTO   `json:"seller,omitempty"`
}

// SellerSummaryDTO is the seller block embedded in product responses.
type SellerSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewProductDTO(p *models.Product, seller *models.Seller) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		DeliveryCharge: p.DeliveryCharge,
		InStock:        p.DigitalProduct || p.Stock > 0,
		Stock:          p.Stock,
		DigitalProduct: p.DigitalProduct,
		Status:         p.Status,
	}
	if seller != nil {
		dto.Seller = &SellerSummaryDTO{ID: seller.ID, Name: seller.Name}
	}
	return dto
}
