package cart

import "github.com/angelmondragon/storefront-checkout/pkg/db/models"

type addItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Variant   *models.Variant `json:"selectedVariant,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}
