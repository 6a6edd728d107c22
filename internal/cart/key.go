package cart

import (
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
)

// Key builds the cart key for a product: the product id alone, or the id followed by
// every non-empty variant value in color, size, weight order, joined with "-".
func Key(productID string, variant *models.Variant) string {
	if variant.IsEmpty() {
		return productID
	}
	parts := []string{productID}
	for _, v := range []string{variant.Color, variant.Size, variant.Weight} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "-")
}
