package enums

import "fmt"

// ProductStatus controls whether a product is visible to shoppers.
type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "published"
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusArchived  ProductStatus = "archived"
)

var validProductStatuses = []ProductStatus{
	ProductStatusPublished,
	ProductStatusDraft,
	ProductStatusArchived,
}

// String implements fmt.Stringer.
func (v ProductStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ProductStatus.
func (v ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
