package helpers

import (
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

// Payment is what the shopper submits when placing an order.
type Payment struct {
	Method        string `json:"method" validate:"required"`
	TransactionID string `json:"transactionId"`
	PaymentNumber string `json:"paymentNumber"`
}

// Address is the shipping address stored on the user record.
type Address struct {
	City       string `json:"city"`
	Street     string `json:"street"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// Apply copies the trimmed address onto the user.
func (a Address) Apply(u *models.User) {
	u.City = strings.TrimSpace(a.City)
	u.Street = strings.TrimSpace(a.Street)
	u.Country = strings.TrimSpace(a.Country)
	u.PostalCode = strings.TrimSpace(a.PostalCode)
}

// AddressOf reads the address fields off a user.
func AddressOf(u *models.User) Address {
	return Address{City: u.City, Street: u.Street, Country: u.Country, PostalCode: u.PostalCode}
}

// ValidateAddress requires every shipping field, reporting the missing ones by column name.
func ValidateAddress(a Address) error {
	var u models.User
	a.Apply(&u)
	missing := u.MissingAddressFields()
	if len(missing) == 0 {
		return nil
	}
	details := make(map[string]string, len(missing))
	for _, field := range missing {
		details[field] = "required"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").WithDetails(details)
}

// IsCashOnDelivery compares a method name with the configured COD label.
func IsCashOnDelivery(method, codLabel string) bool {
	return strings.EqualFold(strings.TrimSpace(method), strings.TrimSpace(codLabel))
}

// ValidatePayment checks the payment fields against the cart contents without
// touching the store. Prepaid methods need a transaction id and payer number;
// cash on delivery is refused for digital goods.
func ValidatePayment(p Payment, hasDigital bool, codLabel string) error {
	details := map[string]string{}
	method := strings.TrimSpace(p.Method)
	switch {
	case method == "":
		details["method"] = "required"
	case IsCashOnDelivery(method, codLabel):
		if hasDigital {
			details["method"] = "cash on delivery is not available for digital products"
		}
	default:
		if strings.TrimSpace(p.TransactionID) == "" {
			details["transactionId"] = "required"
		}
		if strings.TrimSpace(p.PaymentNumber) == "" {
			details["paymentNumber"] = "required"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment details").WithDetails(details)
}
