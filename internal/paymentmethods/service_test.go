package paymentmethods

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/angelmondragon/storefront-checkout/pkg/store/storetest"
)

func newMethods() *storetest.Memory[models.PaymentMethod] {
	return storetest.New(store.CollectionPaymentMethods,
		models.PaymentMethod{Base: models.Base{ID: "m2"}, Name: "bKash", Instructions: "Send money to the merchant number", AccountNumber: "01700000000"},
		models.PaymentMethod{Base: models.Base{ID: "m1"}, Name: "Cash on Delivery", Instructions: "Pay the courier on arrival"},
	)
}

func TestListSortedByName(t *testing.T) {
	svc, err := NewService(newMethods())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	methods, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(methods) != 2 || methods[0].Name != "Cash on Delivery" || methods[1].Name != "bKash" {
		t.Fatalf("unexpected order %+v", methods)
	}
}

func TestGetByName(t *testing.T) {
	svc, _ := NewService(newMethods())
	method, err := svc.Get(context.Background(), " bKash ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if method.AccountNumber != "01700000000" {
		t.Fatalf("unexpected method %+v", method)
	}
	if _, err := svc.Get(context.Background(), "Barter"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ""); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreOutage(t *testing.T) {
	methods := newMethods()
	methods.Hook = func(storetest.Op, string, *models.PaymentMethod) error {
		return fmt.Errorf("%w: refused", store.ErrUnavailable)
	}
	svc, _ := NewService(methods)
	if _, err := svc.List(context.Background()); !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
