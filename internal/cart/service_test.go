package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store/storetest"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T, f *fixture) Service {
	t.Helper()
	svc, err := NewService(f.users, f.products, f.sellers, f.norm)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemMergesQuantityOnSameKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.Cart{})
	svc := newTestService(t, f)
	ctx := context.Background()

	red := &models.Variant{Color: "red"}
	if _, err := svc.AddItem(ctx, "u1", AddItemInput{ProductID: "p1", Quantity: 2, Variant: red}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddItem(ctx, "u1", AddItemInput{ProductID: "p1", Quantity: 1, Variant: red})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(view.Items) != 1 || view.Items[0].CartKey != "p1-red" || view.Items[0].Quantity != 3 {
		t.Fatalf("expected merged entry p1-red x3, got %+v", view.Items)
	}
	if !view.Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected subtotal 300, got %s", view.Subtotal)
	}

	user, _ := f.users.Peek("u1")
	if !user.Cart["p1-red"].Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected price snapshot 100, got %s", user.Cart["p1-red"].Price)
	}
}

func TestAddItemRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input AddItemInput
		code  pkgerrors.Code
	}{
		{name: "zero quantity", input: AddItemInput{ProductID: "p1", Quantity: 0}, code: pkgerrors.CodeValidation},
		{name: "missing product", input: AddItemInput{ProductID: "nope", Quantity: 1}, code: pkgerrors.CodeNotFound},
		{name: "draft product", input: AddItemInput{ProductID: "p4", Quantity: 1}, code: pkgerrors.CodeValidation},
		{name: "unverified seller", input: AddItemInput{ProductID: "p3", Quantity: 1}, code: pkgerrors.CodeValidation},
		{name: "over stock", input: AddItemInput{ProductID: "p1", Quantity: 6}, code: pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		f := newFixture(t, models.Cart{})
		svc := newTestService(t, f)
		_, err := svc.AddItem(context.Background(), "u1", tc.input)
		if !pkgerrors.Is(err, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.Cart{"p1": entry("p1", 1), "p2": entry("p2", 1)})
	svc := newTestService(t, f)
	ctx := context.Background()

	view, err := svc.SetQuantity(ctx, "u1", "p2", 4)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if view.ItemCount != 5 {
		t.Fatalf("expected 5 units, got %d", view.ItemCount)
	}

	view, err = svc.RemoveItem(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].CartKey != "p2" {
		t.Fatalf("expected only p2 left, got %+v", view.Items)
	}

	if _, err := svc.SetQuantity(ctx, "u1", "p9", 1); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown key, got %v", err)
	}
}

func TestSetQuantityChecksStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.Cart{"p1": entry("p1", 1), "gone": entry("gone", 1)})
	svc := newTestService(t, f)
	ctx := context.Background()

	if _, err := svc.SetQuantity(ctx, "u1", "p1", 6); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error above stock, got %v", err)
	}
	if f.users.CountOps(storetest.OpUpdate) != 0 {
		t.Fatal("a rejected quantity must not be saved")
	}

	view, err := svc.SetQuantity(ctx, "u1", "p1", 5)
	if err != nil {
		t.Fatalf("set quantity at stock: %v", err)
	}
	if view.ItemCount != 5 {
		t.Fatalf("expected 5 units, got %d", view.ItemCount)
	}
	user, ok := f.users.Peek("u1")
	if !ok {
		t.Fatal("user u1 missing")
	}
	if _, ok := user.Cart["gone"]; ok {
		t.Fatal("entry for a missing product should be purged on reload")
	}
}

func TestSetQuantityProductOutage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.Cart{"p1": entry("p1", 1)})
	f.products.Hook = func(op storetest.Op, _ string, _ *models.Product) error {
		if op == storetest.OpGet {
			return errOutage
		}
		return nil
	}
	svc := newTestService(t, f)

	if _, err := svc.SetQuantity(context.Background(), "u1", "p1", 2); !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.users.CountOps(storetest.OpUpdate) != 0 {
		t.Fatal("nothing may be saved during an outage")
	}
}
