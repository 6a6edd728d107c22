package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store/storetest"
	"github.com/shopspring/decimal"
)

func TestNormalizeDropsIneligibleEntries(t *testing.T) {
	t.Parallel()

	cart := models.Cart{
		"p1":       entry("p1", 2),
		"p2-red":   {ID: "p2", Quantity: 1, SelectedVariant: &models.Variant{Color: "red"}},
		"p3":       entry("p3", 1),
		"p4":       entry("p4", 1),
		"p5":       entry("p5", 1),
		"missing":  entry("nope", 1),
		"p1-zero":  entry("p1", 0),
		"p2-minus": entry("p2", -3),
	}
	f := newFixture(t, cart)

	got, err := f.norm.Normalize(context.Background(), cart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Items) != 2 {
		t.Fatalf("expected 2 valid items, got %d", len(got.Items))
	}
	if got.Items[0].CartKey != "p1" || got.Items[1].CartKey != "p2-red" {
		t.Fatalf("items not in key order: %+v", got.Items)
	}
	if !got.Items[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected live price 100, got %s", got.Items[0].Price)
	}
	if got.Items[1].SelectedVariant == nil || got.Items[1].SelectedVariant.Color != "red" {
		t.Fatalf("variant not carried: %+v", got.Items[1])
	}
	if got.Items[0].SellerName != "Verified Goods" {
		t.Fatalf("seller name not expanded: %+v", got.Items[0])
	}

	reasons := map[string]DropReason{}
	for _, d := range got.Dropped {
		reasons[d.CartKey] = d.Reason
	}
	want := map[string]DropReason{
		"p3":       DropSellerUnverified,
		"p4":       DropProductUnpublished,
		"p5":       DropSellerNotFound,
		"missing":  DropProductNotFound,
		"p1-zero":  DropQuantityNotPositive,
		"p2-minus": DropQuantityNotPositive,
	}
	if len(reasons) != len(want) {
		t.Fatalf("expected %d drops, got %v", len(want), reasons)
	}
	for key, reason := range want {
		if reasons[key] != reason {
			t.Fatalf("key %s: expected %s got %s", key, reason, reasons[key])
		}
	}
	if len(got.Items)+len(got.Dropped) != len(cart) {
		t.Fatalf("every entry must be either an item or a drop")
	}
}

func TestNormalizeCachesSellerLookups(t *testing.T) {
	t.Parallel()

	cart := models.Cart{"p1": entry("p1", 1), "p2": entry("p2", 1)}
	f := newFixture(t, cart)

	if _, err := f.norm.Normalize(context.Background(), cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.sellers.CountOps(storetest.OpGet); got != 1 {
		t.Fatalf("expected one seller lookup, got %d", got)
	}
}

func TestNormalizeOutageAborts(t *testing.T) {
	t.Parallel()

	cart := models.Cart{"p1": entry("p1", 1), "p2": entry("p2", 1)}
	f := newFixture(t, cart)
	f.products.Hook = func(op storetest.Op, id string, _ *models.Product) error {
		if id == "p2" {
			return errOutage
		}
		return nil
	}

	_, err := f.norm.Normalize(context.Background(), cart)
	if err == nil {
		t.Fatal("expected outage to abort normalization")
	}
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !isOutage(err) {
		t.Fatalf("expected unavailable cause, got %v", err)
	}
}

func TestLoadReconcilesOnceAndIsIdempotent(t *testing.T) {
	t.Parallel()

	cart := models.Cart{"p1": entry("p1", 2), "p4": entry("p4", 1)}
	f := newFixture(t, cart)
	ctx := context.Background()

	user, first, diff, err := f.norm.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(diff.Removed) != 1 || diff.Removed[0] != "p4" {
		t.Fatalf("expected p4 removed, got %v", diff.Removed)
	}
	if _, ok := user.Cart["p4"]; ok {
		t.Fatalf("returned user should carry the reconciled cart")
	}
	if got := f.users.CountOps(storetest.OpUpdate); got != 1 {
		t.Fatalf("expected exactly one cart write, got %d", got)
	}

	_, second, diff, err := f.norm.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(diff.Removed) != 0 || len(second.Dropped) != 0 {
		t.Fatalf("second pass should drop nothing, got %+v", second.Dropped)
	}
	if got := f.users.CountOps(storetest.OpUpdate); got != 1 {
		t.Fatalf("clean cart must not be rewritten, got %d writes", got)
	}
	if len(first.Items) != len(second.Items) || first.Items[0].CartKey != second.Items[0].CartKey {
		t.Fatalf("normalization not idempotent: %+v vs %+v", first.Items, second.Items)
	}
}

func TestLoadUnknownUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.Cart{})
	_, _, _, err := f.norm.Load(context.Background(), "nobody")
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
