package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-checkout/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-checkout/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

type stubCartService struct {
	get         func(ctx context.Context, userID string) (*cartsvc.View, error)
	addItem     func(ctx context.Context, userID string, input cartsvc.AddItemInput) (*cartsvc.View, error)
	setQuantity func(ctx context.Context, userID, cartKey string, quantity int) (*cartsvc.View, error)
	removeItem  func(ctx context.Context, userID, cartKey string) (*cartsvc.View, error)
}

func (s stubCartService) Get(ctx context.Context, userID string) (*cartsvc.View, error) {
	return s.get(ctx, userID)
}

func (s stubCartService) AddItem(ctx context.Context, userID string, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	return s.addItem(ctx, userID, input)
}

func (s stubCartService) SetQuantity(ctx context.Context, userID, cartKey string, quantity int) (*cartsvc.View, error) {
	return s.setQuantity(ctx, userID, cartKey, quantity)
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, cartKey string) (*cartsvc.View, error) {
	return s.removeItem(ctx, userID, cartKey)
}

func authed(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func withCartKey(req *http.Request, key string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("cartKey", key)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartFetchRequiresUser(t *testing.T) {
	svc := stubCartService{get: func(context.Context, string) (*cartsvc.View, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartFetchReturnsView(t *testing.T) {
	svc := stubCartService{get: func(_ context.Context, userID string) (*cartsvc.View, error) {
		if userID != "u1" {
			t.Fatalf("unexpected user %s", userID)
		}
		return &cartsvc.View{Removed: []string{"gone"}, ItemCount: 0}, nil
	}}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil)(resp, authed(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), "u1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Removed) != 1 || body.Data.Removed[0] != "gone" {
		t.Fatalf("unexpected removed %v", body.Data.Removed)
	}
}

func TestCartAddItemPassesInput(t *testing.T) {
	var captured cartsvc.AddItemInput
	svc := stubCartService{addItem: func(_ context.Context, _ string, input cartsvc.AddItemInput) (*cartsvc.View, error) {
		captured = input
		return &cartsvc.View{ItemCount: input.Quantity}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":" p1 ","quantity":2,"selectedVariant":{"color":"red"}}`))
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, authed(req, "u1"))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.ProductID != "p1" || captured.Quantity != 2 || captured.Variant == nil || captured.Variant.Color != "red" {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestCartAddItemRejectsInvalidBody(t *testing.T) {
	svc := stubCartService{addItem: func(context.Context, string, cartsvc.AddItemInput) (*cartsvc.View, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":"p1","quantity":0}`))
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, authed(req, "u1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartSetQuantityUnescapesKey(t *testing.T) {
	var gotKey string
	var gotQty int
	svc := stubCartService{setQuantity: func(_ context.Context, _ string, key string, qty int) (*cartsvc.View, error) {
		gotKey, gotQty = key, qty
		return &cartsvc.View{}, nil
	}}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/p1-sky%20blue", strings.NewReader(`{"quantity":0}`))
	resp := httptest.NewRecorder()
	CartSetQuantity(svc, nil)(resp, withCartKey(authed(req, "u1"), "p1-sky%20blue"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotKey != "p1-sky blue" || gotQty != 0 {
		t.Fatalf("unexpected key=%q qty=%d", gotKey, gotQty)
	}
}

func TestCartRemoveItemMapsServiceError(t *testing.T) {
	svc := stubCartService{removeItem: func(context.Context, string, string) (*cartsvc.View, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/p1", nil)
	resp := httptest.NewRecorder()
	CartRemoveItem(svc, nil)(resp, withCartKey(authed(req, "u1"), "p1"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
