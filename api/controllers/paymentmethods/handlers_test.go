package paymentmethods

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

type stubService struct {
	methods []models.PaymentMethod
	err     error
}

func (s stubService) List(context.Context) ([]models.PaymentMethod, error) {
	return s.methods, s.err
}

func (s stubService) Get(_ context.Context, name string) (*models.PaymentMethod, error) {
	for i := range s.methods {
		if s.methods[i].Name == name {
			return &s.methods[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
}

func TestListPaymentMethods(t *testing.T) {
	svc := stubService{methods: []models.PaymentMethod{{Name: "bKash"}}}
	resp := httptest.NewRecorder()
	List(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/api/v1/payment-methods", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListPaymentMethodsDependencyError(t *testing.T) {
	svc := stubService{err: pkgerrors.New(pkgerrors.CodeDependency, "list payment methods")}
	resp := httptest.NewRecorder()
	List(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/api/v1/payment-methods", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestDetailUnescapesName(t *testing.T) {
	svc := stubService{methods: []models.PaymentMethod{{Name: "Cash on Delivery"}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-methods/Cash%20on%20Delivery", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("name", "Cash%20on%20Delivery")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	Detail(svc, nil)(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
