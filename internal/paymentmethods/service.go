package paymentmethods

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

// Service serves the payment instructions shown during checkout.
type Service interface {
	List(ctx context.Context) ([]models.PaymentMethod, error)
	Get(ctx context.Context, name string) (*models.PaymentMethod, error)
}

type service struct {
	methods store.Collection[models.PaymentMethod]
}

// NewService constructs a payment method service.
func NewService(methods store.Collection[models.PaymentMethod]) (Service, error) {
	if methods == nil {
		return nil, fmt.Errorf("payment methods collection required")
	}
	return &service{methods: methods}, nil
}

func (s *service) List(ctx context.Context) ([]models.PaymentMethod, error) {
	records, err := s.methods.GetFullList(ctx, store.ListOptions{Sort: []string{"name"}})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	return records, nil
}

// Get looks a method up by its display name.
func (s *service) Get(ctx context.Context, name string) (*models.PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method name required")
	}
	records, err := s.methods.GetFullList(ctx, store.ListOptions{Filter: store.Eq("name", name)})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return &records[0], nil
}
