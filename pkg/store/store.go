// Package store defines the record store the checkout flow runs against: named
// collections of records with get, list, create, update and atomic increment.
package store

import (
	"context"
	"errors"
	"time"
)

const (
	CollectionUsers          = "users"
	CollectionProducts       = "products"
	CollectionSellers        = "sellers"
	CollectionOrders         = "orders"
	CollectionInvoice        = "invoice"
	CollectionPaymentMethods = "payment_methods"
	CollectionAppInfo        = "appinfo"
)

var (
	ErrNotFound    = errors.New("store: record not found")
	ErrUnavailable = errors.New("store: unavailable")
	ErrInvalid     = errors.New("store: invalid request")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Fields maps column names to values for Update and Increment.
type Fields map[string]any

type ListOptions struct {
	Filter Filter
	// Sort lists field names; a leading "-" sorts descending.
	Sort []string
}

type ListResult[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// Collection is a typed view over one named collection.
type Collection[T any] interface {
	Name() string
	GetOne(ctx context.Context, id string) (*T, error)
	GetList(ctx context.Context, page, perPage int, opts ListOptions) (*ListResult[T], error)
	GetFullList(ctx context.Context, opts ListOptions) ([]T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id string, fields Fields) error
	// Increment atomically adds each numeric delta to the stored value.
	Increment(ctx context.Context, id string, deltas Fields) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type creatable interface {
	PrepareCreate(now time.Time)
}

// PrepareCreate assigns id and timestamps on records that support it.
func PrepareCreate(record any, now time.Time) {
	if c, ok := record.(creatable); ok {
		c.PrepareCreate(now)
	}
}

// SortField splits a sort spec into its field name and direction.
func SortField(spec string) (field string, desc bool) {
	if len(spec) > 0 && spec[0] == '-' {
		return spec[1:], true
	}
	if len(spec) > 0 && spec[0] == '+' {
		return spec[1:], false
	}
	return spec, false
}

// ValidateOptions checks filter and sort field names.
func ValidateOptions(opts ListOptions) error {
	if opts.Filter != nil {
		if err := opts.Filter.validate(); err != nil {
			return err
		}
	}
	for _, spec := range opts.Sort {
		field, _ := SortField(spec)
		if err := ValidateField(field); err != nil {
			return err
		}
	}
	return nil
}
