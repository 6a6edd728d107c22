package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type timeoutCollection[T any] struct {
	inner   Collection[T]
	timeout time.Duration
}

// WithTimeout bounds every call on coll by d. A deadline or cancellation surfaces as ErrUnavailable.
func WithTimeout[T any](coll Collection[T], d time.Duration) Collection[T] {
	if d <= 0 {
		return coll
	}
	return &timeoutCollection[T]{inner: coll, timeout: d}
}

func (c *timeoutCollection[T]) Name() string { return c.inner.Name() }

func (c *timeoutCollection[T]) GetOne(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rec, err := c.inner.GetOne(ctx, id)
	return rec, c.wrap(ctx, err)
}

func (c *timeoutCollection[T]) GetList(ctx context.Context, page, perPage int, opts ListOptions) (*ListResult[T], error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.inner.GetList(ctx, page, perPage, opts)
	return res, c.wrap(ctx, err)
}

func (c *timeoutCollection[T]) GetFullList(ctx context.Context, opts ListOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	items, err := c.inner.GetFullList(ctx, opts)
	return items, c.wrap(ctx, err)
}

func (c *timeoutCollection[T]) Create(ctx context.Context, record *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.wrap(ctx, c.inner.Create(ctx, record))
}

func (c *timeoutCollection[T]) Update(ctx context.Context, id string, fields Fields) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.wrap(ctx, c.inner.Update(ctx, id, fields))
}

func (c *timeoutCollection[T]) Increment(ctx context.Context, id string, deltas Fields) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.wrap(ctx, c.inner.Increment(ctx, id, deltas))
}

func (c *timeoutCollection[T]) wrap(ctx context.Context, err error) error {
	if err == nil || IsUnavailable(err) || IsNotFound(err) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, c.inner.Name(), err)
	}
	return err
}
