package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type record struct{ ID string }

// blockingCollection waits for the context on every call unless err is set.
type blockingCollection struct {
	err   error
	calls int
}

func (b *blockingCollection) Name() string { return "records" }

func (b *blockingCollection) wait(ctx context.Context) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingCollection) GetOne(ctx context.Context, _ string) (*record, error) {
	return nil, b.wait(ctx)
}

func (b *blockingCollection) GetList(ctx context.Context, _, _ int, _ ListOptions) (*ListResult[record], error) {
	return nil, b.wait(ctx)
}

func (b *blockingCollection) GetFullList(ctx context.Context, _ ListOptions) ([]record, error) {
	return nil, b.wait(ctx)
}

func (b *blockingCollection) Create(ctx context.Context, _ *record) error { return b.wait(ctx) }

func (b *blockingCollection) Update(ctx context.Context, _ string, _ Fields) error {
	return b.wait(ctx)
}

func (b *blockingCollection) Increment(ctx context.Context, _ string, _ Fields) error {
	return b.wait(ctx)
}

func TestWithTimeoutDeadlineIsUnavailable(t *testing.T) {
	inner := &blockingCollection{}
	coll := WithTimeout[record](inner, 10*time.Millisecond)
	ctx := context.Background()

	calls := map[string]func() error{
		"get_one": func() error { _, err := coll.GetOne(ctx, "r1"); return err },
		"get_list": func() error {
			_, err := coll.GetList(ctx, 1, 10, ListOptions{})
			return err
		},
		"get_full_list": func() error { _, err := coll.GetFullList(ctx, ListOptions{}); return err },
		"create":        func() error { return coll.Create(ctx, &record{ID: "r1"}) },
		"update":        func() error { return coll.Update(ctx, "r1", Fields{"name": "x"}) },
		"increment":     func() error { return coll.Increment(ctx, "r1", Fields{"total": 1}) },
	}
	for name, call := range calls {
		err := call()
		if !IsUnavailable(err) {
			t.Fatalf("%s: expected ErrUnavailable, got %v", name, err)
		}
	}
	if inner.calls != len(calls) {
		t.Fatalf("expected %d inner calls, got %d", len(calls), inner.calls)
	}
}

func TestWithTimeoutCancelledParentIsUnavailable(t *testing.T) {
	coll := WithTimeout[record](&blockingCollection{}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := coll.GetOne(ctx, "r1"); !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable for cancelled parent, got %v", err)
	}
}

func TestWithTimeoutKeepsStoreErrors(t *testing.T) {
	notFound := fmt.Errorf("%w: records r1", ErrNotFound)
	coll := WithTimeout[record](&blockingCollection{err: notFound}, time.Second)
	_, err := coll.GetOne(context.Background(), "r1")
	if !IsNotFound(err) || IsUnavailable(err) {
		t.Fatalf("expected not found to pass through, got %v", err)
	}

	invalid := fmt.Errorf("%w: bad field", ErrInvalid)
	coll = WithTimeout[record](&blockingCollection{err: invalid}, time.Second)
	if err := coll.Update(context.Background(), "r1", Fields{}); !errors.Is(err, ErrInvalid) || IsUnavailable(err) {
		t.Fatalf("expected invalid to pass through, got %v", err)
	}
}

func TestWithTimeoutDisabled(t *testing.T) {
	inner := &blockingCollection{}
	for _, d := range []time.Duration{0, -time.Second} {
		if got := WithTimeout[record](inner, d); got != Collection[record](inner) {
			t.Fatalf("duration %s: expected the inner collection back", d)
		}
	}
	if WithTimeout[record](inner, time.Second).Name() != "records" {
		t.Fatal("name should come from the inner collection")
	}
}
