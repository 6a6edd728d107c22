package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = 2 * time.Minute

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope, id string) string
}

// Locker hands out per-id exclusive locks backed by SETNX with a TTL.
type Locker struct {
	client lockStore
	scope  string
	ttl    time.Duration
}

// NewLocker constructs a Redis-backed locker for the given scope.
func NewLocker(client lockStore, scope string, ttl time.Duration) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if scope == "" {
		return nil, errors.New("lock scope is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, scope: scope, ttl: ttl}, nil
}

// Acquire tries to own the lock for id. When ok is false another holder has it.
// The returned release func deletes the key only while this owner still holds it.
func (l *Locker) Acquire(ctx context.Context, id string) (release func(context.Context) error, ok bool, err error) {
	key := l.client.LockKey(l.scope, id)
	owner := uuid.NewString()

	ok, err = l.client.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		value, err := l.client.Get(ctx, key)
		if err != nil {
			if IsNil(err) {
				return nil
			}
			return fmt.Errorf("read lock owner: %w", err)
		}
		if value != owner {
			return nil
		}
		if err := l.client.Del(ctx, key); err != nil {
			return fmt.Errorf("delete lock: %w", err)
		}
		return nil
	}
	return release, true, nil
}
