package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 5 * time.Second

// ErrLockHeld is returned by Acquire when another owner holds the lock.
var ErrLockHeld = errors.New("lock held by another owner")

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Locker hands out short-lived SETNX locks.
type Locker struct {
	store lockStore
	ttl   time.Duration
}

// NewLocker builds a Locker. A non-positive ttl falls back to five seconds.
func NewLocker(store lockStore, ttl time.Duration) (*Locker, error) {
	if store == nil {
		return nil, errors.New("redis store required for locker")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{store: store, ttl: ttl}, nil
}

// Lease is an acquired lock.
type Lease struct {
	store lockStore
	key   string
	owner string
}

// Acquire takes the lock at key or returns ErrLockHeld.
func (l *Locker) Acquire(ctx context.Context, key string) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return &Lease{store: l.store, key: key, owner: owner}, nil
}

// Release frees the lock only if the owner value still matches.
func (l *Lease) Release(ctx context.Context) error {
	if l == nil || l.owner == "" {
		return nil
	}
	value, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			l.owner = ""
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		l.owner = ""
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
