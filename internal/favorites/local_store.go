package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/satyam539813/farmappsample/pkg/enums"
	redisclient "github.com/satyam539813/farmappsample/pkg/redis"
)

const localCollection = "favorites"

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DeviceKey(deviceID, collection string) string
}

// LocalStore keeps anonymous favorites as a JSON array under the device key.
// Callers serialize writes per device.
type LocalStore struct {
	kv  keyValue
	ttl time.Duration
}

func NewLocalStore(kv keyValue, ttl time.Duration) *LocalStore {
	return &LocalStore{kv: kv, ttl: ttl}
}

func (l *LocalStore) Mode() enums.StorageMode { return enums.StorageModeLocal }

func (l *LocalStore) Load(ctx context.Context, owner string) ([]Entry, error) {
	key, err := l.key(owner)
	if err != nil {
		return nil, err
	}
	raw, err := l.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return []Entry{}, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []Entry{}, nil
	}
	return entries, nil
}

func (l *LocalStore) Add(ctx context.Context, owner string, entry Entry) error {
	entries, err := l.Load(ctx, owner)
	if err != nil {
		return err
	}
	for _, existing := range entries {
		if existing.ProductID == entry.ProductID {
			return ErrDuplicate
		}
	}
	return l.save(ctx, owner, append(entries, entry))
}

func (l *LocalStore) Remove(ctx context.Context, owner string, productID int) error {
	entries, err := l.Load(ctx, owner)
	if err != nil {
		return err
	}
	out := entries[:0]
	for _, existing := range entries {
		if existing.ProductID != productID {
			out = append(out, existing)
		}
	}
	return l.save(ctx, owner, out)
}

func (l *LocalStore) Clear(ctx context.Context, owner string) error {
	key, err := l.key(owner)
	if err != nil {
		return err
	}
	return l.kv.Del(ctx, key)
}

func (l *LocalStore) save(ctx context.Context, owner string, entries []Entry) error {
	key, err := l.key(owner)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	return l.kv.Set(ctx, key, string(payload), l.ttl)
}

func (l *LocalStore) key(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", fmt.Errorf("device id is required")
	}
	return l.kv.DeviceKey(owner, localCollection), nil
}
