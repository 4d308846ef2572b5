package cart

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

const localCollection = "cart"

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DeviceKey(deviceID, collection string) string
}

// LocalStore keeps anonymous carts as a JSON array under the device key.
type LocalStore struct {
	kv  keyValue
	ttl time.Duration
}

// NewLocalStore builds a device-scoped store whose entries expire after ttl.
func NewLocalStore(kv keyValue, ttl time.Duration) *LocalStore {
	return &LocalStore{kv: kv, ttl: ttl}
}

func (l *LocalStore) Mode() enums.StorageMode { return enums.StorageModeLocal }

// Load treats a missing or unreadable entry as an empty cart.
func (l *LocalStore) Load(ctx context.Context, owner string) ([]Line, error) {
	key, err := l.key(owner)
	if err != nil {
		return nil, err
	}
	raw, err := l.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return []Line{}, nil
		}
		return nil, err
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []Line{}, nil
	}
	return lines, nil
}

func (l *LocalStore) Save(ctx context.Context, owner string, lines []Line) error {
	key, err := l.key(owner)
	if err != nil {
		return err
	}
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return l.kv.Set(ctx, key, string(payload), l.ttl)
}

func (l *LocalStore) Clear(ctx context.Context, owner string) error {
	key, err := l.key(owner)
	if err != nil {
		return err
	}
	return l.kv.Del(ctx, key)
}

func (l *LocalStore) key(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", fmt.Errorf("device id is required")
	}
	return l.kv.DeviceKey(owner, localCollection), nil
}
