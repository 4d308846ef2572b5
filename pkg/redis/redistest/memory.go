// Package redistest provides an in-memory stand-in for the go-redis command
// surface used by pkg/redis.
package redistest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	redisclient "github.com/satyam539813/farmappsample/pkg/redis"
)

// Memory is a concurrency-safe map-backed command surface. Set FailWith to
// make every command return that error.
type Memory struct {
	mu       sync.Mutex
	data     map[string]string
	ttls     map[string]time.Duration
	FailWith error
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

// NewClient wraps a fresh Memory in a pkg/redis Client.
func NewClient() (*redisclient.Client, *Memory) {
	mem := NewMemory()
	return redisclient.NewWithCmdable(mem), mem
}

// Value returns the raw value stored at key.
func (m *Memory) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// TTL returns the expiry last applied to key.
func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

func (m *Memory) Ping(context.Context) *redis.StatusCmd {
	if m.FailWith != nil {
		return redis.NewStatusResult("", m.FailWith)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if m.FailWith != nil {
		return redis.NewStatusResult("", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = stringify(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *Memory) Get(_ context.Context, key string) *redis.StringCmd {
	if m.FailWith != nil {
		return redis.NewStringResult("", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *Memory) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if m.FailWith != nil {
		return redis.NewBoolResult(false, m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = stringify(value)
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *Memory) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.FailWith != nil {
		return redis.NewIntResult(0, m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	if raw, ok := m.data[key]; ok {
		if _, err := fmt.Sscan(raw, &current); err != nil {
			return redis.NewIntResult(0, errors.New("ERR value is not an integer"))
		}
	}
	current++
	m.data[key] = fmt.Sprint(current)
	return redis.NewIntResult(current, nil)
}

func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	if m.FailWith != nil {
		return redis.NewBoolResult(false, m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return redis.NewBoolResult(false, nil)
	}
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *Memory) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if m.FailWith != nil {
		return redis.NewIntResult(0, m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			removed++
		}
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return redis.NewIntResult(removed, nil)
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
