// Package cache stores rendered dashboard snapshots and revoked token ids.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	KeyDashboard   = "dashboard:summary"
	KeySalesReport = "reports:sales"
	revokedPrefix  = "auth:revoked:"
)

// ErrMiss is returned by Get when the key does not exist or has expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON decodes the cached value of key into dst. It reports false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	data, err := c.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Revoke marks a token id as unusable until ttl passes.
func Revoke(ctx context.Context, c Cache, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.Set(ctx, revokedPrefix+jti, []byte("1"), ttl)
}

func IsRevoked(ctx context.Context, c Cache, jti string) (bool, error) {
	_, err := c.Get(ctx, revokedPrefix+jti)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
