package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection used for response caching. A client built
// without an address degrades to no-ops so caching stays optional.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a redis cache client. An empty addr returns a disabled client.
func New(addr, password string, db int) (*Client, error) {
	if addr == "" {
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether a redis backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Get retrieves a value; redis.Nil is returned when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if !c.Enabled() {
		return "", redis.Nil
	}
	return c.rdb.Get(ctx, key).Result()
}

// Set stores a value with an expiration.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteByPrefix removes all keys sharing a prefix, used for invalidation
// after catalog writes.
func (c *Client) DeleteByPrefix(ctx context.Context, prefix string) error {
	if !c.Enabled() {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Ping verifies connectivity for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the redis connection.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// IsMiss reports whether the error is a cache miss.
func IsMiss(err error) bool {
	return err == redis.Nil
}
