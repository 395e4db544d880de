// Package redis caches analysis snapshots in Redis with short TTLs.
// The cache is best-effort: misses and failures degrade to a fresh
// compute, never to an evaluation error.
package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const (
	cbMaxFailures  = 5
	cbResetTimeout = 10 * time.Second
)

// CacheConfig configures the Redis cache.
type CacheConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Cache stores analysis snapshots as raw JSON under TTL'd keys. All
// calls go through a circuit breaker so a down Redis costs one fast
// rejection instead of a dial timeout per snapshot.
type Cache struct {
	client  *goredis.Client
	breaker *CircuitBreaker
}

// Client returns the underlying Redis client for health checks.
func (c *Cache) Client() *goredis.Client { return c.client }

// New creates a Redis cache and pings the server.
func New(cfg CacheConfig) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	breaker := NewCircuitBreaker(cbMaxFailures, cbResetTimeout)
	breaker.OnStateChange = func(from, to State) {
		log.Printf("[redis] circuit breaker %s -> %s", from, to)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Cache{client: client, breaker: breaker}, nil
}

// GetAnalysisJSON returns the cached snapshot for a key, or nil, nil
// on a cache miss.
func (c *Cache) GetAnalysisJSON(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.breaker.Execute(func() error {
		res, err := c.client.Get(ctx, key).Bytes()
		if err == goredis.Nil {
			// A miss is a healthy response, not a failure.
			return nil
		}
		if err != nil {
			return err
		}
		data = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// SetAnalysisJSON stores a JSON-encoded snapshot under key with ttl.
func (c *Cache) SetAnalysisJSON(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
