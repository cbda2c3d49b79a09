package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotInitialized = errors.New("Redis client is not initialized")

type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewCache creates a new Cache instance, ensuring that the client is not nil.
func NewCache(client *redis.Client, logger *logrus.Logger) (*Cache, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{client: client, logger: logger}, nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return ErrNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if c.client == nil {
		return ErrNotInitialized
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.client == nil {
		return ErrNotInitialized
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get returns "" without error when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c.client == nil {
		return "", ErrNotInitialized
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// GetJSON decodes the cached value at key into dst. It reports false on a
// miss, a Redis error or an undecodable value; errors are only logged.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.Get(ctx, key)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Failed to read from cache")
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Discarding undecodable cache entry")
		return false
	}
	return true
}

// SetJSON stores v as JSON. Failures are logged, never returned.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, expiration time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Failed to marshal cache entry")
		return
	}
	if err := c.Set(ctx, key, data, expiration); err != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Failed to write to cache")
	}
}

const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

var releaseLock = redis.NewScript(releaseLockScript)

// LockOptions tunes WithLock.
type LockOptions struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

var DefaultLockOptions = LockOptions{
	TTL:        10 * time.Second,
	MaxRetries: 3,
	RetryDelay: 2 * time.Second,
}

// WithLock runs fn while holding a SETNX lock on key, retrying acquisition
// up to opts.MaxRetries times.
func (c *Cache) WithLock(ctx context.Context, key string, opts LockOptions, fn func() error) error {
	if c.client == nil {
		return ErrNotInitialized
	}
	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < opts.MaxRetries; i++ {
		locked, err = c.client.SetNX(ctx, key, lockValue, opts.TTL).Result()
		if err == nil && locked {
			break
		}
		if i < opts.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
	}
	if !locked {
		if err == nil {
			err = errors.New("lock is held")
		}
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		res, err := releaseLock.Run(context.WithoutCancel(ctx), c.client, []string{key}, lockValue).Int64()
		if err != nil {
			c.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Failed to release lock")
		} else if res == 0 {
			c.logger.WithField("key", key).Warn("Lock release failed: not the lock owner")
		}
	}()

	return fn()
}
