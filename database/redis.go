package database

import (
	"YouthHealth/config"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var RedisClient *redis.Client

// InitializeRedis connects the global Redis client.
func InitializeRedis(cfg config.RedisConfig, logger *logrus.Logger) error {
	client, err := NewRedisClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	RedisClient = client
	return nil
}

// NewRedisClient creates a Redis client with the provided configuration
func NewRedisClient(cfg config.RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"poolSize":     cfg.PoolSize,
		"minIdleConns": cfg.MinIdleConns,
		"dialTimeout":  cfg.DialTimeout.String(),
		"readTimeout":  cfg.ReadTimeout.String(),
		"maxRetries":   cfg.MaxRetries,
	}).Info("Redis client initialized")
	return client, nil
}

// MonitorRedisPool logs the connection pool statistics for monitoring
func MonitorRedisPool(client *redis.Client, logger *logrus.Logger) {
	stats := client.PoolStats()
	logger.WithFields(logrus.Fields{
		"total": stats.TotalConns,
		"idle":  stats.IdleConns,
		"stale": stats.StaleConns,
	}).Info("Redis pool stats")
}
